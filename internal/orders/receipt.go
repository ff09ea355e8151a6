package orders

import (
	"fmt"
	"strings"

	"github.com/rcvillanueva/padeliver-backend/pkg/db/models"
	pkgerrors "github.com/rcvillanueva/padeliver-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

const receiptTimeLayout = "2006-01-02 15:04:05"

// renderReceipt builds the plain-text receipt for a placed order. Line totals
// use exact decimal arithmetic on the stored price strings.
func renderReceipt(order *models.Order) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "Order Receipt\n")
	fmt.Fprintf(&b, "Order ID: %s\n", order.OrderID)
	fmt.Fprintf(&b, "Customer: %s\n", order.CustomerName)
	fmt.Fprintf(&b, "Date: %s\n", order.OrderDatetime.Format(receiptTimeLayout))
	fmt.Fprintf(&b, "Status: %s\n", order.Status)
	b.WriteString("\n")

	total := decimal.Zero
	for _, item := range order.Items {
		price, err := decimal.NewFromString(item.Price)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err,
				fmt.Sprintf("order %s has malformed price %q", order.OrderID, item.Price))
		}
		fmt.Fprintf(&b, "%dx %s @ %s each\n", item.Quantity, item.Item, item.Price)
		total = total.Add(price.Mul(decimal.NewFromInt(item.Quantity)))
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "Item count: %d\n", len(order.Items))
	fmt.Fprintf(&b, "Total: %s\n", total.StringFixed(2))

	return b.String(), nil
}

// receiptObjectKey is the deterministic object-store key for an order receipt.
func receiptObjectKey(orderID string) string {
	return fmt.Sprintf("receipts/%s.txt", orderID)
}
