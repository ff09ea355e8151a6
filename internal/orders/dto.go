package orders

import (
	"time"

	"github.com/rcvillanueva/padeliver-backend/pkg/db/models"
)

// LineItemDTO is one snapshotted order line.
type LineItemDTO struct {
	ProductID string `json:"product_id"`
	Item      string `json:"item"`
	Quantity  int64  `json:"quantity"`
	Price     string `json:"price"`
}

// OrderDTO is the order payload returned to clients.
type OrderDTO struct {
	OrderID       string        `json:"order_id"`
	CustomerName  string        `json:"customer_name"`
	Items         []LineItemDTO `json:"items"`
	Status        string        `json:"status"`
	OrderDatetime time.Time     `json:"order_datetime"`
}

// CheckoutResultDTO confirms a cart-clearing checkout.
type CheckoutResultDTO struct {
	RecordsWritten int `json:"records_written"`
}

// PlaceOrderResultDTO reports the generated order id.
type PlaceOrderResultDTO struct {
	OrderID string `json:"order_id"`
}

// StatusDTO reports the updated order status.
type StatusDTO struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// ReceiptDTO points at the stored receipt document.
type ReceiptDTO struct {
	OrderID string `json:"order_id"`
	URL     string `json:"url"`
}

func newOrderDTO(order *models.Order) *OrderDTO {
	dto := &OrderDTO{
		OrderID:       order.OrderID,
		CustomerName:  order.CustomerName,
		Items:         []LineItemDTO{},
		Status:        order.Status.String(),
		OrderDatetime: order.OrderDatetime,
	}
	for _, item := range order.Items {
		dto.Items = append(dto.Items, LineItemDTO{
			ProductID: item.ProductID,
			Item:      item.Item,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return dto
}

func newOrderDTOs(rows []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *newOrderDTO(&rows[i]))
	}
	return out
}
