package orders

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rcvillanueva/padeliver-backend/pkg/db/models"
	"github.com/rcvillanueva/padeliver-backend/pkg/enums"
	pkgerrors "github.com/rcvillanueva/padeliver-backend/pkg/errors"
	"github.com/rcvillanueva/padeliver-backend/pkg/events"
	"github.com/rcvillanueva/padeliver-backend/pkg/metrics"
	"gorm.io/gorm"
)

const purchaseRemark = "Purchased item!"

// Service exposes checkout and order management operations.
type Service interface {
	Checkout(ctx context.Context, userID string) (*CheckoutResultDTO, error)
	PlaceOrder(ctx context.Context, userID string) (*PlaceOrderResultDTO, error)
	GetOrders(ctx context.Context, customerName string) ([]OrderDTO, error)
	GetAllOrders(ctx context.Context) ([]OrderDTO, error)
	UpdateOrderStatus(ctx context.Context, orderID, customerName, newStatus string) (*StatusDTO, error)
	GenerateReceipt(ctx context.Context, orderID, customerName string) (*ReceiptDTO, error)
}

type orderStore interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, orderID string) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerName string) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status enums.OrderStatus) error
}

type cartStore interface {
	FindByUser(ctx context.Context, userID string) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
}

type ledgerAppender interface {
	Append(ctx context.Context, record *models.InventoryRecord) error
}

type objectStore interface {
	PutObject(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

type eventPublisher interface {
	Publish(ctx context.Context, eventType events.Type, payload any) (string, error)
}

// ServiceParams carries the dependencies for NewService.
type ServiceParams struct {
	Orders  orderStore
	Carts   cartStore
	Ledger  ledgerAppender
	Storage objectStore
	Bus     eventPublisher
	Metrics *metrics.CheckoutMetrics
}

type service struct {
	orders  orderStore
	carts   cartStore
	ledger  ledgerAppender
	storage objectStore
	bus     eventPublisher
	metrics *metrics.CheckoutMetrics
	now     func() time.Time
}

// NewService constructs an order service instance. The bus and metrics are
// optional; storage is required because receipts must land somewhere.
func NewService(params ServiceParams) (Service, error) {
	if params.Orders == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if params.Ledger == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if params.Storage == nil {
		return nil, fmt.Errorf("object store required")
	}
	return &service{
		orders:  params.Orders,
		carts:   params.Carts,
		ledger:  params.Ledger,
		storage: params.Storage,
		bus:     params.Bus,
		metrics: params.Metrics,
		now:     time.Now,
	}, nil
}

// Checkout writes one negative ledger record per cart line and then clears
// the cart. The writes are sequential, not transactional: a mid-loop failure
// aborts without rolling back earlier records and without clearing the cart.
func (s *service) Checkout(ctx context.Context, userID string) (*CheckoutResultDTO, error) {
	cart, err := s.loadNonEmptyCart(ctx, userID)
	if err != nil {
		s.metrics.IncCheckout(checkoutOutcome(err))
		return nil, err
	}

	written, err := s.writeStockOut(ctx, cart.Items, purchaseRemark)
	if err != nil {
		s.metrics.IncCheckout("ledger_failure")
		return nil, err
	}

	if err := s.clearCart(ctx, cart); err != nil {
		s.metrics.IncCheckout("clear_failure")
		return nil, err
	}

	s.metrics.IncCheckout("success")
	s.metrics.AddStockOutRecords(written)
	return &CheckoutResultDTO{RecordsWritten: written}, nil
}

// PlaceOrder persists an order snapshot, writes the stock-out records, and
// clears the cart, in that sequence. A failure between steps leaves earlier
// writes in place; see Checkout for the failure policy.
func (s *service) PlaceOrder(ctx context.Context, userID string) (*PlaceOrderResultDTO, error) {
	cart, err := s.loadNonEmptyCart(ctx, userID)
	if err != nil {
		s.metrics.IncCheckout(checkoutOutcome(err))
		return nil, err
	}

	placedAt := s.now().Truncate(time.Second)
	orderID := "ORD-" + strconv.FormatInt(placedAt.Unix(), 10)

	items := make([]models.OrderLineItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		items = append(items, models.OrderLineItem{
			ProductID: line.ProductID,
			Item:      line.Item,
			Quantity:  line.Quantity,
			Price:     line.Price,
		})
	}

	order := &models.Order{
		OrderID:       orderID,
		CustomerName:  userID,
		Items:         items,
		Status:        enums.OrderStatusPreparing,
		OrderDatetime: placedAt,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		s.metrics.IncCheckout("order_failure")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order")
	}

	written, err := s.writeStockOut(ctx, cart.Items, "Order "+orderID)
	if err != nil {
		s.metrics.IncCheckout("ledger_failure")
		return nil, err
	}

	if err := s.clearCart(ctx, cart); err != nil {
		s.metrics.IncCheckout("clear_failure")
		return nil, err
	}

	if s.bus != nil {
		if _, err := s.bus.Publish(ctx, events.TypeOrderPlaced, events.OrderPlacedEvent{
			OrderID:      orderID,
			CustomerName: userID,
			ItemCount:    len(items),
			PlacedAt:     placedAt,
		}); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "publish order event")
		}
	}

	s.metrics.IncCheckout("success")
	s.metrics.IncOrderPlaced()
	s.metrics.AddStockOutRecords(written)
	return &PlaceOrderResultDTO{OrderID: orderID}, nil
}

// GetOrders returns all orders for the customer.
func (s *service) GetOrders(ctx context.Context, customerName string) ([]OrderDTO, error) {
	customerName = strings.TrimSpace(customerName)
	if customerName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer_name is required")
	}
	rows, err := s.orders.ListByCustomer(ctx, customerName)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}
	return newOrderDTOs(rows), nil
}

// GetAllOrders returns every order in the store.
func (s *service) GetAllOrders(ctx context.Context) ([]OrderDTO, error) {
	rows, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}
	return newOrderDTOs(rows), nil
}

// UpdateOrderStatus overwrites the status field after checking ownership.
func (s *service) UpdateOrderStatus(ctx context.Context, orderID, customerName, newStatus string) (*StatusDTO, error) {
	status, err := enums.ParseOrderStatus(newStatus)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	order, err := s.loadOwnedOrder(ctx, orderID, customerName)
	if err != nil {
		return nil, err
	}

	if err := s.orders.UpdateStatus(ctx, order.OrderID, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order status")
	}

	if s.bus != nil {
		if _, err := s.bus.Publish(ctx, events.TypeOrderUpdated, events.OrderStatusUpdatedEvent{
			OrderID:      order.OrderID,
			CustomerName: order.CustomerName,
			Status:       status.String(),
		}); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "publish order event")
		}
	}

	return &StatusDTO{OrderID: order.OrderID, Status: status.String()}, nil
}

// GenerateReceipt renders the plain-text receipt, stores it under a
// deterministic key, and returns the public URL.
func (s *service) GenerateReceipt(ctx context.Context, orderID, customerName string) (*ReceiptDTO, error) {
	order, err := s.loadOwnedOrder(ctx, orderID, customerName)
	if err != nil {
		return nil, err
	}

	text, err := renderReceipt(order)
	if err != nil {
		return nil, err
	}

	url, err := s.storage.PutObject(ctx, receiptObjectKey(order.OrderID), []byte(text), "text/plain")
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storage: put receipt")
	}

	return &ReceiptDTO{OrderID: order.OrderID, URL: url}, nil
}

func (s *service) loadNonEmptyCart(ctx context.Context, userID string) (*models.Cart, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user_id is required")
	}
	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load cart")
	}
	if len(cart.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
	}
	return cart, nil
}

func (s *service) writeStockOut(ctx context.Context, items []models.CartLineItem, remark string) (int, error) {
	recordedAt := s.now().Truncate(time.Second)
	for i, line := range items {
		record := &models.InventoryRecord{
			ProductID:  line.ProductID,
			RecordedAt: recordedAt,
			Quantity:   -line.Quantity,
			Remark:     remark,
		}
		if err := s.ledger.Append(ctx, record); err != nil {
			return i, pkgerrors.Wrap(pkgerrors.CodeDependency, err,
				fmt.Sprintf("db: append stock-out record (product_id=%s)", line.ProductID))
		}
	}
	return len(items), nil
}

func (s *service) clearCart(ctx context.Context, cart *models.Cart) error {
	cart.Items = []models.CartLineItem{}
	if err := s.carts.Save(ctx, cart); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: clear cart")
	}
	return nil
}

func (s *service) loadOwnedOrder(ctx context.Context, orderID, customerName string) (*models.Order, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order_id is required")
	}
	customerName = strings.TrimSpace(customerName)
	if customerName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer_name is required")
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}
	if order.CustomerName != customerName {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to customer")
	}
	return order, nil
}

func checkoutOutcome(err error) string {
	if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeEmptyCart {
		return "empty_cart"
	}
	return "error"
}
