package orders

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rcvillanueva/padeliver-backend/pkg/db/models"
	"github.com/rcvillanueva/padeliver-backend/pkg/enums"
	pkgerrors "github.com/rcvillanueva/padeliver-backend/pkg/errors"
	"gorm.io/gorm"
)

type fakeOrderStore struct {
	orders    map[string]*models.Order
	createErr error
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: make(map[string]*models.Order)}
}

func (f *fakeOrderStore) Create(_ context.Context, order *models.Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	copied := *order
	copied.Items = append([]models.OrderLineItem(nil), order.Items...)
	f.orders[order.OrderID] = &copied
	return nil
}

func (f *fakeOrderStore) FindByID(_ context.Context, orderID string) (*models.Order, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *order
	copied.Items = append([]models.OrderLineItem(nil), order.Items...)
	return &copied, nil
}

func (f *fakeOrderStore) ListByCustomer(_ context.Context, customerName string) ([]models.Order, error) {
	var rows []models.Order
	for _, order := range f.orders {
		if order.CustomerName == customerName {
			rows = append(rows, *order)
		}
	}
	return rows, nil
}

func (f *fakeOrderStore) ListAll(_ context.Context) ([]models.Order, error) {
	var rows []models.Order
	for _, order := range f.orders {
		rows = append(rows, *order)
	}
	return rows, nil
}

func (f *fakeOrderStore) UpdateStatus(_ context.Context, orderID string, status enums.OrderStatus) error {
	order, ok := f.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.Status = status
	return nil
}

type fakeCartStore struct {
	carts map[string]*models.Cart
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{carts: make(map[string]*models.Cart)}
}

func (f *fakeCartStore) FindByUser(_ context.Context, userID string) (*models.Cart, error) {
	cart, ok := f.carts[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *cart
	copied.Items = append([]models.CartLineItem(nil), cart.Items...)
	return &copied, nil
}

func (f *fakeCartStore) Save(_ context.Context, cart *models.Cart) error {
	copied := *cart
	copied.Items = append([]models.CartLineItem(nil), cart.Items...)
	f.carts[cart.UserID] = &copied
	return nil
}

type fakeLedger struct {
	records  []models.InventoryRecord
	failFrom int // fail appends once this many records exist; <0 disables
}

func (f *fakeLedger) Append(_ context.Context, record *models.InventoryRecord) error {
	if f.failFrom >= 0 && len(f.records) >= f.failFrom {
		return errors.New("write throttled")
	}
	f.records = append(f.records, *record)
	return nil
}

type fakeObjectStore struct {
	objects map[string][]byte
	putErr  error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string][]byte)}
}

func (f *fakeObjectStore) PutObject(_ context.Context, key string, data []byte, _ string) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	f.objects[key] = data
	return "https://storage.googleapis.com/test-bucket/" + key, nil
}

type fixture struct {
	svc    Service
	orders *fakeOrderStore
	carts  *fakeCartStore
	ledger *fakeLedger
	store  *fakeObjectStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		orders: newFakeOrderStore(),
		carts:  newFakeCartStore(),
		ledger: &fakeLedger{failFrom: -1},
		store:  newFakeObjectStore(),
	}
	svc, err := NewService(ServiceParams{
		Orders:  f.orders,
		Carts:   f.carts,
		Ledger:  f.ledger,
		Storage: f.store,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	svc.(*service).now = func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	}
	f.svc = svc
	return f
}

func (f *fixture) seedCart(userID string, items ...models.CartLineItem) {
	f.carts.carts[userID] = &models.Cart{UserID: userID, Items: items}
}

func TestCheckoutWritesNegatedDeltasAndClearsCart(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.seedCart("u1",
		models.CartLineItem{ProductID: "P1", Item: "burger", Quantity: 2, Price: "10.00"},
		models.CartLineItem{ProductID: "P2", Item: "fries", Quantity: 3, Price: "4.50"},
	)

	result, err := f.svc.Checkout(context.Background(), "u1")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if result.RecordsWritten != 2 {
		t.Fatalf("expected 2 records written, got %d", result.RecordsWritten)
	}
	if len(f.ledger.records) != 2 {
		t.Fatalf("expected one ledger record per line, got %d", len(f.ledger.records))
	}
	if f.ledger.records[0].Quantity != -2 || f.ledger.records[1].Quantity != -3 {
		t.Fatalf("expected negated quantities, got %+v", f.ledger.records)
	}
	for _, r := range f.ledger.records {
		if r.Remark != "Purchased item!" {
			t.Fatalf("unexpected remark %q", r.Remark)
		}
	}
	if len(f.carts.carts["u1"].Items) != 0 {
		t.Fatal("expected cart cleared after checkout")
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.svc.Checkout(context.Background(), "u1")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeEmptyCart {
		t.Fatalf("expected empty cart error, got %v", err)
	}
	if len(f.ledger.records) != 0 {
		t.Fatal("expected no ledger writes")
	}
}

func TestCheckoutMidLoopFailureKeepsEarlierRecordsAndCart(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.ledger.failFrom = 1
	f.seedCart("u1",
		models.CartLineItem{ProductID: "P1", Item: "burger", Quantity: 2, Price: "10.00"},
		models.CartLineItem{ProductID: "P2", Item: "fries", Quantity: 1, Price: "4.50"},
	)

	_, err := f.svc.Checkout(context.Background(), "u1")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if len(f.ledger.records) != 1 {
		t.Fatalf("expected first record kept, got %d", len(f.ledger.records))
	}
	if len(f.carts.carts["u1"].Items) != 2 {
		t.Fatal("cart must not be cleared after a failed checkout")
	}
}

func TestPlaceOrderSnapshotsCartAndClearsIt(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.seedCart("u1", models.CartLineItem{ProductID: "P1", Item: "burger", Quantity: 2, Price: "10.00"})

	result, err := f.svc.PlaceOrder(context.Background(), "u1")
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if !strings.HasPrefix(result.OrderID, "ORD-") {
		t.Fatalf("unexpected order id %s", result.OrderID)
	}

	order := f.orders.orders[result.OrderID]
	if order == nil {
		t.Fatal("expected order persisted")
	}
	if order.Status != enums.OrderStatusPreparing {
		t.Fatalf("expected Preparing status, got %s", order.Status)
	}
	if len(order.Items) != 1 || order.Items[0].ProductID != "P1" || order.Items[0].Quantity != 2 || order.Items[0].Price != "10.00" {
		t.Fatalf("unexpected snapshot %+v", order.Items)
	}

	if len(f.ledger.records) != 1 || f.ledger.records[0].Quantity != -2 {
		t.Fatalf("expected one -2 ledger record, got %+v", f.ledger.records)
	}
	if !strings.Contains(f.ledger.records[0].Remark, result.OrderID) {
		t.Fatalf("expected remark to reference order id, got %q", f.ledger.records[0].Remark)
	}

	if len(f.carts.carts["u1"].Items) != 0 {
		t.Fatal("expected cart cleared after placing order")
	}
}

func TestPlaceOrderSnapshotIsIndependentOfCart(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.seedCart("u1", models.CartLineItem{ProductID: "P1", Item: "burger", Quantity: 2, Price: "10.00"})

	result, err := f.svc.PlaceOrder(context.Background(), "u1")
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	// Refill the cart and mutate it; the placed order must not change.
	f.seedCart("u1", models.CartLineItem{ProductID: "P9", Item: "soda", Quantity: 9, Price: "1.00"})

	order := f.orders.orders[result.OrderID]
	if len(order.Items) != 1 || order.Items[0].ProductID != "P1" {
		t.Fatalf("order snapshot mutated: %+v", order.Items)
	}
}

func TestPlaceOrderEmptyCartWritesNothing(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.svc.PlaceOrder(context.Background(), "u1")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeEmptyCart {
		t.Fatalf("expected empty cart error, got %v", err)
	}
	if len(f.orders.orders) != 0 {
		t.Fatal("expected no order written")
	}
	if len(f.ledger.records) != 0 {
		t.Fatal("expected no ledger writes")
	}
	if _, ok := f.carts.carts["u1"]; ok {
		t.Fatal("expected no cart mutation")
	}
}

func TestUpdateOrderStatusOwnershipMismatch(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.orders.orders["ORD-1"] = &models.Order{
		OrderID:      "ORD-1",
		CustomerName: "u1",
		Status:       enums.OrderStatusPreparing,
	}

	_, err := f.svc.UpdateOrderStatus(context.Background(), "ORD-1", "intruder", "Shipped")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if f.orders.orders["ORD-1"].Status != enums.OrderStatusPreparing {
		t.Fatal("status must be unchanged after a rejected update")
	}
}

func TestUpdateOrderStatusNotFound(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.svc.UpdateOrderStatus(context.Background(), "ORD-404", "u1", "Shipped")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateOrderStatusInvalidStatus(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.svc.UpdateOrderStatus(context.Background(), "ORD-1", "u1", "Teleported")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateOrderStatusSuccess(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.orders.orders["ORD-1"] = &models.Order{
		OrderID:      "ORD-1",
		CustomerName: "u1",
		Status:       enums.OrderStatusPreparing,
	}

	dto, err := f.svc.UpdateOrderStatus(context.Background(), "ORD-1", "u1", "Shipped")
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if dto.Status != "Shipped" {
		t.Fatalf("unexpected status %s", dto.Status)
	}
	if f.orders.orders["ORD-1"].Status != enums.OrderStatusShipped {
		t.Fatal("expected persisted status update")
	}
}

func TestGenerateReceiptRendersAndStores(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.orders.orders["ORD-1"] = &models.Order{
		OrderID:      "ORD-1",
		CustomerName: "u1",
		Status:       enums.OrderStatusPreparing,
		Items: []models.OrderLineItem{
			{ProductID: "P1", Item: "burger", Quantity: 2, Price: "10.00"},
			{ProductID: "P2", Item: "fries", Quantity: 1, Price: "4.50"},
		},
		OrderDatetime: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	dto, err := f.svc.GenerateReceipt(context.Background(), "ORD-1", "u1")
	if err != nil {
		t.Fatalf("generate receipt: %v", err)
	}
	if dto.URL != "https://storage.googleapis.com/test-bucket/receipts/ORD-1.txt" {
		t.Fatalf("unexpected url %s", dto.URL)
	}

	text := string(f.store.objects["receipts/ORD-1.txt"])
	for _, want := range []string{
		"Order ID: ORD-1",
		"Customer: u1",
		"Status: Preparing",
		"2x burger @ 10.00 each",
		"1x fries @ 4.50 each",
		"Item count: 2",
		"Total: 24.50",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("receipt missing %q:\n%s", want, text)
		}
	}
}

func TestGenerateReceiptOwnershipMismatch(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.orders.orders["ORD-1"] = &models.Order{OrderID: "ORD-1", CustomerName: "u1"}

	_, err := f.svc.GenerateReceipt(context.Background(), "ORD-1", "other")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if len(f.store.objects) != 0 {
		t.Fatal("no receipt should be stored on a rejected request")
	}
}

func TestGetOrdersFiltersByCustomer(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.orders.orders["ORD-1"] = &models.Order{OrderID: "ORD-1", CustomerName: "u1"}
	f.orders.orders["ORD-2"] = &models.Order{OrderID: "ORD-2", CustomerName: "u2"}

	rows, err := f.svc.GetOrders(context.Background(), "u1")
	if err != nil {
		t.Fatalf("get orders: %v", err)
	}
	if len(rows) != 1 || rows[0].OrderID != "ORD-1" {
		t.Fatalf("unexpected rows %+v", rows)
	}

	all, err := f.svc.GetAllOrders(context.Background())
	if err != nil {
		t.Fatalf("get all orders: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(all))
	}
}
