package products

import (
	"context"
	"strings"
	"testing"

	"github.com/rcvillanueva/padeliver-backend/pkg/db/models"
	pkgerrors "github.com/rcvillanueva/padeliver-backend/pkg/errors"
	"github.com/rcvillanueva/padeliver-backend/pkg/events"
	"gorm.io/gorm"
)

type fakeCatalogStore struct {
	products map[string]*models.Product
	names    map[string]string
}

func newFakeCatalogStore() *fakeCatalogStore {
	return &fakeCatalogStore{
		products: make(map[string]*models.Product),
		names:    make(map[string]string),
	}
}

func (f *fakeCatalogStore) Create(_ context.Context, product *models.Product) error {
	if _, exists := f.products[product.ProductID]; exists {
		return gorm.ErrDuplicatedKey
	}
	copied := *product
	f.products[product.ProductID] = &copied
	f.names[product.Item] = product.ProductID
	return nil
}

func (f *fakeCatalogStore) FindByID(_ context.Context, productID string) (*models.Product, error) {
	product, ok := f.products[productID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *product
	return &copied, nil
}

func (f *fakeCatalogStore) FindByItem(ctx context.Context, item string) (*models.Product, error) {
	id, ok := f.names[item]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return f.FindByID(ctx, id)
}

func (f *fakeCatalogStore) List(_ context.Context) ([]models.Product, error) {
	var rows []models.Product
	for _, p := range f.products {
		rows = append(rows, *p)
	}
	return rows, nil
}

func (f *fakeCatalogStore) ApplyUpdate(_ context.Context, productID string, update *Update) (*models.Product, error) {
	product, ok := f.products[productID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	for column, value := range update.Fields() {
		str, _ := value.(string)
		switch column {
		case "item":
			delete(f.names, product.Item)
			product.Item = str
			f.names[str] = productID
		case "description":
			product.Description = str
		case "price":
			product.Price = str
		case "brand":
			product.Brand = str
		case "category":
			product.Category = str
		}
	}
	copied := *product
	return &copied, nil
}

func (f *fakeCatalogStore) Delete(_ context.Context, productID string) error {
	product, ok := f.products[productID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.names, product.Item)
	delete(f.products, productID)
	return nil
}

type fakeCartReader struct {
	carts map[string]*models.Cart
}

func (f *fakeCartReader) FindByUser(_ context.Context, userID string) (*models.Cart, error) {
	cart, ok := f.carts[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cart, nil
}

type fakeQueue struct {
	enqueued []events.ProductCreatedEvent
}

func (f *fakeQueue) EnqueueProduct(_ context.Context, payload events.ProductCreatedEvent) error {
	f.enqueued = append(f.enqueued, payload)
	return nil
}

type fakeBus struct {
	published []events.Type
}

func (f *fakeBus) Publish(_ context.Context, eventType events.Type, _ any) (string, error) {
	f.published = append(f.published, eventType)
	return "evt", nil
}

type fakeObjects struct {
	data map[string][]byte
}

func (f *fakeObjects) GetObject(_ context.Context, key string) ([]byte, error) {
	b, ok := f.data[key]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return b, nil
}

type catalogFixture struct {
	svc   Service
	store *fakeCatalogStore
	queue *fakeQueue
	bus   *fakeBus
	files *fakeObjects
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	f := &catalogFixture{
		store: newFakeCatalogStore(),
		queue: &fakeQueue{},
		bus:   &fakeBus{},
		files: &fakeObjects{data: map[string][]byte{}},
	}
	svc, err := NewService(ServiceParams{
		Repo:    f.store,
		Carts:   &fakeCartReader{carts: map[string]*models.Cart{}},
		Queue:   f.queue,
		Bus:     f.bus,
		Storage: f.files,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	f.svc = svc
	return f
}

func TestCreateProductNormalizesPriceAndPublishes(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t)
	dto, err := f.svc.CreateProduct(context.Background(), CreateProductInput{
		Item:     "burger",
		Price:    " 120.50 ",
		Brand:    "padeliver",
		Category: "food",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.ProductID == "" {
		t.Fatal("expected generated product id")
	}
	if dto.Price != "120.5" {
		t.Fatalf("expected normalized decimal price, got %q", dto.Price)
	}
	if len(f.queue.enqueued) != 1 || f.queue.enqueued[0].Item != "burger" {
		t.Fatalf("expected queue payload, got %+v", f.queue.enqueued)
	}
	if len(f.bus.published) != 1 || f.bus.published[0] != events.TypeProductCreated {
		t.Fatalf("expected product created event, got %v", f.bus.published)
	}
}

func TestCreateProductValidation(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t)
	ctx := context.Background()

	cases := []CreateProductInput{
		{Item: "", Price: "1.00"},
		{Item: "x", Price: ""},
		{Item: "x", Price: "not-a-number"},
		{Item: "x", Price: "-5"},
	}
	for _, input := range cases {
		_, err := f.svc.CreateProduct(ctx, input)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for %+v, got %v", input, err)
		}
	}
}

func TestGetProductResolvesByIDThenName(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t)
	ctx := context.Background()
	created, err := f.svc.CreateProduct(ctx, CreateProductInput{ProductID: "pd-1", Item: "burger", Price: "10.00"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	byID, err := f.svc.GetProduct(ctx, "pd-1")
	if err != nil || byID.ProductID != created.ProductID {
		t.Fatalf("lookup by id failed: %v %+v", err, byID)
	}

	byName, err := f.svc.GetProduct(ctx, "burger")
	if err != nil || byName.ProductID != created.ProductID {
		t.Fatalf("lookup by name failed: %v %+v", err, byName)
	}

	_, err = f.svc.GetProduct(ctx, "missing")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestViewProductSetsInUserCart(t *testing.T) {
	t.Parallel()

	store := newFakeCatalogStore()
	carts := &fakeCartReader{carts: map[string]*models.Cart{
		"u1": {UserID: "u1", Items: []models.CartLineItem{{ProductID: "pd-1", Quantity: 1}}},
	}}
	svc, err := NewService(ServiceParams{Repo: store, Carts: carts})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if _, err := svc.CreateProduct(context.Background(), CreateProductInput{ProductID: "pd-1", Item: "burger", Price: "10.00"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	dto, err := svc.ViewProduct(context.Background(), "pd-1", "u1")
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if dto.InUserCart == nil || !*dto.InUserCart {
		t.Fatalf("expected in_user_cart=true, got %+v", dto.InUserCart)
	}

	other, err := svc.ViewProduct(context.Background(), "pd-1", "u2")
	if err != nil {
		t.Fatalf("view other: %v", err)
	}
	if other.InUserCart == nil || *other.InUserCart {
		t.Fatalf("expected in_user_cart=false, got %+v", other.InUserCart)
	}
}

func TestUpdateProductWhitelistedFields(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t)
	ctx := context.Background()
	if _, err := f.svc.CreateProduct(ctx, CreateProductInput{ProductID: "pd-1", Item: "burger", Price: "10.00"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	update := NewUpdate().SetItem("cheeseburger").SetPrice("12.00")
	dto, err := f.svc.UpdateProduct(ctx, "pd-1", update)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.Item != "cheeseburger" || dto.Price != "12" {
		t.Fatalf("unexpected product %+v", dto)
	}

	// Names index follows the rename.
	byName, err := f.svc.GetProduct(ctx, "cheeseburger")
	if err != nil || byName.ProductID != "pd-1" {
		t.Fatalf("rename not reflected in index: %v", err)
	}
}

func TestUpdateProductRejectsEmptyAndBadPrice(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t)
	ctx := context.Background()

	_, err := f.svc.UpdateProduct(ctx, "pd-1", NewUpdate())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for empty update, got %v", err)
	}

	_, err = f.svc.UpdateProduct(ctx, "pd-1", NewUpdate().SetPrice("abc"))
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for bad price, got %v", err)
	}
}

func TestDeleteProduct(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t)
	ctx := context.Background()
	if _, err := f.svc.CreateProduct(ctx, CreateProductInput{ProductID: "pd-1", Item: "burger", Price: "10.00"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := f.svc.DeleteProduct(ctx, "pd-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if f.bus.published[len(f.bus.published)-1] != events.TypeProductDeleted {
		t.Fatalf("expected delete event, got %v", f.bus.published)
	}

	err := f.svc.DeleteProduct(ctx, "pd-1")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestImportCSVCreate(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t)
	f.files.data["for_create/batch.csv"] = []byte(strings.Join([]string{
		"product_id,item,description,price,brand,category",
		"pd-1,burger,classic,10.00,padeliver,food",
		"pd-2,fries,,4.50,padeliver,food",
		",missing price,,,padeliver,food",
	}, "\n"))

	result, err := f.svc.ImportCSV(context.Background(), "for_create/batch.csv")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Created != 2 || result.Skipped != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
	if _, err := f.svc.GetProduct(context.Background(), "pd-2"); err != nil {
		t.Fatalf("imported product missing: %v", err)
	}
}

func TestImportCSVDelete(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t)
	ctx := context.Background()
	for _, id := range []string{"pd-1", "pd-2"} {
		if _, err := f.svc.CreateProduct(ctx, CreateProductInput{ProductID: id, Item: "item-" + id, Price: "1.00"}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	f.files.data["for_delete/batch.csv"] = []byte("product_id\npd-1\npd-404\n")

	result, err := f.svc.ImportCSV(ctx, "for_delete/batch.csv")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Deleted != 1 || result.Skipped != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestImportCSVRejectsUnknownPrefix(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t)
	_, err := f.svc.ImportCSV(context.Background(), "uploads/batch.csv")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
