package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rcvillanueva/padeliver-backend/pkg/db"
	"github.com/rcvillanueva/padeliver-backend/pkg/db/models"
	pkgerrors "github.com/rcvillanueva/padeliver-backend/pkg/errors"
	"github.com/rcvillanueva/padeliver-backend/pkg/events"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes catalog management operations.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	GetProduct(ctx context.Context, idOrName string) (*ProductDTO, error)
	ViewProduct(ctx context.Context, productID, userID string) (*ProductDTO, error)
	ListProducts(ctx context.Context) ([]ProductDTO, error)
	UpdateProduct(ctx context.Context, productID string, update *Update) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, productID string) error
	ImportCSV(ctx context.Context, objectKey string) (*ImportResultDTO, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	ProductID   string
	Item        string
	Description string
	Price       string
	Brand       string
	Category    string
}

type catalogStore interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, productID string) (*models.Product, error)
	FindByItem(ctx context.Context, item string) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	ApplyUpdate(ctx context.Context, productID string, update *Update) (*models.Product, error)
	Delete(ctx context.Context, productID string) error
}

type cartReader interface {
	FindByUser(ctx context.Context, userID string) (*models.Cart, error)
}

type productQueue interface {
	EnqueueProduct(ctx context.Context, payload events.ProductCreatedEvent) error
}

type eventPublisher interface {
	Publish(ctx context.Context, eventType events.Type, payload any) (string, error)
}

type objectStore interface {
	GetObject(ctx context.Context, key string) ([]byte, error)
}

// ServiceParams carries the dependencies for NewService.
type ServiceParams struct {
	Repo    catalogStore
	Carts   cartReader
	Queue   productQueue
	Bus     eventPublisher
	Storage objectStore
}

type service struct {
	repo    catalogStore
	carts   cartReader
	queue   productQueue
	bus     eventPublisher
	storage objectStore
}

// NewService constructs a catalog service instance. Queue, bus and storage
// are optional; without storage, CSV import is unavailable.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	return &service{
		repo:    params.Repo,
		carts:   params.Carts,
		queue:   params.Queue,
		bus:     params.Bus,
		storage: params.Storage,
	}, nil
}

// CreateProduct inserts the product, enqueues it on the work queue, and
// announces it on the event bus. Queue and bus failures surface as dependency
// errors but do not undo the catalog write.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	input.Item = strings.TrimSpace(input.Item)
	if input.Item == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item is required")
	}
	price, err := parsePrice(input.Price)
	if err != nil {
		return nil, err
	}

	productID := strings.TrimSpace(input.ProductID)
	if productID == "" {
		productID = uuid.NewString()
	}

	product := &models.Product{
		ProductID:   productID,
		Item:        input.Item,
		Description: strings.TrimSpace(input.Description),
		Price:       price,
		Brand:       strings.TrimSpace(input.Brand),
		Category:    strings.TrimSpace(input.Category),
	}
	if err := s.repo.Create(ctx, product); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}

	payload := events.ProductCreatedEvent{
		ProductID: product.ProductID,
		Item:      product.Item,
		Brand:     product.Brand,
		Category:  product.Category,
		Price:     product.Price,
	}
	if s.queue != nil {
		if err := s.queue.EnqueueProduct(ctx, payload); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue: enqueue product")
		}
	}
	if s.bus != nil {
		if _, err := s.bus.Publish(ctx, events.TypeProductCreated, payload); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "publish product event")
		}
	}

	return newProductDTO(product), nil
}

// GetProduct resolves the argument first as a product id, then through the
// names index.
func (s *service) GetProduct(ctx context.Context, idOrName string) (*ProductDTO, error) {
	idOrName = strings.TrimSpace(idOrName)
	if idOrName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product identifier is required")
	}

	product, err := s.repo.FindByID(ctx, idOrName)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
		}
		product, err = s.repo.FindByItem(ctx, idOrName)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
		}
	}
	return newProductDTO(product), nil
}

// ViewProduct returns the product together with an in_user_cart flag for the
// viewing user.
func (s *service) ViewProduct(ctx context.Context, productID, userID string) (*ProductDTO, error) {
	dto, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return dto, nil
	}

	inCart := false
	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load cart")
	}
	if cart != nil {
		for _, line := range cart.Items {
			if line.ProductID == dto.ProductID {
				inCart = true
				break
			}
		}
	}
	dto.InUserCart = &inCart
	return dto, nil
}

// ListProducts returns the whole catalog.
func (s *service) ListProducts(ctx context.Context) ([]ProductDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	return newProductDTOs(rows), nil
}

// UpdateProduct applies the whitelisted field changes.
func (s *service) UpdateProduct(ctx context.Context, productID string, update *Update) (*ProductDTO, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}
	if update.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no updatable fields supplied")
	}
	if item, ok := update.Item(); ok && strings.TrimSpace(item) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item cannot be empty")
	}
	if raw, ok := update.Price(); ok {
		price, err := parsePrice(raw)
		if err != nil {
			return nil, err
		}
		update.SetPrice(price)
	}

	product, err := s.repo.ApplyUpdate(ctx, productID, update)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	return newProductDTO(product), nil
}

// DeleteProduct removes the product unconditionally; existing orders keep
// their snapshots and the ledger keeps its history.
func (s *service) DeleteProduct(ctx context.Context, productID string) error {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}

	if err := s.repo.Delete(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}

	if s.bus != nil {
		if _, err := s.bus.Publish(ctx, events.TypeProductDeleted, events.ProductDeletedEvent{
			ProductID: productID,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "publish product event")
		}
	}
	return nil
}

// ImportCSV applies one uploaded batch file. The object key prefix selects
// the mode: for_create/ inserts rows, for_delete/ removes them. Bad rows are
// skipped and counted, not fatal.
func (s *service) ImportCSV(ctx context.Context, objectKey string) (*ImportResultDTO, error) {
	if s.storage == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "object store not configured")
	}
	objectKey = strings.TrimSpace(objectKey)

	var mode string
	switch {
	case strings.HasPrefix(objectKey, importCreatePrefix):
		mode = "create"
	case strings.HasPrefix(objectKey, importDeletePrefix):
		mode = "delete"
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("object key must start with %s or %s", importCreatePrefix, importDeletePrefix))
	}

	data, err := s.storage.GetObject(ctx, objectKey)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storage: get import file")
	}

	result := &ImportResultDTO{Mode: mode}
	if mode == "create" {
		rows, skipped, err := parseCreateRows(data)
		if err != nil {
			return nil, err
		}
		result.Skipped = skipped
		for i := range rows {
			if _, err := s.CreateProduct(ctx, rows[i]); err != nil {
				result.Skipped++
				continue
			}
			result.Created++
		}
		return result, nil
	}

	ids, skipped, err := parseDeleteIDs(data)
	if err != nil {
		return nil, err
	}
	result.Skipped = skipped
	for _, id := range ids {
		if err := s.DeleteProduct(ctx, id); err != nil {
			result.Skipped++
			continue
		}
		result.Deleted++
	}
	return result, nil
}

func parsePrice(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "price is required")
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "price must be a decimal number")
	}
	if price.IsNegative() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	return price.String(), nil
}
