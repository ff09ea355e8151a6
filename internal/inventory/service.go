package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rcvillanueva/padeliver-backend/pkg/db/models"
	pkgerrors "github.com/rcvillanueva/padeliver-backend/pkg/errors"
	"github.com/rcvillanueva/padeliver-backend/pkg/events"
	"gorm.io/gorm"
)

// Service exposes ledger reads and stock-in appends.
type Service interface {
	RecordStock(ctx context.Context, input RecordStockInput) (*StockDTO, error)
	GetProductInventory(ctx context.Context, productID string) (*StockDTO, error)
	GetAllInventory(ctx context.Context) ([]ProductStock, error)
}

// RecordStockInput is the validated stock movement payload.
type RecordStockInput struct {
	ProductID string
	Quantity  int64
	Remark    string
}

// StockDTO reports the current aggregated stock for a product.
type StockDTO struct {
	ProductID     string `json:"product_id"`
	TotalQuantity int64  `json:"total_quantity"`
}

type ledgerStore interface {
	Append(ctx context.Context, record *models.InventoryRecord) error
	SumByProduct(ctx context.Context, productID string) (int64, error)
	SumAll(ctx context.Context) ([]ProductStock, error)
}

type productReader interface {
	FindByID(ctx context.Context, productID string) (*models.Product, error)
}

type eventPublisher interface {
	Publish(ctx context.Context, eventType events.Type, payload any) (string, error)
}

type service struct {
	repo     ledgerStore
	products productReader
	bus      eventPublisher
	now      func() time.Time
}

// NewService constructs an inventory service instance. The event bus is
// optional; without one, ledger appends are not announced.
func NewService(repo ledgerStore, products productReader, bus eventPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{
		repo:     repo,
		products: products,
		bus:      bus,
		now:      time.Now,
	}, nil
}

// RecordStock appends one signed delta to the ledger after checking the
// product exists. Timestamps are truncated to second precision to match the
// ledger sort key.
func (s *service) RecordStock(ctx context.Context, input RecordStockInput) (*StockDTO, error) {
	if strings.TrimSpace(input.ProductID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}
	if input.Quantity == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a non-zero integer")
	}

	if _, err := s.products.FindByID(ctx, input.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}

	recordedAt := s.now().Truncate(time.Second)
	record := &models.InventoryRecord{
		ProductID:  input.ProductID,
		RecordedAt: recordedAt,
		Quantity:   input.Quantity,
		Remark:     strings.TrimSpace(input.Remark),
	}
	if err := s.repo.Append(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: append inventory record")
	}

	if s.bus != nil {
		if _, err := s.bus.Publish(ctx, events.TypeStockRecorded, events.StockRecordedEvent{
			ProductID:  record.ProductID,
			Quantity:   record.Quantity,
			Remark:     record.Remark,
			RecordedAt: record.RecordedAt,
		}); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "publish stock event")
		}
	}

	total, err := s.repo.SumByProduct(ctx, input.ProductID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: sum inventory")
	}
	return &StockDTO{ProductID: input.ProductID, TotalQuantity: total}, nil
}

// GetProductInventory sums every ledger delta for the product. The sum is
// recomputed on each read; there is no cached running total.
func (s *service) GetProductInventory(ctx context.Context, productID string) (*StockDTO, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}

	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}

	total, err := s.repo.SumByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: sum inventory")
	}
	return &StockDTO{ProductID: productID, TotalQuantity: total}, nil
}

// GetAllInventory aggregates stock for every product present in the ledger.
func (s *service) GetAllInventory(ctx context.Context) ([]ProductStock, error) {
	rows, err := s.repo.SumAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: sum inventory")
	}
	if rows == nil {
		rows = []ProductStock{}
	}
	return rows, nil
}
