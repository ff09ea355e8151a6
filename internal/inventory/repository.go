package inventory

import (
	"context"

	"github.com/rcvillanueva/padeliver-backend/pkg/db/models"
	"gorm.io/gorm"
)

// ProductStock is the aggregated stock level for one product.
type ProductStock struct {
	ProductID     string `json:"product_id"`
	TotalQuantity int64  `json:"total_quantity"`
}

// Repository reads and appends inventory ledger rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Append inserts one ledger row. Rows are never updated afterwards.
func (r *Repository) Append(ctx context.Context, record *models.InventoryRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// SumByProduct returns the summed quantity deltas for a product. Products with
// no ledger rows sum to zero.
func (r *Repository) SumByProduct(ctx context.Context, productID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.InventoryRecord{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).
		Error
	return total, err
}

// SumAll returns the aggregated stock per product across the whole ledger.
func (r *Repository) SumAll(ctx context.Context) ([]ProductStock, error) {
	var rows []ProductStock
	err := r.db.WithContext(ctx).
		Model(&models.InventoryRecord{}).
		Select("product_id, COALESCE(SUM(quantity), 0) AS total_quantity").
		Group("product_id").
		Order("product_id").
		Scan(&rows).
		Error
	return rows, err
}

// ListByProduct returns the raw ledger rows for a product, oldest first.
func (r *Repository) ListByProduct(ctx context.Context, productID string) ([]models.InventoryRecord, error) {
	var rows []models.InventoryRecord
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("recorded_at ASC").
		Find(&rows).
		Error
	return rows, err
}
