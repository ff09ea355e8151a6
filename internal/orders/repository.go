package orders

import (
	"context"

	"github.com/rcvillanueva/padeliver-backend/pkg/db/models"
	"github.com/rcvillanueva/padeliver-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository persists order snapshots.
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

// Create inserts the order snapshot.
func (r *Repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// FindByID loads one order.
func (r *Repository) FindByID(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "order_id = ?", orderID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByCustomer returns the customer's orders, newest first, via the
// customer_name index.
func (r *Repository) ListByCustomer(ctx context.Context, customerName string) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Where("customer_name = ?", customerName).
		Order("order_datetime DESC").
		Find(&rows).
		Error
	return rows, err
}

// ListAll returns every order. Unbounded; acceptable at this catalog's scale.
func (r *Repository) ListAll(ctx context.Context) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Order("order_datetime DESC").
		Find(&rows).
		Error
	return rows, err
}

// UpdateStatus overwrites only the status column.
func (r *Repository) UpdateStatus(ctx context.Context, orderID string, status enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("order_id = ?", orderID).
		Update("status", status).
		Error
}
