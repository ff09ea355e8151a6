package cart

import (
	"context"

	"github.com/rcvillanueva/padeliver-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists user carts keyed by user id.
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

// FindByUser loads the cart row for a user. Callers treat
// gorm.ErrRecordNotFound as an empty cart.
func (r *Repository) FindByUser(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.WithContext(ctx).First(&cart, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// Save writes the whole cart row, creating it on first add. The item list is
// replaced wholesale; there is no per-line merge at the storage layer.
func (r *Repository) Save(ctx context.Context, cart *models.Cart) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(cart).
		Error
}
