package products

import (
	"context"

	"github.com/rcvillanueva/padeliver-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists catalog products and keeps the item-name lookup index
// in step with them.
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

// Create inserts the product and its names-index row in one transaction.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(product).Error; err != nil {
			return err
		}
		name := models.ProductName{Item: product.Item, ProductID: product.ProductID}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "item"}},
			UpdateAll: true,
		}).Create(&name).Error
	})
}

// FindByID loads one product.
func (r *Repository) FindByID(ctx context.Context, productID string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "product_id = ?", productID).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByItem resolves a product through the names index.
func (r *Repository) FindByItem(ctx context.Context, item string) (*models.Product, error) {
	var name models.ProductName
	if err := r.db.WithContext(ctx).First(&name, "item = ?", item).Error; err != nil {
		return nil, err
	}
	return r.FindByID(ctx, name.ProductID)
}

// List returns the whole catalog ordered by item name.
func (r *Repository) List(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).Order("item ASC").Find(&rows).Error
	return rows, err
}

// ApplyUpdate writes the whitelisted column changes and keeps the names index
// consistent when the item name changes. Returns the updated row.
func (r *Repository) ApplyUpdate(ctx context.Context, productID string, update *Update) (*models.Product, error) {
	var updated models.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Product
		if err := tx.First(&current, "product_id = ?", productID).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Product{}).
			Where("product_id = ?", productID).
			Updates(update.Fields()).
			Error; err != nil {
			return err
		}

		if newItem, ok := update.Item(); ok && newItem != current.Item {
			if err := tx.Where("item = ? AND product_id = ?", current.Item, productID).
				Delete(&models.ProductName{}).
				Error; err != nil {
				return err
			}
			name := models.ProductName{Item: newItem, ProductID: productID}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "item"}},
				UpdateAll: true,
			}).Create(&name).Error; err != nil {
				return err
			}
		}

		return tx.First(&updated, "product_id = ?", productID).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the product and its names-index rows. Missing products
// surface as gorm.ErrRecordNotFound.
func (r *Repository) Delete(ctx context.Context, productID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("product_id = ?", productID).Delete(&models.Product{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("product_id = ?", productID).Delete(&models.ProductName{}).Error
	})
}
