package products

import (
	"time"

	"github.com/rcvillanueva/padeliver-backend/pkg/db/models"
)

// ProductDTO is the catalog payload returned to clients. InUserCart is set
// only on view-with-user reads.
type ProductDTO struct {
	ProductID   string     `json:"product_id"`
	Item        string     `json:"item"`
	Description string     `json:"product_description,omitempty"`
	Price       string     `json:"price"`
	Brand       string     `json:"brand,omitempty"`
	Category    string     `json:"category,omitempty"`
	InUserCart  *bool      `json:"in_user_cart,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// ImportResultDTO summarizes one CSV batch import.
type ImportResultDTO struct {
	Mode    string `json:"mode"`
	Created int    `json:"created"`
	Deleted int    `json:"deleted"`
	Skipped int    `json:"skipped"`
}

func newProductDTO(product *models.Product) *ProductDTO {
	dto := &ProductDTO{
		ProductID:   product.ProductID,
		Item:        product.Item,
		Description: product.Description,
		Price:       product.Price,
		Brand:       product.Brand,
		Category:    product.Category,
	}
	if !product.CreatedAt.IsZero() {
		created := product.CreatedAt
		dto.CreatedAt = &created
	}
	if !product.UpdatedAt.IsZero() {
		updated := product.UpdatedAt
		dto.UpdatedAt = &updated
	}
	return dto
}

func newProductDTOs(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *newProductDTO(&rows[i]))
	}
	return out
}
