package cart

import (
	"time"

	"github.com/rcvillanueva/padeliver-backend/pkg/db/models"
)

// LineItemDTO is the cart line payload returned to clients.
type LineItemDTO struct {
	ProductID string `json:"product_id"`
	Item      string `json:"item"`
	Quantity  int64  `json:"quantity"`
	Price     string `json:"price"`
}

// CartDTO is the cart payload returned to clients. ItemCount is the number of
// distinct lines, not the summed quantity.
type CartDTO struct {
	UserID    string        `json:"user_id"`
	Items     []LineItemDTO `json:"items"`
	ItemCount int           `json:"item_count"`
	UpdatedAt *time.Time    `json:"updated_at,omitempty"`
}

// IsEmpty reports whether the cart holds no lines.
func (d *CartDTO) IsEmpty() bool {
	return d == nil || len(d.Items) == 0
}

func newCartDTO(userID string, cart *models.Cart) *CartDTO {
	dto := &CartDTO{UserID: userID, Items: []LineItemDTO{}}
	if cart == nil {
		return dto
	}
	for _, item := range cart.Items {
		dto.Items = append(dto.Items, LineItemDTO{
			ProductID: item.ProductID,
			Item:      item.Item,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	dto.ItemCount = len(dto.Items)
	if !cart.UpdatedAt.IsZero() {
		updated := cart.UpdatedAt
		dto.UpdatedAt = &updated
	}
	return dto
}
