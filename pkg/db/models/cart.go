package models

import "time"

// CartLineItem is a single cart entry. Carts hold at most one line per
// product_id; AddToCart merges quantities instead of appending duplicates.
type CartLineItem struct {
	ProductID string `json:"product_id"`
	Item      string `json:"item"`
	Quantity  int64  `json:"quantity"`
	Price     string `json:"price"`
}

// Cart maps a user to the ordered list of their current line items. The item
// list is written back whole on every mutation (last writer wins at the cart
// granularity), mirroring the upstream key-value layout.
type Cart struct {
	UserID    string         `gorm:"column:user_id;primaryKey"`
	Items     []CartLineItem `gorm:"column:items;type:jsonb;serializer:json"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (Cart) TableName() string { return "user_carts" }
