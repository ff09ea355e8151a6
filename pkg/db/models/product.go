package models

import "time"

// Product represents a catalog listing keyed by its external product id.
// Price is carried as a decimal string end to end; arithmetic happens through
// shopspring/decimal at the edges, never through floats.
type Product struct {
	ProductID   string    `gorm:"column:product_id;primaryKey" json:"product_id"`
	Item        string    `gorm:"column:item;not null" json:"item"`
	Description string    `gorm:"column:description" json:"product_description"`
	Price       string    `gorm:"column:price;not null" json:"price"`
	Brand       string    `gorm:"column:brand" json:"brand"`
	Category    string    `gorm:"column:category" json:"category"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

// TableName keeps the legacy table name used by the ops tooling.
func (Product) TableName() string { return "products" }

// ProductName is the item-name lookup index maintained alongside products.
type ProductName struct {
	Item      string `gorm:"column:item;primaryKey"`
	ProductID string `gorm:"column:product_id;not null;index"`
}

func (ProductName) TableName() string { return "product_names" }
