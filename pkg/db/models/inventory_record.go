package models

import "time"

// InventoryRecord is one append-only movement in the inventory ledger.
// Positive quantities are stock-in, negative ones stock-out. Rows are never
// updated; current stock is the sum of all deltas for a product.
type InventoryRecord struct {
	ProductID  string    `gorm:"column:product_id;primaryKey"`
	RecordedAt time.Time `gorm:"column:recorded_at;primaryKey"`
	Quantity   int64     `gorm:"column:quantity;not null"`
	Remark     string    `gorm:"column:remark"`
}

func (InventoryRecord) TableName() string { return "inventory_records" }
