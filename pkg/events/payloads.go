package events

import "time"

// Type names the domain events the platform emits.
type Type string

const (
	TypeProductCreated Type = "product.created"
	TypeProductDeleted Type = "product.deleted"
	TypeOrderPlaced    Type = "order.placed"
	TypeOrderUpdated   Type = "order.status_updated"
	TypeStockRecorded  Type = "inventory.stock_recorded"
)

// ProductCreatedEvent is emitted after a product lands in the catalog.
type ProductCreatedEvent struct {
	ProductID string `json:"product_id"`
	Item      string `json:"item"`
	Brand     string `json:"brand,omitempty"`
	Category  string `json:"category,omitempty"`
	Price     string `json:"price"`
}

// ProductDeletedEvent is emitted after a product is removed from the catalog.
type ProductDeletedEvent struct {
	ProductID string `json:"product_id"`
}

// OrderPlacedEvent is emitted once an order has been written.
type OrderPlacedEvent struct {
	OrderID      string    `json:"order_id"`
	CustomerName string    `json:"customer_name"`
	ItemCount    int       `json:"item_count"`
	PlacedAt     time.Time `json:"placed_at"`
}

// OrderStatusUpdatedEvent is emitted when an order transitions status.
type OrderStatusUpdatedEvent struct {
	OrderID      string `json:"order_id"`
	CustomerName string `json:"customer_name"`
	Status       string `json:"status"`
}

// StockRecordedEvent is emitted for every inventory ledger append.
type StockRecordedEvent struct {
	ProductID  string    `json:"product_id"`
	Quantity   int64     `json:"quantity"`
	Remark     string    `json:"remark,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}
