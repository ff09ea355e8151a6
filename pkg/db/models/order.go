package models

import (
	"time"

	"github.com/rcvillanueva/padeliver-backend/pkg/enums"
)

// OrderLineItem is the immutable snapshot copy of a cart line taken at order
// placement. It never references the live cart.
type OrderLineItem struct {
	ProductID string `json:"product_id"`
	Item      string `json:"item"`
	Quantity  int64  `json:"quantity"`
	Price     string `json:"price"`
}

// Order is the persisted order snapshot. Items are frozen at creation; status
// is the only field UpdateOrderStatus may touch.
type Order struct {
	OrderID       string            `gorm:"column:order_id;primaryKey"`
	CustomerName  string            `gorm:"column:customer_name;not null;index"`
	Items         []OrderLineItem   `gorm:"column:items;type:jsonb;serializer:json"`
	Status        enums.OrderStatus `gorm:"column:status;not null"`
	OrderDatetime time.Time         `gorm:"column:order_datetime;not null"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
}

func (Order) TableName() string { return "orders" }
