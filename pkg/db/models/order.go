package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Ani07-05/brickdash/pkg/enums"
)

// Order is a single-product customer order. The order number is
// assigned from sequence_counters and never reused.
type Order struct {
	ID              uint              `gorm:"column:id;primaryKey"`
	OrderNumber     string            `gorm:"column:order_number;not null;uniqueIndex:uq_orders_order_number"`
	ProductID       uint              `gorm:"column:product_id;not null;index"`
	Product         *Product          `gorm:"foreignKey:ProductID"`
	Quantity        int               `gorm:"column:quantity;not null"`
	UnitPrice       decimal.Decimal   `gorm:"column:unit_price;type:numeric(12,2);not null"`
	TotalAmount     decimal.Decimal   `gorm:"column:total_amount;type:numeric(14,2);not null"`
	CustomerName    string            `gorm:"column:customer_name;not null"`
	CustomerPhone   string            `gorm:"column:customer_phone"`
	DeliveryAddress string            `gorm:"column:delivery_address"`
	Status          enums.OrderStatus `gorm:"column:status;not null;default:Pending"`
	Notes           string            `gorm:"column:notes"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
