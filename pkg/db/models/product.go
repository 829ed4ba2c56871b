package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a manufactured brick line tracked in finished stock.
type Product struct {
	ID            uint            `gorm:"column:id;primaryKey"`
	Name          string          `gorm:"column:name;not null;uniqueIndex:uq_products_name"`
	Category      string          `gorm:"column:category;not null"`
	Unit          string          `gorm:"column:unit;not null;default:piece"`
	PricePerUnit  decimal.Decimal `gorm:"column:price_per_unit;type:numeric(12,2);not null"`
	StockQuantity int             `gorm:"column:stock_quantity;not null;default:0"`
	Description   string          `gorm:"column:description"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
