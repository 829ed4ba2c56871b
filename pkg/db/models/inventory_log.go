package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Ani07-05/brickdash/pkg/enums"
)

// InventoryLog is an append-only record of finished-stock movements.
type InventoryLog struct {
	ID               uint                  `gorm:"column:id;primaryKey"`
	ProductID        uint                  `gorm:"column:product_id;not null;index"`
	Product          *Product              `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	ChangeType       enums.StockChangeType `gorm:"column:change_type;not null"`
	QuantityChange   int                   `gorm:"column:quantity_change;not null"`
	PreviousQuantity int                   `gorm:"column:previous_quantity;not null"`
	NewQuantity      int                   `gorm:"column:new_quantity;not null"`
	Note             string                `gorm:"column:note"`
	RecordedBy       *uuid.UUID            `gorm:"column:recorded_by;type:uuid"`
	CreatedAt        time.Time             `gorm:"column:created_at;autoCreateTime;index"`
}
