package models

import "time"

// InventoryBatch is a quantity of one product sitting in one stage.
// Batch codes are assigned from sequence_counters ("B001" onwards) and
// never reused, including for the new batch a transfer creates.
type InventoryBatch struct {
	ID        uint            `gorm:"column:id;primaryKey"`
	BatchCode string          `gorm:"column:batch_code;not null;uniqueIndex:uq_inventory_batches_code"`
	StageID   uint            `gorm:"column:stage_id;not null;index"`
	Stage     *InventoryStage `gorm:"foreignKey:StageID"`
	ProductID uint            `gorm:"column:product_id;not null;index"`
	Product   *Product        `gorm:"foreignKey:ProductID"`
	Units     int             `gorm:"column:units;not null"`
	Notes     string          `gorm:"column:notes"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// BatchOrder reserves units of a batch against an order number.
// At most one row per (batch, order); releases delete the row.
type BatchOrder struct {
	ID            uint            `gorm:"column:id;primaryKey"`
	BatchID       uint            `gorm:"column:batch_id;not null;uniqueIndex:uq_batch_orders_batch_order"`
	Batch         *InventoryBatch `gorm:"foreignKey:BatchID;constraint:OnDelete:CASCADE"`
	OrderNumber   string          `gorm:"column:order_number;not null;uniqueIndex:uq_batch_orders_batch_order"`
	ReservedUnits int             `gorm:"column:reserved_units;not null"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}
