package models

import "time"

// InventoryStage is one station in the production pipeline
// (forming, drying, finishing by default). Rows are seeded once and
// read-only afterwards; capacity bounds the units of all batches in
// the stage.
type InventoryStage struct {
	ID          uint      `gorm:"column:id;primaryKey"`
	StageNumber int       `gorm:"column:stage_number;not null;uniqueIndex:uq_inventory_stages_number"`
	StageName   string    `gorm:"column:stage_name;not null"`
	Capacity    int       `gorm:"column:capacity;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
