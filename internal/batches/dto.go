package batch

import (
	"time"

	"github.com/Ani07-05/brickdash/pkg/db/models"
)

// StageDTO is the API projection of a production stage.
type StageDTO struct {
	ID          uint   `json:"id"`
	StageNumber int    `json:"stage_number"`
	StageName   string `json:"stage_name"`
	Capacity    int    `json:"capacity"`
	Occupancy   int    `json:"occupancy"`
}

// ReservationDTO is the API projection of a batch reservation.
type ReservationDTO struct {
	OrderNumber   string    `json:"order_number"`
	ReservedUnits int       `json:"reserved_units"`
	CreatedAt     time.Time `json:"created_at"`
}

// BatchDTO is the API projection of an inventory batch.
type BatchDTO struct {
	BatchCode     string           `json:"batch_code"`
	StageID       uint             `json:"stage_id"`
	StageName     string           `json:"stage_name,omitempty"`
	ProductID     uint             `json:"product_id"`
	ProductName   string           `json:"product_name,omitempty"`
	Units         int              `json:"units"`
	ReservedUnits int              `json:"reserved_units"`
	Notes         string           `json:"notes,omitempty"`
	Reservations  []ReservationDTO `json:"reservations,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

func toBatchDTO(b *models.InventoryBatch, reserved int, reservations []models.BatchOrder) *BatchDTO {
	dto := &BatchDTO{
		BatchCode:     b.BatchCode,
		StageID:       b.StageID,
		ProductID:     b.ProductID,
		Units:         b.Units,
		ReservedUnits: reserved,
		Notes:         b.Notes,
		CreatedAt:     b.CreatedAt,
	}
	if b.Stage != nil {
		dto.StageName = b.Stage.StageName
	}
	if b.Product != nil {
		dto.ProductName = b.Product.Name
	}
	for _, res := range reservations {
		dto.Reservations = append(dto.Reservations, ReservationDTO{
			OrderNumber:   res.OrderNumber,
			ReservedUnits: res.ReservedUnits,
			CreatedAt:     res.CreatedAt,
		})
	}
	return dto
}
