package batch

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Ani07-05/brickdash/pkg/db/models"
)

// Repository wires together batch workflow persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListStages returns all stages ordered by their pipeline position.
func (r *Repository) ListStages(ctx context.Context) ([]models.InventoryStage, error) {
	var stages []models.InventoryStage
	if err := r.db.WithContext(ctx).Order("stage_number ASC").Find(&stages).Error; err != nil {
		return nil, err
	}
	return stages, nil
}

// FindStage loads a stage without locking.
func (r *Repository) FindStage(ctx context.Context, id uint) (*models.InventoryStage, error) {
	var stage models.InventoryStage
	if err := r.db.WithContext(ctx).First(&stage, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &stage, nil
}

// LockStage loads a stage under FOR UPDATE so concurrent capacity checks
// serialize on the stage row for the rest of the transaction.
func (r *Repository) LockStage(ctx context.Context, id uint) (*models.InventoryStage, error) {
	var stage models.InventoryStage
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&stage, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &stage, nil
}

// StageOccupancy sums the units of every batch sitting in the stage.
func (r *Repository) StageOccupancy(ctx context.Context, stageID uint) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.InventoryBatch{}).
		Where("stage_id = ?", stageID).
		Select("COALESCE(SUM(units), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return int(total), nil
}

// FindBatchByCode loads a batch with its stage and product.
func (r *Repository) FindBatchByCode(ctx context.Context, code string) (*models.InventoryBatch, error) {
	var batch models.InventoryBatch
	if err := r.db.WithContext(ctx).
		Preload("Stage").
		Preload("Product").
		First(&batch, "batch_code = ?", code).Error; err != nil {
		return nil, err
	}
	return &batch, nil
}

// LockBatchByCode loads a batch under FOR UPDATE without associations.
func (r *Repository) LockBatchByCode(ctx context.Context, code string) (*models.InventoryBatch, error) {
	var batch models.InventoryBatch
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&batch, "batch_code = ?", code).Error; err != nil {
		return nil, err
	}
	return &batch, nil
}

// ListBatches returns batches with stage and product preloaded, optionally
// filtered by stage and/or product.
func (r *Repository) ListBatches(ctx context.Context, stageID, productID *uint) ([]models.InventoryBatch, error) {
	query := r.db.WithContext(ctx).
		Preload("Stage").
		Preload("Product").
		Order("id DESC")
	if stageID != nil {
		query = query.Where("stage_id = ?", *stageID)
	}
	if productID != nil {
		query = query.Where("product_id = ?", *productID)
	}

	var batches []models.InventoryBatch
	if err := query.Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// CreateBatch inserts a new batch row.
func (r *Repository) CreateBatch(ctx context.Context, batch *models.InventoryBatch) error {
	return r.db.WithContext(ctx).Create(batch).Error
}

// SetBatchUnits updates the unit count of a batch.
func (r *Repository) SetBatchUnits(ctx context.Context, batchID uint, units int) error {
	return r.db.WithContext(ctx).
		Model(&models.InventoryBatch{}).
		Where("id = ?", batchID).
		Update("units", units).Error
}

// DeleteBatch removes the batch row.
func (r *Repository) DeleteBatch(ctx context.Context, batchID uint) error {
	return r.db.WithContext(ctx).Delete(&models.InventoryBatch{}, batchID).Error
}

// ReservedSum totals the reserved units held against a batch.
func (r *Repository) ReservedSum(ctx context.Context, batchID uint) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.BatchOrder{}).
		Where("batch_id = ?", batchID).
		Select("COALESCE(SUM(reserved_units), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return int(total), nil
}

// FindReservation loads the (batch, order) reservation row if present.
func (r *Repository) FindReservation(ctx context.Context, batchID uint, orderNumber string) (*models.BatchOrder, error) {
	var reservation models.BatchOrder
	if err := r.db.WithContext(ctx).
		First(&reservation, "batch_id = ? AND order_number = ?", batchID, orderNumber).Error; err != nil {
		return nil, err
	}
	return &reservation, nil
}

// ListReservations returns all reservations against a batch.
func (r *Repository) ListReservations(ctx context.Context, batchID uint) ([]models.BatchOrder, error) {
	var reservations []models.BatchOrder
	if err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("id ASC").
		Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// CreateReservation inserts a reservation row.
func (r *Repository) CreateReservation(ctx context.Context, reservation *models.BatchOrder) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

// SetReservationUnits updates a reservation's unit count.
func (r *Repository) SetReservationUnits(ctx context.Context, reservationID uint, units int) error {
	return r.db.WithContext(ctx).
		Model(&models.BatchOrder{}).
		Where("id = ?", reservationID).
		Update("reserved_units", units).Error
}

// DeleteReservation removes a single reservation row.
func (r *Repository) DeleteReservation(ctx context.Context, reservationID uint) error {
	return r.db.WithContext(ctx).Delete(&models.BatchOrder{}, reservationID).Error
}

// DeleteReservationsForBatch removes every reservation held against the batch.
func (r *Repository) DeleteReservationsForBatch(ctx context.Context, batchID uint) error {
	return r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Delete(&models.BatchOrder{}).Error
}

// AppendLog records a batch mutation in the inventory log.
func (r *Repository) AppendLog(ctx context.Context, entry *models.InventoryLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
