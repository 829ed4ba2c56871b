package batch

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Ani07-05/brickdash/pkg/db"
	"github.com/Ani07-05/brickdash/pkg/db/models"
	"github.com/Ani07-05/brickdash/pkg/enums"
	pkgerrors "github.com/Ani07-05/brickdash/pkg/errors"
)

// Service exposes the production batch workflow.
type Service interface {
	ListStages(ctx context.Context) ([]StageDTO, error)
	ListBatches(ctx context.Context, input ListBatchesInput) ([]BatchDTO, error)
	AddBatch(ctx context.Context, input AddBatchInput) (*BatchDTO, error)
	TransferBatch(ctx context.Context, code string, input TransferInput) (*BatchDTO, error)
	AdjustBatch(ctx context.Context, code string, delta int) (*BatchDTO, error)
	ReserveBatch(ctx context.Context, code string, input ReserveInput) (*BatchDTO, error)
	UnreserveBatch(ctx context.Context, code, orderNumber string) (*BatchDTO, error)
	DeleteBatch(ctx context.Context, code string, force bool) error
}

// AddBatchInput holds the validated payload to create a batch.
type AddBatchInput struct {
	StageID   uint
	ProductID uint
	Units     int
	Notes     string
}

// TransferInput moves units of a batch into another stage.
type TransferInput struct {
	TargetStageID uint
	Units         int
}

// ReserveInput holds units to hold against an order.
type ReserveInput struct {
	OrderNumber string
	Units       int
}

// ListBatchesInput filters the batch listing.
type ListBatchesInput struct {
	StageID   *uint
	ProductID *uint
}

type productLoader interface {
	FindByID(ctx context.Context, id uint) (*models.Product, error)
}

type orderLoader interface {
	FindByNumber(ctx context.Context, number string) (*models.Order, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	products productLoader
	orders   orderLoader
}

// NewService constructs a batch workflow service instance.
func NewService(repo *Repository, dbClient *db.Client, products productLoader, orders orderLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("batch repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order loader required")
	}
	return &service{
		repo:     repo,
		dbClient: dbClient,
		products: products,
		orders:   orders,
	}, nil
}

// ListStages returns all stages with their current occupancy.
func (s *service) ListStages(ctx context.Context) ([]StageDTO, error) {
	stages, err := s.repo.ListStages(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list stages")
	}

	result := make([]StageDTO, 0, len(stages))
	for _, stage := range stages {
		occupancy, err := s.repo.StageOccupancy(ctx, stage.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: stage occupancy")
		}
		result = append(result, StageDTO{
			ID:          stage.ID,
			StageNumber: stage.StageNumber,
			StageName:   stage.StageName,
			Capacity:    stage.Capacity,
			Occupancy:   occupancy,
		})
	}
	return result, nil
}

// ListBatches returns batches with reservation totals.
func (s *service) ListBatches(ctx context.Context, input ListBatchesInput) ([]BatchDTO, error) {
	batches, err := s.repo.ListBatches(ctx, input.StageID, input.ProductID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list batches")
	}

	result := make([]BatchDTO, 0, len(batches))
	for i := range batches {
		b := &batches[i]
		reserved, err := s.repo.ReservedSum(ctx, b.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reserved sum")
		}
		reservations, err := s.repo.ListReservations(ctx, b.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list reservations")
		}
		result = append(result, *toBatchDTO(b, reserved, reservations))
	}
	return result, nil
}

// AddBatch creates a batch in a stage, enforcing stage capacity. The batch
// code comes from the shared sequence counter inside the same transaction.
func (s *service) AddBatch(ctx context.Context, input AddBatchInput) (*BatchDTO, error) {
	if input.Units <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "units must be positive")
	}

	if _, err := s.products.FindByID(ctx, input.ProductID); err != nil {
		return nil, notFoundOr(err, "product not found", "db: load product")
	}

	var created *models.InventoryBatch
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		stage, err := txRepo.LockStage(ctx, input.StageID)
		if err != nil {
			return notFoundOr(err, "stage not found", "db: lock stage")
		}

		occupancy, err := txRepo.StageOccupancy(ctx, stage.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: stage occupancy")
		}
		if occupancy+input.Units > stage.Capacity {
			return capacityError(stage, occupancy, input.Units)
		}

		code, err := db.NextBatchCode(tx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: next batch code")
		}

		created = &models.InventoryBatch{
			BatchCode: code,
			StageID:   stage.ID,
			ProductID: input.ProductID,
			Units:     input.Units,
			Notes:     input.Notes,
		}
		if err := txRepo.CreateBatch(ctx, created); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert batch")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.loadDTO(ctx, created.BatchCode)
}

// TransferBatch moves units into a target stage as a new batch, decrementing
// the source. Units staying behind must still cover the source's reservations.
func (s *service) TransferBatch(ctx context.Context, code string, input TransferInput) (*BatchDTO, error) {
	if input.Units <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "units must be positive")
	}

	var newCode string
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		source, err := txRepo.LockBatchByCode(ctx, code)
		if err != nil {
			return notFoundOr(err, "batch not found", "db: lock batch")
		}
		if input.TargetStageID == source.StageID {
			return pkgerrors.New(pkgerrors.CodeValidation, "target stage must differ from the batch's stage")
		}
		if input.Units > source.Units {
			return pkgerrors.New(pkgerrors.CodeValidation, "cannot transfer more units than the batch holds").
				WithDetails(map[string]any{"batch_units": source.Units, "requested": input.Units})
		}

		// Lock both stage rows in a stable order to avoid deadlocks.
		firstID, secondID := source.StageID, input.TargetStageID
		if firstID > secondID {
			firstID, secondID = secondID, firstID
		}
		var target *models.InventoryStage
		for _, id := range []uint{firstID, secondID} {
			stage, err := txRepo.LockStage(ctx, id)
			if err != nil {
				if id == input.TargetStageID {
					return notFoundOr(err, "target stage not found", "db: lock target stage")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lock source stage")
			}
			if id == input.TargetStageID {
				target = stage
			}
		}

		remaining := source.Units - input.Units
		reserved, err := txRepo.ReservedSum(ctx, source.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reserved sum")
		}
		if remaining < reserved {
			return pkgerrors.New(pkgerrors.CodeConflict, "transfer would leave fewer units than are reserved").
				WithDetails(map[string]any{"remaining": remaining, "reserved": reserved})
		}

		occupancy, err := txRepo.StageOccupancy(ctx, target.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: target occupancy")
		}
		if occupancy+input.Units > target.Capacity {
			return capacityError(target, occupancy, input.Units)
		}

		if remaining == 0 {
			if err := txRepo.DeleteBatch(ctx, source.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete empty batch")
			}
		} else {
			if err := txRepo.SetBatchUnits(ctx, source.ID, remaining); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: decrement batch")
			}
		}

		newCode, err = db.NextBatchCode(tx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: next batch code")
		}
		moved := &models.InventoryBatch{
			BatchCode: newCode,
			StageID:   target.ID,
			ProductID: source.ProductID,
			Units:     input.Units,
			Notes:     source.Notes,
		}
		if err := txRepo.CreateBatch(ctx, moved); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert transferred batch")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.loadDTO(ctx, newCode)
}

// AdjustBatch applies a signed delta to the batch's units. Adjusting to
// zero deletes the batch; reservations always stay covered.
func (s *service) AdjustBatch(ctx context.Context, code string, delta int) (*BatchDTO, error) {
	if delta == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delta must be non-zero")
	}

	var deleted bool
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		batch, err := txRepo.LockBatchByCode(ctx, code)
		if err != nil {
			return notFoundOr(err, "batch not found", "db: lock batch")
		}

		stage, err := txRepo.LockStage(ctx, batch.StageID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lock stage")
		}

		result := batch.Units + delta
		if result < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "adjustment would make units negative").
				WithDetails(map[string]any{"units": batch.Units, "delta": delta})
		}

		reserved, err := txRepo.ReservedSum(ctx, batch.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reserved sum")
		}
		if result < reserved {
			return pkgerrors.New(pkgerrors.CodeConflict, "adjustment would leave fewer units than are reserved").
				WithDetails(map[string]any{"result": result, "reserved": reserved})
		}

		if delta > 0 {
			occupancy, err := txRepo.StageOccupancy(ctx, stage.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: stage occupancy")
			}
			if occupancy+delta > stage.Capacity {
				return capacityError(stage, occupancy, delta)
			}
		}

		changeType := enums.StockAddition
		if delta < 0 {
			changeType = enums.StockReduction
		}
		entry := &models.InventoryLog{
			ProductID:        batch.ProductID,
			ChangeType:       changeType,
			QuantityChange:   delta,
			PreviousQuantity: batch.Units,
			NewQuantity:      result,
			Note:             fmt.Sprintf("batch %s adjusted in %s", batch.BatchCode, stage.StageName),
		}
		if err := txRepo.AppendLog(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: append inventory log")
		}

		if result == 0 {
			deleted = true
			return txRepo.DeleteBatch(ctx, batch.ID)
		}
		return txRepo.SetBatchUnits(ctx, batch.ID, result)
	})
	if err != nil {
		return nil, err
	}
	if deleted {
		return nil, nil
	}

	return s.loadDTO(ctx, code)
}

// ReserveBatch holds units of a batch against an order. Repeat reserves
// for the same order accumulate on the existing row.
func (s *service) ReserveBatch(ctx context.Context, code string, input ReserveInput) (*BatchDTO, error) {
	if input.Units <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "units must be positive")
	}

	if _, err := s.orders.FindByNumber(ctx, input.OrderNumber); err != nil {
		return nil, notFoundOr(err, "order not found", "db: load order")
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		batch, err := txRepo.LockBatchByCode(ctx, code)
		if err != nil {
			return notFoundOr(err, "batch not found", "db: lock batch")
		}

		reserved, err := txRepo.ReservedSum(ctx, batch.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reserved sum")
		}
		if reserved+input.Units > batch.Units {
			return pkgerrors.New(pkgerrors.CodeConflict, "reservation exceeds available units").
				WithDetails(map[string]any{
					"batch_units": batch.Units,
					"reserved":    reserved,
					"requested":   input.Units,
				})
		}

		existing, err := txRepo.FindReservation(ctx, batch.ID, input.OrderNumber)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			reservation := &models.BatchOrder{
				BatchID:       batch.ID,
				OrderNumber:   input.OrderNumber,
				ReservedUnits: input.Units,
			}
			if err := txRepo.CreateReservation(ctx, reservation); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert reservation")
			}
		case err != nil:
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load reservation")
		default:
			if err := txRepo.SetReservationUnits(ctx, existing.ID, existing.ReservedUnits+input.Units); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: increment reservation")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.loadDTO(ctx, code)
}

// UnreserveBatch releases the hold an order has on a batch.
func (s *service) UnreserveBatch(ctx context.Context, code, orderNumber string) (*BatchDTO, error) {
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		batch, err := txRepo.LockBatchByCode(ctx, code)
		if err != nil {
			return notFoundOr(err, "batch not found", "db: lock batch")
		}

		reservation, err := txRepo.FindReservation(ctx, batch.ID, orderNumber)
		if err != nil {
			return notFoundOr(err, "reservation not found", "db: load reservation")
		}
		if err := txRepo.DeleteReservation(ctx, reservation.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete reservation")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.loadDTO(ctx, code)
}

// DeleteBatch removes a batch. Active reservations block the delete unless
// force is set, in which case they are released first.
func (s *service) DeleteBatch(ctx context.Context, code string, force bool) error {
	return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		batch, err := txRepo.LockBatchByCode(ctx, code)
		if err != nil {
			return notFoundOr(err, "batch not found", "db: lock batch")
		}

		reserved, err := txRepo.ReservedSum(ctx, batch.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reserved sum")
		}
		if reserved > 0 {
			if !force {
				return pkgerrors.New(pkgerrors.CodeConflict, "batch has active reservations").
					WithDetails(map[string]any{"reserved": reserved})
			}
			if err := txRepo.DeleteReservationsForBatch(ctx, batch.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: cascade reservations")
			}
		}

		if err := txRepo.DeleteBatch(ctx, batch.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete batch")
		}
		return nil
	})
}

func (s *service) loadDTO(ctx context.Context, code string) (*BatchDTO, error) {
	batch, err := s.repo.FindBatchByCode(ctx, code)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload batch")
	}
	reserved, err := s.repo.ReservedSum(ctx, batch.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reserved sum")
	}
	reservations, err := s.repo.ListReservations(ctx, batch.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list reservations")
	}
	return toBatchDTO(batch, reserved, reservations), nil
}

func capacityError(stage *models.InventoryStage, occupancy, adding int) error {
	return pkgerrors.New(pkgerrors.CodeCapacity, fmt.Sprintf("stage %s is over capacity", stage.StageName)).
		WithDetails(map[string]any{
			"stage_id":  stage.ID,
			"capacity":  stage.Capacity,
			"occupancy": occupancy,
			"adding":    adding,
		})
}

func notFoundOr(err error, message, wrapMessage string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, message)
	}
	if typed := pkgerrors.As(err); typed != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, wrapMessage)
}
