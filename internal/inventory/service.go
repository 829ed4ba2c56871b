package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Ani07-05/brickdash/pkg/db"
	"github.com/Ani07-05/brickdash/pkg/db/models"
	"github.com/Ani07-05/brickdash/pkg/enums"
	pkgerrors "github.com/Ani07-05/brickdash/pkg/errors"
	"github.com/Ani07-05/brickdash/pkg/pagination"
)

// Service exposes finished-stock movements and their audit trail.
type Service interface {
	UpdateStock(ctx context.Context, input UpdateStockInput) (*StockResult, error)
	ListLogs(ctx context.Context, input ListLogsInput) (*LogPage, error)
	PruneLogs(ctx context.Context, olderThan time.Duration) (int64, error)
}

// UpdateStockInput holds a single stock movement.
type UpdateStockInput struct {
	ProductID  uint
	ChangeType enums.StockChangeType
	Quantity   int
	Note       string
	RecordedBy *uuid.UUID
}

// StockResult reports the stock level after the movement.
type StockResult struct {
	ProductID        uint `json:"product_id"`
	PreviousQuantity int  `json:"previous_quantity"`
	NewQuantity      int  `json:"new_quantity"`
}

// ListLogsInput filters and paginates the log listing.
type ListLogsInput struct {
	ProductID *uint
	Page      pagination.Params
}

// LogEntryDTO is the API projection of an inventory log row.
type LogEntryDTO struct {
	ID               uint                  `json:"id"`
	ProductID        uint                  `json:"product_id"`
	ProductName      string                `json:"product_name,omitempty"`
	ChangeType       enums.StockChangeType `json:"change_type"`
	QuantityChange   int                   `json:"quantity_change"`
	PreviousQuantity int                   `json:"previous_quantity"`
	NewQuantity      int                   `json:"new_quantity"`
	Note             string                `json:"note,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
}

// LogPage is one page of log entries plus the cursor for the next.
type LogPage struct {
	Entries    []LogEntryDTO `json:"entries"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// ProductTxStore is the transaction-bound view of the product store.
type ProductTxStore struct {
	db *gorm.DB
}

// NewProductTxStore adapts a GORM handle into the stock mutation surface.
func NewProductTxStore(db *gorm.DB) *ProductTxStore {
	return &ProductTxStore{db: db}
}

func (p *ProductTxStore) LockByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := p.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (p *ProductTxStore) SetStock(ctx context.Context, id uint, quantity int) error {
	return p.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("stock_quantity", quantity).Error
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs an inventory service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

// UpdateStock applies an Addition or Reduction to a product's finished
// stock. Reductions floor at zero rather than failing, and every movement
// appends a log entry with the before/after quantities.
func (s *service) UpdateStock(ctx context.Context, input UpdateStockInput) (*StockResult, error) {
	if !input.ChangeType.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "change_type must be Addition or Reduction")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	var result StockResult
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		products := NewProductTxStore(tx)

		prod, err := products.LockByID(ctx, input.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lock product")
		}

		previous := prod.StockQuantity
		next := previous
		change := input.Quantity
		switch input.ChangeType {
		case enums.StockAddition:
			next = previous + input.Quantity
		case enums.StockReduction:
			next = previous - input.Quantity
			if next < 0 {
				next = 0
			}
			change = -(previous - next)
		}

		if err := products.SetStock(ctx, prod.ID, next); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update stock")
		}

		entry := &models.InventoryLog{
			ProductID:        prod.ID,
			ChangeType:       input.ChangeType,
			QuantityChange:   change,
			PreviousQuantity: previous,
			NewQuantity:      next,
			Note:             input.Note,
			RecordedBy:       input.RecordedBy,
		}
		if err := s.repo.WithTx(tx).AppendLog(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: append inventory log")
		}

		result = StockResult{ProductID: prod.ID, PreviousQuantity: previous, NewQuantity: next}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ListLogs returns one page of the audit trail, newest first.
func (s *service) ListLogs(ctx context.Context, input ListLogsInput) (*LogPage, error) {
	cursor, err := pagination.ParseCursor(input.Page.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(input.Page.Limit)

	logs, err := s.repo.ListLogs(ctx, input.ProductID, cursor, pagination.LimitWithBuffer(input.Page.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list inventory logs")
	}

	page := &LogPage{}
	hasMore := len(logs) > limit
	if hasMore {
		logs = logs[:limit]
	}
	for i := range logs {
		entry := &logs[i]
		dto := LogEntryDTO{
			ID:               entry.ID,
			ProductID:        entry.ProductID,
			ChangeType:       entry.ChangeType,
			QuantityChange:   entry.QuantityChange,
			PreviousQuantity: entry.PreviousQuantity,
			NewQuantity:      entry.NewQuantity,
			Note:             entry.Note,
			CreatedAt:        entry.CreatedAt,
		}
		if entry.Product != nil {
			dto.ProductName = entry.Product.Name
		}
		page.Entries = append(page.Entries, dto)
	}
	if hasMore && len(logs) > 0 {
		last := logs[len(logs)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return page, nil
}

// PruneLogs removes entries older than the retention window.
func (s *service) PruneLogs(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	removed, err := s.repo.DeleteLogsBefore(ctx, cutoff)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: prune inventory logs")
	}
	return removed, nil
}
