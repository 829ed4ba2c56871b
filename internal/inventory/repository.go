package inventory

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Ani07-05/brickdash/pkg/db/models"
	"github.com/Ani07-05/brickdash/pkg/pagination"
)

// Repository wires together inventory log persistence helpers.
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

// AppendLog inserts an inventory log entry.
func (r *Repository) AppendLog(ctx context.Context, entry *models.InventoryLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListLogs returns a page of log entries, newest first, using keyset
// pagination on (created_at, id).
func (r *Repository) ListLogs(ctx context.Context, productID *uint, cursor *pagination.Cursor, limit int) ([]models.InventoryLog, error) {
	query := r.db.WithContext(ctx).
		Preload("Product").
		Order("created_at DESC, id DESC").
		Limit(limit)
	if productID != nil {
		query = query.Where("product_id = ?", *productID)
	}
	if cursor != nil {
		query = query.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var logs []models.InventoryLog
	if err := query.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// DeleteLogsBefore removes log entries older than the cutoff and reports
// how many rows went away. The cron retention job drives this.
func (r *Repository) DeleteLogsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.InventoryLog{})
	return result.RowsAffected, result.Error
}
