package payroll

import (
	"context"

	"gorm.io/gorm"

	"github.com/Ani07-05/brickdash/pkg/db/models"
)

// Repository wires together salary record persistence helpers.
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

// Exists reports whether a record for (employee, month, year) is present.
func (r *Repository) Exists(ctx context.Context, employeeID uint, month, year int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SalaryRecord{}).
		Where("employee_id = ? AND month = ? AND year = ?", employeeID, month, year).
		Count(&count).Error
	return count > 0, err
}

// Create inserts the salary record.
func (r *Repository) Create(ctx context.Context, record *models.SalaryRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// ListByPeriod returns all records for a month with employees preloaded.
func (r *Repository) ListByPeriod(ctx context.Context, month, year int) ([]models.SalaryRecord, error) {
	var records []models.SalaryRecord
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("month = ? AND year = ?", month, year).
		Order("employee_id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
