package attendance

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Ani07-05/brickdash/pkg/db/models"
	"github.com/Ani07-05/brickdash/pkg/enums"
)

// Repository wires together attendance persistence helpers.
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

// Upsert writes the mark for (employee, date), replacing any existing row.
func (r *Repository) Upsert(ctx context.Context, mark *models.Attendance) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employee_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "shift", "notes", "updated_at"}),
		}).
		Create(mark).Error
}

// FindByEmployeeAndDate loads one mark.
func (r *Repository) FindByEmployeeAndDate(ctx context.Context, employeeID uint, date time.Time) (*models.Attendance, error) {
	var mark models.Attendance
	err := r.db.WithContext(ctx).
		First(&mark, "employee_id = ? AND date = ?", employeeID, date).Error
	if err != nil {
		return nil, err
	}
	return &mark, nil
}

// ListByDate returns all marks for one date with the employee preloaded.
func (r *Repository) ListByDate(ctx context.Context, date time.Time) ([]models.Attendance, error) {
	var marks []models.Attendance
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("date = ?", date).
		Order("employee_id ASC").
		Find(&marks).Error
	if err != nil {
		return nil, err
	}
	return marks, nil
}

// ListRecent returns the latest marks across all dates, newest date first.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]models.Attendance, error) {
	var marks []models.Attendance
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Order("date DESC, employee_id ASC").
		Limit(limit).
		Find(&marks).Error
	if err != nil {
		return nil, err
	}
	return marks, nil
}

// ListByEmployeeAndPeriod returns one employee's marks inside [from, to].
func (r *Repository) ListByEmployeeAndPeriod(ctx context.Context, employeeID uint, from, to time.Time) ([]models.Attendance, error) {
	var marks []models.Attendance
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND date >= ? AND date <= ?", employeeID, from, to).
		Order("date ASC").
		Find(&marks).Error
	if err != nil {
		return nil, err
	}
	return marks, nil
}

// CountByStatusOn reports how many marks on a date carry the given status.
func (r *Repository) CountByStatusOn(ctx context.Context, date time.Time, status enums.AttendanceStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Attendance{}).
		Where("date = ? AND status = ?", date, status).
		Count(&count).Error
	return count, err
}
