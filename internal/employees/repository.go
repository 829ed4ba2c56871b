package employee

import (
	"context"

	"gorm.io/gorm"

	"github.com/Ani07-05/brickdash/pkg/db/models"
)

// Repository wires together employee persistence helpers.
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

// FindByID loads one employee.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Employee, error) {
	var emp models.Employee
	if err := r.db.WithContext(ctx).First(&emp, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &emp, nil
}

// FindByCode loads one employee by the public code.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Employee, error) {
	var emp models.Employee
	if err := r.db.WithContext(ctx).First(&emp, "employee_code = ?", code).Error; err != nil {
		return nil, err
	}
	return &emp, nil
}

// List returns employees newest first. activeOnly narrows to the current
// workforce.
func (r *Repository) List(ctx context.Context, activeOnly bool) ([]models.Employee, error) {
	query := r.db.WithContext(ctx).Order("id DESC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var employees []models.Employee
	if err := query.Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

// ListActive returns the active workforce ordered by id ascending, the
// order attendance sheets are laid out in.
func (r *Repository) ListActive(ctx context.Context) ([]models.Employee, error) {
	var employees []models.Employee
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&employees).Error
	if err != nil {
		return nil, err
	}
	return employees, nil
}

// Create inserts the employee.
func (r *Repository) Create(ctx context.Context, emp *models.Employee) error {
	return r.db.WithContext(ctx).Create(emp).Error
}

// Update persists all employee columns.
func (r *Repository) Update(ctx context.Context, emp *models.Employee) error {
	return r.db.WithContext(ctx).Save(emp).Error
}

// CountActive reports the size of the active workforce.
func (r *Repository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Employee{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}

// Delete removes the employee row. Attendance and salary records cascade
// at the database level.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Employee{}, id).Error
}
