package task

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Ani07-05/brickdash/pkg/db/models"
	"github.com/Ani07-05/brickdash/pkg/enums"
)

// Repository wires together task persistence helpers.
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

// FindByID loads one task with its assignee.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Task, error) {
	var tsk models.Task
	if err := r.db.WithContext(ctx).Preload("Assignee").First(&tsk, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tsk, nil
}

// List returns tasks newest first, optionally filtered by status.
func (r *Repository) List(ctx context.Context, status *enums.TaskStatus) ([]models.Task, error) {
	query := r.db.WithContext(ctx).Preload("Assignee").Order("id DESC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var tasks []models.Task
	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Create inserts the task.
func (r *Repository) Create(ctx context.Context, tsk *models.Task) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(tsk).Error
}

// Update persists all task columns.
func (r *Repository) Update(ctx context.Context, tsk *models.Task) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(tsk).Error
}

// Delete removes the task row.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Task{}, id).Error
}

// CountByStatus reports how many tasks carry the given status.
func (r *Repository) CountByStatus(ctx context.Context, status enums.TaskStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

// RecordRotation logs that a task type was assigned to an employee.
func (r *Repository) RecordRotation(ctx context.Context, taskType string, employeeID uint) error {
	return r.db.WithContext(ctx).Create(&models.TaskRotation{
		TaskType:   taskType,
		EmployeeID: employeeID,
	}).Error
}

// LastAssignments returns, per employee, when they were last assigned
// the given task type.
func (r *Repository) LastAssignments(ctx context.Context, taskType string) (map[uint]time.Time, error) {
	var rotations []models.TaskRotation
	err := r.db.WithContext(ctx).
		Where("task_type = ?", taskType).
		Order("assigned_at ASC, id ASC").
		Find(&rotations).Error
	if err != nil {
		return nil, err
	}

	// later entries overwrite, leaving the latest assignment per employee
	result := make(map[uint]time.Time, len(rotations))
	for i := range rotations {
		result[rotations[i].EmployeeID] = rotations[i].AssignedAt
	}
	return result, nil
}
