package models

import (
	"time"

	"github.com/Ani07-05/brickdash/pkg/enums"
)

// Task is a unit of work optionally assigned to an employee.
type Task struct {
	ID          uint               `gorm:"column:id;primaryKey"`
	Title       string             `gorm:"column:title;not null"`
	Description string             `gorm:"column:description"`
	TaskType    string             `gorm:"column:task_type;not null;index"`
	Priority    enums.TaskPriority `gorm:"column:priority;not null;default:Medium"`
	Status      enums.TaskStatus   `gorm:"column:status;not null;default:'Not Started'"`
	Progress    int                `gorm:"column:progress;not null;default:0"`
	AssigneeID  *uint              `gorm:"column:assignee_id;index"`
	Assignee    *Employee          `gorm:"foreignKey:AssigneeID"`
	DueDate     *time.Time         `gorm:"column:due_date;type:date"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// TaskRotation logs each assignment of a task type to an employee so
// rotation suggestions can pick the least recently assigned worker.
type TaskRotation struct {
	ID         uint      `gorm:"column:id;primaryKey"`
	TaskType   string    `gorm:"column:task_type;not null;index"`
	EmployeeID uint      `gorm:"column:employee_id;not null;index"`
	Employee   *Employee `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE"`
	AssignedAt time.Time `gorm:"column:assigned_at;autoCreateTime"`
}
