package task

import (
	"time"

	"github.com/Ani07-05/brickdash/pkg/db/models"
	"github.com/Ani07-05/brickdash/pkg/enums"
)

// TaskDTO is the API projection of a task.
type TaskDTO struct {
	ID           uint               `json:"id"`
	Title        string             `json:"title"`
	Description  string             `json:"description,omitempty"`
	TaskType     string             `json:"task_type"`
	Priority     enums.TaskPriority `json:"priority"`
	Status       enums.TaskStatus   `json:"status"`
	Progress     int                `json:"progress"`
	AssigneeID   *uint              `json:"assignee_id,omitempty"`
	AssigneeName string             `json:"assignee_name,omitempty"`
	DueDate      *time.Time         `json:"due_date,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// SuggestionDTO names the employee next in rotation for a task type.
type SuggestionDTO struct {
	TaskType     string     `json:"task_type"`
	EmployeeID   uint       `json:"employee_id"`
	EmployeeCode string     `json:"employee_code"`
	EmployeeName string     `json:"employee_name"`
	LastAssigned *time.Time `json:"last_assigned,omitempty"`
}

func toDTO(t *models.Task) *TaskDTO {
	dto := &TaskDTO{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		TaskType:    t.TaskType,
		Priority:    t.Priority,
		Status:      t.Status,
		Progress:    t.Progress,
		AssigneeID:  t.AssigneeID,
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.Assignee != nil {
		dto.AssigneeName = t.Assignee.Name
	}
	return dto
}
