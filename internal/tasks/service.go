package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Ani07-05/brickdash/pkg/db"
	"github.com/Ani07-05/brickdash/pkg/db/models"
	"github.com/Ani07-05/brickdash/pkg/enums"
	pkgerrors "github.com/Ani07-05/brickdash/pkg/errors"
)

// Service exposes task management and rotation suggestions.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*TaskDTO, error)
	Update(ctx context.Context, id uint, input UpdateInput) (*TaskDTO, error)
	Delete(ctx context.Context, id uint) error
	Get(ctx context.Context, id uint) (*TaskDTO, error)
	List(ctx context.Context, status *enums.TaskStatus) ([]TaskDTO, error)
	SuggestAssignee(ctx context.Context, taskType string) (*SuggestionDTO, error)
}

// CreateInput holds the validated payload to create a task.
type CreateInput struct {
	Title       string
	Description string
	TaskType    string
	Priority    enums.TaskPriority
	Status      enums.TaskStatus
	Progress    int
	AssigneeID  *uint
	DueDate     *time.Time
}

// UpdateInput holds optional mutation values for a task. ClearAssignee
// unassigns the task; it wins over AssigneeID.
type UpdateInput struct {
	Title         *string
	Description   *string
	TaskType      *string
	Priority      *enums.TaskPriority
	Status        *enums.TaskStatus
	Progress      *int
	AssigneeID    *uint
	ClearAssignee bool
	DueDate       *time.Time
}

type employeeLoader interface {
	FindByID(ctx context.Context, id uint) (*models.Employee, error)
	ListActive(ctx context.Context) ([]models.Employee, error)
}

type service struct {
	repo      *Repository
	dbClient  *db.Client
	employees employeeLoader
}

// NewService constructs a task service instance.
func NewService(repo *Repository, dbClient *db.Client, employees employeeLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("task repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if employees == nil {
		return nil, fmt.Errorf("employee loader required")
	}
	return &service{repo: repo, dbClient: dbClient, employees: employees}, nil
}

// Create inserts a task. Assigning it logs a rotation entry for the
// task type in the same transaction.
func (s *service) Create(ctx context.Context, input CreateInput) (*TaskDTO, error) {
	if input.Title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if input.TaskType == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "task_type is required")
	}
	if input.Priority == "" {
		input.Priority = enums.PriorityMedium
	}
	if !input.Priority.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown task priority")
	}
	if input.Status == "" {
		input.Status = enums.TaskNotStarted
	}
	if !input.Status.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown task status")
	}
	if input.Progress < 0 || input.Progress > 100 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "progress must be between 0 and 100")
	}
	if input.AssigneeID != nil {
		if err := s.checkAssignee(ctx, *input.AssigneeID); err != nil {
			return nil, err
		}
	}

	tsk := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		TaskType:    input.TaskType,
		Priority:    input.Priority,
		Status:      input.Status,
		Progress:    input.Progress,
		AssigneeID:  input.AssigneeID,
		DueDate:     input.DueDate,
	}
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, tsk); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert task")
		}
		if tsk.AssigneeID != nil {
			if err := repo.RecordRotation(ctx, tsk.TaskType, *tsk.AssigneeID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: record rotation")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, tsk.ID)
}

// Update patches the provided fields. A new assignee logs a rotation
// entry; completing a task snaps progress to 100.
func (s *service) Update(ctx context.Context, id uint, input UpdateInput) (*TaskDTO, error) {
	tsk, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "task not found")
	}

	previousAssignee := tsk.AssigneeID

	if input.Title != nil {
		if *input.Title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
		}
		tsk.Title = *input.Title
	}
	if input.Description != nil {
		tsk.Description = *input.Description
	}
	if input.TaskType != nil {
		if *input.TaskType == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "task_type is required")
		}
		tsk.TaskType = *input.TaskType
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown task priority")
		}
		tsk.Priority = *input.Priority
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown task status")
		}
		tsk.Status = *input.Status
	}
	if input.Progress != nil {
		if *input.Progress < 0 || *input.Progress > 100 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "progress must be between 0 and 100")
		}
		tsk.Progress = *input.Progress
	}
	if input.ClearAssignee {
		tsk.AssigneeID = nil
	} else if input.AssigneeID != nil {
		if err := s.checkAssignee(ctx, *input.AssigneeID); err != nil {
			return nil, err
		}
		tsk.AssigneeID = input.AssigneeID
	}
	if input.DueDate != nil {
		tsk.DueDate = input.DueDate
	}
	if tsk.Status == enums.TaskCompleted {
		tsk.Progress = 100
	}

	assigneeChanged := tsk.AssigneeID != nil &&
		(previousAssignee == nil || *previousAssignee != *tsk.AssigneeID)

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Update(ctx, tsk); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update task")
		}
		if assigneeChanged {
			if err := repo.RecordRotation(ctx, tsk.TaskType, *tsk.AssigneeID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: record rotation")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, tsk.ID)
}

// Delete removes a task.
func (s *service) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFoundOr(err, "task not found")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete task")
	}
	return nil
}

// Get loads one task.
func (s *service) Get(ctx context.Context, id uint) (*TaskDTO, error) {
	tsk, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "task not found")
	}
	return toDTO(tsk), nil
}

// List returns tasks newest first, optionally filtered by status.
func (s *service) List(ctx context.Context, status *enums.TaskStatus) ([]TaskDTO, error) {
	if status != nil && !status.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown task status")
	}
	tasks, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list tasks")
	}
	result := make([]TaskDTO, 0, len(tasks))
	for i := range tasks {
		result = append(result, *toDTO(&tasks[i]))
	}
	return result, nil
}

// SuggestAssignee names the active employee least recently assigned the
// task type. Employees never assigned come first, oldest hire first.
func (s *service) SuggestAssignee(ctx context.Context, taskType string) (*SuggestionDTO, error) {
	if taskType == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "task_type is required")
	}

	active, err := s.employees.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list active employees")
	}
	if len(active) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active employees to assign")
	}

	lastAssigned, err := s.repo.LastAssignments(ctx, taskType)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: rotation history")
	}

	var (
		pick     *models.Employee
		pickTime time.Time
		pickSeen bool
	)
	for i := range active {
		when, seen := lastAssigned[active[i].ID]
		if !seen {
			pick = &active[i]
			pickSeen = false
			break
		}
		if pick == nil || when.Before(pickTime) {
			pick = &active[i]
			pickTime = when
			pickSeen = true
		}
	}

	suggestion := &SuggestionDTO{
		TaskType:     taskType,
		EmployeeID:   pick.ID,
		EmployeeCode: pick.EmployeeCode,
		EmployeeName: pick.Name,
	}
	if pickSeen {
		suggestion.LastAssigned = &pickTime
	}
	return suggestion, nil
}

func (s *service) checkAssignee(ctx context.Context, id uint) error {
	emp, err := s.employees.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "assignee not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load employee")
	}
	if !emp.IsActive {
		return pkgerrors.New(pkgerrors.CodeValidation, "assignee is not an active employee")
	}
	return nil
}

func notFoundOr(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, message)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load task")
}
