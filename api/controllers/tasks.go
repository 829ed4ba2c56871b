package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/Ani07-05/brickdash/api/responses"
	"github.com/Ani07-05/brickdash/api/validators"
	tasksvc "github.com/Ani07-05/brickdash/internal/tasks"
	"github.com/Ani07-05/brickdash/pkg/enums"
	pkgerrors "github.com/Ani07-05/brickdash/pkg/errors"
	"github.com/Ani07-05/brickdash/pkg/logger"
)

type createTaskRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description,omitempty"`
	TaskType    string     `json:"task_type" validate:"required"`
	Priority    string     `json:"priority,omitempty"`
	Status      string     `json:"status,omitempty"`
	Progress    int        `json:"progress" validate:"gte=0,lte=100"`
	AssigneeID  *uint      `json:"assignee_id,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

type updateTaskRequest struct {
	Title         *string    `json:"title,omitempty"`
	Description   *string    `json:"description,omitempty"`
	TaskType      *string    `json:"task_type,omitempty"`
	Priority      *string    `json:"priority,omitempty"`
	Status        *string    `json:"status,omitempty"`
	Progress      *int       `json:"progress,omitempty" validate:"omitempty,gte=0,lte=100"`
	AssigneeID    *uint      `json:"assignee_id,omitempty"`
	ClearAssignee bool       `json:"clear_assignee,omitempty"`
	DueDate       *time.Time `json:"due_date,omitempty"`
}

// TaskCreate opens a production task, optionally assigned on creation.
func TaskCreate(svc tasksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "task service unavailable"))
			return
		}

		var body createTaskRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		task, err := svc.Create(r.Context(), tasksvc.CreateInput{
			Title:       body.Title,
			Description: body.Description,
			TaskType:    body.TaskType,
			Priority:    enums.TaskPriority(body.Priority),
			Status:      enums.TaskStatus(body.Status),
			Progress:    body.Progress,
			AssigneeID:  body.AssigneeID,
			DueDate:     body.DueDate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, task)
	}
}

func TaskUpdate(svc tasksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "task service unavailable"))
			return
		}

		id, err := pathID(r, "taskId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateTaskRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := tasksvc.UpdateInput{
			Title:         body.Title,
			Description:   body.Description,
			TaskType:      body.TaskType,
			Progress:      body.Progress,
			AssigneeID:    body.AssigneeID,
			ClearAssignee: body.ClearAssignee,
			DueDate:       body.DueDate,
		}
		if body.Priority != nil {
			priority := enums.TaskPriority(*body.Priority)
			input.Priority = &priority
		}
		if body.Status != nil {
			status := enums.TaskStatus(*body.Status)
			input.Status = &status
		}

		task, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, task)
	}
}

func TaskDelete(svc tasksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "task service unavailable"))
			return
		}

		id, err := pathID(r, "taskId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func TaskDetail(svc tasksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "task service unavailable"))
			return
		}

		id, err := pathID(r, "taskId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		task, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, task)
	}
}

// TaskList returns tasks newest first, optionally filtered by status.
func TaskList(svc tasksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "task service unavailable"))
			return
		}

		var status *enums.TaskStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			parsed := enums.TaskStatus(raw)
			status = &parsed
		}

		tasks, err := svc.List(r.Context(), status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, tasks)
	}
}

// TaskSuggestAssignee recommends the least recently assigned active
// employee for a task type.
func TaskSuggestAssignee(svc tasksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "task service unavailable"))
			return
		}

		taskType := strings.TrimSpace(r.URL.Query().Get("task_type"))
		suggestion, err := svc.SuggestAssignee(r.Context(), taskType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, suggestion)
	}
}
