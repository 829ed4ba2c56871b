package controllers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Ani07-05/brickdash/api/responses"
	"github.com/Ani07-05/brickdash/api/validators"
	employeesvc "github.com/Ani07-05/brickdash/internal/employees"
	pkgerrors "github.com/Ani07-05/brickdash/pkg/errors"
	"github.com/Ani07-05/brickdash/pkg/logger"
)

type createEmployeeRequest struct {
	Name       string          `json:"name" validate:"required"`
	Role       string          `json:"role" validate:"required"`
	Phone      string          `json:"phone,omitempty"`
	Address    string          `json:"address,omitempty"`
	Salary     decimal.Decimal `json:"salary"`
	JoinedDate *time.Time      `json:"joined_date,omitempty"`
}

type updateEmployeeRequest struct {
	Name     *string          `json:"name,omitempty"`
	Role     *string          `json:"role,omitempty"`
	Phone    *string          `json:"phone,omitempty"`
	Address  *string          `json:"address,omitempty"`
	Salary   *decimal.Decimal `json:"salary,omitempty"`
	IsActive *bool            `json:"is_active,omitempty"`
}

// EmployeeCreate registers a worker and assigns the next employee code.
func EmployeeCreate(svc employeesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "employee service unavailable"))
			return
		}

		var body createEmployeeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := employeesvc.CreateInput{
			Name:    body.Name,
			Role:    body.Role,
			Phone:   body.Phone,
			Address: body.Address,
			Salary:  body.Salary,
		}
		if body.JoinedDate != nil {
			input.JoinedDate = *body.JoinedDate
		}

		employee, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, employee)
	}
}

func EmployeeUpdate(svc employeesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "employee service unavailable"))
			return
		}

		id, err := pathID(r, "employeeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateEmployeeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		employee, err := svc.Update(r.Context(), id, employeesvc.UpdateInput{
			Name:     body.Name,
			Role:     body.Role,
			Phone:    body.Phone,
			Address:  body.Address,
			Salary:   body.Salary,
			IsActive: body.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, employee)
	}
}

func EmployeeDelete(svc employeesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "employee service unavailable"))
			return
		}

		id, err := pathID(r, "employeeId")
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

func EmployeeDetail(svc employeesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "employee service unavailable"))
			return
		}

		id, err := pathID(r, "employeeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		employee, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, employee)
	}
}

// EmployeeList returns employees newest first; ?active=true filters to
// the active roster.
func EmployeeList(svc employeesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "employee service unavailable"))
			return
		}

		activeOnly, err := validators.ParseQueryBool(r, "active")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		employees, err := svc.List(r.Context(), activeOnly)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, employees)
	}
}
