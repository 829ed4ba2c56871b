package controllers

import (
	"net/http"
	"time"

	"github.com/Ani07-05/brickdash/api/responses"
	"github.com/Ani07-05/brickdash/api/validators"
	attendancesvc "github.com/Ani07-05/brickdash/internal/attendance"
	"github.com/Ani07-05/brickdash/pkg/enums"
	pkgerrors "github.com/Ani07-05/brickdash/pkg/errors"
	"github.com/Ani07-05/brickdash/pkg/logger"
)

type markAttendanceRequest struct {
	EmployeeID uint       `json:"employee_id" validate:"required"`
	Date       *time.Time `json:"date,omitempty"`
	Status     string     `json:"status" validate:"required"`
	Shift      string     `json:"shift,omitempty"`
	Notes      string     `json:"notes,omitempty"`
}

type bulkAttendanceRequest struct {
	Date    time.Time               `json:"date" validate:"required"`
	Entries []markAttendanceRequest `json:"entries" validate:"required,min=1,dive"`
}

type markAllAttendanceRequest struct {
	Date   time.Time `json:"date" validate:"required"`
	Status string    `json:"status" validate:"required"`
}

func (req markAttendanceRequest) toInput() attendancesvc.MarkInput {
	input := attendancesvc.MarkInput{
		EmployeeID: req.EmployeeID,
		Status:     enums.AttendanceStatus(req.Status),
		Shift:      enums.Shift(req.Shift),
		Notes:      req.Notes,
	}
	if req.Date != nil {
		input.Date = *req.Date
	}
	return input
}

// AttendanceMark records one employee's attendance for a date, upserting
// any existing mark.
func AttendanceMark(svc attendancesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "attendance service unavailable"))
			return
		}

		var body markAttendanceRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mark, err := svc.Mark(r.Context(), body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, mark)
	}
}

// AttendanceBulkSave saves a whole registry page in one transaction and
// reports how many marks were written.
func AttendanceBulkSave(svc attendancesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "attendance service unavailable"))
			return
		}

		var body bulkAttendanceRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries := make([]attendancesvc.MarkInput, 0, len(body.Entries))
		for _, entry := range body.Entries {
			entries = append(entries, entry.toInput())
		}

		saved, err := svc.BulkSave(r.Context(), body.Date, entries)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "some entries were rejected").WithDetails(map[string]any{"saved": saved}))
			return
		}

		responses.WriteSuccess(w, map[string]int{"saved": saved})
	}
}

// AttendanceMarkAll sets one status for every active employee on a date.
func AttendanceMarkAll(svc attendancesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "attendance service unavailable"))
			return
		}

		var body markAllAttendanceRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		marked, err := svc.MarkAll(r.Context(), body.Date, enums.AttendanceStatus(body.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]int{"marked": marked})
	}
}

// AttendanceRegistry pairs every active employee with their mark for the
// requested date, defaulting to today.
func AttendanceRegistry(svc attendancesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "attendance service unavailable"))
			return
		}

		date, err := validators.ParseQueryDate(r, "date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		day := time.Now().UTC()
		if date != nil {
			day = *date
		}

		rows, err := svc.Registry(r.Context(), day)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

// AttendanceRecords lists marks for a date, or the most recent marks when
// no date is given.
func AttendanceRecords(svc attendancesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "attendance service unavailable"))
			return
		}

		date, err := validators.ParseQueryDate(r, "date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		records, err := svc.Records(r.Context(), date)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, records)
	}
}
