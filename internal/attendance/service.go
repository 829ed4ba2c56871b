package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/Ani07-05/brickdash/pkg/db"
	"github.com/Ani07-05/brickdash/pkg/db/models"
	"github.com/Ani07-05/brickdash/pkg/enums"
	pkgerrors "github.com/Ani07-05/brickdash/pkg/errors"
)

const recentRecordsLimit = 50

// Service exposes the attendance registry.
type Service interface {
	Mark(ctx context.Context, input MarkInput) (*MarkDTO, error)
	BulkSave(ctx context.Context, date time.Time, entries []MarkInput) (int, error)
	MarkAll(ctx context.Context, date time.Time, status enums.AttendanceStatus) (int, error)
	Registry(ctx context.Context, date time.Time) ([]RegistryRow, error)
	Records(ctx context.Context, date *time.Time) ([]MarkDTO, error)
}

// MarkInput is one attendance mark to record.
type MarkInput struct {
	EmployeeID uint
	Date       time.Time
	Status     enums.AttendanceStatus
	Shift      enums.Shift
	Notes      string
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

// NewService constructs an attendance service instance.
func NewService(repo *Repository, dbClient *db.Client, employees employeeLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("attendance repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if employees == nil {
		return nil, fmt.Errorf("employee loader required")
	}
	return &service{repo: repo, dbClient: dbClient, employees: employees}, nil
}

// Mark records or replaces the mark for (employee, date).
func (s *service) Mark(ctx context.Context, input MarkInput) (*MarkDTO, error) {
	mark, err := s.buildMark(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(ctx, mark); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: upsert attendance")
	}

	saved, err := s.repo.FindByEmployeeAndDate(ctx, mark.EmployeeID, mark.Date)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load attendance")
	}
	return toDTO(saved), nil
}

// BulkSave records a whole sheet in one transaction. Entries that fail
// validation are skipped; their errors come back aggregated alongside the
// count of saved marks.
func (s *service) BulkSave(ctx context.Context, date time.Time, entries []MarkInput) (int, error) {
	date = normalizeDate(date)

	var (
		marks    []*models.Attendance
		entryErr error
	)
	for i := range entries {
		entries[i].Date = date
		mark, err := s.buildMark(ctx, entries[i])
		if err != nil {
			entryErr = multierr.Append(entryErr,
				fmt.Errorf("employee %d: %w", entries[i].EmployeeID, err))
			continue
		}
		marks = append(marks, mark)
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for _, mark := range marks {
			if err := repo.Upsert(ctx, mark); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: upsert attendance")
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(marks), entryErr
}

// MarkAll sets the given status for every active employee on a date.
// Existing marks keep their shift and notes.
func (s *service) MarkAll(ctx context.Context, date time.Time, status enums.AttendanceStatus) (int, error) {
	if !status.Valid() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "unknown attendance status")
	}
	date = normalizeDate(date)

	active, err := s.employees.ListActive(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list active employees")
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for i := range active {
			mark := &models.Attendance{
				EmployeeID: active[i].ID,
				Date:       date,
				Status:     status,
				Shift:      enums.ShiftDay,
			}
			if existing, err := repo.FindByEmployeeAndDate(ctx, active[i].ID, date); err == nil {
				mark.Shift = existing.Shift
				mark.Notes = existing.Notes
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load attendance")
			}
			if err := repo.Upsert(ctx, mark); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: upsert attendance")
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(active), nil
}

// Registry returns the active workforce with their marks for a date.
func (s *service) Registry(ctx context.Context, date time.Time) ([]RegistryRow, error) {
	date = normalizeDate(date)

	active, err := s.employees.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list active employees")
	}
	marks, err := s.repo.ListByDate(ctx, date)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list attendance")
	}

	byEmployee := make(map[uint]*models.Attendance, len(marks))
	for i := range marks {
		byEmployee[marks[i].EmployeeID] = &marks[i]
	}

	rows := make([]RegistryRow, 0, len(active))
	for i := range active {
		row := RegistryRow{
			EmployeeID:   active[i].ID,
			EmployeeCode: active[i].EmployeeCode,
			EmployeeName: active[i].Name,
		}
		if mark, ok := byEmployee[active[i].ID]; ok {
			row.Mark = toDTO(mark)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Records lists marks for one date, or the most recent marks across all
// dates when no date is given.
func (s *service) Records(ctx context.Context, date *time.Time) ([]MarkDTO, error) {
	var (
		marks []models.Attendance
		err   error
	)
	if date != nil {
		marks, err = s.repo.ListByDate(ctx, normalizeDate(*date))
	} else {
		marks, err = s.repo.ListRecent(ctx, recentRecordsLimit)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list attendance")
	}

	result := make([]MarkDTO, 0, len(marks))
	for i := range marks {
		result = append(result, *toDTO(&marks[i]))
	}
	return result, nil
}

func (s *service) buildMark(ctx context.Context, input MarkInput) (*models.Attendance, error) {
	if !input.Status.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown attendance status")
	}
	if input.Shift == "" {
		input.Shift = enums.ShiftDay
	}
	if !input.Shift.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown shift")
	}
	if input.Date.IsZero() {
		input.Date = time.Now()
	}

	if _, err := s.employees.FindByID(ctx, input.EmployeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "employee not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load employee")
	}

	return &models.Attendance{
		EmployeeID: input.EmployeeID,
		Date:       normalizeDate(input.Date),
		Status:     input.Status,
		Shift:      input.Shift,
		Notes:      input.Notes,
	}, nil
}

// normalizeDate strips the time-of-day so the (employee, date) unique
// index sees one value per calendar day.
func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
