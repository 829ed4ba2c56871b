package payroll

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/Ani07-05/brickdash/pkg/db"
	"github.com/Ani07-05/brickdash/pkg/db/models"
	"github.com/Ani07-05/brickdash/pkg/enums"
	pkgerrors "github.com/Ani07-05/brickdash/pkg/errors"
)

// Service exposes monthly payroll generation and reporting.
type Service interface {
	Generate(ctx context.Context, month, year int) (*GenerateResult, error)
	Report(ctx context.Context, month, year int) (*ReportDTO, error)
	ExportCSV(ctx context.Context, month, year int, w io.Writer) error
}

type employeeLoader interface {
	ListActive(ctx context.Context) ([]models.Employee, error)
}

type attendanceSource interface {
	ListByEmployeeAndPeriod(ctx context.Context, employeeID uint, from, to time.Time) ([]models.Attendance, error)
}

type service struct {
	repo       *Repository
	dbClient   *db.Client
	employees  employeeLoader
	attendance attendanceSource
}

// NewService constructs a payroll service instance.
func NewService(repo *Repository, dbClient *db.Client, employees employeeLoader, attendance attendanceSource) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payroll repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if employees == nil {
		return nil, fmt.Errorf("employee loader required")
	}
	if attendance == nil {
		return nil, fmt.Errorf("attendance source required")
	}
	return &service{repo: repo, dbClient: dbClient, employees: employees, attendance: attendance}, nil
}

// Generate writes one salary record per active employee for the month.
// Employees already generated are skipped, so re-running is safe.
// Failures for individual employees come back aggregated; the rest
// still generate.
func (s *service) Generate(ctx context.Context, month, year int) (*GenerateResult, error) {
	if err := checkPeriod(month, year); err != nil {
		return nil, err
	}

	active, err := s.employees.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list active employees")
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	daysInMonth := to.Day()

	result := &GenerateResult{Month: month, Year: year}
	var genErr error
	for i := range active {
		emp := &active[i]
		created, err := s.generateOne(ctx, emp, month, year, from, to, daysInMonth)
		if err != nil {
			genErr = multierr.Append(genErr,
				fmt.Errorf("employee %s: %w", emp.EmployeeCode, err))
			continue
		}
		if created {
			result.Created++
		} else {
			result.Skipped++
		}
	}
	return result, genErr
}

func (s *service) generateOne(ctx context.Context, emp *models.Employee, month, year int, from, to time.Time, daysInMonth int) (bool, error) {
	exists, err := s.repo.Exists(ctx, emp.ID, month, year)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check salary record")
	}
	if exists {
		return false, nil
	}

	marks, err := s.attendance.ListByEmployeeAndPeriod(ctx, emp.ID, from, to)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load attendance")
	}

	var daysPresent, halfDays int
	for i := range marks {
		switch marks[i].Status {
		case enums.AttendancePresent:
			daysPresent++
		case enums.AttendanceHalfDay:
			daysPresent++
			halfDays++
		}
	}
	effective := float64(daysPresent) - enums.HalfDayWeight*float64(halfDays)

	gross := emp.Salary.
		Div(decimal.NewFromInt(int64(daysInMonth))).
		Mul(decimal.NewFromFloat(effective)).
		Round(2)

	record := &models.SalaryRecord{
		EmployeeID:    emp.ID,
		Month:         month,
		Year:          year,
		DaysPresent:   daysPresent,
		HalfDays:      halfDays,
		EffectiveDays: effective,
		MonthlySalary: emp.Salary,
		GrossPay:      gross,
	}
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, record)
	})
	if err != nil {
		if db.IsUniqueViolation(err, "uq_salary_employee_period") {
			// generated concurrently, treat as skipped
			return false, nil
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert salary record")
	}
	return true, nil
}

// Report returns the month's records with the gross total.
func (s *service) Report(ctx context.Context, month, year int) (*ReportDTO, error) {
	if err := checkPeriod(month, year); err != nil {
		return nil, err
	}

	records, err := s.repo.ListByPeriod(ctx, month, year)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list salary records")
	}

	report := &ReportDTO{
		Month:      month,
		Year:       year,
		Records:    make([]RecordDTO, 0, len(records)),
		TotalGross: decimal.Zero,
	}
	for i := range records {
		report.Records = append(report.Records, *toDTO(&records[i]))
		report.TotalGross = report.TotalGross.Add(records[i].GrossPay)
	}
	return report, nil
}

// ExportCSV streams the month's payroll as CSV rows.
func (s *service) ExportCSV(ctx context.Context, month, year int, w io.Writer) error {
	report, err := s.Report(ctx, month, year)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	header := []string{
		"Employee Code", "Name", "Role", "Days Present", "Half Days",
		"Effective Days", "Monthly Salary", "Gross Pay",
	}
	if err := writer.Write(header); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "csv: write header")
	}
	for i := range report.Records {
		rec := &report.Records[i]
		row := []string{
			rec.EmployeeCode,
			rec.EmployeeName,
			rec.EmployeeRole,
			fmt.Sprintf("%d", rec.DaysPresent),
			fmt.Sprintf("%d", rec.HalfDays),
			fmt.Sprintf("%.1f", rec.EffectiveDays),
			rec.MonthlySalary.StringFixed(2),
			rec.GrossPay.StringFixed(2),
		}
		if err := writer.Write(row); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "csv: write row")
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "csv: flush")
	}
	return nil
}

func checkPeriod(month, year int) error {
	if month < 1 || month > 12 {
		return pkgerrors.New(pkgerrors.CodeValidation, "month must be between 1 and 12")
	}
	if year < 2000 || year > 2200 {
		return pkgerrors.New(pkgerrors.CodeValidation, "year out of range")
	}
	return nil
}
