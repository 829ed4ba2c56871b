package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Ani07-05/brickdash/pkg/db/models"
)

// RecordDTO is the API projection of one generated salary record.
type RecordDTO struct {
	ID            uint            `json:"id"`
	EmployeeID    uint            `json:"employee_id"`
	EmployeeCode  string          `json:"employee_code,omitempty"`
	EmployeeName  string          `json:"employee_name,omitempty"`
	EmployeeRole  string          `json:"employee_role,omitempty"`
	Month         int             `json:"month"`
	Year          int             `json:"year"`
	DaysPresent   int             `json:"days_present"`
	HalfDays      int             `json:"half_days"`
	EffectiveDays float64         `json:"effective_days"`
	MonthlySalary decimal.Decimal `json:"monthly_salary"`
	GrossPay      decimal.Decimal `json:"gross_pay"`
	GeneratedAt   time.Time       `json:"generated_at"`
}

// GenerateResult summarizes one payroll generation run.
type GenerateResult struct {
	Month   int `json:"month"`
	Year    int `json:"year"`
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// ReportDTO is the monthly payroll report with totals.
type ReportDTO struct {
	Month      int             `json:"month"`
	Year       int             `json:"year"`
	Records    []RecordDTO     `json:"records"`
	TotalGross decimal.Decimal `json:"total_gross"`
}

func toDTO(r *models.SalaryRecord) *RecordDTO {
	dto := &RecordDTO{
		ID:            r.ID,
		EmployeeID:    r.EmployeeID,
		Month:         r.Month,
		Year:          r.Year,
		DaysPresent:   r.DaysPresent,
		HalfDays:      r.HalfDays,
		EffectiveDays: r.EffectiveDays,
		MonthlySalary: r.MonthlySalary,
		GrossPay:      r.GrossPay,
		GeneratedAt:   r.GeneratedAt,
	}
	if r.Employee != nil {
		dto.EmployeeCode = r.Employee.EmployeeCode
		dto.EmployeeName = r.Employee.Name
		dto.EmployeeRole = r.Employee.Role
	}
	return dto
}
