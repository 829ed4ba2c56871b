package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalaryRecord is one employee's generated pay for a month. Generation
// is idempotent per (employee, month, year).
type SalaryRecord struct {
	ID            uint            `gorm:"column:id;primaryKey"`
	EmployeeID    uint            `gorm:"column:employee_id;not null;uniqueIndex:uq_salary_employee_period"`
	Employee      *Employee       `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE"`
	Month         int             `gorm:"column:month;not null;uniqueIndex:uq_salary_employee_period"`
	Year          int             `gorm:"column:year;not null;uniqueIndex:uq_salary_employee_period"`
	DaysPresent   int             `gorm:"column:days_present;not null"`
	HalfDays      int             `gorm:"column:half_days;not null"`
	EffectiveDays float64         `gorm:"column:effective_days;type:numeric(5,1);not null"`
	MonthlySalary decimal.Decimal `gorm:"column:monthly_salary;type:numeric(12,2);not null"`
	GrossPay      decimal.Decimal `gorm:"column:gross_pay;type:numeric(12,2);not null"`
	GeneratedAt   time.Time       `gorm:"column:generated_at;autoCreateTime"`
}
