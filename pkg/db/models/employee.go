package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is a worker on the payroll. The employee code is assigned
// from sequence_counters ("BRK001" onwards).
type Employee struct {
	ID           uint            `gorm:"column:id;primaryKey"`
	EmployeeCode string          `gorm:"column:employee_code;not null;uniqueIndex:uq_employees_code"`
	Name         string          `gorm:"column:name;not null"`
	Role         string          `gorm:"column:role;not null"`
	Phone        string          `gorm:"column:phone"`
	Address      string          `gorm:"column:address"`
	Salary       decimal.Decimal `gorm:"column:salary;type:numeric(12,2);not null"`
	// No app-side default: GORM would skip a false zero value on insert
	// and the column default would silently reactivate the row. The
	// schema default covers raw SQL inserts.
	IsActive     bool            `gorm:"column:is_active;not null"`
	JoinedDate   time.Time       `gorm:"column:joined_date;type:date;not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
