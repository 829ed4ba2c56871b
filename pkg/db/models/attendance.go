package models

import (
	"time"

	"github.com/Ani07-05/brickdash/pkg/enums"
)

// Attendance records at most one mark per employee per date.
type Attendance struct {
	ID         uint                   `gorm:"column:id;primaryKey"`
	EmployeeID uint                   `gorm:"column:employee_id;not null;uniqueIndex:uq_attendance_employee_date"`
	Employee   *Employee              `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE"`
	Date       time.Time              `gorm:"column:date;type:date;not null;uniqueIndex:uq_attendance_employee_date"`
	Status     enums.AttendanceStatus `gorm:"column:status;not null"`
	Shift      enums.Shift            `gorm:"column:shift;not null;default:Day"`
	Notes      string                 `gorm:"column:notes"`
	CreatedAt  time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
