package attendance

import (
	"time"

	"github.com/Ani07-05/brickdash/pkg/db/models"
	"github.com/Ani07-05/brickdash/pkg/enums"
)

// MarkDTO is the API projection of one attendance mark.
type MarkDTO struct {
	ID           uint                   `json:"id"`
	EmployeeID   uint                   `json:"employee_id"`
	EmployeeName string                 `json:"employee_name,omitempty"`
	Date         time.Time              `json:"date"`
	Status       enums.AttendanceStatus `json:"status"`
	Shift        enums.Shift            `json:"shift"`
	Notes        string                 `json:"notes,omitempty"`
}

// RegistryRow pairs an active employee with their mark for the selected
// date, if any.
type RegistryRow struct {
	EmployeeID   uint     `json:"employee_id"`
	EmployeeCode string   `json:"employee_code"`
	EmployeeName string   `json:"employee_name"`
	Mark         *MarkDTO `json:"mark,omitempty"`
}

func toDTO(m *models.Attendance) *MarkDTO {
	dto := &MarkDTO{
		ID:         m.ID,
		EmployeeID: m.EmployeeID,
		Date:       m.Date,
		Status:     m.Status,
		Shift:      m.Shift,
		Notes:      m.Notes,
	}
	if m.Employee != nil {
		dto.EmployeeName = m.Employee.Name
	}
	return dto
}
