package employee

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Ani07-05/brickdash/pkg/db/models"
)

// EmployeeDTO is the API projection of an employee.
type EmployeeDTO struct {
	ID           uint            `json:"id"`
	EmployeeCode string          `json:"employee_code"`
	Name         string          `json:"name"`
	Role         string          `json:"role"`
	Phone        string          `json:"phone,omitempty"`
	Address      string          `json:"address,omitempty"`
	Salary       decimal.Decimal `json:"salary"`
	IsActive     bool            `json:"is_active"`
	JoinedDate   time.Time       `json:"joined_date"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func toDTO(e *models.Employee) *EmployeeDTO {
	return &EmployeeDTO{
		ID:           e.ID,
		EmployeeCode: e.EmployeeCode,
		Name:         e.Name,
		Role:         e.Role,
		Phone:        e.Phone,
		Address:      e.Address,
		Salary:       e.Salary,
		IsActive:     e.IsActive,
		JoinedDate:   e.JoinedDate,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}
