package employee

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Ani07-05/brickdash/pkg/db"
	"github.com/Ani07-05/brickdash/pkg/db/models"
	pkgerrors "github.com/Ani07-05/brickdash/pkg/errors"
)

// Service exposes workforce roster management.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*EmployeeDTO, error)
	Update(ctx context.Context, id uint, input UpdateInput) (*EmployeeDTO, error)
	Delete(ctx context.Context, id uint) error
	Get(ctx context.Context, id uint) (*EmployeeDTO, error)
	GetByCode(ctx context.Context, code string) (*EmployeeDTO, error)
	List(ctx context.Context, activeOnly bool) ([]EmployeeDTO, error)
}

// CreateInput holds the validated payload to hire an employee.
type CreateInput struct {
	Name       string
	Role       string
	Phone      string
	Address    string
	Salary     decimal.Decimal
	JoinedDate time.Time
}

// UpdateInput holds optional mutation values for an employee.
type UpdateInput struct {
	Name     *string
	Role     *string
	Phone    *string
	Address  *string
	Salary   *decimal.Decimal
	IsActive *bool
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs an employee service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("employee repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

// Create hires an employee. The employee code comes from the shared
// sequence counter inside the insert transaction.
func (s *service) Create(ctx context.Context, input CreateInput) (*EmployeeDTO, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Role == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "role is required")
	}
	if input.Salary.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "salary cannot be negative")
	}
	if input.JoinedDate.IsZero() {
		input.JoinedDate = time.Now().Truncate(24 * time.Hour)
	}

	var emp *models.Employee
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		code, err := db.NextEmployeeCode(tx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: next employee code")
		}

		emp = &models.Employee{
			EmployeeCode: code,
			Name:         input.Name,
			Role:         input.Role,
			Phone:        input.Phone,
			Address:      input.Address,
			Salary:       input.Salary,
			IsActive:     true,
			JoinedDate:   input.JoinedDate,
		}
		if err := s.repo.WithTx(tx).Create(ctx, emp); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert employee")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toDTO(emp), nil
}

// Update patches the provided fields on an employee.
func (s *service) Update(ctx context.Context, id uint, input UpdateInput) (*EmployeeDTO, error) {
	emp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "employee not found")
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
		}
		emp.Name = *input.Name
	}
	if input.Role != nil {
		emp.Role = *input.Role
	}
	if input.Phone != nil {
		emp.Phone = *input.Phone
	}
	if input.Address != nil {
		emp.Address = *input.Address
	}
	if input.Salary != nil {
		if input.Salary.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "salary cannot be negative")
		}
		emp.Salary = *input.Salary
	}
	if input.IsActive != nil {
		emp.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, emp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update employee")
	}
	return toDTO(emp), nil
}

// Delete removes an employee along with their attendance and salary history.
func (s *service) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFoundOr(err, "employee not found")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete employee")
	}
	return nil
}

// Get loads one employee.
func (s *service) Get(ctx context.Context, id uint) (*EmployeeDTO, error) {
	emp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "employee not found")
	}
	return toDTO(emp), nil
}

// GetByCode loads one employee by the public code.
func (s *service) GetByCode(ctx context.Context, code string) (*EmployeeDTO, error) {
	emp, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, notFoundOr(err, "employee not found")
	}
	return toDTO(emp), nil
}

// List returns employees newest first.
func (s *service) List(ctx context.Context, activeOnly bool) ([]EmployeeDTO, error) {
	employees, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list employees")
	}
	result := make([]EmployeeDTO, 0, len(employees))
	for i := range employees {
		result = append(result, *toDTO(&employees[i]))
	}
	return result, nil
}

func notFoundOr(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, message)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load employee")
}
