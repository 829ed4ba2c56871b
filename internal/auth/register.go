package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Ani07-05/brickdash/internal/employees"
	"github.com/Ani07-05/brickdash/internal/users"
	"github.com/Ani07-05/brickdash/pkg/config"
	"github.com/Ani07-05/brickdash/pkg/db"
	"github.com/Ani07-05/brickdash/pkg/db/models"
	pkgerrors "github.com/Ani07-05/brickdash/pkg/errors"
	"github.com/Ani07-05/brickdash/pkg/security"
)

// RegisterService handles the onboarding transaction: one employee row
// plus one login account, created atomically.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	DB             *db.Client
	PasswordConfig config.PasswordConfig
}

type registerService struct {
	db          *db.Client
	passwordCfg config.PasswordConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &registerService{
		db:          params.DB,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	if !req.Role.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}
	if req.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if minLen := s.passwordCfg.MinLength; len(req.Password) < minLen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password too short")
	}
	if req.Salary.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "salary cannot be negative")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	joined := time.Now().UTC().Truncate(24 * time.Hour)
	if req.JoinedDate != nil {
		joined = *req.JoinedDate
	}

	var response *RegisterResponse
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)
		employeeRepo := employee.NewRepository(tx)

		if _, err := userRepo.FindByUsername(ctx, username); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "username already registered")
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check username")
		}

		code, err := db.NextEmployeeCode(tx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "next employee code")
		}
		emp := &models.Employee{
			EmployeeCode: code,
			Name:         req.Name,
			Role:         req.EmployeeRole,
			Phone:        req.Phone,
			Address:      req.Address,
			Salary:       req.Salary,
			IsActive:     true,
			JoinedDate:   joined,
		}
		if err := employeeRepo.Create(ctx, emp); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create employee")
		}

		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			Username:     username,
			PasswordHash: passwordHash,
			Role:         req.Role,
			EmployeeID:   &emp.ID,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		response = &RegisterResponse{
			User:         users.FromModel(user),
			EmployeeCode: emp.EmployeeCode,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}
