package auth

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Ani07-05/brickdash/internal/users"
	"github.com/Ani07-05/brickdash/pkg/enums"
)

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse contains the token pair and user produced by a successful login.
type LoginResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         *users.UserDTO `json:"user"`
}

// RefreshRequest carries the expiring access token and its refresh token.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshResponse contains the rotated token pair.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RegisterRequest contains the payload for onboarding a new staff account.
type RegisterRequest struct {
	Username     string          `json:"username" validate:"required,min=3"`
	Password     string          `json:"password" validate:"required"`
	Role         enums.UserRole  `json:"role" validate:"required"`
	Name         string          `json:"name" validate:"required"`
	EmployeeRole string          `json:"employee_role" validate:"required"`
	Phone        string          `json:"phone,omitempty"`
	Address      string          `json:"address,omitempty"`
	Salary       decimal.Decimal `json:"salary"`
	JoinedDate   *time.Time      `json:"joined_date,omitempty"`
}

// RegisterResponse returns the created account and employee code.
type RegisterResponse struct {
	User         *users.UserDTO `json:"user"`
	EmployeeCode string         `json:"employee_code"`
}
