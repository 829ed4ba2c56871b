package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Ani07-05/brickdash/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID     uuid.UUID
	Username   string
	Role       enums.UserRole
	EmployeeID *uint
	JTI        string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID     uuid.UUID      `json:"user_id"`
	Username   string         `json:"username"`
	Role       enums.UserRole `json:"role"`
	EmployeeID *uint          `json:"employee_id,omitempty"`
	jwt.RegisteredClaims
}
