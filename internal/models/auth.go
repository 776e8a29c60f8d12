package models

import "github.com/golang-jwt/jwt/v5"

// UserRole distinguishes panel operators from administrators.
type UserRole string

const (
	RoleAdmin    UserRole = "ADMIN"
	RoleOperator UserRole = "OPERATOR"
)

// JWTClaims is the bearer token payload. Tokens are minted by the identity
// provider in front of the panel; this service only verifies them.
type JWTClaims struct {
	UserID int64    `json:"user_id"`
	Role   UserRole `json:"role"`
	Name   string   `json:"name,omitempty"`
	jwt.RegisteredClaims
}
