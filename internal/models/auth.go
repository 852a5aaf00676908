package models

import "github.com/golang-jwt/jwt/v5"

// UserRole represents the available roles for route protection.
type UserRole string

const (
	RoleAdmin        UserRole = "ADMIN"
	RoleStaff        UserRole = "STAFF"
	RolePractitioner UserRole = "PRACTITIONER"
)

// JWTClaims represents the JWT payload for access tokens. Tokens are issued
// by the identity service; this API only validates them.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	jwt.RegisteredClaims
}
