package models

import "github.com/golang-jwt/jwt/v5"

// UserRole distinguishes learners from platform staff.
type UserRole string

// Possible roles.
const (
	RoleLearner UserRole = "LEARNER"
	RoleStaff   UserRole = "STAFF"
)

// JWTClaims represents the payload of platform-issued access tokens. This
// service only validates tokens; it never issues them.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	jwt.RegisteredClaims
}
