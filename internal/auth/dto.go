// AngelaMos | 2026
// dto.go

package auth

import (
	"github.com/classbridge/identity-api/internal/user"
)

type SignupRequest struct {
	Email     string `json:"email"      validate:"required,email,max=255"`
	Password  string `json:"password"   validate:"required,min=8,max=128,password"`
	FirstName string `json:"first_name" validate:"required,alpha,min=2,max=50"`
	LastName  string `json:"last_name"  validate:"required,alpha,min=2,max=50"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	User  user.UserResponse `json:"user"`
	Token string            `json:"token"`
}

type MeResponse struct {
	User user.UserResponse `json:"user"`
}
