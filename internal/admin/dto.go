// AngelaMos | 2026
// dto.go

package admin

import (
	"github.com/classbridge/identity-api/internal/user"
)

type CreateStudentRequest struct {
	Email     string `json:"email"      validate:"required,email,max=255"`
	Password  string `json:"password"   validate:"omitempty,min=8,max=128,password"`
	FirstName string `json:"first_name" validate:"required,alpha,min=2,max=50"`
	LastName  string `json:"last_name"  validate:"required,alpha,min=2,max=50"`
}

type PromoteRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

type CreateStudentResponse struct {
	User    user.UserResponse `json:"user"`
	Message string            `json:"message"`
}

type PromoteResponse struct {
	Message string            `json:"message"`
	User    user.UserResponse `json:"user"`
}

type DashboardResponse struct {
	TotalUsers    int `json:"total_users"`
	StudentsCount int `json:"students_count"`
	TeachersCount int `json:"teachers_count"`
	AdminsCount   int `json:"admins_count"`
	CoursesCount  int `json:"courses_count"`
}

type UserListResponse struct {
	Users []user.UserResponse `json:"users"`
}
