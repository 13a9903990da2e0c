// AngelaMos | 2026
// dto.go

package user

import (
	"time"
)

type UserResponse struct {
	ID             string           `json:"id"`
	Email          string           `json:"email"`
	FirstName      string           `json:"first_name"`
	LastName       string           `json:"last_name"`
	Roles          []string         `json:"roles"`
	StudentProfile *StudentResponse `json:"student_profile,omitempty"`
	TeacherProfile *TeacherResponse `json:"teacher_profile,omitempty"`
	AdminProfile   *AdminResponse   `json:"admin_profile,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

type StudentResponse struct {
	ID  string `json:"id"`
	Bio string `json:"bio"`
}

type TeacherResponse struct {
	ID     string `json:"id"`
	Bio    string `json:"bio"`
	Status string `json:"status"`
}

type AdminResponse struct {
	ID string `json:"id"`
}

func ToUserResponse(u *User) UserResponse {
	resp := UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Roles:     make([]string, 0, len(u.Grants)),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}

	for _, g := range u.Grants {
		resp.Roles = append(resp.Roles, g.RoleName)
	}

	if u.StudentProfile != nil {
		resp.StudentProfile = &StudentResponse{
			ID:  u.StudentProfile.ID,
			Bio: u.StudentProfile.Bio,
		}
	}
	if u.TeacherProfile != nil {
		resp.TeacherProfile = &TeacherResponse{
			ID:     u.TeacherProfile.ID,
			Bio:    u.TeacherProfile.Bio,
			Status: u.TeacherProfile.Status,
		}
	}
	if u.AdminProfile != nil {
		resp.AdminProfile = &AdminResponse{ID: u.AdminProfile.ID}
	}

	return resp
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToUserResponse(&users[i]))
	}
	return responses
}
