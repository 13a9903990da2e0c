// AngelaMos | 2026
// entity.go

package user

import (
	"time"
)

type User struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`

	Grants         []Grant         `db:"-"`
	StudentProfile *StudentProfile `db:"-"`
	TeacherProfile *TeacherProfile `db:"-"`
	AdminProfile   *AdminProfile   `db:"-"`
}

func (u *User) HasRole(name string) bool {
	for _, g := range u.Grants {
		if g.RoleName == name {
			return true
		}
	}
	return false
}

func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}

type Role struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

// Grant is a role assignment joined with its role name. AssignedByID
// records which identity performed the assignment: an admin for
// provisioning and promotion, the user's own id for self-service
// signups.
type Grant struct {
	ID           string    `db:"id"`
	UserID       string    `db:"user_id"`
	RoleID       string    `db:"role_id"`
	RoleName     string    `db:"role_name"`
	AssignedByID *string   `db:"assigned_by_id"`
	AssignedAt   time.Time `db:"assigned_at"`
}

type StudentProfile struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Bio       string    `db:"bio"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type TeacherProfile struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Bio       string    `db:"bio"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type AdminProfile struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

const (
	TeacherStatusApproved = "approved"
	TeacherStatusPending  = "pending"
)
