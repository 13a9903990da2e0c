// AngelaMos | 2026
// service.go

package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/classbridge/identity-api/internal/core"
	"github.com/classbridge/identity-api/internal/user"
)

type Service struct {
	users  user.Repository
	hasher *core.Hasher
}

func NewService(users user.Repository, hasher *core.Hasher) *Service {
	return &Service{users: users, hasher: hasher}
}

// CreateStudent provisions a student account on behalf of an admin.
// When no password is supplied a temporary one is generated and
// returned in the message. It is shown exactly once: only the hash is
// stored.
func (s *Service) CreateStudent(
	ctx context.Context,
	adminID string,
	req CreateStudentRequest,
) (*CreateStudentResponse, error) {
	password := req.Password
	generated := false

	if password == "" {
		var err error
		password, err = core.GenerateTempPassword()
		if err != nil {
			return nil, fmt.Errorf("generate temporary password: %w", err)
		}
		generated = true
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &user.User{
		ID:           uuid.NewString(),
		Email:        normalizeEmail(req.Email),
		PasswordHash: passwordHash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	}

	err = s.users.CreateWithRole(ctx, u, user.RoleStudent, &adminID)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.DuplicateError("email")
		}
		if errors.Is(err, core.ErrRoleCatalogMissing) {
			return nil, core.RoleCatalogError(user.RoleStudent)
		}
		return nil, fmt.Errorf("create student: %w", err)
	}

	message := "Student account created"
	if generated {
		message = fmt.Sprintf(
			"Student account created. Temporary password: %s",
			password,
		)
	}

	return &CreateStudentResponse{
		User:    user.ToUserResponse(u),
		Message: message,
	}, nil
}

// Promote grants an additional role to the user with the given email.
// Promoting a user who already holds the role is a no-op success.
func (s *Service) Promote(
	ctx context.Context,
	adminID, email, roleName string,
) (*PromoteResponse, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("user")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	granted, err := s.users.GrantRole(ctx, u.ID, roleName, &adminID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("user")
		}
		if errors.Is(err, core.ErrRoleCatalogMissing) {
			return nil, core.RoleCatalogError(roleName)
		}
		return nil, fmt.Errorf("grant %s role: %w", roleName, err)
	}

	// Re-read so the response reflects the new grant and profile.
	u, err = s.users.GetByID(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("reload user: %w", err)
	}

	message := fmt.Sprintf("User promoted to %s", roleName)
	if !granted {
		message = fmt.Sprintf("User already has the %s role", roleName)
	}

	return &PromoteResponse{
		Message: message,
		User:    user.ToUserResponse(u),
	}, nil
}

func (s *Service) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	counts, err := s.users.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dashboard counts: %w", err)
	}

	return &DashboardResponse{
		TotalUsers:    counts.TotalUsers,
		StudentsCount: counts.Students,
		TeachersCount: counts.Teachers,
		AdminsCount:   counts.Admins,
		// Course management is not part of this service yet.
		CoursesCount: 0,
	}, nil
}

func (s *Service) ListByRole(
	ctx context.Context,
	roleName string,
) (*UserListResponse, error) {
	users, err := s.users.ListByRole(ctx, roleName)
	if err != nil {
		return nil, fmt.Errorf("list %s users: %w", roleName, err)
	}

	return &UserListResponse{
		Users: user.ToUserResponseList(users),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
