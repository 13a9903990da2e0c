// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/classbridge/identity-api/internal/core"
	"github.com/classbridge/identity-api/internal/user"
)

type stubUserRepo struct {
	users map[string]*user.User

	createErr   error
	created     *user.User
	createdRole string
	createdBy   *string

	grantResult bool
	grantErr    error
	grantedRole string
	grantedBy   *string

	counts *user.Counts
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: map[string]*user.User{}}
}

func (s *stubUserRepo) add(u *user.User) {
	s.users[u.ID] = u
}

func (s *stubUserRepo) CreateWithRole(
	ctx context.Context,
	u *user.User,
	roleName string,
	assignedByID *string,
) error {
	if s.createErr != nil {
		return s.createErr
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	u.Grants = []user.Grant{{
		UserID:       u.ID,
		RoleName:     roleName,
		AssignedByID: assignedByID,
	}}
	if roleName == user.RoleStudent {
		u.StudentProfile = &user.StudentProfile{UserID: u.ID}
	}
	s.created = u
	s.createdRole = roleName
	s.createdBy = assignedByID
	s.users[u.ID] = u
	return nil
}

func (s *stubUserRepo) GrantRole(
	ctx context.Context,
	userID, roleName string,
	assignedByID *string,
) (bool, error) {
	if s.grantErr != nil {
		return false, s.grantErr
	}
	s.grantedRole = roleName
	s.grantedBy = assignedByID
	if u, ok := s.users[userID]; ok && s.grantResult {
		u.Grants = append(u.Grants, user.Grant{
			UserID:       userID,
			RoleName:     roleName,
			AssignedByID: assignedByID,
		})
	}
	return s.grantResult, nil
}

func (s *stubUserRepo) GetByID(
	ctx context.Context,
	id string,
) (*user.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, core.ErrNotFound
}

func (s *stubUserRepo) GetByEmail(
	ctx context.Context,
	email string,
) (*user.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, core.ErrNotFound
}

func (s *stubUserRepo) RolesForUser(
	ctx context.Context,
	userID string,
) ([]string, error) {
	u, ok := s.users[userID]
	if !ok {
		return nil, core.ErrNotFound
	}
	roles := make([]string, 0, len(u.Grants))
	for _, g := range u.Grants {
		roles = append(roles, g.RoleName)
	}
	return roles, nil
}

func (s *stubUserRepo) ListByRole(
	ctx context.Context,
	roleName string,
) ([]user.User, error) {
	var out []user.User
	for _, u := range s.users {
		if u.HasRole(roleName) {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (s *stubUserRepo) Counts(ctx context.Context) (*user.Counts, error) {
	if s.counts != nil {
		return s.counts, nil
	}
	return &user.Counts{}, nil
}

func newTestService(t *testing.T, repo user.Repository) *Service {
	t.Helper()

	hasher, err := core.NewHasher(core.MinBcryptCost)
	if err != nil {
		t.Fatalf("NewHasher: %v", err)
	}

	jwt, err := NewJWTManager(testJWTConfig())
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}

	return NewService(repo, hasher, jwt)
}

func TestSignupCreatesStudent(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo)

	resp, err := svc.Signup(context.Background(), SignupRequest{
		Email:     "Jane.Doe@Example.com",
		Password:  "Str0ng&Pass",
		FirstName: "Jane",
		LastName:  "Doe",
	})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	if repo.createdRole != user.RoleStudent {
		t.Errorf("created role = %q, want student", repo.createdRole)
	}
	if repo.createdBy == nil || *repo.createdBy != repo.created.ID {
		t.Errorf(
			"assigned_by = %v, want the user's own id %q",
			repo.createdBy,
			repo.created.ID,
		)
	}
	if repo.created.Email != "jane.doe@example.com" {
		t.Errorf("email not normalized: %q", repo.created.Email)
	}
	if repo.created.PasswordHash == "Str0ng&Pass" {
		t.Error("password stored in plaintext")
	}
	if resp.Token == "" {
		t.Error("expected a token in the response")
	}
	if len(resp.User.Roles) != 1 || resp.User.Roles[0] != "student" {
		t.Errorf("roles = %v, want [student]", resp.User.Roles)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	repo.createErr = core.ErrDuplicateKey
	svc := newTestService(t, repo)

	_, err := svc.Signup(context.Background(), SignupRequest{
		Email:     "jane@example.com",
		Password:  "Str0ng&Pass",
		FirstName: "Jane",
		LastName:  "Doe",
	})

	var appErr *core.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Code != "DUPLICATE" {
		t.Errorf("code = %q, want DUPLICATE", appErr.Code)
	}
	if appErr.Status != 409 {
		t.Errorf("status = %d, want 409", appErr.Status)
	}
}

func TestSignupRoleCatalogMissing(t *testing.T) {
	repo := newStubUserRepo()
	repo.createErr = core.ErrRoleCatalogMissing
	svc := newTestService(t, repo)

	_, err := svc.Signup(context.Background(), SignupRequest{
		Email:     "jane@example.com",
		Password:  "Str0ng&Pass",
		FirstName: "Jane",
		LastName:  "Doe",
	})

	var appErr *core.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Code != "ROLE_CATALOG_MISSING" {
		t.Errorf("code = %q, want ROLE_CATALOG_MISSING", appErr.Code)
	}
}

func TestLogin(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo)

	_, err := svc.Signup(context.Background(), SignupRequest{
		Email:     "jane@example.com",
		Password:  "Str0ng&Pass",
		FirstName: "Jane",
		LastName:  "Doe",
	})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "JANE@example.com",
		Password: "Str0ng&Pass",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a token")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo)

	_, err := svc.Signup(context.Background(), SignupRequest{
		Email:     "jane@example.com",
		Password:  "Str0ng&Pass",
		FirstName: "Jane",
		LastName:  "Doe",
	})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    "jane@example.com",
		Password: "wrong-password",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever123",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestGetCurrentUserMissing(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo)

	_, err := svc.GetCurrentUser(context.Background(), "ghost")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}
