// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/classbridge/identity-api/internal/core"
	"github.com/classbridge/identity-api/internal/user"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	users  user.Repository
	hasher *core.Hasher
	jwt    *JWTManager
}

func NewService(
	users user.Repository,
	hasher *core.Hasher,
	jwt *JWTManager,
) *Service {
	return &Service{users: users, hasher: hasher, jwt: jwt}
}

// Signup registers a new account with the student role. The user row,
// role grant and student profile are created atomically.
func (s *Service) Signup(
	ctx context.Context,
	req SignupRequest,
) (*AuthResponse, error) {
	passwordHash, err := s.hasher.Hash(req.Password)
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

	// The student grant is recorded as self-assigned.
	err = s.users.CreateWithRole(ctx, u, user.RoleStudent, &u.ID)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.DuplicateError("email")
		}
		if errors.Is(err, core.ErrRoleCatalogMissing) {
			return nil, core.RoleCatalogError(user.RoleStudent)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.issueToken(u)
}

// Login verifies credentials and issues a fresh token. Unknown email
// and wrong password produce the same error after the same amount of
// hashing work.
func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*AuthResponse, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			s.hasher.VerifyTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !s.hasher.VerifyTimingSafe(req.Password, &u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(u)
}

// GetCurrentUser resolves the authenticated user's current record. A
// token whose subject no longer exists is treated as bad credentials
// rather than a missing resource.
func (s *Service) GetCurrentUser(
	ctx context.Context,
	userID string,
) (*user.UserResponse, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	resp := user.ToUserResponse(u)
	return &resp, nil
}

func (s *Service) issueToken(u *user.User) (*AuthResponse, error) {
	token, err := s.jwt.CreateToken(TokenClaims{
		UserID:    u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	})
	if err != nil {
		return nil, fmt.Errorf("create token: %w", err)
	}

	return &AuthResponse{
		User:  user.ToUserResponse(u),
		Token: token,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
