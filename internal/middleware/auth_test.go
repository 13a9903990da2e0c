// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/classbridge/identity-api/internal/core"
)

type stubVerifier struct {
	claims *TokenClaims
	err    error
}

func (s *stubVerifier) VerifyToken(
	ctx context.Context,
	token string,
) (*TokenClaims, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.claims, nil
}

type stubResolver struct {
	roles map[string][]string
	err   error
}

func (s *stubResolver) RolesForUser(
	ctx context.Context,
	userID string,
) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	roles, ok := s.roles[userID]
	if !ok {
		return nil, core.ErrNotFound
	}
	return roles, nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticatorMissingToken(t *testing.T) {
	verifier := &stubVerifier{claims: &TokenClaims{UserID: "user-1"}}
	handler := Authenticator(verifier)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticatorMalformedHeader(t *testing.T) {
	verifier := &stubVerifier{claims: &TokenClaims{UserID: "user-1"}}
	handler := Authenticator(verifier)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticatorExpiredToken(t *testing.T) {
	verifier := &stubVerifier{err: core.ErrTokenExpired}
	handler := Authenticator(verifier)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer expired")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticatorSetsContext(t *testing.T) {
	verifier := &stubVerifier{claims: &TokenClaims{
		UserID: "user-1",
		Email:  "jane@example.com",
	}}

	var gotID string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	handler := Authenticator(verifier)(inner)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer valid")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotID != "user-1" {
		t.Errorf("user id in context = %q, want user-1", gotID)
	}
}

func requestAs(userID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), UserIDKey, userID)
	return req.WithContext(ctx)
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	resolver := &stubResolver{roles: map[string][]string{
		"admin-1": {"admin", "teacher"},
	}}
	handler := RequireAdmin(resolver)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs("admin-1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestRequireAdminForbidsNonAdmin(t *testing.T) {
	resolver := &stubResolver{roles: map[string][]string{
		"user-1": {"student"},
	}}
	handler := RequireAdmin(resolver)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs("user-1"))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestRequireAdminWithoutIdentity(t *testing.T) {
	resolver := &stubResolver{}
	handler := RequireAdmin(resolver)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

// An empty grant list with a nil error means the subject exists but
// holds no roles; only a missing subject maps to 401. The resolver
// contract distinguishes the two via ErrNotFound.
func TestRequireAdminEmptyGrantsStillForbidden(t *testing.T) {
	resolver := &stubResolver{roles: map[string][]string{
		"user-1": {},
	}}
	handler := RequireAdmin(resolver)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs("user-1"))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestRequireAdminDeletedSubject(t *testing.T) {
	resolver := &stubResolver{roles: map[string][]string{}}
	handler := RequireAdmin(resolver)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs("ghost"))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

// Admin rights are read from the store per request, so a grant revoked
// after token issuance must lock the holder out immediately.
func TestRequireAdminReflectsRevocation(t *testing.T) {
	resolver := &stubResolver{roles: map[string][]string{
		"admin-1": {"admin"},
	}}
	handler := RequireAdmin(resolver)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs("admin-1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("pre-revocation status = %d, want 200", rec.Code)
	}

	resolver.roles["admin-1"] = []string{"student"}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs("admin-1"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("post-revocation status = %d, want 403", rec.Code)
	}
}

func TestExtractToken(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   string
	}{
		{"bearer token", "Bearer abc123", "abc123"},
		{"lowercase scheme", "bearer abc123", "abc123"},
		{"missing header", "", ""},
		{"wrong scheme", "Basic abc123", ""},
		{"scheme only", "Bearer", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if got := ExtractToken(req); got != tc.want {
				t.Errorf("ExtractToken = %q, want %q", got, tc.want)
			}
		})
	}
}
