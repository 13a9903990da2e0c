// AngelaMos | 2026
// handler_test.go

package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/classbridge/identity-api/internal/middleware"
	"github.com/classbridge/identity-api/internal/user"
)

func identityAs(userID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(
				r.Context(),
				middleware.UserIDKey,
				userID,
			)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func adminUser(id, email string) *user.User {
	return &user.User{
		ID:        id,
		Email:     email,
		FirstName: "Ada",
		LastName:  "Admin",
		Grants: []user.Grant{{
			UserID:   id,
			RoleName: user.RoleAdmin,
		}},
	}
}

func newTestRouter(
	t *testing.T,
	repo *stubUserRepo,
	actingUserID string,
) *chi.Mux {
	t.Helper()

	handler := NewHandler(newTestService(t, repo))

	r := chi.NewRouter()
	handler.RegisterRoutes(
		r,
		identityAs(actingUserID),
		middleware.RequireAdmin(repo),
	)
	return r
}

func doJSON(
	t *testing.T,
	router http.Handler,
	method, path string,
	body any,
) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestDashboardEndpoint(t *testing.T) {
	repo := newStubUserRepo()
	repo.add(adminUser("admin-1", "admin@example.com"))
	repo.counts = &user.Counts{TotalUsers: 3, Students: 1, Admins: 1}
	router := newTestRouter(t, repo, "admin-1")

	rec := doJSON(t, router, http.MethodGet, "/admin/dashboard", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp DashboardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.TotalUsers != 3 {
		t.Errorf("total_users = %d, want 3", resp.TotalUsers)
	}
}

func TestAdminRoutesForbiddenForStudent(t *testing.T) {
	repo := newStubUserRepo()
	repo.add(studentUser("user-1", "jane@example.com"))
	router := newTestRouter(t, repo, "user-1")

	rec := doJSON(t, router, http.MethodGet, "/admin/dashboard", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateStudentEndpoint(t *testing.T) {
	repo := newStubUserRepo()
	repo.add(adminUser("admin-1", "admin@example.com"))
	router := newTestRouter(t, repo, "admin-1")

	rec := doJSON(t, router, http.MethodPost, "/admin/create-student",
		CreateStudentRequest{
			Email:     "new@example.com",
			FirstName: "New",
			LastName:  "Student",
		})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var resp CreateStudentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.User.Email != "new@example.com" {
		t.Errorf("email = %q", resp.User.Email)
	}
	if resp.Message == "" {
		t.Error("expected a message")
	}
}

func TestCreateTeacherEndpoint(t *testing.T) {
	repo := newStubUserRepo()
	repo.add(adminUser("admin-1", "admin@example.com"))
	repo.add(studentUser("user-1", "jane@example.com"))
	router := newTestRouter(t, repo, "admin-1")

	rec := doJSON(t, router, http.MethodPost, "/admin/create-teacher",
		PromoteRequest{Email: "jane@example.com"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateAdminUnknownEmail(t *testing.T) {
	repo := newStubUserRepo()
	repo.add(adminUser("admin-1", "admin@example.com"))
	router := newTestRouter(t, repo, "admin-1")

	rec := doJSON(t, router, http.MethodPost, "/admin/create-admin",
		PromoteRequest{Email: "nobody@example.com"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404: %s", rec.Code, rec.Body.String())
	}
}

func TestListStudentsEndpoint(t *testing.T) {
	repo := newStubUserRepo()
	repo.add(adminUser("admin-1", "admin@example.com"))
	repo.add(studentUser("user-1", "jane@example.com"))
	router := newTestRouter(t, repo, "admin-1")

	rec := doJSON(t, router, http.MethodGet, "/admin/students", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp UserListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Users) != 1 {
		t.Errorf("len(users) = %d, want 1", len(resp.Users))
	}
}
