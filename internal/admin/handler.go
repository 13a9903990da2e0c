// AngelaMos | 2026
// handler.go

package admin

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/classbridge/identity-api/internal/core"
	"github.com/classbridge/identity-api/internal/middleware"
	"github.com/classbridge/identity-api/internal/user"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/dashboard", h.Dashboard)
		r.Get("/students", h.ListStudents)
		r.Get("/teachers", h.ListTeachers)
		r.Get("/admins", h.ListAdmins)

		r.Post("/create-student", h.CreateStudent)
		r.Post("/create-teacher", h.CreateTeacher)
		r.Post("/create-admin", h.CreateAdmin)
	})
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Dashboard(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) ListStudents(w http.ResponseWriter, r *http.Request) {
	h.listByRole(w, r, user.RoleStudent)
}

func (h *Handler) ListTeachers(w http.ResponseWriter, r *http.Request) {
	h.listByRole(w, r, user.RoleTeacher)
}

func (h *Handler) ListAdmins(w http.ResponseWriter, r *http.Request) {
	h.listByRole(w, r, user.RoleAdmin)
}

func (h *Handler) listByRole(
	w http.ResponseWriter,
	r *http.Request,
	roleName string,
) {
	resp, err := h.service.ListByRole(r.Context(), roleName)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var req CreateStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	adminID := middleware.GetUserID(r.Context())

	resp, err := h.service.CreateStudent(r.Context(), adminID, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, resp)
}

func (h *Handler) CreateTeacher(w http.ResponseWriter, r *http.Request) {
	h.promote(w, r, user.RoleTeacher)
}

func (h *Handler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	h.promote(w, r, user.RoleAdmin)
}

func (h *Handler) promote(
	w http.ResponseWriter,
	r *http.Request,
	roleName string,
) {
	var req PromoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	adminID := middleware.GetUserID(r.Context())

	resp, err := h.service.Promote(r.Context(), adminID, req.Email, roleName)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, resp)
}
