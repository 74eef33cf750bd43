package handler

import (
	"net/http"
	"strings"

	"freshtrack/internal/model"
	"freshtrack/internal/service"

	"github.com/rs/zerolog"
)

// UserHandler handles user management HTTP requests. All routes are gated to
// SUPER_ADMIN by the router.
type UserHandler struct {
	service service.UserService
	logger  zerolog.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(service service.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger.With().Str("handler", "user").Logger(),
	}
}

// List handles GET /api/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := service.UserListFilters{
		Search: strings.TrimSpace(q.Get("search")),
	}

	var err error
	if filters.Page, err = queryInt(r, "page"); err != nil {
		writeError(w, err, h.logger)
		return
	}
	if filters.PageSize, err = queryInt(r, "pageSize"); err != nil {
		writeError(w, err, h.logger)
		return
	}
	if raw := q.Get("role"); raw != "" {
		role := model.Role(raw)
		if !role.Valid() {
			writeMessage(w, http.StatusBadRequest, model.ErrCodeValidation, "invalid role parameter")
			return
		}
		filters.Role = &role
	}
	if raw := q.Get("isActive"); raw != "" {
		active := raw == "true"
		if raw != "true" && raw != "false" {
			writeMessage(w, http.StatusBadRequest, model.ErrCodeValidation, "invalid isActive parameter")
			return
		}
		filters.IsActive = &active
	}

	page, err := h.service.List(r.Context(), filters)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Get handles GET /api/users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r.URL.Path, "/api/users/")
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Update handles PUT /api/users/{id}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r.URL.Path, "/api/users/")
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	var upd service.UserUpdate
	if err := decodeJSON(r, &upd); err != nil {
		writeError(w, err, h.logger)
		return
	}

	user, err := h.service.Update(r.Context(), id, upd)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type resetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

// ResetPassword handles PUT /api/users/{id}/password.
func (h *UserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(strings.TrimSuffix(r.URL.Path, "/password"), "/api/users/")
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	if err := h.service.ResetPassword(r.Context(), id, req.NewPassword); err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "password reset"})
}

// Delete handles DELETE /api/users/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r.URL.Path, "/api/users/")
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}

// Stats handles GET /api/users/stats.
func (h *UserHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
