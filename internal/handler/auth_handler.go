package handler

import (
	"net/http"

	"freshtrack/internal/audit"
	"freshtrack/internal/middleware"
	"freshtrack/internal/model"
	"freshtrack/internal/service"

	"github.com/rs/zerolog"
)

// AuthHandler handles authentication HTTP requests.
type AuthHandler struct {
	service  service.AuthService
	recorder *audit.Recorder
	logger   zerolog.Logger
}

// NewAuthHandler creates a new auth handler. Login and register are recorded
// on the audit trail here rather than in middleware: at request time those
// calls carry no claims yet.
func NewAuthHandler(service service.AuthService, recorder *audit.Recorder, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service:  service,
		recorder: recorder,
		logger:   logger.With().Str("handler", "auth").Logger(),
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	user, token, err := h.service.Register(r.Context(), req.Username, req.Phone, req.Password)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	h.record(r, user.ID, "REGISTER")
	writeJSON(w, http.StatusCreated, sessionResponse{Token: token, User: user})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	user, token, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	h.record(r, user.ID, "LOGIN")
	writeJSON(w, http.StatusOK, sessionResponse{Token: token, User: user})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "missing bearer token")
		return
	}

	if err := h.service.Logout(r.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// ChangePassword handles PUT /api/auth/change-password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "missing bearer token")
		return
	}

	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	if err := h.service.ChangePassword(r.Context(), claims.UserID, req.OldPassword, req.NewPassword); err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "password changed"})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "missing bearer token")
		return
	}

	user, err := h.service.CurrentUser(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) record(r *http.Request, userID int64, action string) {
	h.recorder.Record(&model.LogEntry{
		UserID:    userID,
		Action:    action,
		Details:   audit.BuildDetails(r.Method, r.URL.Path, nil),
		IPAddress: audit.ClientIP(r),
		UserAgent: r.UserAgent(),
	})
}
