package handler

import (
	"net/http"
	"time"

	"freshtrack/internal/middleware"
	"freshtrack/internal/model"
	"freshtrack/internal/service"

	"github.com/rs/zerolog"
)

// LogHandler handles audit log HTTP requests.
type LogHandler struct {
	service service.LogService
	logger  zerolog.Logger
}

// NewLogHandler creates a new log handler.
func NewLogHandler(service service.LogService, logger zerolog.Logger) *LogHandler {
	return &LogHandler{
		service: service,
		logger:  logger.With().Str("handler", "log").Logger(),
	}
}

// List handles GET /api/logs.
func (h *LogHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "missing bearer token")
		return
	}

	q := r.URL.Query()
	filters := service.LogListFilters{
		Action: q.Get("action"),
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
	if filters.TargetUserID, err = queryInt64Ptr(r, "userId"); err != nil {
		writeError(w, err, h.logger)
		return
	}
	if raw := q.Get("startDate"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, model.ErrCodeValidation, "invalid startDate parameter")
			return
		}
		filters.StartDate = &t
	}
	if raw := q.Get("endDate"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, model.ErrCodeValidation, "invalid endDate parameter")
			return
		}
		// Inclusive through the end of the named day.
		end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		filters.EndDate = &end
	}

	page, err := h.service.List(r.Context(), claims.UserID, claims.Role, filters)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Actions handles GET /api/logs/actions.
func (h *LogHandler) Actions(w http.ResponseWriter, r *http.Request) {
	actions, err := h.service.Actions(r.Context())
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"actions": actions})
}

// Purge handles DELETE /api/logs. The before parameter is required so a bare
// DELETE can never wipe the whole log. SUPER_ADMIN only, gated by the router.
func (h *LogHandler) Purge(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("before")
	if raw == "" {
		writeMessage(w, http.StatusBadRequest, model.ErrCodeMissingField, "before parameter is required")
		return
	}
	before, err := time.Parse("2006-01-02", raw)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, model.ErrCodeValidation, "invalid before parameter")
		return
	}

	count, err := h.service.Purge(r.Context(), before)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"purgedCount": count})
}
