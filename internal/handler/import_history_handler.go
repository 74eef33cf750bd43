package handler

import (
	"net/http"

	"freshtrack/internal/middleware"
	"freshtrack/internal/model"
	"freshtrack/internal/service"

	"github.com/rs/zerolog"
)

// ImportHistoryHandler handles import history HTTP requests.
type ImportHistoryHandler struct {
	service service.ImportHistoryService
	logger  zerolog.Logger
}

// NewImportHistoryHandler creates a new import history handler.
func NewImportHistoryHandler(service service.ImportHistoryService, logger zerolog.Logger) *ImportHistoryHandler {
	return &ImportHistoryHandler{
		service: service,
		logger:  logger.With().Str("handler", "import-history").Logger(),
	}
}

// List handles GET /api/import-history.
func (h *ImportHistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "missing bearer token")
		return
	}

	page, err := queryInt(r, "page")
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	pageSize, err := queryInt(r, "pageSize")
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	result, err := h.service.List(r.Context(), claims.UserID, page, pageSize)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Delete handles DELETE /api/import-history/{id}.
func (h *ImportHistoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "missing bearer token")
		return
	}
	id, err := pathID(r.URL.Path, "/api/import-history/")
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), id, claims.UserID); err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "import record deleted"})
}
