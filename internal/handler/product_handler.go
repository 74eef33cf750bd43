package handler

import (
	"net/http"
	"strings"
	"time"

	"freshtrack/internal/expiry"
	"freshtrack/internal/middleware"
	"freshtrack/internal/model"
	"freshtrack/internal/query"
	"freshtrack/internal/service"

	"github.com/rs/zerolog"
)

// ProductHandler handles product HTTP requests.
type ProductHandler struct {
	products service.ProductService
	stats    service.StatsService
	logger   zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(products service.ProductService, stats service.StatsService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		products: products,
		stats:    stats,
		logger:   logger.With().Str("handler", "product").Logger(),
	}
}

// List handles GET /api/products.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "missing bearer token")
		return
	}

	filters, targetUserID, err := parseListQuery(r)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	page, err := h.products.List(r.Context(), claims.UserID, claims.Role, targetUserID, filters)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Get handles GET /api/products/{id}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "missing bearer token")
		return
	}
	id, err := pathID(r.URL.Path, "/api/products/")
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	view, err := h.products.Get(r.Context(), claims.UserID, claims.Role, id)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Create handles POST /api/products.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "missing bearer token")
		return
	}

	var input model.ProductInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, err, h.logger)
		return
	}

	view, err := h.products.Create(r.Context(), claims.UserID, input)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// Update handles PUT /api/products/{id}.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "missing bearer token")
		return
	}
	id, err := pathID(r.URL.Path, "/api/products/")
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	var input model.ProductInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, err, h.logger)
		return
	}

	view, err := h.products.Update(r.Context(), claims.UserID, claims.Role, id, input)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Delete handles DELETE /api/products/{id}.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "missing bearer token")
		return
	}
	id, err := pathID(r.URL.Path, "/api/products/")
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	if err := h.products.Delete(r.Context(), claims.UserID, claims.Role, id); err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

type batchDeleteRequest struct {
	IDs []int64 `json:"ids"`
}

// BatchDelete handles POST /api/products/batch/delete.
func (h *ProductHandler) BatchDelete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "missing bearer token")
		return
	}

	var req batchDeleteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	count, err := h.products.DeleteMany(r.Context(), claims.UserID, claims.Role, req.IDs)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deletedCount": count})
}

// Stats handles GET /api/products/stats.
func (h *ProductHandler) Stats(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "missing bearer token")
		return
	}

	targetUserID, err := queryInt64Ptr(r, "userId")
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	stats, err := h.stats.Statistics(r.Context(), claims.UserID, claims.Role, targetUserID)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// parseListQuery extracts product list filters from the query string.
func parseListQuery(r *http.Request) (query.Filters, *int64, error) {
	var f query.Filters
	q := r.URL.Query()

	var err error
	if f.Page, err = queryInt(r, "page"); err != nil {
		return f, nil, err
	}
	if f.PageSize, err = queryInt(r, "pageSize"); err != nil {
		return f, nil, err
	}
	f.Name = strings.TrimSpace(q.Get("name"))

	if raw := q.Get("status"); raw != "" {
		statuses, err := expiry.ParseStatusSet(raw)
		if err != nil {
			return f, nil, model.NewValidation(model.ErrCodeValidation, "invalid status parameter")
		}
		f.Statuses = statuses
	}

	if raw := q.Get("startDate"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return f, nil, model.NewValidation(model.ErrCodeValidation, "invalid startDate parameter")
		}
		f.StartDate = &t
	}
	if raw := q.Get("endDate"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return f, nil, model.NewValidation(model.ErrCodeValidation, "invalid endDate parameter")
		}
		f.EndDate = &t
	}

	targetUserID, err := queryInt64Ptr(r, "userId")
	if err != nil {
		return f, nil, err
	}
	return f, targetUserID, nil
}
