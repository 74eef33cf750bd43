package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"freshtrack/internal/model"

	"github.com/rs/zerolog"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError translates a service error into an HTTP response. Domain errors
// map by kind; anything else is an opaque 500.
func writeError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var de *model.DomainError
	if errors.As(err, &de) {
		status := http.StatusInternalServerError
		switch de.Kind {
		case model.KindNotFound:
			status = http.StatusNotFound
		case model.KindValidation, model.KindPipelineRejected:
			status = http.StatusBadRequest
		case model.KindPermissionDenied:
			status = http.StatusForbidden
		}
		writeJSON(w, status, ErrorResponse{Error: de.Message, Code: de.Code})
		return
	}

	logger.Error().Err(err).Msg("handler error")
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error: "internal server error",
		Code:  model.ErrCodeInternalError,
	})
}

// writeMessage writes a plain error with an explicit status.
func writeMessage(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// decodeJSON decodes the request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return model.NewValidation(model.ErrCodeInvalidJSON, "invalid JSON body")
	}
	return nil
}

// pathID extracts the numeric ID that follows prefix in the request path.
func pathID(path, prefix string) (int64, error) {
	rest := strings.TrimPrefix(path, prefix)
	rest = strings.TrimSuffix(rest, "/")
	if rest == "" || strings.Contains(rest, "/") {
		return 0, model.NewValidation(model.ErrCodeValidation, "invalid id in path")
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id < 1 {
		return 0, model.NewValidation(model.ErrCodeValidation, "invalid id in path")
	}
	return id, nil
}

// queryInt parses an integer query parameter, returning 0 when absent.
func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, model.NewValidation(model.ErrCodeValidation, "invalid "+key+" parameter")
	}
	return v, nil
}

// queryInt64Ptr parses an optional int64 query parameter.
func queryInt64Ptr(r *http.Request, key string) (*int64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, model.NewValidation(model.ErrCodeValidation, "invalid "+key+" parameter")
	}
	return &v, nil
}
