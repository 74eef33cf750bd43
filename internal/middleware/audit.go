package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"freshtrack/internal/audit"
	"freshtrack/internal/model"
)

// maxAuditBody caps how much of the request body is captured for the log.
const maxAuditBody = 64 * 1024

// Audit records successful authenticated API requests on the async recorder.
// The request body is captured up front and restored so handlers read it
// unchanged; failed requests (status >= 400) and anonymous requests are never
// recorded.
func Audit(recorder *audit.Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, "/api/") {
				next.ServeHTTP(w, r)
				return
			}

			var body []byte
			if r.Body != nil && isJSONRequest(r) {
				body, _ = io.ReadAll(io.LimitReader(r.Body, maxAuditBody))
				r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), r.Body))
			}

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rw, r)

			if rw.statusCode >= http.StatusBadRequest {
				return
			}
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				return
			}

			recorder.Record(&model.LogEntry{
				UserID:    claims.UserID,
				Action:    audit.ActionFor(r.Method, r.URL.Path),
				Details:   audit.BuildDetails(r.Method, r.URL.Path, body),
				IPAddress: audit.ClientIP(r),
				UserAgent: r.UserAgent(),
			})
		})
	}
}

func isJSONRequest(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}
