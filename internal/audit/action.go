package audit

import (
	"net"
	"net/http"
	"strings"
)

// actionRule maps a method plus path prefix to a named audit action. Rules
// are matched in order, so more specific prefixes must come first.
type actionRule struct {
	method string
	prefix string
	action string
}

var actionRules = []actionRule{
	{http.MethodPost, "/api/auth/login", "LOGIN"},
	{http.MethodPost, "/api/auth/logout", "LOGOUT"},
	{http.MethodPost, "/api/auth/register", "REGISTER"},
	{http.MethodPut, "/api/auth/change-password", "CHANGE_PASSWORD"},
	{http.MethodPost, "/api/products/batch/import", "IMPORT_PRODUCTS"},
	{http.MethodPost, "/api/products/batch/delete", "DELETE_PRODUCT"},
	{http.MethodPost, "/api/products", "CREATE_PRODUCT"},
	{http.MethodPut, "/api/products", "UPDATE_PRODUCT"},
	{http.MethodDelete, "/api/products", "DELETE_PRODUCT"},
	{http.MethodGet, "/api/products", "VIEW_PRODUCTS"},
	{http.MethodPut, "/api/users", "UPDATE_USER"},
	{http.MethodDelete, "/api/users", "DELETE_USER"},
}

// ActionFor names the audit action for a request. Requests outside the rule
// table get a generic METHOD_RESOURCE name derived from the first path
// segment after /api/.
func ActionFor(method, path string) string {
	for _, rule := range actionRules {
		if rule.method == method && strings.HasPrefix(path, rule.prefix) {
			return rule.action
		}
	}
	resource := firstSegment(strings.TrimPrefix(path, "/api/"))
	if resource == "" {
		resource = "UNKNOWN"
	}
	return strings.ToUpper(method) + "_" + strings.ToUpper(resource)
}

func firstSegment(path string) string {
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	return path
}

// ClientIP prefers the first X-Forwarded-For hop, falling back to the
// connection's remote address.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
