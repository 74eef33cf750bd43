package audit

import (
	"encoding/json"
	"strings"
)

const masked = "***"

// BuildDetails serializes request context into the details payload stored
// with a log entry. The body is parsed as JSON when possible so that
// credential fields can be masked; non-JSON bodies are dropped rather than
// stored raw.
func BuildDetails(method, path string, body []byte) json.RawMessage {
	details := map[string]any{
		"method": method,
		"path":   path,
	}

	if len(body) > 0 {
		var parsed map[string]any
		if err := json.Unmarshal(body, &parsed); err == nil {
			details["body"] = Redact(parsed)
		}
	}

	raw, err := json.Marshal(details)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return raw
}

// Redact masks credential-bearing fields in place and returns the map.
// Nested objects are walked recursively.
func Redact(m map[string]any) map[string]any {
	for key, val := range m {
		if isSensitiveKey(key) {
			m[key] = masked
			continue
		}
		if nested, ok := val.(map[string]any); ok {
			m[key] = Redact(nested)
		}
	}
	return m
}

func isSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	return strings.Contains(k, "password")
}
