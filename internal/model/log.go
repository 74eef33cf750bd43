package model

import (
	"encoding/json"
	"time"
)

// LogEntry is one append-only audit record. Entries are never updated or
// individually deleted; retention purges are an administrative bulk
// operation.
type LogEntry struct {
	ID        int64           `json:"id" db:"id"`
	UserID    int64           `json:"userId" db:"user_id"`
	Username  string          `json:"username,omitempty"`
	UserRole  Role            `json:"userRole,omitempty"`
	Action    string          `json:"action" db:"action"`
	Details   json.RawMessage `json:"details" db:"details"`
	IPAddress string          `json:"ipAddress" db:"ip_address"`
	UserAgent string          `json:"userAgent" db:"user_agent"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}

// LogPage is a paginated audit log listing.
type LogPage struct {
	Logs       []LogEntry `json:"logs"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"pageSize"`
	TotalPages int        `json:"totalPages"`
}
