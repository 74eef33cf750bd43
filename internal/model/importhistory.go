package model

import "time"

// ImportStatus is the outcome of a completed import run. Unlike product
// status it is stored: import outcomes are historical facts, fixed at
// completion time.
type ImportStatus string

const (
	ImportSuccess ImportStatus = "SUCCESS"
	ImportPartial ImportStatus = "PARTIAL"
	ImportFailed  ImportStatus = "FAILED"
)

// DeriveImportStatus computes the run status from its counts: FAILED when
// every row failed, PARTIAL when some did, SUCCESS when none did.
func DeriveImportStatus(totalCount, failCount int) ImportStatus {
	switch {
	case totalCount > 0 && failCount == totalCount:
		return ImportFailed
	case failCount > 0:
		return ImportPartial
	default:
		return ImportSuccess
	}
}

// ImportRowError records one isolated row failure. RowIndex is 1-based and
// matches the input order of the spreadsheet.
type ImportRowError struct {
	RowIndex int            `json:"rowIndex"`
	Row      map[string]any `json:"rawRowData"`
	Message  string         `json:"errorMessage"`
}

// ImportHistory is the immutable record of one import run.
type ImportHistory struct {
	ID           int64            `json:"id" db:"id"`
	OwnerID      int64            `json:"userId" db:"owner_id"`
	Filename     string           `json:"filename" db:"filename"`
	TotalCount   int              `json:"totalCount" db:"total_count"`
	SuccessCount int              `json:"successCount" db:"success_count"`
	FailCount    int              `json:"failCount" db:"fail_count"`
	Status       ImportStatus     `json:"status" db:"status"`
	Errors       []ImportRowError `json:"errors,omitempty" db:"errors"`
	CreatedAt    time.Time        `json:"createdAt" db:"created_at"`
}

// ImportHistoryPage is a paginated import history listing.
type ImportHistoryPage struct {
	Histories  []ImportHistory `json:"histories"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	TotalPages int             `json:"totalPages"`
}
