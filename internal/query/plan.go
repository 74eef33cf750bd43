package query

import (
	"time"

	"freshtrack/internal/expiry"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Filters are the caller-supplied product list filters.
type Filters struct {
	// Name is matched as a case-insensitive substring of the product name.
	Name string
	// Statuses filter on derived status; non-empty forces a post-filter.
	Statuses []expiry.Status
	// StartDate/EndDate bound productionDate inclusively on both ends.
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	PageSize  int
}

// Plan is a product query plan. The scope, name and date filters push down to
// storage. A status filter cannot: status is derived from the current time,
// so the plan instead signals that the full scoped candidate set must be
// fetched, classified, filtered and only then paginated.
type Plan struct {
	Scope     Scope
	Name      string
	StartDate *time.Time
	EndDate   *time.Time
	Statuses  []expiry.Status
	Page      int
	PageSize  int
}

// BuildPlan combines a resolved scope with caller filters, clamping
// pagination to sane bounds.
func BuildPlan(scope Scope, f Filters) Plan {
	page := f.Page
	if page < 1 {
		page = 1
	}
	pageSize := f.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	return Plan{
		Scope:     scope,
		Name:      f.Name,
		StartDate: f.StartDate,
		EndDate:   f.EndDate,
		Statuses:  f.Statuses,
		Page:      page,
		PageSize:  pageSize,
	}
}

// NeedsPostFilter reports whether the plan requires fetching the full scoped
// candidate set and filtering by derived status in memory before paginating.
// This trades efficiency for correctness: status must reflect "now" and is
// never indexed or cached.
func (p Plan) NeedsPostFilter() bool {
	return len(p.Statuses) > 0
}

// MatchesStatus reports whether s is in the plan's status set.
func (p Plan) MatchesStatus(s expiry.Status) bool {
	for _, want := range p.Statuses {
		if s == want {
			return true
		}
	}
	return false
}

// Skip is the number of rows to drop before the requested page.
func (p Plan) Skip() int {
	return (p.Page - 1) * p.PageSize
}

// Take is the requested page size.
func (p Plan) Take() int {
	return p.PageSize
}
