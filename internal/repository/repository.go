package repository

import (
	"context"
	"time"

	"freshtrack/internal/model"
	"freshtrack/internal/query"
)

// ProductRepository defines the interface for product data access. All read
// methods honour the plan's scope and exclude soft-deleted rows.
type ProductRepository interface {
	// ListPage retrieves one page of products matching the plan's pushdown
	// filters, newest first.
	ListPage(ctx context.Context, plan query.Plan) ([]model.ProductWithOwner, error)

	// ListAll retrieves the full candidate set matching the plan's pushdown
	// filters, unbounded by page size. Used when a derived-status filter
	// must be applied in memory.
	ListAll(ctx context.Context, plan query.Plan) ([]model.ProductWithOwner, error)

	// Count counts products matching the plan's pushdown filters.
	Count(ctx context.Context, plan query.Plan) (int, error)

	// GetByID retrieves a single product within the scope. Returns nil when
	// absent or out of scope.
	GetByID(ctx context.Context, id int64, scope query.Scope) (*model.ProductWithOwner, error)

	// Create inserts a product and fills its ID and timestamps.
	Create(ctx context.Context, p *model.Product) error

	// Update persists name, production date, shelf life and reminder days.
	Update(ctx context.Context, p *model.Product) error

	// SoftDelete flips the deletion flag on one in-scope product. Returns
	// false when no row matched.
	SoftDelete(ctx context.Context, id int64, scope query.Scope) (bool, error)

	// SoftDeleteMany flips the deletion flag on all in-scope products in ids
	// and returns the affected count.
	SoftDeleteMany(ctx context.Context, ids []int64, scope query.Scope) (int64, error)

	// SoftDeleteByOwner flips the deletion flag on every product of an owner.
	SoftDeleteByOwner(ctx context.Context, ownerID int64) (int64, error)
}

// UserFilters are the admin user-listing filters.
type UserFilters struct {
	Role     *model.Role
	IsActive *bool
	Search   string // matches username or phone substring
	Skip     int
	Take     int
}

// UserRepository defines the interface for account data access.
type UserRepository interface {
	// GetByID retrieves a user by ID; nil when absent.
	GetByID(ctx context.Context, id int64) (*model.User, error)

	// GetByUsername retrieves a user by username; nil when absent.
	GetByUsername(ctx context.Context, username string) (*model.User, error)

	// PhoneInUse reports whether another user (excluding excludeID) already
	// has this phone number.
	PhoneInUse(ctx context.Context, phone string, excludeID int64) (bool, error)

	// Create inserts a user and fills its ID and timestamps.
	Create(ctx context.Context, u *model.User) error

	// Update persists phone, role and active flag.
	Update(ctx context.Context, u *model.User) error

	// UpdatePassword replaces a user's password hash.
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error

	// Delete removes a user row.
	Delete(ctx context.Context, id int64) error

	// List retrieves one page of users with product/log counts.
	List(ctx context.Context, f UserFilters) ([]model.UserWithCounts, error)

	// Count counts users matching the filters.
	Count(ctx context.Context, f UserFilters) (int, error)

	// Stats aggregates account counts; dayStart bounds "added today".
	Stats(ctx context.Context, dayStart time.Time) (*model.UserStatistics, error)
}

// LogFilters are the audit log listing filters.
type LogFilters struct {
	Scope     query.Scope
	Action    string
	StartDate *time.Time
	EndDate   *time.Time
	Skip      int
	Take      int
}

// LogRepository defines the interface for the append-only audit log.
type LogRepository interface {
	// Create appends one log entry.
	Create(ctx context.Context, e *model.LogEntry) error

	// List retrieves one page of entries joined with user identity, newest
	// first.
	List(ctx context.Context, f LogFilters) ([]model.LogEntry, error)

	// Count counts entries matching the filters.
	Count(ctx context.Context, f LogFilters) (int, error)

	// DistinctActions lists the action codes present in the log.
	DistinctActions(ctx context.Context) ([]string, error)

	// DeleteBefore purges entries older than the given instant and returns
	// the purged count.
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}

// ImportHistoryRepository defines the interface for import run records.
// Records are immutable once created.
type ImportHistoryRepository interface {
	// Create inserts one history record and fills its ID and timestamp.
	Create(ctx context.Context, h *model.ImportHistory) error

	// ListByOwner retrieves one page of an owner's records, newest first.
	ListByOwner(ctx context.Context, ownerID int64, skip, take int) ([]model.ImportHistory, error)

	// CountByOwner counts an owner's records.
	CountByOwner(ctx context.Context, ownerID int64) (int, error)

	// Delete removes one record owned by ownerID. Returns false when no row
	// matched.
	Delete(ctx context.Context, id, ownerID int64) (bool, error)
}
