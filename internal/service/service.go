package service

import (
	"context"
	"time"

	"freshtrack/internal/model"
	"freshtrack/internal/query"
)

// ProductService defines operations for perishable product management. Every
// read and write is confined by the requester's resolved ownership scope.
type ProductService interface {
	// List retrieves one page of products with derived expiry state.
	List(ctx context.Context, requesterID int64, role model.Role, targetUserID *int64, f query.Filters) (*model.ProductPage, error)

	// Get retrieves a single in-scope product with derived expiry state.
	Get(ctx context.Context, requesterID int64, role model.Role, id int64) (*model.ProductView, error)

	// Create validates and inserts a product owned by the requester.
	Create(ctx context.Context, ownerID int64, in model.ProductInput) (*model.ProductView, error)

	// Update validates and persists changes to an in-scope product.
	Update(ctx context.Context, requesterID int64, role model.Role, id int64, in model.ProductInput) (*model.ProductView, error)

	// Delete soft-deletes one in-scope product.
	Delete(ctx context.Context, requesterID int64, role model.Role, id int64) error

	// DeleteMany soft-deletes all in-scope products in ids and returns the
	// affected count. Out-of-scope IDs are skipped, not rejected.
	DeleteMany(ctx context.Context, requesterID int64, role model.Role, ids []int64) (int64, error)
}

// StatsService computes the dashboard aggregate over a scoped product set.
type StatsService interface {
	// Statistics classifies every in-scope product against the current time
	// and aggregates counts, distribution, trend and upcoming expirations.
	Statistics(ctx context.Context, requesterID int64, role model.Role, targetUserID *int64) (*model.Statistics, error)
}

// AuthService defines account authentication operations.
type AuthService interface {
	// Register creates a USER account and returns it with a session token.
	Register(ctx context.Context, username, phone, password string) (*model.User, string, error)

	// Login verifies credentials and returns the user with a session token.
	Login(ctx context.Context, username, password string) (*model.User, string, error)

	// ChangePassword verifies the old password and replaces it.
	ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error

	// Logout revokes the session token identified by jti until it would
	// have expired anyway.
	Logout(ctx context.Context, jti string, expiresAt time.Time) error

	// CurrentUser retrieves the requester's own account.
	CurrentUser(ctx context.Context, userID int64) (*model.User, error)
}

// UserUpdate carries the mutable account fields; nil means unchanged.
type UserUpdate struct {
	Phone    *string     `json:"phone,omitempty"`
	Role     *model.Role `json:"role,omitempty"`
	IsActive *bool       `json:"isActive,omitempty"`
}

// UserListFilters are the admin user-listing filters.
type UserListFilters struct {
	Role     *model.Role
	IsActive *bool
	Search   string
	Page     int
	PageSize int
}

// UserService defines administrative account management operations. Role
// gating happens at the router; the service enforces per-target protections
// such as super admin immutability.
type UserService interface {
	// List retrieves one page of users with product and log counts.
	List(ctx context.Context, f UserListFilters) (*model.UserPage, error)

	// Get retrieves one user.
	Get(ctx context.Context, id int64) (*model.User, error)

	// Update applies the given account changes. Super admin accounts can
	// never be deactivated or demoted.
	Update(ctx context.Context, id int64, upd UserUpdate) (*model.User, error)

	// ResetPassword sets a new password without knowing the old one.
	ResetPassword(ctx context.Context, id int64, newPassword string) error

	// Delete removes an account and soft-deletes its products. Super admin
	// accounts can never be deleted.
	Delete(ctx context.Context, id int64) error

	// Stats summarises the account base.
	Stats(ctx context.Context) (*model.UserStatistics, error)
}

// LogService defines audit log read and retention operations.
type LogService interface {
	// List retrieves one page of scoped log entries, newest first.
	List(ctx context.Context, requesterID int64, role model.Role, f LogListFilters) (*model.LogPage, error)

	// Actions lists the distinct action codes present in the log.
	Actions(ctx context.Context) ([]string, error)

	// Purge deletes entries older than before and returns the purged count.
	Purge(ctx context.Context, before time.Time) (int64, error)
}

// LogListFilters are the audit log listing filters.
type LogListFilters struct {
	TargetUserID *int64
	Action       string
	StartDate    *time.Time
	EndDate      *time.Time
	Page         int
	PageSize     int
}

// ImportHistoryService defines access to a user's own import run records.
type ImportHistoryService interface {
	// List retrieves one page of the owner's records, newest first.
	List(ctx context.Context, ownerID int64, page, pageSize int) (*model.ImportHistoryPage, error)

	// Delete removes one record owned by ownerID.
	Delete(ctx context.Context, id, ownerID int64) error
}
