package model

import "time"

// Role is the access tier of a user account.
type Role string

const (
	RoleUser       Role = "USER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// User represents an account. The password hash is never serialised.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Phone        string    `json:"phone" db:"phone"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	IsActive     bool      `json:"isActive" db:"is_active"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// UserWithCounts is a user together with entity counts for admin listings.
type UserWithCounts struct {
	User
	ProductCount int `json:"productCount"`
	LogCount     int `json:"logCount"`
}

// UserPage is a paginated user listing.
type UserPage struct {
	Users      []UserWithCounts `json:"users"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	TotalPages int              `json:"totalPages"`
}

// UserStatistics summarises the account base for admin dashboards.
type UserStatistics struct {
	Total      int          `json:"total"`
	Active     int          `json:"active"`
	ByRole     map[Role]int `json:"byRole"`
	TodayAdded int          `json:"todayAdded"`
}
