package model

import (
	"time"

	"freshtrack/internal/expiry"
)

// Product represents a perishable item as stored. Expiry state (expiry date,
// remaining days, status) is derived and never persisted; it is recomputed on
// every read so it always reflects the caller's current time.
type Product struct {
	ID             int64     `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	ProductionDate time.Time `json:"productionDate" db:"production_date"`
	ShelfLifeDays  int       `json:"shelfLife" db:"shelf_life_days"`
	ReminderDays   int       `json:"reminderDays" db:"reminder_days"`
	OwnerID        int64     `json:"-" db:"owner_id"`
	IsDeleted      bool      `json:"-" db:"is_deleted"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// ProductWithOwner is a product joined with its owner's public identity, used
// on read paths where super admins see cross-tenant rows.
type ProductWithOwner struct {
	Product
	OwnerUsername string `json:"-"`
	OwnerRole     Role   `json:"-"`
}

// OwnerInfo identifies a product owner in super-admin responses.
type OwnerInfo struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// ProductView is a product enriched with its derived expiry state.
type ProductView struct {
	Product
	ExpiryDate    time.Time     `json:"expiryDate"`
	RemainingDays int           `json:"remainingDays"`
	Status        expiry.Status `json:"status"`
	Owner         *OwnerInfo    `json:"user,omitempty"`
}

// NewProductView classifies p against now and attaches the result.
func NewProductView(p Product, now time.Time) ProductView {
	result := expiry.Classify(p.ProductionDate, p.ShelfLifeDays, p.ReminderDays, now)
	return ProductView{
		Product:       p,
		ExpiryDate:    result.ExpiryDate,
		RemainingDays: result.RemainingDays,
		Status:        result.Status,
	}
}

// ProductPage is a paginated product listing. When a status filter is in
// play, Total reflects the post-filter count.
type ProductPage struct {
	Products   []ProductView `json:"products"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	TotalPages int           `json:"totalPages"`
}

// ProductInput carries product fields supplied by a caller. ProductionDate is
// the raw textual form; services parse and validate it.
type ProductInput struct {
	Name           string `json:"name"`
	ProductionDate string `json:"productionDate"`
	ShelfLifeDays  int    `json:"shelfLife"`
	ReminderDays   *int   `json:"reminderDays,omitempty"`
}

// StatusBucket is a named count for chart consumption.
type StatusBucket struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// MonthCount is one month of the creation trend.
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// Statistics is the dashboard aggregate over a scoped product set.
type Statistics struct {
	Total              int            `json:"total"`
	Normal             int            `json:"normal"`
	Warning            int            `json:"warning"`
	Expired            int            `json:"expired"`
	TodayAdded         int            `json:"todayAdded"`
	StatusDistribution []StatusBucket `json:"statusDistribution"`
	MonthlyTrend       []MonthCount   `json:"monthlyTrend"`
	UpcomingExpiry     []ProductView  `json:"upcomingExpiry"`
}
