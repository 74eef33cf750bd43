// Package expiry derives freshness state from product dates. Status is never
// stored; callers recompute it on every read against an explicit "now".
package expiry

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Status represents the freshness classification of a product.
type Status string

const (
	StatusNormal  Status = "NORMAL"
	StatusWarning Status = "WARNING"
	StatusExpired Status = "EXPIRED"
)

// Valid reports whether s is a known status code.
func (s Status) Valid() bool {
	switch s {
	case StatusNormal, StatusWarning, StatusExpired:
		return true
	}
	return false
}

// Result holds the derived expiry state of a single product.
type Result struct {
	ExpiryDate    time.Time `json:"expiryDate"`
	RemainingDays int       `json:"remainingDays"`
	Status        Status    `json:"status"`
}

// Classify computes the expiry date, remaining whole days and status for a
// product. Expiry arithmetic is calendar-based: the expiry date is the
// production date plus shelfLifeDays calendar days, and remaining days is the
// whole-day difference between now's date and the expiry date (zero or
// negative once expired). A shelf life of zero days means the product is
// expired from the moment it is produced.
//
// now is always an explicit parameter so results are reproducible.
func Classify(productionDate time.Time, shelfLifeDays, reminderDays int, now time.Time) Result {
	expiryDate := startOfDay(productionDate).AddDate(0, 0, shelfLifeDays)
	remaining := wholeDays(startOfDay(now), expiryDate)

	status := StatusNormal
	if remaining <= 0 {
		status = StatusExpired
	} else if remaining <= reminderDays {
		status = StatusWarning
	}

	return Result{
		ExpiryDate:    expiryDate,
		RemainingDays: remaining,
		Status:        status,
	}
}

// ParseStatusSet parses a comma-separated list of status codes, e.g.
// "WARNING,EXPIRED". Whitespace around entries is ignored; empty input yields
// an empty set.
func ParseStatusSet(raw string) ([]Status, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var statuses []Status
	for _, part := range strings.Split(raw, ",") {
		s := Status(strings.ToUpper(strings.TrimSpace(part)))
		if s == "" {
			continue
		}
		if !s.Valid() {
			return nil, fmt.Errorf("unknown status code %q", part)
		}
		statuses = append(statuses, s)
	}
	return statuses, nil
}

// startOfDay truncates t to midnight in its own location.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// wholeDays returns the number of calendar days from a to b. Rounding absorbs
// DST transitions, where a calendar day is not exactly 24 hours.
func wholeDays(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}
