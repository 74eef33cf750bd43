package service

import (
	"context"
	"sort"
	"time"

	"freshtrack/internal/expiry"
	"freshtrack/internal/model"
	"freshtrack/internal/query"
	"freshtrack/internal/repository"

	"github.com/rs/zerolog"
)

const (
	trendMonths      = 6
	upcomingWindow   = 7
	upcomingLimit    = 10
	trendMonthLayout = "2006-01"
)

// statsService implements StatsService. All aggregates are computed in memory
// over the full scoped product set: every number depends on derived expiry
// state, which must reflect the current time.
type statsService struct {
	products repository.ProductRepository
	now      func() time.Time
	logger   zerolog.Logger
}

// NewStatsService creates a new statistics service.
func NewStatsService(products repository.ProductRepository, now func() time.Time, logger zerolog.Logger) StatsService {
	if now == nil {
		now = time.Now
	}
	return &statsService{
		products: products,
		now:      now,
		logger:   logger.With().Str("service", "stats").Logger(),
	}
}

// Statistics classifies every in-scope product against the current time and
// aggregates totals, status distribution, a six month creation trend and the
// soonest upcoming expirations.
func (s *statsService) Statistics(ctx context.Context, requesterID int64, role model.Role, targetUserID *int64) (*model.Statistics, error) {
	scope := query.ResolveScope(requesterID, role, targetUserID)
	plan := query.BuildPlan(scope, query.Filters{})

	rows, err := s.products.ListAll(ctx, plan)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load products for statistics")
		return nil, err
	}

	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stats := &model.Statistics{
		Total:        len(rows),
		MonthlyTrend: emptyTrend(now),
	}
	trendIndex := make(map[string]int, trendMonths)
	for i, m := range stats.MonthlyTrend {
		trendIndex[m.Month] = i
	}

	var upcoming []model.ProductView
	for _, row := range rows {
		view := model.NewProductView(row.Product, now)

		switch view.Status {
		case expiry.StatusNormal:
			stats.Normal++
		case expiry.StatusWarning:
			stats.Warning++
		case expiry.StatusExpired:
			stats.Expired++
		}

		if !row.CreatedAt.Before(dayStart) {
			stats.TodayAdded++
		}
		// Bucket by the server clock's location so rows created near a
		// month boundary land in the same month the labels were built in.
		if i, ok := trendIndex[row.CreatedAt.In(now.Location()).Format(trendMonthLayout)]; ok {
			stats.MonthlyTrend[i].Count++
		}
		if view.RemainingDays > 0 && view.RemainingDays <= upcomingWindow {
			upcoming = append(upcoming, view)
		}
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].RemainingDays < upcoming[j].RemainingDays
	})
	if len(upcoming) > upcomingLimit {
		upcoming = upcoming[:upcomingLimit]
	}
	if upcoming == nil {
		upcoming = []model.ProductView{}
	}
	stats.UpcomingExpiry = upcoming

	stats.StatusDistribution = []model.StatusBucket{
		{Name: string(expiry.StatusNormal), Value: stats.Normal},
		{Name: string(expiry.StatusWarning), Value: stats.Warning},
		{Name: string(expiry.StatusExpired), Value: stats.Expired},
	}

	return stats, nil
}

// emptyTrend builds the six month window ending with the current month, all
// counts zero.
func emptyTrend(now time.Time) []model.MonthCount {
	trend := make([]model.MonthCount, 0, trendMonths)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for i := trendMonths - 1; i >= 0; i-- {
		trend = append(trend, model.MonthCount{
			Month: monthStart.AddDate(0, -i, 0).Format(trendMonthLayout),
		})
	}
	return trend
}
