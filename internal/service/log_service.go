package service

import (
	"context"
	"time"

	"freshtrack/internal/model"
	"freshtrack/internal/query"
	"freshtrack/internal/repository"

	"github.com/rs/zerolog"
)

// logService implements LogService. Log visibility follows the same scope
// rules as products: USER and ADMIN see their own entries only, SUPER_ADMIN
// sees everything and may narrow to one user.
type logService struct {
	logs   repository.LogRepository
	logger zerolog.Logger
}

// NewLogService creates a new audit log service.
func NewLogService(logs repository.LogRepository, logger zerolog.Logger) LogService {
	return &logService{
		logs:   logs,
		logger: logger.With().Str("service", "log").Logger(),
	}
}

// List retrieves one page of scoped log entries, newest first.
func (s *logService) List(ctx context.Context, requesterID int64, role model.Role, f LogListFilters) (*model.LogPage, error) {
	page := f.Page
	if page < 1 {
		page = 1
	}
	pageSize := f.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	filters := repository.LogFilters{
		Scope:     query.ResolveScope(requesterID, role, f.TargetUserID),
		Action:    f.Action,
		StartDate: f.StartDate,
		EndDate:   f.EndDate,
		Skip:      (page - 1) * pageSize,
		Take:      pageSize,
	}

	logs, err := s.logs.List(ctx, filters)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list logs")
		return nil, err
	}
	total, err := s.logs.Count(ctx, filters)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to count logs")
		return nil, err
	}

	return &model.LogPage{
		Logs:       logs,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

// Actions lists the distinct action codes present in the log.
func (s *logService) Actions(ctx context.Context) ([]string, error) {
	actions, err := s.logs.DistinctActions(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list log actions")
		return nil, err
	}
	if actions == nil {
		actions = []string{}
	}
	return actions, nil
}

// Purge deletes entries older than before.
func (s *logService) Purge(ctx context.Context, before time.Time) (int64, error) {
	count, err := s.logs.DeleteBefore(ctx, before)
	if err != nil {
		s.logger.Error().Err(err).Time("before", before).Msg("failed to purge logs")
		return 0, err
	}
	s.logger.Info().Time("before", before).Int64("purged", count).Msg("logs purged")
	return count, nil
}
