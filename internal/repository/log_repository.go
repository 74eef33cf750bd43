package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"freshtrack/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// logRepository implements LogRepository using PostgreSQL.
type logRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewLogRepository creates a new PostgreSQL-backed audit log repository.
func NewLogRepository(pool *pgxpool.Pool, logger zerolog.Logger) LogRepository {
	return &logRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "log").Logger(),
	}
}

// Create appends one entry. Entries are never updated afterwards.
func (r *logRepository) Create(ctx context.Context, e *model.LogEntry) error {
	sql := `
		INSERT INTO logs (user_id, action, details, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	err := r.pool.QueryRow(ctx, sql,
		e.UserID, e.Action, e.Details, e.IPAddress, e.UserAgent, createdAt,
	).Scan(&e.ID)
	if err != nil {
		r.logger.Error().Err(err).Str("action", e.Action).Msg("failed to insert log entry")
		return fmt.Errorf("failed to insert log entry: %w", err)
	}
	e.CreatedAt = createdAt

	return nil
}

func buildLogWhere(f LogFilters) (string, []any) {
	clauses := []string{"TRUE"}
	var args []any

	if userID, restricted := f.Scope.OwnerID(); restricted {
		args = append(args, userID)
		clauses = append(clauses, fmt.Sprintf("l.user_id = $%d", len(args)))
	}
	if f.Action != "" {
		args = append(args, f.Action)
		clauses = append(clauses, fmt.Sprintf("l.action = $%d", len(args)))
	}
	if f.StartDate != nil {
		args = append(args, *f.StartDate)
		clauses = append(clauses, fmt.Sprintf("l.created_at >= $%d", len(args)))
	}
	if f.EndDate != nil {
		args = append(args, *f.EndDate)
		clauses = append(clauses, fmt.Sprintf("l.created_at <= $%d", len(args)))
	}

	return strings.Join(clauses, " AND "), args
}

// List retrieves one page of entries joined with user identity.
func (r *logRepository) List(ctx context.Context, f LogFilters) ([]model.LogEntry, error) {
	where, args := buildLogWhere(f)
	args = append(args, f.Take, f.Skip)

	sql := fmt.Sprintf(`
		SELECT l.id, l.user_id, COALESCE(u.username, 'Unknown'), COALESCE(u.role, 'USER'),
			l.action, l.details, COALESCE(l.ip_address, ''), COALESCE(l.user_agent, ''), l.created_at
		FROM logs l
		LEFT JOIN users u ON u.id = l.user_id
		WHERE %s
		ORDER BY l.created_at DESC, l.id DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query logs")
		return nil, fmt.Errorf("failed to query logs: %w", err)
	}
	defer rows.Close()

	var entries []model.LogEntry
	for rows.Next() {
		var e model.LogEntry
		err := rows.Scan(
			&e.ID, &e.UserID, &e.Username, &e.UserRole,
			&e.Action, &e.Details, &e.IPAddress, &e.UserAgent, &e.CreatedAt,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan log row")
			return nil, fmt.Errorf("failed to scan log entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating log rows")
		return nil, fmt.Errorf("error iterating logs: %w", err)
	}

	return entries, nil
}

// Count counts entries matching the filters.
func (r *logRepository) Count(ctx context.Context, f LogFilters) (int, error) {
	where, args := buildLogWhere(f)
	sql := fmt.Sprintf(`SELECT COUNT(*) FROM logs l WHERE %s`, where)

	var count int
	if err := r.pool.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		r.logger.Error().Err(err).Msg("failed to count logs")
		return 0, fmt.Errorf("failed to count logs: %w", err)
	}
	return count, nil
}

// DistinctActions lists the action codes present in the log.
func (r *logRepository) DistinctActions(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT action FROM logs ORDER BY action`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query log actions")
		return nil, fmt.Errorf("failed to query log actions: %w", err)
	}
	defer rows.Close()

	var actions []string
	for rows.Next() {
		var action string
		if err := rows.Scan(&action); err != nil {
			return nil, fmt.Errorf("failed to scan action: %w", err)
		}
		actions = append(actions, action)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating actions: %w", err)
	}

	return actions, nil
}

// DeleteBefore purges entries older than the given instant.
func (r *logRepository) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM logs WHERE created_at < $1`, before)
	if err != nil {
		r.logger.Error().Err(err).Time("before", before).Msg("failed to purge logs")
		return 0, fmt.Errorf("failed to purge logs: %w", err)
	}
	return tag.RowsAffected(), nil
}
