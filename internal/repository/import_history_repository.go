package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"freshtrack/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// importHistoryRepository implements ImportHistoryRepository using PostgreSQL.
type importHistoryRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewImportHistoryRepository creates a new PostgreSQL-backed import history repository.
func NewImportHistoryRepository(pool *pgxpool.Pool, logger zerolog.Logger) ImportHistoryRepository {
	return &importHistoryRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "import_history").Logger(),
	}
}

// Create inserts one history record. Row errors are stored as a JSONB
// document in input order.
func (r *importHistoryRepository) Create(ctx context.Context, h *model.ImportHistory) error {
	var errorsJSON []byte
	if len(h.Errors) > 0 {
		var err error
		errorsJSON, err = json.Marshal(h.Errors)
		if err != nil {
			return fmt.Errorf("failed to encode import errors: %w", err)
		}
	}

	sql := `
		INSERT INTO import_history (owner_id, filename, total_count, success_count, fail_count, status, errors)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, sql,
		h.OwnerID, h.Filename, h.TotalCount, h.SuccessCount, h.FailCount, h.Status, errorsJSON,
	).Scan(&h.ID, &h.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("filename", h.Filename).Msg("failed to insert import history")
		return fmt.Errorf("failed to insert import history: %w", err)
	}

	return nil
}

// ListByOwner retrieves one page of an owner's records, newest first.
func (r *importHistoryRepository) ListByOwner(ctx context.Context, ownerID int64, skip, take int) ([]model.ImportHistory, error) {
	sql := `
		SELECT id, owner_id, filename, total_count, success_count, fail_count, status, errors, created_at
		FROM import_history
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, sql, ownerID, take, skip)
	if err != nil {
		r.logger.Error().Err(err).Int64("owner_id", ownerID).Msg("failed to query import history")
		return nil, fmt.Errorf("failed to query import history: %w", err)
	}
	defer rows.Close()

	var histories []model.ImportHistory
	for rows.Next() {
		var h model.ImportHistory
		var errorsJSON []byte
		err := rows.Scan(
			&h.ID, &h.OwnerID, &h.Filename, &h.TotalCount, &h.SuccessCount, &h.FailCount,
			&h.Status, &errorsJSON, &h.CreatedAt,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan import history row")
			return nil, fmt.Errorf("failed to scan import history: %w", err)
		}
		if len(errorsJSON) > 0 {
			if err := json.Unmarshal(errorsJSON, &h.Errors); err != nil {
				return nil, fmt.Errorf("failed to decode import errors: %w", err)
			}
		}
		histories = append(histories, h)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating import history rows")
		return nil, fmt.Errorf("error iterating import history: %w", err)
	}

	return histories, nil
}

// CountByOwner counts an owner's records.
func (r *importHistoryRepository) CountByOwner(ctx context.Context, ownerID int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM import_history WHERE owner_id = $1`, ownerID).Scan(&count)
	if err != nil {
		r.logger.Error().Err(err).Int64("owner_id", ownerID).Msg("failed to count import history")
		return 0, fmt.Errorf("failed to count import history: %w", err)
	}
	return count, nil
}

// Delete removes one record owned by ownerID.
func (r *importHistoryRepository) Delete(ctx context.Context, id, ownerID int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM import_history WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		r.logger.Error().Err(err).Int64("history_id", id).Msg("failed to delete import history")
		return false, fmt.Errorf("failed to delete import history: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
