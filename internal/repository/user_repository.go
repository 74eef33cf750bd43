package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"freshtrack/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// userRepository implements UserRepository using PostgreSQL.
type userRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(pool *pgxpool.Pool, logger zerolog.Logger) UserRepository {
	return &userRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "user").Logger(),
	}
}

const userColumns = `id, username, phone, password_hash, role, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Phone, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByID retrieves a user by ID, or nil.
func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	sql := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	u, err := scanUser(r.pool.QueryRow(ctx, sql, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("user_id", id).Msg("failed to query user")
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &u, nil
}

// GetByUsername retrieves a user by username, or nil.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	sql := fmt.Sprintf(`SELECT %s FROM users WHERE username = $1`, userColumns)

	u, err := scanUser(r.pool.QueryRow(ctx, sql, username))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("username", username).Msg("failed to query user")
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &u, nil
}

// PhoneInUse reports whether another user already has this phone number.
func (r *userRepository) PhoneInUse(ctx context.Context, phone string, excludeID int64) (bool, error) {
	sql := `SELECT EXISTS (SELECT 1 FROM users WHERE phone = $1 AND id <> $2)`

	var exists bool
	if err := r.pool.QueryRow(ctx, sql, phone, excludeID).Scan(&exists); err != nil {
		r.logger.Error().Err(err).Msg("failed to check phone uniqueness")
		return false, fmt.Errorf("failed to check phone uniqueness: %w", err)
	}
	return exists, nil
}

// Create inserts a user and fills its generated fields.
func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	sql := `
		INSERT INTO users (username, phone, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, sql,
		u.Username, u.Phone, u.PasswordHash, u.Role, u.IsActive,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("username", u.Username).Msg("failed to insert user")
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// Update persists phone, role and active flag.
func (r *userRepository) Update(ctx context.Context, u *model.User) error {
	sql := `
		UPDATE users
		SET phone = $2, role = $3, is_active = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.pool.QueryRow(ctx, sql, u.ID, u.Phone, u.Role, u.IsActive).Scan(&u.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", u.ID).Msg("failed to update user")
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}

// UpdatePassword replaces the password hash.
func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	sql := `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, sql, id, passwordHash)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", id).Msg("failed to update password")
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}

	return nil
}

// Delete removes a user row.
func (r *userRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", id).Msg("failed to delete user")
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}

	return nil
}

func buildUserWhere(f UserFilters) (string, []any) {
	clauses := []string{"TRUE"}
	var args []any

	if f.Role != nil {
		args = append(args, *f.Role)
		clauses = append(clauses, fmt.Sprintf("u.role = $%d", len(args)))
	}
	if f.IsActive != nil {
		args = append(args, *f.IsActive)
		clauses = append(clauses, fmt.Sprintf("u.is_active = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		clauses = append(clauses, fmt.Sprintf("(u.username ILIKE $%d OR u.phone ILIKE $%d)", len(args), len(args)))
	}

	return strings.Join(clauses, " AND "), args
}

// List retrieves one page of users with per-user product and log counts.
func (r *userRepository) List(ctx context.Context, f UserFilters) ([]model.UserWithCounts, error) {
	where, args := buildUserWhere(f)
	args = append(args, f.Take, f.Skip)

	sql := fmt.Sprintf(`
		SELECT u.id, u.username, u.phone, u.password_hash, u.role, u.is_active, u.created_at, u.updated_at,
			(SELECT COUNT(*) FROM products p WHERE p.owner_id = u.id AND NOT p.is_deleted) AS product_count,
			(SELECT COUNT(*) FROM logs l WHERE l.user_id = u.id) AS log_count
		FROM users u
		WHERE %s
		ORDER BY u.created_at DESC, u.id DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query users")
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []model.UserWithCounts
	for rows.Next() {
		var u model.UserWithCounts
		err := rows.Scan(
			&u.ID, &u.Username, &u.Phone, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
			&u.ProductCount, &u.LogCount,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan user row")
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating user rows")
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// Count counts users matching the filters.
func (r *userRepository) Count(ctx context.Context, f UserFilters) (int, error) {
	where, args := buildUserWhere(f)
	sql := fmt.Sprintf(`SELECT COUNT(*) FROM users u WHERE %s`, where)

	var count int
	if err := r.pool.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		r.logger.Error().Err(err).Msg("failed to count users")
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// Stats aggregates account counts for the admin dashboard.
func (r *userRepository) Stats(ctx context.Context, dayStart time.Time) (*model.UserStatistics, error) {
	stats := &model.UserStatistics{ByRole: make(map[model.Role]int)}

	sql := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE is_active),
			COUNT(*) FILTER (WHERE created_at >= $1)
		FROM users
	`
	if err := r.pool.QueryRow(ctx, sql, dayStart).Scan(&stats.Total, &stats.Active, &stats.TodayAdded); err != nil {
		r.logger.Error().Err(err).Msg("failed to aggregate user stats")
		return nil, fmt.Errorf("failed to aggregate user stats: %w", err)
	}

	rows, err := r.pool.Query(ctx, `SELECT role, COUNT(*) FROM users GROUP BY role`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to group users by role")
		return nil, fmt.Errorf("failed to group users by role: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var role model.Role
		var count int
		if err := rows.Scan(&role, &count); err != nil {
			return nil, fmt.Errorf("failed to scan role count: %w", err)
		}
		stats.ByRole[role] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating role counts: %w", err)
	}

	return stats, nil
}
