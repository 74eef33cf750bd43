package repository

import (
	"context"
	"fmt"
	"strings"

	"freshtrack/internal/model"
	"freshtrack/internal/query"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// productRepository implements ProductRepository using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

const productColumns = `
	p.id, p.name, p.production_date, p.shelf_life_days, p.reminder_days,
	p.owner_id, p.is_deleted, p.created_at, p.updated_at,
	u.username, u.role
`

// buildWhere renders the plan's pushdown filters (scope, name substring, date
// range) as a WHERE clause. The status filter never appears here: status is
// derived, not stored.
func buildWhere(plan query.Plan) (string, []any) {
	clauses := []string{"NOT p.is_deleted"}
	var args []any

	if ownerID, restricted := plan.Scope.OwnerID(); restricted {
		args = append(args, ownerID)
		clauses = append(clauses, fmt.Sprintf("p.owner_id = $%d", len(args)))
	}
	if plan.Name != "" {
		args = append(args, "%"+plan.Name+"%")
		clauses = append(clauses, fmt.Sprintf("p.name ILIKE $%d", len(args)))
	}
	if plan.StartDate != nil {
		args = append(args, *plan.StartDate)
		clauses = append(clauses, fmt.Sprintf("p.production_date >= $%d", len(args)))
	}
	if plan.EndDate != nil {
		args = append(args, *plan.EndDate)
		clauses = append(clauses, fmt.Sprintf("p.production_date <= $%d", len(args)))
	}

	return strings.Join(clauses, " AND "), args
}

func (r *productRepository) list(ctx context.Context, plan query.Plan, paginate bool) ([]model.ProductWithOwner, error) {
	where, args := buildWhere(plan)
	sql := fmt.Sprintf(`
		SELECT %s
		FROM products p
		JOIN users u ON u.id = p.owner_id
		WHERE %s
		ORDER BY p.created_at DESC, p.id DESC
	`, productColumns, where)

	if paginate {
		args = append(args, plan.Take())
		sql += fmt.Sprintf(" LIMIT $%d", len(args))
		args = append(args, plan.Skip())
		sql += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []model.ProductWithOwner
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

func scanProduct(row pgx.Row) (model.ProductWithOwner, error) {
	var p model.ProductWithOwner
	err := row.Scan(
		&p.ID, &p.Name, &p.ProductionDate, &p.ShelfLifeDays, &p.ReminderDays,
		&p.OwnerID, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt,
		&p.OwnerUsername, &p.OwnerRole,
	)
	return p, err
}

// ListPage retrieves one page of products matching the plan.
func (r *productRepository) ListPage(ctx context.Context, plan query.Plan) ([]model.ProductWithOwner, error) {
	return r.list(ctx, plan, true)
}

// ListAll retrieves the full candidate set matching the plan's pushdown
// filters, for in-memory status filtering.
func (r *productRepository) ListAll(ctx context.Context, plan query.Plan) ([]model.ProductWithOwner, error) {
	return r.list(ctx, plan, false)
}

// Count counts products matching the plan's pushdown filters.
func (r *productRepository) Count(ctx context.Context, plan query.Plan) (int, error) {
	where, args := buildWhere(plan)
	sql := fmt.Sprintf(`SELECT COUNT(*) FROM products p WHERE %s`, where)

	var count int
	if err := r.pool.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		r.logger.Error().Err(err).Msg("failed to count products")
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// GetByID retrieves a single in-scope product, or nil.
func (r *productRepository) GetByID(ctx context.Context, id int64, scope query.Scope) (*model.ProductWithOwner, error) {
	sql := fmt.Sprintf(`
		SELECT %s
		FROM products p
		JOIN users u ON u.id = p.owner_id
		WHERE p.id = $1 AND NOT p.is_deleted
	`, productColumns)
	args := []any{id}

	if ownerID, restricted := scope.OwnerID(); restricted {
		args = append(args, ownerID)
		sql += fmt.Sprintf(" AND p.owner_id = $%d", len(args))
	}

	p, err := scanProduct(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Int64("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// Create inserts a product and fills its generated fields.
func (r *productRepository) Create(ctx context.Context, p *model.Product) error {
	sql := `
		INSERT INTO products (name, production_date, shelf_life_days, reminder_days, owner_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, sql,
		p.Name, p.ProductionDate, p.ShelfLifeDays, p.ReminderDays, p.OwnerID,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("name", p.Name).Msg("failed to insert product")
		return fmt.Errorf("failed to insert product: %w", err)
	}

	return nil
}

// Update persists the editable product fields.
func (r *productRepository) Update(ctx context.Context, p *model.Product) error {
	sql := `
		UPDATE products
		SET name = $2, production_date = $3, shelf_life_days = $4, reminder_days = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.pool.QueryRow(ctx, sql,
		p.ID, p.Name, p.ProductionDate, p.ShelfLifeDays, p.ReminderDays,
	).Scan(&p.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Int64("product_id", p.ID).Msg("failed to update product")
		return fmt.Errorf("failed to update product: %w", err)
	}

	return nil
}

// SoftDelete flips the deletion flag on one in-scope product.
func (r *productRepository) SoftDelete(ctx context.Context, id int64, scope query.Scope) (bool, error) {
	sql := `UPDATE products SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1 AND NOT is_deleted`
	args := []any{id}

	if ownerID, restricted := scope.OwnerID(); restricted {
		args = append(args, ownerID)
		sql += fmt.Sprintf(" AND owner_id = $%d", len(args))
	}

	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to soft delete product")
		return false, fmt.Errorf("failed to delete product: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// SoftDeleteMany flips the deletion flag on all in-scope products in ids.
func (r *productRepository) SoftDeleteMany(ctx context.Context, ids []int64, scope query.Scope) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	sql := `UPDATE products SET is_deleted = TRUE, updated_at = NOW() WHERE id = ANY($1) AND NOT is_deleted`
	args := []any{ids}

	if ownerID, restricted := scope.OwnerID(); restricted {
		args = append(args, ownerID)
		sql += fmt.Sprintf(" AND owner_id = $%d", len(args))
	}

	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to batch delete products")
		return 0, fmt.Errorf("failed to batch delete products: %w", err)
	}

	return tag.RowsAffected(), nil
}

// SoftDeleteByOwner flips the deletion flag on all of an owner's products.
func (r *productRepository) SoftDeleteByOwner(ctx context.Context, ownerID int64) (int64, error) {
	sql := `UPDATE products SET is_deleted = TRUE, updated_at = NOW() WHERE owner_id = $1 AND NOT is_deleted`

	tag, err := r.pool.Exec(ctx, sql, ownerID)
	if err != nil {
		r.logger.Error().Err(err).Int64("owner_id", ownerID).Msg("failed to delete owner products")
		return 0, fmt.Errorf("failed to delete owner products: %w", err)
	}

	return tag.RowsAffected(), nil
}
