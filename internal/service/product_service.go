package service

import (
	"context"
	"strings"
	"time"

	"freshtrack/internal/model"
	"freshtrack/internal/query"
	"freshtrack/internal/repository"

	"github.com/rs/zerolog"
)

var productDateLayouts = []string{"2006-01-02", time.RFC3339}

// productService implements ProductService.
type productService struct {
	products repository.ProductRepository
	now      func() time.Time
	logger   zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(products repository.ProductRepository, now func() time.Time, logger zerolog.Logger) ProductService {
	if now == nil {
		now = time.Now
	}
	return &productService{
		products: products,
		now:      now,
		logger:   logger.With().Str("service", "product").Logger(),
	}
}

// List retrieves one page of products with derived expiry state. A status
// filter cannot be pushed down to storage because status depends on the
// current time, so that path fetches the full scoped candidate set,
// classifies, filters, and only then paginates.
func (s *productService) List(ctx context.Context, requesterID int64, role model.Role, targetUserID *int64, f query.Filters) (*model.ProductPage, error) {
	scope := query.ResolveScope(requesterID, role, targetUserID)
	plan := query.BuildPlan(scope, f)
	now := s.now()

	if plan.NeedsPostFilter() {
		return s.listPostFiltered(ctx, plan, role, now)
	}

	rows, err := s.products.ListPage(ctx, plan)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list products")
		return nil, err
	}
	total, err := s.products.Count(ctx, plan)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to count products")
		return nil, err
	}

	views := make([]model.ProductView, 0, len(rows))
	for _, row := range rows {
		views = append(views, s.view(row, role, now))
	}

	return &model.ProductPage{
		Products:   views,
		Total:      total,
		Page:       plan.Page,
		PageSize:   plan.PageSize,
		TotalPages: totalPages(total, plan.PageSize),
	}, nil
}

func (s *productService) listPostFiltered(ctx context.Context, plan query.Plan, role model.Role, now time.Time) (*model.ProductPage, error) {
	rows, err := s.products.ListAll(ctx, plan)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list products for status filter")
		return nil, err
	}

	matched := make([]model.ProductView, 0, len(rows))
	for _, row := range rows {
		v := s.view(row, role, now)
		if plan.MatchesStatus(v.Status) {
			matched = append(matched, v)
		}
	}

	total := len(matched)
	start := plan.Skip()
	if start > total {
		start = total
	}
	end := start + plan.Take()
	if end > total {
		end = total
	}

	return &model.ProductPage{
		Products:   matched[start:end],
		Total:      total,
		Page:       plan.Page,
		PageSize:   plan.PageSize,
		TotalPages: totalPages(total, plan.PageSize),
	}, nil
}

// Get retrieves a single in-scope product.
func (s *productService) Get(ctx context.Context, requesterID int64, role model.Role, id int64) (*model.ProductView, error) {
	scope := query.ResolveScope(requesterID, role, nil)
	row, err := s.products.GetByID(ctx, id, scope)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to get product")
		return nil, err
	}
	if row == nil {
		return nil, model.ErrProductNotFound
	}
	v := s.view(*row, role, s.now())
	return &v, nil
}

// Create validates and inserts a product owned by the requester.
func (s *productService) Create(ctx context.Context, ownerID int64, in model.ProductInput) (*model.ProductView, error) {
	p, err := buildProduct(in)
	if err != nil {
		return nil, err
	}
	p.OwnerID = ownerID

	if err := s.products.Create(ctx, p); err != nil {
		s.logger.Error().Err(err).Str("name", p.Name).Msg("failed to create product")
		return nil, err
	}

	s.logger.Info().Int64("product_id", p.ID).Int64("owner_id", ownerID).Msg("product created")
	v := model.NewProductView(*p, s.now())
	return &v, nil
}

// Update validates and persists changes to an in-scope product.
func (s *productService) Update(ctx context.Context, requesterID int64, role model.Role, id int64, in model.ProductInput) (*model.ProductView, error) {
	scope := query.ResolveScope(requesterID, role, nil)
	existing, err := s.products.GetByID(ctx, id, scope)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to load product for update")
		return nil, err
	}
	if existing == nil {
		return nil, model.ErrProductNotFound
	}

	updated, err := buildProduct(in)
	if err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.OwnerID = existing.OwnerID
	updated.CreatedAt = existing.CreatedAt

	if err := s.products.Update(ctx, updated); err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to update product")
		return nil, err
	}

	s.logger.Info().Int64("product_id", id).Msg("product updated")
	view := s.view(model.ProductWithOwner{
		Product:       *updated,
		OwnerUsername: existing.OwnerUsername,
		OwnerRole:     existing.OwnerRole,
	}, role, s.now())
	return &view, nil
}

// Delete soft-deletes one in-scope product.
func (s *productService) Delete(ctx context.Context, requesterID int64, role model.Role, id int64) error {
	scope := query.ResolveScope(requesterID, role, nil)
	deleted, err := s.products.SoftDelete(ctx, id, scope)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to delete product")
		return err
	}
	if !deleted {
		return model.ErrProductNotFound
	}
	s.logger.Info().Int64("product_id", id).Msg("product deleted")
	return nil
}

// DeleteMany soft-deletes all in-scope products in ids.
func (s *productService) DeleteMany(ctx context.Context, requesterID int64, role model.Role, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, model.NewValidation(model.ErrCodeMissingField, "no product ids given")
	}
	scope := query.ResolveScope(requesterID, role, nil)
	count, err := s.products.SoftDeleteMany(ctx, ids, scope)
	if err != nil {
		s.logger.Error().Err(err).Int("requested", len(ids)).Msg("failed to batch delete products")
		return 0, err
	}
	s.logger.Info().Int("requested", len(ids)).Int64("deleted", count).Msg("products batch deleted")
	return count, nil
}

func (s *productService) view(row model.ProductWithOwner, role model.Role, now time.Time) model.ProductView {
	v := model.NewProductView(row.Product, now)
	if role == model.RoleSuperAdmin {
		v.Owner = &model.OwnerInfo{
			ID:       row.OwnerID,
			Username: row.OwnerUsername,
			Role:     row.OwnerRole,
		}
	}
	return v
}

// buildProduct validates caller input and assembles an unsaved product.
func buildProduct(in model.ProductInput) (*model.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, model.NewValidation(model.ErrCodeMissingField, "product name is required")
	}

	productionDate, err := parseProductDate(in.ProductionDate)
	if err != nil {
		return nil, err
	}

	if in.ShelfLifeDays < 0 {
		return nil, model.NewValidation(model.ErrCodeValidation, "shelf life must not be negative")
	}

	reminderDays := 3
	if in.ReminderDays != nil {
		if *in.ReminderDays < 0 {
			return nil, model.NewValidation(model.ErrCodeValidation, "reminder days must not be negative")
		}
		reminderDays = *in.ReminderDays
	}

	return &model.Product{
		Name:           name,
		ProductionDate: productionDate,
		ShelfLifeDays:  in.ShelfLifeDays,
		ReminderDays:   reminderDays,
	}, nil
}

func parseProductDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, model.NewValidation(model.ErrCodeMissingField, "production date is required")
	}
	for _, layout := range productDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, model.NewValidation(model.ErrCodeValidation, "invalid production date")
}

func totalPages(total, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
