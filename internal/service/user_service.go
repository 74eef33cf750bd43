package service

import (
	"context"
	"strings"
	"time"

	"freshtrack/internal/auth"
	"freshtrack/internal/model"
	"freshtrack/internal/repository"

	"github.com/rs/zerolog"
)

// userService implements UserService.
type userService struct {
	users    repository.UserRepository
	products repository.ProductRepository
	now      func() time.Time
	logger   zerolog.Logger
}

// NewUserService creates a new user management service.
func NewUserService(users repository.UserRepository, products repository.ProductRepository, now func() time.Time, logger zerolog.Logger) UserService {
	if now == nil {
		now = time.Now
	}
	return &userService{
		users:    users,
		products: products,
		now:      now,
		logger:   logger.With().Str("service", "user").Logger(),
	}
}

// List retrieves one page of users with product and log counts.
func (s *userService) List(ctx context.Context, f UserListFilters) (*model.UserPage, error) {
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

	filters := repository.UserFilters{
		Role:     f.Role,
		IsActive: f.IsActive,
		Search:   strings.TrimSpace(f.Search),
		Skip:     (page - 1) * pageSize,
		Take:     pageSize,
	}

	users, err := s.users.List(ctx, filters)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list users")
		return nil, err
	}
	total, err := s.users.Count(ctx, filters)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to count users")
		return nil, err
	}

	return &model.UserPage{
		Users:      users,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

// Get retrieves one user.
func (s *userService) Get(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", id).Msg("failed to get user")
		return nil, err
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

// Update applies account changes. Super admin accounts can never be
// deactivated or demoted.
func (s *userService) Update(ctx context.Context, id int64, upd UserUpdate) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", id).Msg("failed to load user")
		return nil, err
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}

	if user.Role == model.RoleSuperAdmin {
		if upd.IsActive != nil && !*upd.IsActive {
			return nil, model.NewPermissionDenied(model.ErrCodeProtectedAccount, "super admin account cannot be deactivated")
		}
		if upd.Role != nil && *upd.Role != model.RoleSuperAdmin {
			return nil, model.NewPermissionDenied(model.ErrCodeProtectedAccount, "super admin role cannot be changed")
		}
	}

	if upd.Phone != nil {
		phone := strings.TrimSpace(*upd.Phone)
		if !phonePattern.MatchString(phone) {
			return nil, model.ErrInvalidPhone
		}
		taken, err := s.users.PhoneInUse(ctx, phone, id)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to check phone")
			return nil, err
		}
		if taken {
			return nil, model.ErrPhoneTaken
		}
		user.Phone = phone
	}
	if upd.Role != nil {
		if !upd.Role.Valid() {
			return nil, model.NewValidation(model.ErrCodeValidation, "unknown role")
		}
		user.Role = *upd.Role
	}
	if upd.IsActive != nil {
		user.IsActive = *upd.IsActive
	}

	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Error().Err(err).Int64("user_id", id).Msg("failed to update user")
		return nil, err
	}

	s.logger.Info().Int64("user_id", id).Msg("user updated")
	return user, nil
}

// ResetPassword sets a new password without the old one.
func (s *userService) ResetPassword(ctx context.Context, id int64, newPassword string) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", id).Msg("failed to load user")
		return err
	}
	if user == nil {
		return model.ErrUserNotFound
	}
	if len(newPassword) < minPasswordLength {
		return model.NewValidation(model.ErrCodeValidation, "password must be at least 6 characters")
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return err
	}
	if err := s.users.UpdatePassword(ctx, id, hash); err != nil {
		s.logger.Error().Err(err).Int64("user_id", id).Msg("failed to reset password")
		return err
	}

	s.logger.Info().Int64("user_id", id).Msg("password reset by admin")
	return nil
}

// Delete removes an account and soft-deletes its products. Super admin
// accounts are protected.
func (s *userService) Delete(ctx context.Context, id int64) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", id).Msg("failed to load user")
		return err
	}
	if user == nil {
		return model.ErrUserNotFound
	}
	if user.Role == model.RoleSuperAdmin {
		return model.NewPermissionDenied(model.ErrCodeProtectedAccount, "super admin account cannot be deleted")
	}

	// Products go first so an interrupted delete never leaves orphaned
	// visible rows.
	removed, err := s.products.SoftDeleteByOwner(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", id).Msg("failed to remove user products")
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Int64("user_id", id).Msg("failed to delete user")
		return err
	}

	s.logger.Info().Int64("user_id", id).Int64("products_removed", removed).Msg("user deleted")
	return nil
}

// Stats summarises the account base.
func (s *userService) Stats(ctx context.Context) (*model.UserStatistics, error) {
	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stats, err := s.users.Stats(ctx, dayStart)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to compute user statistics")
		return nil, err
	}
	return stats, nil
}
