package service

import (
	"context"
	"testing"
	"time"

	"freshtrack/internal/model"
	"freshtrack/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool          { return &b }
func rolePtr(r model.Role) *model.Role { return &r }
func strPtr(s string) *string       { return &s }

func TestUserService_List_ClampsPagination(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	svc := NewUserService(users, new(MockProductRepository), fixedClock, zerolog.Nop())

	var captured repository.UserFilters
	users.On("List", ctx, mock.AnythingOfType("repository.UserFilters")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(repository.UserFilters)
		}).
		Return([]model.UserWithCounts{}, nil)
	users.On("Count", ctx, mock.AnythingOfType("repository.UserFilters")).Return(0, nil)

	page, err := svc.List(ctx, UserListFilters{Page: -3, PageSize: 500})
	require.NoError(t, err)

	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 100, page.PageSize)
	assert.Equal(t, 0, captured.Skip)
	assert.Equal(t, 100, captured.Take)
}

func TestUserService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("super admin cannot be deactivated", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := NewUserService(users, new(MockProductRepository), fixedClock, zerolog.Nop())
		users.On("GetByID", ctx, int64(1)).Return(&model.User{ID: 1, Role: model.RoleSuperAdmin, IsActive: true}, nil)

		_, err := svc.Update(ctx, 1, UserUpdate{IsActive: boolPtr(false)})
		require.Error(t, err)
		assert.Equal(t, model.KindPermissionDenied, model.KindOf(err))
		users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("super admin cannot be demoted", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := NewUserService(users, new(MockProductRepository), fixedClock, zerolog.Nop())
		users.On("GetByID", ctx, int64(1)).Return(&model.User{ID: 1, Role: model.RoleSuperAdmin, IsActive: true}, nil)

		_, err := svc.Update(ctx, 1, UserUpdate{Role: rolePtr(model.RoleUser)})
		require.Error(t, err)
		assert.Equal(t, model.KindPermissionDenied, model.KindOf(err))
	})

	t.Run("phone change validates format and uniqueness", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := NewUserService(users, new(MockProductRepository), fixedClock, zerolog.Nop())
		users.On("GetByID", ctx, int64(5)).Return(&model.User{ID: 5, Role: model.RoleUser, IsActive: true}, nil)

		_, err := svc.Update(ctx, 5, UserUpdate{Phone: strPtr("not-a-phone")})
		assert.ErrorIs(t, err, model.ErrInvalidPhone)

		users.On("PhoneInUse", ctx, "13800138000", int64(5)).Return(true, nil)
		_, err = svc.Update(ctx, 5, UserUpdate{Phone: strPtr("13800138000")})
		assert.ErrorIs(t, err, model.ErrPhoneTaken)
	})

	t.Run("promotes regular user", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := NewUserService(users, new(MockProductRepository), fixedClock, zerolog.Nop())
		users.On("GetByID", ctx, int64(5)).Return(&model.User{ID: 5, Role: model.RoleUser, IsActive: true}, nil)
		users.On("Update", ctx, mock.AnythingOfType("*model.User")).Return(nil)

		updated, err := svc.Update(ctx, 5, UserUpdate{Role: rolePtr(model.RoleAdmin)})
		require.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, updated.Role)
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := NewUserService(users, new(MockProductRepository), fixedClock, zerolog.Nop())
		users.On("GetByID", ctx, int64(5)).Return(&model.User{ID: 5, Role: model.RoleUser, IsActive: true}, nil)

		_, err := svc.Update(ctx, 5, UserUpdate{Role: rolePtr(model.Role("ROOT"))})
		require.Error(t, err)
		assert.Equal(t, model.KindValidation, model.KindOf(err))
	})
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("super admin is protected", func(t *testing.T) {
		users := new(MockUserRepository)
		products := new(MockProductRepository)
		svc := NewUserService(users, products, fixedClock, zerolog.Nop())
		users.On("GetByID", ctx, int64(1)).Return(&model.User{ID: 1, Role: model.RoleSuperAdmin}, nil)

		err := svc.Delete(ctx, 1)
		require.Error(t, err)
		assert.Equal(t, model.KindPermissionDenied, model.KindOf(err))
		products.AssertNotCalled(t, "SoftDeleteByOwner", mock.Anything, mock.Anything)
		users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("removes products then account", func(t *testing.T) {
		users := new(MockUserRepository)
		products := new(MockProductRepository)
		svc := NewUserService(users, products, fixedClock, zerolog.Nop())
		users.On("GetByID", ctx, int64(5)).Return(&model.User{ID: 5, Role: model.RoleUser}, nil)
		products.On("SoftDeleteByOwner", ctx, int64(5)).Return(int64(12), nil)
		users.On("Delete", ctx, int64(5)).Return(nil)

		require.NoError(t, svc.Delete(ctx, 5))
		products.AssertExpectations(t)
		users.AssertExpectations(t)
	})

	t.Run("absent user", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := NewUserService(users, new(MockProductRepository), fixedClock, zerolog.Nop())
		users.On("GetByID", ctx, int64(5)).Return(nil, nil)

		assert.ErrorIs(t, svc.Delete(ctx, 5), model.ErrUserNotFound)
	})
}

func TestUserService_ResetPassword(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	svc := NewUserService(users, new(MockProductRepository), fixedClock, zerolog.Nop())

	users.On("GetByID", ctx, int64(5)).Return(&model.User{ID: 5, Role: model.RoleUser}, nil)
	users.On("UpdatePassword", ctx, int64(5), mock.AnythingOfType("string")).Return(nil)

	require.NoError(t, svc.ResetPassword(ctx, 5, "newpass1"))

	err := svc.ResetPassword(ctx, 5, "abc")
	require.Error(t, err)
	assert.Equal(t, model.KindValidation, model.KindOf(err))
}

func TestUserService_Stats_UsesStartOfDay(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	svc := NewUserService(users, new(MockProductRepository), fixedClock, zerolog.Nop())

	want := &model.UserStatistics{Total: 10, Active: 8, TodayAdded: 2}
	dayStart := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	users.On("Stats", ctx, dayStart).Return(want, nil)

	got, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	users.AssertExpectations(t)
}
