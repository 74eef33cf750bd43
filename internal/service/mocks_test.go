package service

import (
	"context"
	"time"

	"freshtrack/internal/model"
	"freshtrack/internal/query"
	"freshtrack/internal/repository"

	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) ListPage(ctx context.Context, plan query.Plan) ([]model.ProductWithOwner, error) {
	args := m.Called(ctx, plan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ProductWithOwner), args.Error(1)
}

func (m *MockProductRepository) ListAll(ctx context.Context, plan query.Plan) ([]model.ProductWithOwner, error) {
	args := m.Called(ctx, plan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ProductWithOwner), args.Error(1)
}

func (m *MockProductRepository) Count(ctx context.Context, plan query.Plan) (int, error) {
	args := m.Called(ctx, plan)
	return args.Int(0), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id int64, scope query.Scope) (*model.ProductWithOwner, error) {
	args := m.Called(ctx, id, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProductWithOwner), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, p *model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, p *model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) SoftDelete(ctx context.Context, id int64, scope query.Scope) (bool, error) {
	args := m.Called(ctx, id, scope)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) SoftDeleteMany(ctx context.Context, ids []int64, scope query.Scope) (int64, error) {
	args := m.Called(ctx, ids, scope)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) SoftDeleteByOwner(ctx context.Context, ownerID int64) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) PhoneInUse(ctx context.Context, phone string, excludeID int64) (bool, error) {
	args := m.Called(ctx, phone, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, u *model.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, u *model.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, f repository.UserFilters) ([]model.UserWithCounts, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UserWithCounts), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context, f repository.UserFilters) (int, error) {
	args := m.Called(ctx, f)
	return args.Int(0), args.Error(1)
}

func (m *MockUserRepository) Stats(ctx context.Context, dayStart time.Time) (*model.UserStatistics, error) {
	args := m.Called(ctx, dayStart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserStatistics), args.Error(1)
}

// MockLogRepository is a mock implementation of LogRepository.
type MockLogRepository struct {
	mock.Mock
}

func (m *MockLogRepository) Create(ctx context.Context, e *model.LogEntry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockLogRepository) List(ctx context.Context, f repository.LogFilters) ([]model.LogEntry, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LogEntry), args.Error(1)
}

func (m *MockLogRepository) Count(ctx context.Context, f repository.LogFilters) (int, error) {
	args := m.Called(ctx, f)
	return args.Int(0), args.Error(1)
}

func (m *MockLogRepository) DistinctActions(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockLogRepository) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

// MockImportHistoryRepository is a mock implementation of
// ImportHistoryRepository.
type MockImportHistoryRepository struct {
	mock.Mock
}

func (m *MockImportHistoryRepository) Create(ctx context.Context, h *model.ImportHistory) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}

func (m *MockImportHistoryRepository) ListByOwner(ctx context.Context, ownerID int64, skip, take int) ([]model.ImportHistory, error) {
	args := m.Called(ctx, ownerID, skip, take)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ImportHistory), args.Error(1)
}

func (m *MockImportHistoryRepository) CountByOwner(ctx context.Context, ownerID int64) (int, error) {
	args := m.Called(ctx, ownerID)
	return args.Int(0), args.Error(1)
}

func (m *MockImportHistoryRepository) Delete(ctx context.Context, id, ownerID int64) (bool, error) {
	args := m.Called(ctx, id, ownerID)
	return args.Bool(0), args.Error(1)
}

// MockTokenRevoker is a mock implementation of auth.TokenRevoker.
type MockTokenRevoker struct {
	mock.Mock
}

func (m *MockTokenRevoker) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	args := m.Called(ctx, jti, ttl)
	return args.Error(0)
}

func (m *MockTokenRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}

func (m *MockTokenRevoker) Close() error {
	args := m.Called()
	return args.Error(0)
}
