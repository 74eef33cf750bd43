package handler

import (
	"context"
	"net/http"
	"time"

	"freshtrack/internal/auth"
	"freshtrack/internal/middleware"
	"freshtrack/internal/model"
	"freshtrack/internal/query"
	"freshtrack/internal/service"

	"github.com/stretchr/testify/mock"
)

// MockProductService is a mock implementation of service.ProductService.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) List(ctx context.Context, requesterID int64, role model.Role, targetUserID *int64, f query.Filters) (*model.ProductPage, error) {
	args := m.Called(ctx, requesterID, role, targetUserID, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProductPage), args.Error(1)
}

func (m *MockProductService) Get(ctx context.Context, requesterID int64, role model.Role, id int64) (*model.ProductView, error) {
	args := m.Called(ctx, requesterID, role, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProductView), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, ownerID int64, in model.ProductInput) (*model.ProductView, error) {
	args := m.Called(ctx, ownerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProductView), args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, requesterID int64, role model.Role, id int64, in model.ProductInput) (*model.ProductView, error) {
	args := m.Called(ctx, requesterID, role, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProductView), args.Error(1)
}

func (m *MockProductService) Delete(ctx context.Context, requesterID int64, role model.Role, id int64) error {
	args := m.Called(ctx, requesterID, role, id)
	return args.Error(0)
}

func (m *MockProductService) DeleteMany(ctx context.Context, requesterID int64, role model.Role, ids []int64) (int64, error) {
	args := m.Called(ctx, requesterID, role, ids)
	return args.Get(0).(int64), args.Error(1)
}

// MockStatsService is a mock implementation of service.StatsService.
type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) Statistics(ctx context.Context, requesterID int64, role model.Role, targetUserID *int64) (*model.Statistics, error) {
	args := m.Called(ctx, requesterID, role, targetUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Statistics), args.Error(1)
}

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, username, phone, password string) (*model.User, string, error) {
	args := m.Called(ctx, username, phone, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*model.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*model.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	args := m.Called(ctx, userID, oldPassword, newPassword)
	return args.Error(0)
}

func (m *MockAuthService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	args := m.Called(ctx, jti, expiresAt)
	return args.Error(0)
}

func (m *MockAuthService) CurrentUser(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockUserService is a mock implementation of service.UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) List(ctx context.Context, f service.UserListFilters) (*model.UserPage, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserPage), args.Error(1)
}

func (m *MockUserService) Get(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, id int64, upd service.UserUpdate) (*model.User, error) {
	args := m.Called(ctx, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) ResetPassword(ctx context.Context, id int64, newPassword string) error {
	args := m.Called(ctx, id, newPassword)
	return args.Error(0)
}

func (m *MockUserService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserService) Stats(ctx context.Context) (*model.UserStatistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserStatistics), args.Error(1)
}

// MockLogService is a mock implementation of service.LogService.
type MockLogService struct {
	mock.Mock
}

func (m *MockLogService) List(ctx context.Context, requesterID int64, role model.Role, f service.LogListFilters) (*model.LogPage, error) {
	args := m.Called(ctx, requesterID, role, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LogPage), args.Error(1)
}

func (m *MockLogService) Actions(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockLogService) Purge(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

// MockImportHistoryService is a mock implementation of
// service.ImportHistoryService.
type MockImportHistoryService struct {
	mock.Mock
}

func (m *MockImportHistoryService) List(ctx context.Context, ownerID int64, page, pageSize int) (*model.ImportHistoryPage, error) {
	args := m.Called(ctx, ownerID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ImportHistoryPage), args.Error(1)
}

func (m *MockImportHistoryService) Delete(ctx context.Context, id, ownerID int64) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

// withClaims attaches authenticated claims to a test request.
func withClaims(req *http.Request, userID int64, role model.Role) *http.Request {
	claims := &auth.Claims{UserID: userID, Username: "tester", Role: role}
	return req.WithContext(middleware.WithClaims(req.Context(), claims))
}
