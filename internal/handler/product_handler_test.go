package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"freshtrack/internal/expiry"
	"freshtrack/internal/model"
	"freshtrack/internal/query"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newProductHandler(products *MockProductService, stats *MockStatsService) *ProductHandler {
	return NewProductHandler(products, stats, zerolog.Nop())
}

func TestProductHandler_List(t *testing.T) {
	t.Run("passes parsed filters to the service", func(t *testing.T) {
		products := new(MockProductService)
		h := newProductHandler(products, new(MockStatsService))

		var gotFilters query.Filters
		var gotTarget *int64
		products.On("List", mock.Anything, int64(5), model.RoleAdmin, mock.Anything, mock.AnythingOfType("query.Filters")).
			Run(func(args mock.Arguments) {
				gotTarget = args.Get(3).(*int64)
				gotFilters = args.Get(4).(query.Filters)
			}).
			Return(&model.ProductPage{Products: []model.ProductView{}}, nil)

		req := withClaims(httptest.NewRequest(http.MethodGet,
			"/api/products?page=2&pageSize=10&name=milk&status=WARNING,EXPIRED&startDate=2024-01-01&endDate=2024-06-30&userId=3",
			nil), 5, model.RoleAdmin)
		rec := httptest.NewRecorder()
		h.List(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 2, gotFilters.Page)
		assert.Equal(t, 10, gotFilters.PageSize)
		assert.Equal(t, "milk", gotFilters.Name)
		assert.Equal(t, []expiry.Status{expiry.StatusWarning, expiry.StatusExpired}, gotFilters.Statuses)
		require.NotNil(t, gotFilters.StartDate)
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *gotFilters.StartDate)
		require.NotNil(t, gotTarget)
		assert.Equal(t, int64(3), *gotTarget)
	})

	t.Run("invalid status parameter", func(t *testing.T) {
		products := new(MockProductService)
		h := newProductHandler(products, new(MockStatsService))

		req := withClaims(httptest.NewRequest(http.MethodGet, "/api/products?status=STALE", nil), 5, model.RoleUser)
		rec := httptest.NewRecorder()
		h.List(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		products.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("anonymous request rejected", func(t *testing.T) {
		h := newProductHandler(new(MockProductService), new(MockStatsService))

		rec := httptest.NewRecorder()
		h.List(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestProductHandler_Get(t *testing.T) {
	t.Run("not found maps to 404", func(t *testing.T) {
		products := new(MockProductService)
		h := newProductHandler(products, new(MockStatsService))
		products.On("Get", mock.Anything, int64(5), model.RoleUser, int64(42)).
			Return(nil, model.ErrProductNotFound)

		req := withClaims(httptest.NewRequest(http.MethodGet, "/api/products/42", nil), 5, model.RoleUser)
		rec := httptest.NewRecorder()
		h.Get(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, model.ErrCodeProductNotFound, resp.Code)
	})

	t.Run("non-numeric id", func(t *testing.T) {
		h := newProductHandler(new(MockProductService), new(MockStatsService))

		req := withClaims(httptest.NewRequest(http.MethodGet, "/api/products/abc", nil), 5, model.RoleUser)
		rec := httptest.NewRecorder()
		h.Get(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestProductHandler_Create(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		products := new(MockProductService)
		h := newProductHandler(products, new(MockStatsService))

		view := &model.ProductView{Product: model.Product{ID: 11, Name: "milk"}, Status: expiry.StatusNormal}
		products.On("Create", mock.Anything, int64(5), mock.AnythingOfType("model.ProductInput")).Return(view, nil)

		body := `{"name":"milk","productionDate":"2024-05-30","shelfLife":10}`
		req := withClaims(httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(body)), 5, model.RoleUser)
		rec := httptest.NewRecorder()
		h.Create(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"NORMAL"`)
	})

	t.Run("validation error maps to 400", func(t *testing.T) {
		products := new(MockProductService)
		h := newProductHandler(products, new(MockStatsService))
		products.On("Create", mock.Anything, int64(5), mock.AnythingOfType("model.ProductInput")).
			Return(nil, model.NewValidation(model.ErrCodeMissingField, "product name is required"))

		body := `{"productionDate":"2024-05-30","shelfLife":10}`
		req := withClaims(httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(body)), 5, model.RoleUser)
		rec := httptest.NewRecorder()
		h.Create(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		h := newProductHandler(new(MockProductService), new(MockStatsService))

		req := withClaims(httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader("{nope")), 5, model.RoleUser)
		rec := httptest.NewRecorder()
		h.Create(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestProductHandler_BatchDelete(t *testing.T) {
	products := new(MockProductService)
	h := newProductHandler(products, new(MockStatsService))
	products.On("DeleteMany", mock.Anything, int64(5), model.RoleUser, []int64{1, 2, 3}).Return(int64(2), nil)

	body := `{"ids":[1,2,3]}`
	req := withClaims(httptest.NewRequest(http.MethodPost, "/api/products/batch/delete", strings.NewReader(body)), 5, model.RoleUser)
	rec := httptest.NewRecorder()
	h.BatchDelete(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"deletedCount":2`)
}

func TestProductHandler_Stats(t *testing.T) {
	products := new(MockProductService)
	stats := new(MockStatsService)
	h := newProductHandler(products, stats)

	stats.On("Statistics", mock.Anything, int64(5), model.RoleUser, (*int64)(nil)).
		Return(&model.Statistics{Total: 7, Normal: 5, Warning: 1, Expired: 1}, nil)

	req := withClaims(httptest.NewRequest(http.MethodGet, "/api/products/stats", nil), 5, model.RoleUser)
	rec := httptest.NewRecorder()
	h.Stats(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":7`)
}

func TestProductHandler_Delete_ServiceError(t *testing.T) {
	products := new(MockProductService)
	h := newProductHandler(products, new(MockStatsService))
	products.On("Delete", mock.Anything, int64(5), model.RoleUser, int64(9)).Return(model.ErrProductNotFound)

	req := withClaims(httptest.NewRequest(http.MethodDelete, "/api/products/9", nil), 5, model.RoleUser)
	rec := httptest.NewRecorder()
	h.Delete(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
