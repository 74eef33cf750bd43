package audit

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"freshtrack/internal/model"
	"freshtrack/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionFor(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		want   string
	}{
		{"login", "POST", "/api/auth/login", "LOGIN"},
		{"logout", "POST", "/api/auth/logout", "LOGOUT"},
		{"register", "POST", "/api/auth/register", "REGISTER"},
		{"change password", "PUT", "/api/auth/change-password", "CHANGE_PASSWORD"},
		{"batch import beats product create", "POST", "/api/products/batch/import", "IMPORT_PRODUCTS"},
		{"batch delete beats product create", "POST", "/api/products/batch/delete", "DELETE_PRODUCT"},
		{"create product", "POST", "/api/products", "CREATE_PRODUCT"},
		{"update product", "PUT", "/api/products/42", "UPDATE_PRODUCT"},
		{"delete product", "DELETE", "/api/products/42", "DELETE_PRODUCT"},
		{"view products", "GET", "/api/products", "VIEW_PRODUCTS"},
		{"update user", "PUT", "/api/users/7", "UPDATE_USER"},
		{"delete user", "DELETE", "/api/users/7", "DELETE_USER"},
		{"fallback derives from first segment", "GET", "/api/logs/actions", "GET_LOGS"},
		{"fallback with unknown resource", "POST", "/api/import-history", "POST_IMPORT-HISTORY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ActionFor(tt.method, tt.path))
		})
	}
}

func TestBuildDetails_MasksPasswords(t *testing.T) {
	body := []byte(`{"username":"chen","password":"hunter2","oldPassword":"a","newPassword":"b"}`)

	raw := BuildDetails("POST", "/api/auth/login", body)

	var details map[string]any
	require.NoError(t, json.Unmarshal(raw, &details))
	assert.Equal(t, "POST", details["method"])
	assert.Equal(t, "/api/auth/login", details["path"])

	payload, ok := details["body"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "chen", payload["username"])
	assert.Equal(t, "***", payload["password"])
	assert.Equal(t, "***", payload["oldPassword"])
	assert.Equal(t, "***", payload["newPassword"])
}

func TestBuildDetails_NonJSONBodyDropped(t *testing.T) {
	raw := BuildDetails("POST", "/api/products/batch/import", []byte("PK\x03\x04 binary"))

	var details map[string]any
	require.NoError(t, json.Unmarshal(raw, &details))
	assert.Equal(t, "/api/products/batch/import", details["path"])
	_, hasBody := details["body"]
	assert.False(t, hasBody)
}

func TestRedact_Nested(t *testing.T) {
	m := map[string]any{
		"name": "milk",
		"credentials": map[string]any{
			"Password": "secret",
			"token":    "keep",
		},
	}

	got := Redact(m)

	nested := got["credentials"].(map[string]any)
	assert.Equal(t, "***", nested["Password"])
	assert.Equal(t, "keep", nested["token"])
	assert.Equal(t, "milk", got["name"])
}

// recordingLogRepo collects created entries and optionally fails every write.
type recordingLogRepo struct {
	mu      sync.Mutex
	entries []*model.LogEntry
	fail    bool
}

func (r *recordingLogRepo) Create(_ context.Context, e *model.LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("log store unavailable")
	}
	r.entries = append(r.entries, e)
	return nil
}

func (r *recordingLogRepo) List(context.Context, repository.LogFilters) ([]model.LogEntry, error) {
	return nil, nil
}

func (r *recordingLogRepo) Count(context.Context, repository.LogFilters) (int, error) {
	return 0, nil
}

func (r *recordingLogRepo) DistinctActions(context.Context) ([]string, error) {
	return nil, nil
}

func (r *recordingLogRepo) DeleteBefore(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (r *recordingLogRepo) created() []*model.LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*model.LogEntry(nil), r.entries...)
}

func TestRecorder_PersistsQueuedEntries(t *testing.T) {
	repo := &recordingLogRepo{}
	recorder := NewRecorder(repo, zerolog.Nop())

	for i := 0; i < 10; i++ {
		recorder.Record(&model.LogEntry{UserID: int64(i + 1), Action: "LOGIN"})
	}
	recorder.Close()

	entries := repo.created()
	require.Len(t, entries, 10)
	for _, e := range entries {
		assert.Equal(t, "LOGIN", e.Action)
		assert.False(t, e.CreatedAt.IsZero())
	}
}

func TestRecorder_PersistenceFailureDoesNotReachCaller(t *testing.T) {
	repo := &recordingLogRepo{fail: true}
	recorder := NewRecorder(repo, zerolog.Nop())

	// Record has no error return; a failing store must not panic or block.
	recorder.Record(&model.LogEntry{UserID: 1, Action: "LOGIN"})
	recorder.Close()

	assert.Empty(t, repo.created())
}

func TestRecorder_RecordAfterCloseIsDropped(t *testing.T) {
	repo := &recordingLogRepo{}
	recorder := NewRecorder(repo, zerolog.Nop())
	recorder.Close()

	recorder.Record(&model.LogEntry{UserID: 1, Action: "LOGIN"})

	assert.Empty(t, repo.created())
}

func TestRecorder_CloseIsIdempotent(t *testing.T) {
	recorder := NewRecorder(&recordingLogRepo{}, zerolog.Nop())
	recorder.Close()
	recorder.Close()
}
