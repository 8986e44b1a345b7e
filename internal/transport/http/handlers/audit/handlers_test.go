package audithandler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"officehr/internal/domain/audit"
	"officehr/internal/domain/auth"
	"officehr/internal/transport/http/middleware"
)

const testSecret = "test-secret"

type memStore struct {
	events []audit.Event
}

func (m *memStore) Insert(ctx context.Context, evt audit.Event) error {
	m.events = append(m.events, evt)
	return nil
}

func (m *memStore) matching(filter audit.Filter) []audit.Event {
	var out []audit.Event
	for _, evt := range m.events {
		if filter.Action != "" && evt.Action != filter.Action {
			continue
		}
		if filter.EntityType != "" && evt.EntityType != filter.EntityType {
			continue
		}
		out = append(out, evt)
	}
	return out
}

func (m *memStore) Count(ctx context.Context, filter audit.Filter) (int, error) {
	return len(m.matching(filter)), nil
}

func (m *memStore) List(ctx context.Context, filter audit.Filter, includeDetails bool, limit, offset int) ([]audit.Event, error) {
	out := m.matching(filter)
	if !includeDetails {
		for i := range out {
			out[i].Before, out[i].After = nil, nil
		}
	}
	return out, nil
}

func newRouter(t *testing.T, role string) (http.Handler, string) {
	t.Helper()
	svc := audit.New(&memStore{})
	ctx := context.Background()
	require.NoError(t, svc.Record(ctx, "u1", "payroll.create", audit.EntityPayroll, "p1", "req-1", "10.0.0.1", nil, map[string]any{"netSalary": 50200}))
	require.NoError(t, svc.Record(ctx, "u1", "leave.delete", audit.EntityLeave, "l1", "req-2", "10.0.0.1", map[string]any{"id": "l1"}, nil))

	r := chi.NewRouter()
	r.Use(middleware.Auth(testSecret))
	NewHandler(svc).RegisterRoutes(r)
	token, _, err := auth.GenerateToken(testSecret, auth.Claims{UserID: "u1", Role: role}, time.Hour)
	require.NoError(t, err)
	return r, token
}

func TestListEventsFilters(t *testing.T) {
	router, token := newRouter(t, auth.RoleAdmin)
	req := httptest.NewRequest(http.MethodGet, "/audit/events?entityType=payroll&includeDetails=true", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "1", rr.Header().Get("X-Total-Count"))
	var env struct {
		Data struct {
			Items []audit.Event `json:"items"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	require.Len(t, env.Data.Items, 1)
	assert.Equal(t, "payroll.create", env.Data.Items[0].Action)
	assert.JSONEq(t, `{"netSalary":50200}`, string(env.Data.Items[0].After))
}

func TestExportEventsCSV(t *testing.T) {
	router, token := newRouter(t, auth.RoleAdmin)
	req := httptest.NewRequest(http.MethodGet, "/audit/events/export", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv", rr.Header().Get("Content-Type"))
	lines := strings.Split(strings.TrimSpace(rr.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "id,actor_user_id,action"))
	assert.Contains(t, lines[2], "leave.delete")
}

func TestAuditRequiresAdmin(t *testing.T) {
	router, token := newRouter(t, auth.RoleHR)
	req := httptest.NewRequest(http.MethodGet, "/audit/events", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}
