package circularhandler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"officehr/internal/domain/auth"
	"officehr/internal/domain/circular"
	"officehr/internal/domain/employee"
	"officehr/internal/platform/email"
	"officehr/internal/platform/metrics"
	"officehr/internal/transport/http/api"
	"officehr/internal/transport/http/middleware"
)

const testSecret = "test-secret"

type memStore struct {
	items map[string]circular.Circular
}

func (m *memStore) Create(ctx context.Context, c circular.Circular) error {
	m.items[c.ID] = c
	return nil
}

func (m *memStore) Get(ctx context.Context, id string) (circular.Circular, error) {
	c, ok := m.items[id]
	if !ok {
		return circular.Circular{}, circular.ErrCircularNotFound
	}
	return c, nil
}

func (m *memStore) Count(ctx context.Context) (int, error) {
	return len(m.items), nil
}

func (m *memStore) List(ctx context.Context, limit, offset int) ([]circular.Circular, error) {
	var out []circular.Circular
	for _, c := range m.items {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) Update(ctx context.Context, c circular.Circular) error {
	if _, ok := m.items[c.ID]; !ok {
		return circular.ErrCircularNotFound
	}
	m.items[c.ID] = c
	return nil
}

func (m *memStore) Delete(ctx context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return circular.ErrCircularNotFound
	}
	delete(m.items, id)
	return nil
}

type directory []employee.Employee

func (d directory) Get(ctx context.Context, id string) (employee.Employee, error) {
	for _, emp := range d {
		if emp.ID == id {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (d directory) List(ctx context.Context, limit, offset int) ([]employee.Employee, int, error) {
	if offset >= len(d) {
		return nil, len(d), nil
	}
	page := d[offset:]
	if limit < len(page) {
		page = page[:limit]
	}
	return page, len(d), nil
}

type mailer struct {
	sent []email.Message
	err  error
}

func (m *mailer) Send(ctx context.Context, msg email.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *api.Error      `json:"error"`
}

type testServer struct {
	router  http.Handler
	store   *memStore
	mailer  *mailer
	metrics *metrics.Collector
	token   string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := &memStore{items: map[string]circular.Circular{}}
	dir := directory{
		{ID: "e1", FirstName: "Asha", Email: "asha@example.com", Department: "Finance"},
		{ID: "e2", FirstName: "Ravi", Email: "ravi@example.com", Department: "Operations"},
		{ID: "e3", FirstName: "Meera", Department: "Finance"},
	}
	m := &mailer{}
	collector := metrics.New()
	svc := circular.NewService(store, dir, m, "Acme HR")
	h := NewHandler(svc, nil, collector, "hr@example.com")

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Auth(testSecret))
	h.RegisterRoutes(r)

	token, _, err := auth.GenerateToken(testSecret, auth.Claims{UserID: "u1", Email: "hr@example.com", Role: auth.RoleHR}, time.Hour)
	require.NoError(t, err)
	return &testServer{router: r, store: store, mailer: m, metrics: collector, token: token}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func (s *testServer) draft(t *testing.T, body map[string]any) circular.Circular {
	t.Helper()
	rr := s.do(t, http.MethodPost, "/circulars", body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var c circular.Circular
	decode(t, rr, &c)
	return c
}

func TestCreateDraftAndGet(t *testing.T) {
	s := newTestServer(t)
	c := s.draft(t, map[string]any{
		"title":         "Audit week",
		"category":      "Finance",
		"content":       "Keep receipts ready.",
		"effectiveDate": "2025-11-10",
		"departments":   []string{"Finance"},
	})
	assert.Equal(t, circular.StatusDraft, c.Status)
	assert.Equal(t, "hr@example.com", c.CreatedBy)
	require.NotNil(t, c.EffectiveDate)
	assert.Equal(t, "2025-11-10", c.EffectiveDate.Format(time.DateOnly))
	assert.Empty(t, s.mailer.sent)

	rr := s.do(t, http.MethodGet, "/circulars/"+c.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var got circular.Circular
	decode(t, rr, &got)
	assert.Equal(t, "Audit week", got.Title)
}

func TestCreateValidation(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodPost, "/circulars", map[string]any{"content": "no title"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	env := decode(t, rr, nil)
	require.NotNil(t, env.Error)
	assert.Equal(t, "validation_error", env.Error.Code)

	rr = s.do(t, http.MethodPost, "/circulars", map[string]any{
		"title":         "Holiday",
		"effectiveDate": "2025-12-05",
		"expiryDate":    "2025-12-01",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(t, http.MethodPost, "/circulars", map[string]any{"title": "Holiday", "effectiveDate": "05/12/2025"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, s.store.items)
}

func TestSendMailsAudience(t *testing.T) {
	s := newTestServer(t)
	rr := s.do(t, http.MethodPost, "/circulars/send", map[string]any{
		"title":       "Audit week",
		"content":     "Keep receipts ready.",
		"departments": []string{"finance"},
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var delivery circular.Delivery
	decode(t, rr, &delivery)
	assert.Equal(t, []string{"asha@example.com"}, delivery.Sent)
	assert.Equal(t, []string{"e3"}, delivery.Skipped)
	assert.Equal(t, circular.StatusPublished, delivery.Circular.Status)

	require.Len(t, s.mailer.sent, 1)
	assert.Equal(t, "hr@example.com", s.mailer.sent[0].From)
	snap := s.metrics.Snapshot()
	assert.Equal(t, uint64(1), snap["circularsPublishedTotal"])
	assert.Equal(t, uint64(1), snap["emailsSentTotal"])
}

func TestPublishedCircularIsImmutable(t *testing.T) {
	s := newTestServer(t)
	c := s.draft(t, map[string]any{"title": "Hello", "employees": []string{"e2"}})

	rr := s.do(t, http.MethodPut, "/circulars/"+c.ID, map[string]any{"content": "edited before publish"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = s.do(t, http.MethodPost, "/circulars/"+c.ID+"/publish", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.Len(t, s.mailer.sent, 1)
	assert.Contains(t, s.mailer.sent[0].Body, "edited before publish")

	rr = s.do(t, http.MethodPut, "/circulars/"+c.ID, map[string]any{"content": "too late"})
	assert.Equal(t, http.StatusConflict, rr.Code)
	rr = s.do(t, http.MethodPost, "/circulars/"+c.ID+"/publish", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
	env := decode(t, rr, nil)
	assert.Equal(t, "already_published", env.Error.Code)
}

func TestPublishErrors(t *testing.T) {
	s := newTestServer(t)

	unknown := s.draft(t, map[string]any{"title": "Hello", "employees": []string{"ghost"}})
	rr := s.do(t, http.MethodPost, "/circulars/"+unknown.ID+"/publish", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	unreachable := s.draft(t, map[string]any{"title": "Hello", "employees": []string{"e3"}})
	rr = s.do(t, http.MethodPost, "/circulars/"+unreachable.ID+"/publish", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	env := decode(t, rr, nil)
	assert.Equal(t, "no_recipients", env.Error.Code)

	rr = s.do(t, http.MethodPost, "/circulars/missing/publish", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	s.mailer.err = errors.New("smtp down")
	c := s.draft(t, map[string]any{"title": "Hello"})
	rr = s.do(t, http.MethodPost, "/circulars/"+c.ID+"/publish", nil)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, circular.StatusDraft, s.store.items[c.ID].Status)
	assert.Equal(t, uint64(1), s.metrics.Snapshot()["emailsFailedTotal"])
	assert.Equal(t, uint64(0), s.metrics.Snapshot()["circularsPublishedTotal"])
}

func TestListDepartmentsAndDelete(t *testing.T) {
	s := newTestServer(t)
	s.draft(t, map[string]any{"title": "First"})
	second := s.draft(t, map[string]any{"title": "Second"})

	rr := s.do(t, http.MethodGet, "/circulars?limit=1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "2", rr.Header().Get("X-Total-Count"))
	var items []circular.Circular
	decode(t, rr, &items)
	assert.Len(t, items, 1)

	rr = s.do(t, http.MethodGet, "/circulars/departments", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var depts []string
	decode(t, rr, &depts)
	assert.Equal(t, []string{"Finance", "Operations"}, depts)

	rr = s.do(t, http.MethodDelete, "/circulars/"+second.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = s.do(t, http.MethodDelete, "/circulars/"+second.ID, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRoutesRequireAuthentication(t *testing.T) {
	s := newTestServer(t)
	s.token = ""
	rr := s.do(t, http.MethodGet, "/circulars", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
