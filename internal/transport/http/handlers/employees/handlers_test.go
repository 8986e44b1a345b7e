package employeehandler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"officehr/internal/domain/auth"
	"officehr/internal/domain/employee"
	"officehr/internal/transport/http/api"
	"officehr/internal/transport/http/middleware"
)

const testSecret = "test-secret"

type memStore struct {
	items map[string]employee.Employee
}

func (m *memStore) Create(ctx context.Context, emp employee.Employee) error {
	for _, existing := range m.items {
		if existing.Email == emp.Email {
			return employee.ErrEmailTaken
		}
	}
	m.items[emp.ID] = emp
	return nil
}

func (m *memStore) Get(ctx context.Context, id string) (employee.Employee, error) {
	emp, ok := m.items[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (m *memStore) GetByCode(ctx context.Context, code string) (employee.Employee, error) {
	for _, emp := range m.items {
		if emp.EmployeeCode == code {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (m *memStore) Count(ctx context.Context) (int, error) {
	return len(m.items), nil
}

func (m *memStore) List(ctx context.Context, limit, offset int) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range m.items {
		out = append(out, emp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) Update(ctx context.Context, emp employee.Employee) error {
	if _, ok := m.items[emp.ID]; !ok {
		return employee.ErrEmployeeNotFound
	}
	m.items[emp.ID] = emp
	return nil
}

func (m *memStore) Delete(ctx context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return employee.ErrEmployeeNotFound
	}
	delete(m.items, id)
	return nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *api.Error      `json:"error"`
}

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	h := NewHandler(employee.NewService(&memStore{items: map[string]employee.Employee{}}), nil)
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Auth(testSecret))
	h.RegisterRoutes(r)
	return r
}

func tokenFor(t *testing.T, role string) string {
	t.Helper()
	token, _, err := auth.GenerateToken(testSecret, auth.Claims{UserID: "u1", Email: "hr@example.com", Role: role}, time.Hour)
	require.NoError(t, err)
	return token
}

func do(t *testing.T, router http.Handler, token, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	return rr, env
}

func newEmployee() map[string]any {
	return map[string]any{
		"employeeId": "EMP001",
		"firstName":  "Asha",
		"lastName":   "Rao",
		"email":      "Asha@Example.com",
		"department": "Finance",
		"role":       "Accountant",
		"joinDate":   "2024-01-15",
	}
}

func TestCreateAndFetchEmployee(t *testing.T) {
	router := newRouter(t)
	token := tokenFor(t, auth.RoleHR)

	rr, env := do(t, router, token, http.MethodPost, "/employees", newEmployee())
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created employee.Employee
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "asha@example.com", created.Email)
	assert.Equal(t, employee.TypeFullTime, created.EmployeeType)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), created.JoinDate)

	rr, env = do(t, router, token, http.MethodGet, "/employees/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr, env = do(t, router, token, http.MethodGet, "/employees/code/EMP001", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var byCode employee.Employee
	require.NoError(t, json.Unmarshal(env.Data, &byCode))
	assert.Equal(t, created.ID, byCode.ID)

	rr, _ = do(t, router, token, http.MethodPost, "/employees", newEmployee())
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestCreateEmployeeValidation(t *testing.T) {
	router := newRouter(t)
	token := tokenFor(t, auth.RoleAdmin)

	body := newEmployee()
	body["email"] = "not-an-email"
	body["joinDate"] = "15/01/2024"
	rr, env := do(t, router, token, http.MethodPost, "/employees", body)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "validation_error", env.Error.Code)

	body = newEmployee()
	delete(body, "department")
	rr, env = do(t, router, token, http.MethodPost, "/employees", body)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid_input", env.Error.Code)
}

func TestUpdateAndDeleteEmployee(t *testing.T) {
	router := newRouter(t)
	token := tokenFor(t, auth.RoleHR)

	_, env := do(t, router, token, http.MethodPost, "/employees", newEmployee())
	var created employee.Employee
	require.NoError(t, json.Unmarshal(env.Data, &created))

	rr, env := do(t, router, token, http.MethodPut, "/employees/"+created.ID, map[string]any{"department": "Operations"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var updated employee.Employee
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "Operations", updated.Department)
	assert.Equal(t, "Asha", updated.FirstName)

	rr, _ = do(t, router, token, http.MethodPut, "/employees/"+created.ID, map[string]any{"manager": created.ID})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, _ = do(t, router, token, http.MethodDelete, "/employees/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	rr, _ = do(t, router, token, http.MethodGet, "/employees/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestWritesRequireStaffRole(t *testing.T) {
	router := newRouter(t)

	rr, env := do(t, router, tokenFor(t, "GUEST"), http.MethodPost, "/employees", newEmployee())
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "forbidden", env.Error.Code)

	rr, _ = do(t, router, "", http.MethodGet, "/employees", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
