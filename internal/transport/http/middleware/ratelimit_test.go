package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func loginRequest(email, addr string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(`{"email":"`+email+`"}`))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = addr
	return req
}

func TestRateLimitByEmail(t *testing.T) {
	var bodies []string
	limited := RateLimit(1, time.Minute, EmailOrIPKey)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := new(bytes.Buffer)
		_, _ = buf.ReadFrom(r.Body)
		bodies = append(bodies, buf.String())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	limited.ServeHTTP(rec, loginRequest("A@example.com", "198.51.100.1:1"))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected first request to pass, got %d", rec.Code)
	}
	if len(bodies) != 1 || bodies[0] != `{"email":"A@example.com"}` {
		t.Fatalf("expected body to be restored, got %v", bodies)
	}

	rec = httptest.NewRecorder()
	limited.ServeHTTP(rec, loginRequest("a@example.com", "198.51.100.2:1"))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected same email to be throttled, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}

	rec = httptest.NewRecorder()
	limited.ServeHTTP(rec, loginRequest("b@example.com", "198.51.100.1:1"))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected other email to pass, got %d", rec.Code)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	limited := RateLimit(0, time.Minute, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected pass-through, got %d", rec.Code)
		}
	}
}
