package middleware

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
)

// =============================================================================
// Basic Auth Middleware Tests
// =============================================================================

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestBasicAuthMiddleware_Credentials(t *testing.T) {
	mw := NewBasicAuthMiddleware("metrics", "admin", "secret123")

	testCases := []struct {
		name     string
		setAuth  func(r *http.Request)
		expected int
	}{
		{"valid", func(r *http.Request) { r.SetBasicAuth("admin", "secret123") }, http.StatusOK},
		{"wrong password", func(r *http.Request) { r.SetBasicAuth("admin", "wrong") }, http.StatusUnauthorized},
		{"wrong username", func(r *http.Request) { r.SetBasicAuth("wrong", "secret123") }, http.StatusUnauthorized},
		{"empty credentials", func(r *http.Request) { r.SetBasicAuth("", "") }, http.StatusUnauthorized},
		{"no header", func(r *http.Request) {}, http.StatusUnauthorized},
		{"malformed header", func(r *http.Request) { r.Header.Set("Authorization", "Basic !!!") }, http.StatusUnauthorized},
		{"header injection", func(r *http.Request) {
			malicious := base64.StdEncoding.EncodeToString([]byte("admin:secret123\r\nX-Injected: header"))
			r.Header.Set("Authorization", "Basic "+malicious)
		}, http.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			wrapped := mw.Handler(okHandler(&called))

			req := httptest.NewRequest("GET", "/metrics", nil)
			tc.setAuth(req)
			rec := httptest.NewRecorder()
			wrapped.ServeHTTP(rec, req)

			if rec.Code != tc.expected {
				t.Errorf("expected status %d, got %d", tc.expected, rec.Code)
			}
			if called != (tc.expected == http.StatusOK) {
				t.Errorf("handler called = %v, want %v", called, tc.expected == http.StatusOK)
			}
			if tc.expected == http.StatusUnauthorized && rec.Header().Get("WWW-Authenticate") != `Basic realm="metrics"` {
				t.Errorf("unexpected WWW-Authenticate header %q", rec.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestBasicAuthMiddleware_DisabledWhenNoCredentials(t *testing.T) {
	mw := NewBasicAuthMiddleware("metrics", "", "")

	called := false
	wrapped := mw.Handler(okHandler(&called))

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if !called {
		t.Error("expected handler to be called when auth is disabled")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200 when auth is disabled, got %d", rec.Code)
	}
}
