package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func skipperContext(method, path string) echo.Context {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(method, path, nil), httptest.NewRecorder())
	c.SetPath(path)
	return c
}

func TestAuthSkipper(t *testing.T) {
	tests := []struct {
		method string
		path   string
		skip   bool
	}{
		{http.MethodGet, "/health", true},
		{http.MethodGet, "/api/v1/labels", true},
		{http.MethodGet, "/api/v1/labels/:setId/graph", true},
		{http.MethodPost, "/api/v1/spl/parse", true},
		{http.MethodPost, "/api/v1/spl/graph", true},
		{http.MethodPost, "/api/v1/labels", false},
	}
	for _, tt := range tests {
		if got := AuthSkipper(skipperContext(tt.method, tt.path)); got != tt.skip {
			t.Errorf("%s %s: expected skip=%v, got %v", tt.method, tt.path, tt.skip, got)
		}
	}
}

func TestIsPublicPath(t *testing.T) {
	if !IsPublicPath("/health/db") {
		t.Error("expected /health/db to be public")
	}
	if IsPublicPath("/api/v1/labels") {
		t.Error("expected /api/v1/labels to NOT be public")
	}
}

func TestJWTMiddleware_SkipsPublicPaths(t *testing.T) {
	cfg := JWTConfig{SigningKey: testSigningKey, Skipper: AuthSkipper}
	if err := runMiddleware(t, JWTMiddleware(cfg), http.MethodPost, "/api/v1/spl/parse", "", nil); err != nil {
		t.Fatalf("expected no error for skipped path, got: %v", err)
	}
	err := runMiddleware(t, JWTMiddleware(cfg), http.MethodPost, "/api/v1/labels", "", nil)
	expectStatus(t, err, http.StatusUnauthorized)
}
