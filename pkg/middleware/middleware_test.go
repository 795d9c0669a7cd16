package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/shopdesk/pkg/apperr"
	"github.com/shashiranjanraj/shopdesk/pkg/middleware"
)

type principalKey struct{}

var noContent = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestAuth(t *testing.T) {
	resolve := func(ctx context.Context, token string) (context.Context, error) {
		switch token {
		case "good":
			return context.WithValue(ctx, principalKey{}, "u1"), nil
		case "inactive":
			return nil, apperr.ErrAccountDeactivated
		}
		return nil, apperr.ErrUnauthenticated
	}

	var seen any
	h := middleware.Auth(resolve)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Context().Value(principalKey{})
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"unknown", "Bearer nope", http.StatusUnauthorized},
		{"deactivated", "Bearer inactive", http.StatusForbidden},
		{"valid", "bearer good", http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
	assert.Equal(t, "u1", seen)
}

func TestBearerTokenQueryOnlyOnUpgrade(t *testing.T) {
	upgrade := httptest.NewRequest(http.MethodGet, "/api/ws/sales?token=abc", nil)
	upgrade.Header.Set("Connection", "Upgrade")
	upgrade.Header.Set("Upgrade", "websocket")
	assert.Equal(t, "abc", middleware.BearerToken(upgrade))

	get := httptest.NewRequest(http.MethodGet, "/api/products?token=abc", nil)
	assert.Empty(t, middleware.BearerToken(get))

	post := httptest.NewRequest(http.MethodPost, "/api/sales?token=abc", nil)
	post.Header.Set("Upgrade", "websocket")
	assert.Empty(t, middleware.BearerToken(post))

	header := httptest.NewRequest(http.MethodGet, "/api/products?token=abc", nil)
	header.Header.Set("Authorization", "Bearer xyz")
	assert.Equal(t, "xyz", middleware.BearerToken(header))
}

func TestAllowsOrigin(t *testing.T) {
	check := middleware.AllowsOrigin([]string{"https://pos.example.com"})

	req := httptest.NewRequest(http.MethodGet, "/api/ws/sales", nil)
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://POS.example.com")
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://evil.example.com")
	assert.False(t, check(req))

	assert.True(t, middleware.AllowsOrigin([]string{"*"})(req))
}

func TestRecovery(t *testing.T) {
	h := middleware.Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(errors.New("boom"))
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Server Error"}`, rec.Body.String())
}

func TestLimiter(t *testing.T) {
	l := middleware.NewLimiter(2, time.Minute)
	h := l.Middleware(noContent)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.1.1.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{204, 204, 429}, codes)

	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.RemoteAddr = "10.1.1.2:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	h := middleware.CORS(middleware.DefaultCORSOptions("https://pos.example.com"))(noContent)

	req := httptest.NewRequest(http.MethodOptions, "/api/sales", nil)
	req.Header.Set("Origin", "https://pos.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://pos.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/sales", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
