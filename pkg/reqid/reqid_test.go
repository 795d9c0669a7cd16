package reqid_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/shopdesk/pkg/reqid"
)

func serve(t *testing.T, header string) (string, *httptest.ResponseRecorder) {
	t.Helper()
	var seen string
	h := reqid.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = reqid.FromCtx(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(reqid.Header, header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return seen, rec
}

func TestMiddleware_GeneratesID(t *testing.T) {
	seen, rec := serve(t, "")
	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get(reqid.Header))
}

func TestMiddleware_ReusesUpstreamID(t *testing.T) {
	seen, _ := serve(t, "gateway-123")
	assert.Equal(t, "gateway-123", seen)
}

func TestMiddleware_RejectsOversizedID(t *testing.T) {
	seen, _ := serve(t, strings.Repeat("x", 500))
	assert.NotEqual(t, strings.Repeat("x", 500), seen)
	assert.Len(t, seen, 36)
}
