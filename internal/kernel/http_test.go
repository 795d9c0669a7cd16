package kernel_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/shopdesk/app/models"
	"github.com/shashiranjanraj/shopdesk/app/repositories"
	"github.com/shashiranjanraj/shopdesk/app/services"
	"github.com/shashiranjanraj/shopdesk/internal/kernel"
	"github.com/shashiranjanraj/shopdesk/pkg/database"
	"github.com/shashiranjanraj/shopdesk/pkg/middleware"
	"github.com/shashiranjanraj/shopdesk/pkg/storage"
	"github.com/shashiranjanraj/shopdesk/pkg/ws"
)

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthPingsDatabase(t *testing.T) {
	db := database.OpenTest(t, models.All()...)
	r := kernel.New(kernel.Options{
		Services: services.New(services.Deps{Store: repositories.NewStore(db)}),
		Hub:      ws.NewHub(),
		DB:       db,
	})

	rec := serve(r.Handler(), httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	require.NoError(t, database.Close(db))
	rec = serve(r.Handler(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsAndStorage(t *testing.T) {
	root := t.TempDir()
	disk, err := storage.NewLocal(root, "http://localhost:8080/storage")
	require.NoError(t, err)
	require.NoError(t, disk.Put(context.Background(), "shops/1/logo.png", strings.NewReader("png"), "image/png"))
	_, err = os.Stat(filepath.Join(root, "shops", "1", "logo.png"))
	require.NoError(t, err)

	r := kernel.New(kernel.Options{Services: services.New(services.Deps{}), Hub: ws.NewHub(), Disk: disk})

	rec := serve(r.Handler(), httptest.NewRequest(http.MethodGet, "/storage/shops/1/logo.png", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png", rec.Body.String())

	rec = serve(r.Handler(), httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(r.Handler(), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "shopdesk_http_requests_total")
}

func TestCORSAndRateLimit(t *testing.T) {
	r := kernel.New(kernel.Options{
		Services:    services.New(services.Deps{}),
		Hub:         ws.NewHub(),
		Limiter:     middleware.NewLimiter(2, time.Minute),
		CORSOrigins: []string{"https://pos.example.com"},
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
	req.Header.Set("Origin", "https://pos.example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := serve(r.Handler(), req)
	assert.Equal(t, "https://pos.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	var last int
	for i := 0; i < 3; i++ {
		last = serve(r.Handler(), httptest.NewRequest(http.MethodGet, "/health", nil)).Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}
