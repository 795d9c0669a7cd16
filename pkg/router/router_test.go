package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/shopdesk/pkg/router"
)

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }

func TestGroupVerbsAndMiddlewareOrder(t *testing.T) {
	r := router.New()
	var order []string
	tag := func(name string) router.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, req)
			})
		}
	}

	api := r.Group("/api", tag("group"))
	api.Delete("/products/{id}", "products.destroy", ok, tag("route"))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/products/3", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"group", "route"}, order)

	rec = httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/3", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestURL(t *testing.T) {
	r := router.New()
	r.Group("api").Group("/shops/").Get("{id}/statistics", "shops.statistics", ok)

	url, err := r.URL("shops.statistics", map[string]string{"id": "7"})
	require.NoError(t, err)
	assert.Equal(t, "/api/shops/7/statistics", url)

	_, err = r.URL("shops.statistics", nil)
	assert.Error(t, err)

	_, err = r.URL("missing", nil)
	assert.Error(t, err)
}

func TestRoutesSorted(t *testing.T) {
	r := router.New()
	api := r.Group("/api")
	api.Post("/sales", "sales.store", ok)
	api.Get("/sales", "sales.index", ok)
	api.Get("/dashboard", "dashboard", ok)
	r.HandleFunc("/metrics", ok)

	routes := r.Routes()
	require.Len(t, routes, 3)
	assert.Equal(t, router.RouteInfo{Method: http.MethodGet, Path: "/api/dashboard", Name: "dashboard"}, routes[0])
	assert.Equal(t, http.MethodGet, routes[1].Method)
	assert.Equal(t, http.MethodPost, routes[2].Method)
}
