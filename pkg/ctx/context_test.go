package ctx_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/shopdesk/pkg/apperr"
	appctx "github.com/shashiranjanraj/shopdesk/pkg/ctx"
)

func body(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestSuccessWritesResourceBody(t *testing.T) {
	rec := httptest.NewRecorder()
	appctx.Wrap(func(c *appctx.Context) {
		c.Success(map[string]any{"id": 1})
	})(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body(t, rec)["id"])
}

func TestBindJSON_Valid(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Corner Shop","email":"a@b.co"}`))

	var got string
	appctx.Wrap(func(c *appctx.Context) {
		var in struct {
			Name  string `json:"name"  validate:"required"`
			Email string `json:"email" validate:"nullable,email"`
		}
		if !c.BindJSON(&in) {
			return
		}
		got = in.Name
		c.Status(http.StatusNoContent)
	})(rec, req)

	assert.Equal(t, "Corner Shop", got)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestBindJSON_EmptyBodyReportsRequired(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)

	appctx.Wrap(func(c *appctx.Context) {
		var in struct {
			Name string `json:"name" validate:"required"`
		}
		assert.False(t, c.BindJSON(&in))
	})(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	errs := body(t, rec)["errors"].(map[string]any)
	assert.Equal(t, []any{"The name field is required."}, errs["name"])
}

func TestBindJSON_Malformed(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))

	appctx.Wrap(func(c *appctx.Context) {
		var in struct{ Name string }
		assert.False(t, c.BindJSON(&in))
	})(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParamID(t *testing.T) {
	r := chi.NewRouter()
	var got uint
	r.Get("/products/{id}", appctx.Wrap(func(c *appctx.Context) {
		id, ok := c.ParamID("id")
		if !ok {
			return
		}
		got = id
		c.Success(nil)
	}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/42", nil))
	assert.Equal(t, uint(42), got)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/abc", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFailUsesKindStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	appctx.Wrap(func(c *appctx.Context) {
		c.Fail(apperr.ErrNoShop)
		assert.Equal(t, http.StatusBadRequest, c.WrittenStatus())
	})(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "User is not associated with any shop", body(t, rec)["message"])
}

func TestForbiddenWithMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	appctx.Wrap(func(c *appctx.Context) {
		c.Forbidden("Only owners can create shops")
	})(rec, httptest.NewRequest(http.MethodPost, "/", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Only owners can create shops", body(t, rec)["message"])
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "1.2.3.4, 10.0.0.1")

	appctx.Wrap(func(c *appctx.Context) {
		assert.Equal(t, "1.2.3.4", c.ClientIP())
	})(httptest.NewRecorder(), req)
}
