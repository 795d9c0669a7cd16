// Package ctx provides the request context handed to shopdesk controllers.
//
// A handler receives a single *Context instead of (w, r):
//
//	func (c *ProductController) Show(x *ctx.Context) {
//	    id, ok := x.ParamID("id")
//	    if !ok {
//	        return
//	    }
//	    ...
//	    x.Success(product)
//	}
//
//	router.Get("/products/{id}", "products.show", ctx.Wrap(pc.Show))
package ctx

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/shopdesk/pkg/apperr"
	"github.com/shashiranjanraj/shopdesk/pkg/bind"
	"github.com/shashiranjanraj/shopdesk/pkg/logger"
	"github.com/shashiranjanraj/shopdesk/pkg/response"
	"github.com/shashiranjanraj/shopdesk/pkg/validate"
)

type HandlerFunc func(c *Context)

// Wrap adapts a HandlerFunc to http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// Context wraps a request/response pair.
type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	mu     sync.RWMutex
	store  map[string]any
	status int
}

var pool = sync.Pool{
	New: func() any { return &Context{store: make(map[string]any)} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	c.status = 0
	for k := range c.store {
		delete(c.store, k)
	}
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter.
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// ParamID parses a numeric path parameter. A malformed id is answered with
// 404 and ok=false, since no record can match it.
func (c *Context) ParamID(key string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil || n == 0 {
		c.Fail(apperr.ErrNotFound)
		return 0, false
	}
	return uint(n), true
}

func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

func (c *Context) DefaultQuery(key, def string) string {
	if v := c.Query(key); v != "" {
		return v
	}
	return def
}

func (c *Context) Header(key string) string {
	return c.R.Header.Get(key)
}

// FormFile returns an uploaded multipart file, limiting the whole form to
// maxBytes.
func (c *Context) FormFile(field string, maxBytes int64) (multipart.File, *multipart.FileHeader, error) {
	c.R.Body = http.MaxBytesReader(c.W, c.R.Body, maxBytes)
	if err := c.R.ParseMultipartForm(maxBytes); err != nil {
		return nil, nil, err
	}
	return c.R.FormFile(field)
}

func (c *Context) Method() string { return c.R.Method }

func (c *Context) Path() string { return c.R.URL.Path }

// ClientIP returns the client address, preferring X-Forwarded-For.
func (c *Context) ClientIP() string {
	if fwd := c.R.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	if real := c.R.Header.Get("X-Real-Ip"); real != "" {
		return real
	}
	ip := c.R.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// Context returns the request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// ─── Per-request store ────────────────────────────────────────────────────────

func (c *Context) Set(key string, val any) {
	c.mu.Lock()
	c.store[key] = val
	c.mu.Unlock()
}

func (c *Context) Get(key string) (any, bool) {
	c.mu.RLock()
	v, ok := c.store[key]
	c.mu.RUnlock()
	return v, ok
}

// ─── Binding / validation ─────────────────────────────────────────────────────

// BindJSON decodes and validates the body into dest. On failure the 400 or
// 422 response has already been written and false is returned.
func (c *Context) BindJSON(dest any) bool {
	errs, err := bind.JSON(c.W, c.R, dest)
	if err != nil {
		if errors.Is(err, bind.ErrMalformed) {
			c.Error(http.StatusBadRequest, err.Error())
		} else {
			c.Fail(err)
		}
		return false
	}
	if validate.HasErrors(errs) {
		c.ValidationError(errs)
		return false
	}
	return true
}

// Validate runs the validation rules on an already populated struct.
func (c *Context) Validate(v any) map[string]string {
	return validate.Struct(v)
}

// ─── Responses ────────────────────────────────────────────────────────────────

func (c *Context) SetHeader(key, value string) {
	c.W.Header().Set(key, value)
}

func (c *Context) Status(code int) {
	c.status = code
	c.W.WriteHeader(code)
}

func (c *Context) JSON(code int, v any) {
	c.status = code
	response.JSON(c.W, code, v)
}

func (c *Context) Success(v any) { c.JSON(http.StatusOK, v) }

func (c *Context) Created(v any) { c.JSON(http.StatusCreated, v) }

// Message sends {"message": msg, ...extra}.
func (c *Context) Message(code int, msg string, extra response.M) {
	c.status = code
	response.Message(c.W, code, msg, extra)
}

func (c *Context) Error(code int, message string) {
	c.status = code
	response.Error(c.W, code, message)
}

func (c *Context) ValidationError(errs map[string]string) {
	c.status = http.StatusUnprocessableEntity
	response.ValidationError(c.W, errs)
}

// Fail renders err by its apperr kind. Server-side failures are logged with
// their cause; clients only see the public message.
func (c *Context) Fail(err error) {
	ae := apperr.As(err)
	if ae.Kind.Status() >= http.StatusInternalServerError {
		logger.WithCtx(c.Context()).Error("request failed",
			"kind", ae.Kind.String(),
			"method", c.R.Method,
			"path", c.R.URL.Path,
			"error", err,
		)
	}
	c.status = ae.Kind.Status()
	response.Fail(c.W, err)
}

func (c *Context) Unauthorized() { c.Fail(apperr.ErrUnauthenticated) }

func (c *Context) Forbidden(message ...string) {
	if len(message) > 0 {
		c.Fail(apperr.Denied(message[0]))
		return
	}
	c.Fail(apperr.ErrAccessDenied)
}

func (c *Context) NotFound() { c.Fail(apperr.ErrNotFound) }

// WrittenStatus returns the status written so far, or 0.
func (c *Context) WrittenStatus() int { return c.status }
