// Package reqid assigns every HTTP request an id, propagates it through the
// request context and echoes it back in the X-Request-ID header.
//
// Wired ahead of the request logger in internal/kernel:
//
//	r.Use(reqid.Middleware(), middleware.Logger)
//
// Reading it in a service or controller:
//
//	id := reqid.FromCtx(ctx)
//
// Every line written through logger.WithCtx(ctx) already carries it:
//
//	logger.WithCtx(ctx).Info("shops: created", "created_shop_id", shop.ID)
//	// → level=INFO msg="shops: created" request_id=5f0c… user_id=1 shop_id=0 created_shop_id=3
package reqid

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type ctxKey struct{}

// Header is the HTTP header used to propagate the request ID.
const Header = "X-Request-ID"

// maxLen bounds ids accepted from upstream proxies.
const maxLen = 128

// New returns a random UUIDv4 string.
func New() string {
	return uuid.NewString()
}

func WithValue(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromCtx returns the request ID stored in ctx, or "".
func FromCtx(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return id
	}
	return ""
}

// Middleware reuses a sane upstream X-Request-ID or generates a new one.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(Header)
			if id == "" || len(id) > maxLen {
				id = New()
			}

			w.Header().Set(Header, id)
			next.ServeHTTP(w, r.WithContext(WithValue(r.Context(), id)))
		})
	}
}
