package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/shopdesk/pkg/apperr"
	"github.com/shashiranjanraj/shopdesk/pkg/response"
)

// TokenResolver turns a bearer token into a request context carrying the
// authenticated principal. It returns an apperr error when the token is
// unknown, expired, revoked or belongs to a deactivated account.
type TokenResolver func(ctx context.Context, token string) (context.Context, error)

// Auth rejects requests without a resolvable bearer token.
//
//	api.Group("/", middleware.Auth(authService.Resolve))
func Auth(resolve TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				response.Fail(w, apperr.ErrUnauthenticated)
				return
			}

			ctx, err := resolve(r.Context(), token)
			if err != nil {
				response.Fail(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token from "Authorization: Bearer <token>".
// Browsers cannot set headers on a websocket upgrade, so a ?token= query
// parameter is accepted on upgrade requests only.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	if r.Method == http.MethodGet && strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
		return r.URL.Query().Get("token")
	}
	return ""
}
