package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSOptions configures the CORS middleware.
type CORSOptions struct {
	AllowedOrigins []string // ["*"] allows any origin
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         int // preflight cache, seconds
}

// DefaultCORSOptions allows the given origins with the verbs and headers the
// POS front end sends.
func DefaultCORSOptions(origins ...string) CORSOptions {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return CORSOptions{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}
}

func CORS(opts CORSOptions) func(http.Handler) http.Handler {
	methods := strings.Join(opts.AllowedMethods, ", ")
	headers := strings.Join(opts.AllowedHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if allowed := matchOrigin(opts.AllowedOrigins, origin); allowed != "" {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", allowed)
				h.Set("Access-Control-Allow-Methods", methods)
				h.Set("Access-Control-Allow-Headers", headers)
				h.Add("Vary", "Origin")
				if opts.MaxAge > 0 {
					h.Set("Access-Control-Max-Age", strconv.Itoa(opts.MaxAge))
				}
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AllowsOrigin reports whether a request's Origin is in allowed. Requests
// without an Origin header are not from a browser and pass. Used as the
// websocket upgrader's origin check.
func AllowsOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || matchOrigin(allowed, origin) != ""
	}
}

func matchOrigin(allowed []string, origin string) string {
	for _, o := range allowed {
		if o == "*" {
			return "*"
		}
		if origin != "" && strings.EqualFold(o, origin) {
			return origin
		}
	}
	return ""
}
