// Package middleware provides shopdesk's HTTP middleware.
package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/shopdesk/pkg/response"
)

// bucket is a fixed-window request count for one client.
type bucket struct {
	count   int
	resetAt time.Time
}

// Limiter caps requests per client IP inside a window.
type Limiter struct {
	max    int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
}

func NewLimiter(max int, window time.Duration) *Limiter {
	return &Limiter{
		max:     max,
		window:  window,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
}

// Allow records one request for key and reports whether it fits the window,
// plus the time the window resets.
func (l *Limiter) Allow(key string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok || now.After(b.resetAt) {
		b = &bucket{resetAt: now.Add(l.window)}
		l.buckets[key] = b
	}
	b.count++
	return b.count <= l.max, b.resetAt
}

// Sweep drops expired buckets every interval until ctx is done.
func (l *Limiter) Sweep(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			now := l.now()
			l.mu.Lock()
			for k, b := range l.buckets {
				if now.After(b.resetAt) {
					delete(l.buckets, k)
				}
			}
			l.mu.Unlock()
		}
	}
}

// Middleware answers 429 once a client exceeds the limit.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, reset := l.Allow(clientIP(r))
		if !ok {
			retry := int(time.Until(reset).Seconds()) + 1
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			response.Error(w, http.StatusTooManyRequests, "Too Many Attempts.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	ip := r.RemoteAddr
	if i := strings.LastIndex(ip, ":"); i != -1 {
		ip = ip[:i]
	}
	return ip
}
