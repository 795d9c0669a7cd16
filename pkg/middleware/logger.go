package middleware

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/shopdesk/pkg/logger"
	"github.com/shashiranjanraj/shopdesk/pkg/reqid"
)

// statusRecorder captures the status code written downstream.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer, which the
// websocket upgrade needs for Hijack.
func (rw *statusRecorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Logger logs one line per request and injects a request-scoped logger
// tagged with request_id. reqid.Middleware must run first.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		reqLog := logger.L.With("request_id", reqid.FromCtx(r.Context()))
		r = r.WithContext(logger.InjectLogger(r.Context(), reqLog))

		rw := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		log := reqLog.Info
		if rw.statusCode >= http.StatusInternalServerError {
			log = reqLog.Error
		}
		log("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", clientIP(r),
		)
	})
}
