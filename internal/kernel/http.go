// Package kernel assembles shopdesk's HTTP handler: global middleware,
// operational endpoints and the /api routes.
package kernel

import (
	"context"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopdesk/app/routes"
	"github.com/shashiranjanraj/shopdesk/app/services"
	"github.com/shashiranjanraj/shopdesk/pkg/metrics"
	"github.com/shashiranjanraj/shopdesk/pkg/middleware"
	"github.com/shashiranjanraj/shopdesk/pkg/reqid"
	"github.com/shashiranjanraj/shopdesk/pkg/response"
	"github.com/shashiranjanraj/shopdesk/pkg/router"
	"github.com/shashiranjanraj/shopdesk/pkg/storage"
	"github.com/shashiranjanraj/shopdesk/pkg/ws"
)

type Options struct {
	Services *services.Services
	Hub      *ws.Hub
	// DB is pinged by /health. Nil skips the ping.
	DB   *gorm.DB
	Disk storage.Disk
	// Limiter is applied to every route when set.
	Limiter     *middleware.Limiter
	CORSOrigins []string
}

// New builds the router.
func New(o Options) *router.Router {
	r := router.New()

	// Outermost first: metrics see total latency, recovery guards
	// everything below it, and the request id exists before anything logs.
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(o.CORSOrigins...)))
	if o.Limiter != nil {
		r.Use(o.Limiter.Middleware)
	}

	r.HandleFunc("/metrics", metrics.Handler())
	r.Get("/health", "health", health(o.DB))
	if local, ok := o.Disk.(*storage.Local); ok {
		r.Mount("/storage", local.FileServer("/storage"))
	}

	routes.RegisterAPI(r, o.Services, o.Hub)
	return r
}

// Ping checks the database connection.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func health(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := Ping(ctx, db); err != nil {
				response.JSON(w, http.StatusServiceUnavailable, response.M{"status": "unavailable", "database": "down"})
				return
			}
		}
		response.Success(w, response.M{"status": "ok"})
	}
}
