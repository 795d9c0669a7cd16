// Package server wires shopdesk's dependencies and runs the HTTP and gRPC
// listeners until the context is cancelled.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shashiranjanraj/shopdesk/app/models"
	"github.com/shashiranjanraj/shopdesk/app/repositories"
	"github.com/shashiranjanraj/shopdesk/app/resources"
	"github.com/shashiranjanraj/shopdesk/app/services"
	"github.com/shashiranjanraj/shopdesk/config"
	"github.com/shashiranjanraj/shopdesk/internal/kernel"
	"github.com/shashiranjanraj/shopdesk/internal/task"
	"github.com/shashiranjanraj/shopdesk/pkg/auth"
	"github.com/shashiranjanraj/shopdesk/pkg/cache"
	"github.com/shashiranjanraj/shopdesk/pkg/database"
	"github.com/shashiranjanraj/shopdesk/pkg/event"
	"github.com/shashiranjanraj/shopdesk/pkg/grpc"
	"github.com/shashiranjanraj/shopdesk/pkg/logger"
	"github.com/shashiranjanraj/shopdesk/pkg/middleware"
	"github.com/shashiranjanraj/shopdesk/pkg/storage"
	"github.com/shashiranjanraj/shopdesk/pkg/ws"
)

const shutdownTimeout = 10 * time.Second

// Settings maps configuration onto service behaviour.
func Settings() services.Settings {
	role := models.Role(config.DefaultSignupRole())
	if !models.ValidRole(role) {
		logger.Warn("server: unknown AUTH_DEFAULT_ROLE, using owner", "role", role)
		role = models.RoleOwner
	}
	return services.Settings{
		DefaultSignupRole: role,
		EnforceStockFloor: config.EnforceStockFloor(),
		ShopScopedReports: config.ReportScope() == "shop",
		LowStockThreshold: config.LowStockThreshold(),
		Location:          config.AppLocation(),
	}
}

// Cache dials Redis, falling back to the in-process store when it is
// unreachable.
func Cache(ctx context.Context) cache.Store {
	r, err := cache.Connect(ctx, config.RedisAddr(), config.RedisPassword(), "shopdesk:")
	if err != nil {
		logger.Warn("server: redis unavailable, using memory cache", "error", err)
		return cache.NewMemory()
	}
	return r
}

// Boot connects the database and builds the service layer.
func Boot(ctx context.Context, disk storage.Disk, bus *event.Bus) (*services.Services, error) {
	if err := database.Connect(); err != nil {
		return nil, err
	}
	signer, err := auth.NewSigner(config.JWTSecret(), config.TokenTTL())
	if err != nil {
		return nil, err
	}
	return services.New(services.Deps{
		Store:    repositories.NewStore(database.DB),
		Signer:   signer,
		Verifier: auth.NewGoogleVerifier(config.GoogleClientID()),
		Cache:    Cache(ctx),
		Events:   bus,
		Disk:     disk,
		Settings: Settings(),
	}), nil
}

// BroadcastSales pushes every posted sale to its shop's live feed room.
func BroadcastSales(bus *event.Bus, hub *ws.Hub) {
	bus.Listen(event.SalePosted, func(payload interface{}) {
		sale, ok := payload.(*models.Sale)
		if !ok {
			return
		}
		data, err := json.Marshal(map[string]interface{}{
			"event": event.SalePosted,
			"sale":  resources.Sale(sale),
		})
		if err != nil {
			logger.Error("server: encode sale event", "sale_id", sale.ID, "error", err)
			return
		}
		hub.Broadcast(sale.ShopID, data)
	})
}

// Run serves until ctx is done, then shuts down gracefully.
func Run(ctx context.Context) error {
	if err := config.Load(); err != nil {
		return err
	}
	flush := logger.Setup(ctx)
	defer flush()

	disk, err := storage.Open(ctx, storage.ConfigFromEnv())
	if err != nil {
		return err
	}
	bus := event.NewBus()
	svc, err := Boot(ctx, disk, bus)
	if err != nil {
		return err
	}
	defer database.Close(database.DB) //nolint:errcheck

	ws.SetCheckOrigin(middleware.AllowsOrigin(config.CORSOrigins()))
	hub := ws.NewHub()
	go hub.Run(ctx)
	BroadcastSales(bus, hub)

	limiter := middleware.NewLimiter(config.RateLimitPerMinute(), time.Minute)
	go limiter.Sweep(ctx, time.Minute)

	prune := task.NewTokenTask(svc.Auth, config.TokenPruneSchedule())
	if err := prune.Start(); err != nil {
		return err
	}
	defer prune.Stop()

	if port := config.GRPCPort(); port != "" {
		srv, _, err := grpc.Start(port, func(ctx context.Context) error {
			return kernel.Ping(ctx, database.DB)
		})
		if err != nil {
			return err
		}
		defer grpc.Stop(srv)
	}

	router := kernel.New(kernel.Options{
		Services:    svc,
		Hub:         hub,
		DB:          database.DB,
		Disk:        disk,
		Limiter:     limiter,
		CORSOrigins: config.CORSOrigins(),
	})
	httpSrv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("shopdesk running", "addr", httpSrv.Addr, "env", config.AppEnv())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server: listen: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}
