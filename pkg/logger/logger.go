// Package logger provides the structured, levelled logger used across
// shopdesk, built on log/slog.
//
// WithCtx returns the per-request logger injected by middleware.Logger, so
// every line written while serving a request carries its request_id:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("sale posted", "sale_id", sale.ID)
//	// → time=... level=INFO msg="sale posted" request_id=2f1c... sale_id=42
package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/shopdesk/config"
)

var L *slog.Logger

func init() {
	L = slog.New(baseHandler())
	slog.SetDefault(L)
}

func baseHandler() slog.Handler {
	opts := &slog.HandlerOptions{Level: level()}

	switch config.AppEnv() {
	case "production", "prod":
		return slog.NewJSONHandler(os.Stdout, opts)
	default:
		return slog.NewTextHandler(os.Stdout, opts)
	}
}

func level() slog.Level {
	switch config.LogLevel() {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	switch config.AppEnv() {
	case "production", "prod":
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// Setup attaches the optional MongoDB sink when LOG_MONGO_URI is set.
// The returned func flushes and disconnects it; it is never nil.
func Setup(ctx context.Context) func() {
	uri := config.LogMongoURI()
	if uri == "" {
		return func() {}
	}

	mh, err := NewMongoHandler(ctx, uri, config.LogMongoDB(), config.LogMongoCollection())
	if err != nil {
		L.Warn("logger: mongo sink disabled", "error", err)
		return func() {}
	}

	L = slog.New(NewMultiHandler(baseHandler(), mh))
	slog.SetDefault(L)
	return mh.Close
}

type ctxKey struct{}

// WithCtx returns the request logger stored in ctx, or the base logger.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return L
	}
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a request-scoped logger into ctx.
// Called by the Logger middleware.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }

func Info(msg string, args ...any) { L.Info(msg, args...) }

func Warn(msg string, args ...any) { L.Warn(msg, args...) }

func Error(msg string, args ...any) { L.Error(msg, args...) }
