// Package grpc runs shopdesk's gRPC listener. It serves the standard
// grpc.health.v1 service, reporting NOT_SERVING while a dependency check
// (database ping) fails, and reflection for grpcurl.
package grpc

import (
	"context"
	"fmt"
	"net"
	"runtime/debug"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/shashiranjanraj/shopdesk/pkg/logger"
	"github.com/shashiranjanraj/shopdesk/pkg/metrics"
)

var (
	grpcRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shopdesk",
		Subsystem: "grpc",
		Name:      "handled_total",
		Help:      "Total number of gRPC calls completed by method and code.",
	}, []string{"grpc_method", "grpc_code"})

	grpcRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "shopdesk",
		Subsystem: "grpc",
		Name:      "handling_seconds",
		Help:      "Histogram of gRPC response latency in seconds.",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"grpc_method"})
)

func init() {
	metrics.DefaultRegistry.MustRegister(grpcRequestsTotal, grpcRequestDuration)
}

func recoveryInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("grpc: panic recovered",
				"method", info.FullMethod,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			err = status.Errorf(codes.Internal, "internal server error")
		}
	}()
	return handler(ctx, req)
}

// observeInterceptor logs and measures each unary call.
func observeInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	dur := time.Since(start)
	code := status.Code(err)

	grpcRequestsTotal.WithLabelValues(info.FullMethod, code.String()).Inc()
	grpcRequestDuration.WithLabelValues(info.FullMethod).Observe(dur.Seconds())
	logger.Debug("grpc: request",
		"method", info.FullMethod,
		"duration_ms", dur.Milliseconds(),
		"code", code.String(),
	)
	return resp, err
}

// Checker reports whether a dependency is usable.
type Checker func(ctx context.Context) error

// healthServer answers for the whole process ("") and for "shopdesk".
type healthServer struct {
	grpc_health_v1.UnimplementedHealthServer
	check Checker
}

func (h *healthServer) status(ctx context.Context, service string) (grpc_health_v1.HealthCheckResponse_ServingStatus, error) {
	if service != "" && service != "shopdesk" {
		return grpc_health_v1.HealthCheckResponse_SERVICE_UNKNOWN, status.Errorf(codes.NotFound, "unknown service %q", service)
	}
	if h.check != nil {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := h.check(ctx); err != nil {
			logger.Warn("grpc: health check failed", "error", err)
			return grpc_health_v1.HealthCheckResponse_NOT_SERVING, nil
		}
	}
	return grpc_health_v1.HealthCheckResponse_SERVING, nil
}

func (h *healthServer) Check(ctx context.Context, req *grpc_health_v1.HealthCheckRequest) (*grpc_health_v1.HealthCheckResponse, error) {
	st, err := h.status(ctx, req.GetService())
	if err != nil {
		return nil, err
	}
	return &grpc_health_v1.HealthCheckResponse{Status: st}, nil
}

func (h *healthServer) Watch(req *grpc_health_v1.HealthCheckRequest, stream grpc_health_v1.Health_WatchServer) error {
	st, err := h.status(stream.Context(), req.GetService())
	if err != nil {
		return err
	}
	return stream.Send(&grpc_health_v1.HealthCheckResponse{Status: st})
}

// NewServer builds the gRPC server without listening.
func NewServer(check Checker) *grpc.Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(recoveryInterceptor, observeInterceptor),
		grpc.MaxRecvMsgSize(4*1024*1024),
		grpc.MaxSendMsgSize(4*1024*1024),
	)
	grpc_health_v1.RegisterHealthServer(srv, &healthServer{check: check})
	reflection.Register(srv)
	return srv
}

// Start listens on port and serves in the background.
func Start(port string, check Checker) (*grpc.Server, net.Listener, error) {
	addr := ":" + port
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("grpc: listen on %s: %w", addr, err)
	}

	srv := NewServer(check)
	logger.Info("gRPC server starting", "addr", addr)
	go func() {
		if err := srv.Serve(lis); err != nil {
			logger.Error("grpc: serve error", "error", err)
		}
	}()
	return srv, lis, nil
}

// Stop waits for in-flight RPCs, then closes the listener.
func Stop(srv *grpc.Server) {
	if srv == nil {
		return
	}
	logger.Info("gRPC server shutting down")
	srv.GracefulStop()
}
