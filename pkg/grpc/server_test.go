package grpc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

func TestHealthReflectsChecker(t *testing.T) {
	var dbErr error
	h := &healthServer{check: func(context.Context) error { return dbErr }}

	resp, err := h.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, resp.Status)

	dbErr = errors.New("database: ping: connection refused")
	resp, err = h.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: "shopdesk"})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, resp.Status)
}

func TestHealthUnknownService(t *testing.T) {
	h := &healthServer{}
	_, err := h.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: "billing"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}
