// Package grpc holds gRPC health helpers shared by commands.
package grpc

import (
	"context"
	"fmt"
	"strings"
	"time"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// probeTimeout caps a single health check call.
const probeTimeout = time.Second

// CheckHealth asks the health server at addr for the status of service.
func CheckHealth(ctx context.Context, addr, service string) (grpc_health_v1.HealthCheckResponse_ServingStatus, error) {
	if strings.TrimSpace(addr) == "" {
		return grpc_health_v1.HealthCheckResponse_UNKNOWN, fmt.Errorf("health address is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	conn, err := gogrpc.NewClient(addr, gogrpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return grpc_health_v1.HealthCheckResponse_UNKNOWN, fmt.Errorf("dial health server: %w", err)
	}
	defer conn.Close()

	callCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	resp, err := grpc_health_v1.NewHealthClient(conn).Check(callCtx, &grpc_health_v1.HealthCheckRequest{Service: service})
	if err != nil {
		return grpc_health_v1.HealthCheckResponse_UNKNOWN, fmt.Errorf("check health: %w", err)
	}
	return resp.GetStatus(), nil
}

// RequireServing returns an error unless service at addr reports SERVING.
func RequireServing(ctx context.Context, addr, service string) error {
	status, err := CheckHealth(ctx, addr, service)
	if err != nil {
		return err
	}
	if status != grpc_health_v1.HealthCheckResponse_SERVING {
		return fmt.Errorf("service %q is %s", service, status)
	}
	return nil
}
