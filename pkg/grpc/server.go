// Package grpc exposes grpc.health.v1.Health for load balancers and
// orchestrators. Both the overall status ("") and ServiceName follow a
// readiness Checker, normally database.Ping.
package grpc

import (
	"context"
	"fmt"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/shashiranjanraj/nepkart/pkg/logger"
)

// ServiceName is the health service name for the shop API.
const ServiceName = "nepkart.Shop"

const maxMsgBytes = 4 << 20

// Checker returns nil while the process can take traffic.
type Checker func() error

// HealthServer is grpc's health.Server whose status is refreshed from a
// Checker on every Check and on each Poll tick, so Watch streams see
// transitions.
type HealthServer struct {
	*health.Server
	check Checker
}

// NewHealthServer wraps check; nil always reports SERVING.
func NewHealthServer(check Checker) *HealthServer {
	h := &HealthServer{Server: health.NewServer(), check: check}
	h.refresh()
	return h
}

func (h *HealthServer) refresh() {
	st := grpc_health_v1.HealthCheckResponse_SERVING
	if h.check != nil {
		if err := h.check(); err != nil {
			logger.Warn("grpc: not serving", "error", err)
			st = grpc_health_v1.HealthCheckResponse_NOT_SERVING
		}
	}
	h.SetServingStatus("", st)
	h.SetServingStatus(ServiceName, st)
}

func (h *HealthServer) Check(ctx context.Context, req *grpc_health_v1.HealthCheckRequest) (*grpc_health_v1.HealthCheckResponse, error) {
	h.refresh()
	return h.Server.Check(ctx, req)
}

// Poll refreshes the status every interval until ctx ends, then marks
// everything NOT_SERVING.
func (h *HealthServer) Poll(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			h.Shutdown()
			return
		case <-t.C:
			h.refresh()
		}
	}
}

// NewServer returns an unstarted server with health, reflection and the
// metrics interceptors installed.
func NewServer(hs *HealthServer) *grpc.Server {
	srv := grpc.NewServer(
		grpc.UnaryInterceptor(unaryInterceptor),
		grpc.StreamInterceptor(streamInterceptor),
		grpc.MaxRecvMsgSize(maxMsgBytes),
		grpc.MaxSendMsgSize(maxMsgBytes),
	)
	grpc_health_v1.RegisterHealthServer(srv, hs)
	reflection.Register(srv)
	return srv
}

// Serve listens on port and serves until ctx is cancelled, then drains
// in-flight calls. It returns once the listener is up; serve errors are
// logged.
func Serve(ctx context.Context, port string, check Checker) error {
	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return fmt.Errorf("grpc: listen :%s: %w", port, err)
	}

	hs := NewHealthServer(check)
	srv := NewServer(hs)
	go hs.Poll(ctx, 10*time.Second)
	go func() {
		<-ctx.Done()
		logger.Info("grpc: draining")
		srv.GracefulStop()
	}()
	go func() {
		logger.Info("grpc: listening", "addr", lis.Addr().String())
		if err := srv.Serve(lis); err != nil {
			logger.Error("grpc: serve", "error", err)
		}
	}()
	return nil
}
