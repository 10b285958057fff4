package grpc

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/shashiranjanraj/nepkart/pkg/logger"
	"github.com/shashiranjanraj/nepkart/pkg/metrics"
)

var (
	rpcTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nepkart",
		Subsystem: "grpc",
		Name:      "handled_total",
		Help:      "gRPC calls completed, by method and status code.",
	}, []string{"grpc_method", "grpc_code"})

	rpcSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "nepkart",
		Subsystem: "grpc",
		Name:      "handling_seconds",
		Help:      "gRPC call latency.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2.5, 10),
	}, []string{"grpc_method"})
)

func init() { metrics.MustRegister(rpcTotal, rpcSeconds) }

func observe(method string, started time.Time, err error) {
	code := status.Code(err)
	rpcTotal.WithLabelValues(method, code.String()).Inc()
	rpcSeconds.WithLabelValues(method).Observe(time.Since(started).Seconds())
	if code != codes.OK {
		logger.Warn("grpc: call failed", "method", method, "code", code.String(), "error", err)
	}
}

func recovered(method string, v any) error {
	logger.Error("grpc: handler panicked", "method", method, "panic", v, "stack", string(debug.Stack()))
	return status.Error(codes.Internal, "internal server error")
}

func unaryInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (resp any, err error) {
	started := time.Now()
	defer func() {
		if v := recover(); v != nil {
			err = recovered(info.FullMethod, v)
		}
		observe(info.FullMethod, started, err)
	}()
	return next(ctx, req)
}

// streamInterceptor covers Health/Watch.
func streamInterceptor(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, next grpc.StreamHandler) (err error) {
	started := time.Now()
	defer func() {
		if v := recover(); v != nil {
			err = recovered(info.FullMethod, v)
		}
		observe(info.FullMethod, started, err)
	}()
	return next(srv, ss)
}
