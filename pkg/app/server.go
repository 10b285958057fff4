package app

import (
	"context"

	"github.com/shashiranjanraj/nepkart/config"
	"github.com/shashiranjanraj/nepkart/internal/server"
	"github.com/shashiranjanraj/nepkart/pkg/database"
)

// Serve runs the HTTP and gRPC servers until ctx is cancelled, then drains
// both.
func (a *Application) Serve(ctx context.Context) error {
	return server.Run(ctx, server.Options{
		HTTPPort: config.AppPort(),
		GRPCPort: config.GRPCPort(),
		Handler:  a.Handler(),
		Check:    database.Ping,
	})
}
