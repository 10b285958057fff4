package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/nepkart/app/routes"
	"github.com/shashiranjanraj/nepkart/config"
	"github.com/shashiranjanraj/nepkart/pkg/app"
	"github.com/shashiranjanraj/nepkart/pkg/database"
	"github.com/shashiranjanraj/nepkart/pkg/logger"
	"github.com/shashiranjanraj/nepkart/pkg/router"
)

// nepkart serve
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run"},
	Short:   "Start the HTTP and gRPC servers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cleanup, err := app.Boot()
		defer cleanup()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		rt, err := wire(ctx, database.DB)
		if err != nil {
			return err
		}
		go rt.hub.Run(ctx)

		// In-process workers drain alerts queued by the checkout listeners.
		workers := rt.queue.Start(ctx, config.Int("QUEUE_WORKERS", 2))
		defer workers.Wait()

		a := app.New().Routes(func(r *router.Router) { routes.RegisterAPI(r, rt.deps) })
		if err := a.Serve(ctx); err != nil {
			logger.Error("server stopped", "error", err)
			stop()
			return err
		}
		return nil
	},
}

// nepkart route:list
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.New().Routes(func(r *router.Router) { routes.RegisterAPI(r, routeDeps()) })
		return app.RouteList(os.Stdout, a.Router())
	},
}
