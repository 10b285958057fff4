package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/nepkart/app/jobs"
	"github.com/shashiranjanraj/nepkart/app/repositories"
	"github.com/shashiranjanraj/nepkart/pkg/app"
	"github.com/shashiranjanraj/nepkart/pkg/database"
	"github.com/shashiranjanraj/nepkart/pkg/logger"
	"github.com/shashiranjanraj/nepkart/pkg/schedule"
)

var queueWorkersFlag int

// nepkart queue:work
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Process queued jobs (use with QUEUE_DRIVER=redis)",
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

		workers := queueWorkersFlag
		if workers < 1 {
			workers = 5
		}
		logger.Info("queue worker started", "workers", workers)
		rt.queue.Start(ctx, workers).Wait()
		logger.Info("queue worker stopped")
		return nil
	},
}

// nepkart schedule:run
var scheduleRunCmd = &cobra.Command{
	Use:   "schedule:run",
	Short: "Run the periodic inventory sweep",
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

		s := schedule.New()
		s.Hourly().Name("low-stock-sweep").WithoutOverlapping().Do(func(ctx context.Context) error {
			return sweepLowStock(ctx, rt)
		})
		workers := rt.queue.Start(ctx, 1)
		defer workers.Wait()

		for _, line := range s.List() {
			logger.Info("scheduled", "task", line)
		}
		s.Run(ctx)
		return nil
	},
}

// sweepLowStock queues an alert for every product at or below its
// threshold.
func sweepLowStock(ctx context.Context, rt *runtime) error {
	repo := repositories.NewProductRepository(rt.db.WithContext(ctx))
	low, err := repo.LowStock()
	if err != nil {
		return err
	}
	out, err := repo.OutOfStock()
	if err != nil {
		return err
	}
	for _, p := range append(out, low...) {
		if err := rt.queue.Dispatch(ctx, jobs.LowStockAlertName, &jobs.LowStockAlert{ProductID: p.ID}); err != nil {
			return err
		}
	}
	logger.Info("low stock sweep", "out_of_stock", len(out), "low_stock", len(low))
	return nil
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkersFlag, "workers", "w", 5, "number of concurrent workers")
}
