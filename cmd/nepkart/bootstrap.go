package main

import (
	"context"
	"fmt"
	"time"

	gql "github.com/graphql-go/graphql"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/nepkart/app/graphql"
	"github.com/shashiranjanraj/nepkart/app/jobs"
	"github.com/shashiranjanraj/nepkart/app/listeners"
	"github.com/shashiranjanraj/nepkart/app/routes"
	"github.com/shashiranjanraj/nepkart/app/services"
	"github.com/shashiranjanraj/nepkart/config"
	"github.com/shashiranjanraj/nepkart/pkg/cache"
	"github.com/shashiranjanraj/nepkart/pkg/event"
	"github.com/shashiranjanraj/nepkart/pkg/logger"
	"github.com/shashiranjanraj/nepkart/pkg/queue"
	"github.com/shashiranjanraj/nepkart/pkg/storage"
	"github.com/shashiranjanraj/nepkart/pkg/ws"
)

// runtime is everything a long-running command needs.
type runtime struct {
	db     *gorm.DB
	hub    *ws.Hub
	queue  *queue.Manager
	events *event.Dispatcher
	disk   storage.Disk
	deps   routes.Deps
}

func newQueue(db *gorm.DB) (*queue.Manager, error) {
	var driver queue.Driver
	switch config.QueueDriver() {
	case "redis":
		if !cache.Available() {
			return nil, fmt.Errorf("queue: QUEUE_DRIVER=redis but redis is not connected")
		}
		driver = queue.NewRedisDriver(cache.RDB)
	case "memory", "":
		driver = queue.NewMemoryDriver(config.Int("QUEUE_BUFFER", 256))
	default:
		return nil, fmt.Errorf("queue: unsupported QUEUE_DRIVER %q", config.QueueDriver())
	}

	q := queue.New(driver,
		queue.WithMaxRetry(config.Int("QUEUE_MAX_RETRY", 3)),
		queue.WithBackoff(2*time.Second),
		queue.WithFailedJobStore(db),
	)
	if err := q.MigrateFailedJobs(); err != nil {
		return nil, err
	}
	return q, nil
}

// wire builds the services and route dependencies on top of a booted db.
func wire(ctx context.Context, db *gorm.DB) (*runtime, error) {
	rt := &runtime{db: db, hub: ws.NewHub(), events: event.New()}

	disk, err := storage.New(ctx)
	if err != nil {
		logger.Warn("storage unavailable, image uploads disabled", "error", err)
	} else {
		rt.disk = disk
	}

	if rt.queue, err = newQueue(db); err != nil {
		return nil, err
	}
	jobs.Register(rt.queue, &jobs.Deps{DB: db, Hub: rt.hub})
	listeners.Register(rt.events, rt.hub, rt.queue)

	products := services.NewProductService(db, rt.disk)
	orders := services.NewOrderService(db, rt.events)

	schema, err := graphql.NewSchema(products, orders)
	if err != nil {
		return nil, fmt.Errorf("graphql: build schema: %w", err)
	}

	rt.deps = routes.Deps{
		Products: products,
		Orders:   orders,
		Auth:     services.NewAuthService(db),
		Feed:     rt.hub,
		Schema:   &schema,
	}
	if local, ok := rt.disk.(*storage.LocalDisk); ok {
		rt.deps.StorageRoot = local.Root()
	}
	return rt, nil
}

// routeDeps is enough to register every route without a database.
func routeDeps() routes.Deps {
	var schema gql.Schema
	return routes.Deps{
		Products: services.NewProductService(nil, nil),
		Orders:   services.NewOrderService(nil, nil),
		Auth:     services.NewAuthService(nil),
		Feed:     ws.NewHub(),
		Schema:   &schema,
	}
}
