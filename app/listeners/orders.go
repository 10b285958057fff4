// Package listeners reacts to committed order events: it feeds the admin
// websocket and queues inventory alerts.
package listeners

import (
	"context"

	"github.com/shashiranjanraj/nepkart/app/jobs"
	"github.com/shashiranjanraj/nepkart/app/services"
	"github.com/shashiranjanraj/nepkart/pkg/event"
	"github.com/shashiranjanraj/nepkart/pkg/logger"
	"github.com/shashiranjanraj/nepkart/pkg/queue"
	"github.com/shashiranjanraj/nepkart/pkg/ws"
)

// Register wires the order listeners into d. hub and q may be nil.
func Register(d *event.Dispatcher, hub *ws.Hub, q *queue.Manager) {
	if hub != nil {
		for _, name := range []string{
			services.EventOrderCreated,
			services.EventOrderStatusUpdated,
			services.EventOrderDeleted,
		} {
			d.Listen(name, broadcast(hub, name))
		}
	}
	if q != nil {
		d.Listen(services.EventOrderCreated, lowStock(q))
	}
}

func broadcast(hub *ws.Hub, name string) event.Handler {
	return func(_ context.Context, payload interface{}) {
		if e, ok := payload.(services.OrderEvent); ok {
			hub.Publish(ws.Event{Type: name, Data: e.Order})
		}
	}
}

func lowStock(q *queue.Manager) event.Handler {
	return func(ctx context.Context, payload interface{}) {
		e, ok := payload.(services.OrderEvent)
		if !ok {
			return
		}
		for _, it := range e.Order.Items {
			if !it.Product.IsLowStock() && !it.Product.IsOutOfStock() {
				continue
			}
			if err := q.Dispatch(ctx, jobs.LowStockAlertName, &jobs.LowStockAlert{ProductID: it.ProductID}); err != nil {
				logger.WithCtx(ctx).Error("listeners: dispatch low stock alert", "product_id", it.ProductID, "error", err)
			}
		}
	}
}
