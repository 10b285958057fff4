// Package jobs holds the queued background jobs.
package jobs

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/nepkart/app/repositories"
	"github.com/shashiranjanraj/nepkart/pkg/logger"
	"github.com/shashiranjanraj/nepkart/pkg/queue"
	"github.com/shashiranjanraj/nepkart/pkg/ws"
	"gorm.io/gorm"
)

// LowStockAlertName is the queue registration name of LowStockAlert.
const LowStockAlertName = "low_stock_alert"

// Deps are the runtime dependencies handed to decoded jobs.
type Deps struct {
	DB  *gorm.DB
	Hub *ws.Hub
}

// LowStockAlert re-reads a product and, if it is still low or out of
// stock, logs a warning and pushes an inventory event to the admin feed.
type LowStockAlert struct {
	ProductID uint `json:"product_id"`

	deps *Deps
}

// NewLowStockAlert returns a factory for queue.Manager.Register.
func NewLowStockAlert(deps *Deps) func() queue.Job {
	return func() queue.Job { return &LowStockAlert{deps: deps} }
}

// Register adds every job type to q.
func Register(q *queue.Manager, deps *Deps) {
	q.Register(LowStockAlertName, NewLowStockAlert(deps))
}

// Handle implements queue.Job.
func (j *LowStockAlert) Handle(ctx context.Context) error {
	if j.deps == nil || j.deps.DB == nil {
		return fmt.Errorf("low stock alert: no database")
	}
	p, err := repositories.NewProductRepository(j.deps.DB.WithContext(ctx)).FindByID(j.ProductID)
	if err != nil {
		return fmt.Errorf("low stock alert: %w", err)
	}

	level := ""
	switch {
	case p.IsOutOfStock():
		level = "out_of_stock"
	case p.IsLowStock():
		level = "low_stock"
	default:
		return nil // restocked since dispatch
	}

	logger.WithCtx(ctx).Warn("inventory alert",
		"level", level,
		"product_id", p.ID,
		"sku", p.SKU,
		"stock", p.Stock,
		"threshold", p.LowStockThreshold,
	)
	if j.deps.Hub != nil {
		j.deps.Hub.Publish(ws.Event{Type: "inventory." + level, Data: p})
	}
	return nil
}
