// Package event dispatches named domain events to registered listeners.
// A listener that panics is logged and skipped; it never reaches the
// caller that fired the event.
package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/shashiranjanraj/nepkart/pkg/logger"
)

// Handler receives an event payload.
type Handler func(ctx context.Context, payload interface{})

// Dispatcher holds listeners by event name.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// New returns an empty Dispatcher.
func New() *Dispatcher {
	return &Dispatcher{handlers: map[string][]Handler{}}
}

// Listen registers handler for name.
func (d *Dispatcher) Listen(name string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[name] = append(d.handlers[name], handler)
}

// Fire runs every listener for name synchronously, in registration order.
func (d *Dispatcher) Fire(ctx context.Context, name string, payload interface{}) {
	d.mu.RLock()
	hs := make([]Handler, len(d.handlers[name]))
	copy(hs, d.handlers[name])
	d.mu.RUnlock()

	for _, h := range hs {
		d.call(ctx, name, h, payload)
	}
}

func (d *Dispatcher) call(ctx context.Context, name string, h Handler, payload interface{}) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithCtx(ctx).Error("event: listener panicked", "event", name, "error", fmt.Sprint(r))
		}
	}()
	h(ctx, payload)
}

// Listeners reports how many handlers are registered for name.
func (d *Dispatcher) Listeners(name string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.handlers[name])
}

// Default is the process-wide dispatcher.
var Default = New()

// Listen registers handler on Default.
func Listen(name string, handler Handler) { Default.Listen(name, handler) }

// Fire dispatches on Default.
func Fire(ctx context.Context, name string, payload interface{}) { Default.Fire(ctx, name, payload) }
