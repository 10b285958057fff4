// Package queue runs background jobs outside the request path.
//
//	q := queue.New(queue.NewMemoryDriver(100))
//	q.Register("low_stock_alert", func() queue.Job { return &jobs.LowStockAlert{} })
//	q.Dispatch(ctx, "low_stock_alert", &jobs.LowStockAlert{ProductID: 7})
//	q.Start(ctx, 2)
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/shashiranjanraj/nepkart/pkg/logger"
	"github.com/shashiranjanraj/nepkart/pkg/metrics"
	"gorm.io/gorm"
)

// Job is a unit of background work. It is JSON-encoded between Dispatch
// and Handle.
type Job interface {
	Handle(ctx context.Context) error
}

// Driver stores encoded jobs between dispatch and processing.
type Driver interface {
	Push(ctx context.Context, payload []byte) error
	// Pop blocks until a payload is ready. A nil payload with nil error
	// means nothing arrived before the driver's poll timeout.
	Pop(ctx context.Context) ([]byte, error)
}

// FailedJob is a job that exhausted its retries.
type FailedJob struct {
	Type     string
	Payload  []byte
	Err      error
	FailedAt time.Time
	Attempts int
}

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Manager dispatches and processes jobs through one driver.
type Manager struct {
	driver   Driver
	maxRetry int
	backoff  time.Duration
	failedDB *gorm.DB

	mu       sync.RWMutex
	registry map[string]func() Job
	failed   []FailedJob
}

// Option configures a Manager.
type Option func(*Manager)

// WithMaxRetry sets how many times a job runs before it is marked failed.
func WithMaxRetry(n int) Option { return func(m *Manager) { m.maxRetry = n } }

// WithBackoff sets the delay unit between attempts (attempt × d).
func WithBackoff(d time.Duration) Option { return func(m *Manager) { m.backoff = d } }

// WithFailedJobStore persists failed jobs to db.
func WithFailedJobStore(db *gorm.DB) Option { return func(m *Manager) { m.failedDB = db } }

// New returns a Manager using driver.
func New(driver Driver, opts ...Option) *Manager {
	m := &Manager{
		driver:   driver,
		maxRetry: 3,
		backoff:  time.Second,
		registry: map[string]func() Job{},
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Register makes a job type decodable by name.
func (m *Manager) Register(name string, factory func() Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registry[name] = factory
}

// Dispatch encodes job under name and pushes it.
func (m *Manager) Dispatch(ctx context.Context, name string, job Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("queue: marshal %s: %w", name, err)
	}
	env, err := json.Marshal(envelope{Type: name, Payload: payload})
	if err != nil {
		return fmt.Errorf("queue: marshal envelope: %w", err)
	}
	if err := m.driver.Push(ctx, env); err != nil {
		return fmt.Errorf("queue: push %s: %w", name, err)
	}
	return nil
}

// Start launches n workers that run until ctx is cancelled. The returned
// WaitGroup completes once every worker has exited.
func (m *Manager) Start(ctx context.Context, n int) *sync.WaitGroup {
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.work(ctx)
		}()
	}
	logger.Info("queue: workers started", "count", n)
	return &wg
}

func (m *Manager) work(ctx context.Context) {
	for ctx.Err() == nil {
		raw, err := m.driver.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn("queue: pop failed", "error", err)
			sleep(ctx, 500*time.Millisecond)
			continue
		}
		if raw != nil {
			m.Process(ctx, raw)
		}
	}
}

// Process decodes and runs one encoded job with retries.
func (m *Manager) Process(ctx context.Context, raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.Error("queue: bad envelope", "error", err)
		return
	}

	m.mu.RLock()
	factory, ok := m.registry[env.Type]
	m.mu.RUnlock()
	if !ok {
		logger.Warn("queue: unregistered job type", "type", env.Type)
		return
	}

	job := factory()
	if err := json.Unmarshal(env.Payload, job); err != nil {
		logger.Error("queue: unmarshal payload", "type", env.Type, "error", err)
		return
	}

	start := time.Now()
	var lastErr error
	for attempt := 1; attempt <= m.maxRetry; attempt++ {
		if lastErr = job.Handle(ctx); lastErr == nil {
			metrics.RecordQueueJob(env.Type, "success", start)
			return
		}
		logger.Warn("queue: job failed", "type", env.Type, "attempt", attempt, "error", lastErr)
		if attempt < m.maxRetry && !sleep(ctx, time.Duration(attempt)*m.backoff) {
			break
		}
	}

	metrics.RecordQueueJob(env.Type, "failed", start)
	m.fail(FailedJob{Type: env.Type, Payload: env.Payload, Err: lastErr, FailedAt: time.Now(), Attempts: m.maxRetry})
}

// FailedJobs returns a snapshot of jobs that failed in this process.
func (m *Manager) FailedJobs() []FailedJob {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]FailedJob, len(m.failed))
	copy(out, m.failed)
	return out
}

// sleep waits d or until ctx is done; it reports whether d elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
