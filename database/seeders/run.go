// Package seeders fills an empty database with the starter catalog and the
// admin account. Each seeder is idempotent; `nepkart seed` may be run
// against a live shop.
package seeders

import (
	"fmt"
	"sync"

	"github.com/shashiranjanraj/nepkart/pkg/logger"
	"gorm.io/gorm"
)

// SeederFunc writes one slice of seed data.
type SeederFunc func(db *gorm.DB) error

type registry struct {
	sync.Mutex
	names []string
	fns   map[string]SeederFunc
}

var seeds = registry{fns: map[string]SeederFunc{}}

// Register queues fn under name. Registering a name twice replaces the
// earlier function but keeps its position.
func Register(name string, fn SeederFunc) {
	seeds.Lock()
	defer seeds.Unlock()
	if _, dup := seeds.fns[name]; !dup {
		seeds.names = append(seeds.names, name)
	}
	seeds.fns[name] = fn
}

// RunAll applies every seeder in registration order inside its own
// transaction and returns the names that completed.
func RunAll(db *gorm.DB) ([]string, error) {
	seeds.Lock()
	names := append([]string(nil), seeds.names...)
	fns := make(map[string]SeederFunc, len(seeds.fns))
	for k, v := range seeds.fns {
		fns[k] = v
	}
	seeds.Unlock()

	done := make([]string, 0, len(names))
	for _, name := range names {
		if err := db.Transaction(fns[name]); err != nil {
			return done, fmt.Errorf("seeders: %s: %w", name, err)
		}
		logger.Info("seeders: applied", "seeder", name)
		done = append(done, name)
	}
	return done, nil
}
