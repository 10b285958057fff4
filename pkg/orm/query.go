// Package orm holds small gorm helpers shared by the repositories:
// pagination, cache-through reads and query instrumentation.
package orm

import (
	"math"
	"time"

	"github.com/shashiranjanraj/nepkart/pkg/cache"
	"github.com/shashiranjanraj/nepkart/pkg/metrics"
	"gorm.io/gorm"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Pagination is the metadata returned alongside a paged listing.
type Pagination struct {
	Page     int   `json:"page"`
	Limit    int   `json:"limit"`
	Total    int64 `json:"total"`
	LastPage int   `json:"lastPage"`
}

// Normalize clamps page and limit into sane bounds.
func Normalize(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// Paginate counts q, then loads one page of it into dest. scopes apply to
// the page query only, which is where preloads belong.
func Paginate(q *gorm.DB, page, limit int, dest interface{}, scopes ...func(*gorm.DB) *gorm.DB) (Pagination, error) {
	page, limit = Normalize(page, limit)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return Pagination{}, err
	}

	if err := q.Scopes(scopes...).Offset((page - 1) * limit).Limit(limit).Find(dest).Error; err != nil {
		return Pagination{}, err
	}

	lastPage := int(math.Ceil(float64(total) / float64(limit)))
	if lastPage < 1 {
		lastPage = 1
	}

	return Pagination{Page: page, Limit: limit, Total: total, LastPage: lastPage}, nil
}

// Remember returns the cached value under key, or runs load, caches the
// result for ttl and returns it.
func Remember(key string, ttl time.Duration, dest interface{}, load func() error) error {
	if cache.Get(key, dest) {
		return nil
	}
	if err := load(); err != nil {
		return err
	}
	_ = cache.Set(key, dest, ttl)
	return nil
}

const startedAtKey = "nepkart:started_at"

// Instrument registers gorm callbacks that record every query's duration
// through metrics.ObserveDBQuery.
func Instrument(db *gorm.DB) error {
	before := func(tx *gorm.DB) { tx.InstanceSet(startedAtKey, time.Now()) }
	after := func(op string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			if v, ok := tx.InstanceGet(startedAtKey); ok {
				if start, ok := v.(time.Time); ok {
					metrics.ObserveDBQuery(op, start)
				}
			}
		}
	}

	cb := db.Callback()
	steps := []struct {
		op     string
		before func(string) error
		after  func(string) error
	}{
		{"select", func(n string) error { return cb.Query().Before("gorm:query").Register(n, before) },
			func(n string) error { return cb.Query().After("gorm:query").Register(n, after("select")) }},
		{"insert", func(n string) error { return cb.Create().Before("gorm:create").Register(n, before) },
			func(n string) error { return cb.Create().After("gorm:create").Register(n, after("insert")) }},
		{"update", func(n string) error { return cb.Update().Before("gorm:update").Register(n, before) },
			func(n string) error { return cb.Update().After("gorm:update").Register(n, after("update")) }},
		{"delete", func(n string) error { return cb.Delete().Before("gorm:delete").Register(n, before) },
			func(n string) error { return cb.Delete().After("gorm:delete").Register(n, after("delete")) }},
	}

	for _, s := range steps {
		if err := s.before("metrics:before_" + s.op); err != nil {
			return err
		}
		if err := s.after("metrics:after_" + s.op); err != nil {
			return err
		}
	}
	return nil
}
