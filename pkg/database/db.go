// Package database owns the shop's gorm connection. sqlite is the default
// and what the tests run on; postgres, mysql and sqlserver are selected
// with DB_DRIVER.
package database

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shashiranjanraj/nepkart/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB is set by Connect.
var DB *gorm.DB

var dialects = map[string]func(dsn string) gorm.Dialector{
	"sqlite":    sqlite.Open,
	"postgres":  postgres.Open,
	"mysql":     mysql.Open,
	"sqlserver": sqlserver.Open,
}

// Connect opens the configured database, sizes its pool from DB_MAX_OPEN
// and DB_MAX_IDLE, checks it answers and stores it in DB.
func Connect() error {
	db, err := Open(config.DatabaseDriver(), config.DatabaseDSN())
	if err != nil {
		return err
	}
	pool, err := db.DB()
	if err != nil {
		return fmt.Errorf("database: pool: %w", err)
	}
	pool.SetMaxOpenConns(config.Int("DB_MAX_OPEN", 25))
	pool.SetMaxIdleConns(config.Int("DB_MAX_IDLE", 10))
	pool.SetConnMaxLifetime(5 * time.Minute)
	pool.SetConnMaxIdleTime(2 * time.Minute)

	if err := pool.Ping(); err != nil {
		_ = pool.Close()
		return fmt.Errorf("database: ping %s: %w", config.DatabaseDriver(), err)
	}
	DB = db
	return nil
}

// Open connects without touching DB. gorm's own logger is silenced and
// unique violations surface as gorm.ErrDuplicatedKey where the dialect
// supports it.
func Open(driver, dsn string) (*gorm.DB, error) {
	dial, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("database: unsupported DB_DRIVER %q (supported: %s)", driver, supported())
	}
	db, err := gorm.Open(dial(dsn), &gorm.Config{
		Logger:         gormlogger.Discard,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("database: open %s: %w", driver, err)
	}
	return db, nil
}

func supported() string {
	names := make([]string, 0, len(dialects))
	for n := range dialects {
		names = append(names, n)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// Ping is the health check behind /health and the gRPC health service.
func Ping() error {
	if DB == nil {
		return errors.New("database: not connected")
	}
	pool, err := DB.DB()
	if err != nil {
		return err
	}
	return pool.Ping()
}

var duplicateMarkers = []string{"unique constraint", "duplicate key", "duplicate entry"}

// IsDuplicateKey reports whether err is a unique-index violation, by
// sentinel or, for untranslated drivers, by message.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, m := range duplicateMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
