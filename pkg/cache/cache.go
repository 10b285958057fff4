// Package cache stores JSON values in Redis under the "nepkart:" namespace.
// Every call is a no-op (or a miss) while Redis is not connected, so the
// product cache and token revocation degrade instead of failing requests.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shashiranjanraj/nepkart/config"
	"github.com/shashiranjanraj/nepkart/pkg/logger"
	"github.com/shashiranjanraj/nepkart/pkg/metrics"
)

// Namespace prefixes every key written through this package.
const Namespace = "nepkart:"

const opTimeout = 500 * time.Millisecond

// RDB is the shared client, also handed to the redis queue driver.
var RDB *redis.Client

// Connect dials REDIS_ADDR and pings it. On failure RDB stays nil.
func Connect() error {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		RDB = nil
		return fmt.Errorf("cache: redis ping %s: %w", config.RedisAddr(), err)
	}
	RDB = client
	return nil
}

// Available reports whether a Redis client is connected.
func Available() bool { return RDB != nil }

// Key returns the namespaced form of key.
func Key(key string) string { return Namespace + key }

func opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), opTimeout)
}

// Get loads key into dest and reports a hit.
func Get(key string, dest interface{}) bool {
	if RDB == nil {
		return false
	}
	ctx, cancel := opCtx()
	defer cancel()

	raw, err := RDB.Get(ctx, Key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		metrics.RecordCacheLookup(false)
		return false
	case err != nil:
		logger.Warn("cache: get failed", "key", key, "error", err)
		metrics.RecordCacheLookup(false)
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		// Stale shape from an older release: drop it.
		_ = Forget(key)
		metrics.RecordCacheLookup(false)
		return false
	}
	metrics.RecordCacheLookup(true)
	return true
}

// Set stores value as JSON for ttl.
func Set(key string, value interface{}, ttl time.Duration) error {
	if RDB == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	ctx, cancel := opCtx()
	defer cancel()
	return RDB.Set(ctx, Key(key), data, ttl).Err()
}

// Has reports whether key exists.
func Has(key string) bool {
	if RDB == nil {
		return false
	}
	ctx, cancel := opCtx()
	defer cancel()
	n, err := RDB.Exists(ctx, Key(key)).Result()
	return err == nil && n > 0
}

// Forget removes keys.
func Forget(keys ...string) error {
	if RDB == nil || len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = Key(k)
	}
	ctx, cancel := opCtx()
	defer cancel()
	return RDB.Del(ctx, full...).Err()
}
