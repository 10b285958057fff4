package cache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/nepkart/pkg/cache"
)

func TestDisconnectedCacheIsANoop(t *testing.T) {
	cache.RDB = nil

	assert.False(t, cache.Available())
	assert.NoError(t, cache.Set("products:1", map[string]int{"stock": 3}, time.Minute))

	var out map[string]int
	assert.False(t, cache.Get("products:1", &out))
	assert.Nil(t, out)
	assert.False(t, cache.Has("products:1"))
	assert.NoError(t, cache.Forget("products:1", "products:2"))
	assert.NoError(t, cache.Forget())
}

func TestKeyIsNamespaced(t *testing.T) {
	assert.Equal(t, "nepkart:products:7", cache.Key("products:7"))
}
