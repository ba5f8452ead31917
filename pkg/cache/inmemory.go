package cache

import (
	"time"

	"github.com/patrickmn/go-cache"
)

type Cache interface {
	Set(key string, value interface{}, duration time.Duration)
	Get(key string) (interface{}, bool)
	Delete(key string)
	Flush()
	ItemCount() int
}

type goCache struct {
	internal *cache.Cache
}

// NewCache returns an in-memory Cache with the given default expiration and
// cleanup interval.
func NewCache(defaultExpiration, cleanupInterval time.Duration) Cache {
	return &goCache{
		internal: cache.New(defaultExpiration, cleanupInterval),
	}
}

func (c *goCache) Set(key string, value interface{}, duration time.Duration) {
	c.internal.Set(key, value, duration)
}

func (c *goCache) Get(key string) (interface{}, bool) {
	return c.internal.Get(key)
}

func (c *goCache) Delete(key string) {
	c.internal.Delete(key)
}

func (c *goCache) Flush() {
	c.internal.Flush()
}

func (c *goCache) ItemCount() int {
	return c.internal.ItemCount()
}

// GetFromCache returns the value stored under key when it exists and has
// type T.
func GetFromCache[T any](c Cache, key string) (T, bool) {
	var zero T
	if c == nil {
		return zero, false
	}
	val, found := c.Get(key)
	if !found {
		return zero, false
	}
	typedVal, ok := val.(T)
	if !ok {
		return zero, false
	}
	return typedVal, true
}
