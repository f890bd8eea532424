// Package memory provides an in-process LRU cache with the same contract as
// the Redis cache, for single-instance deployments and the CLI.
package memory

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/milo0914/ChemPatent-Pro/pkg/errors"
)

var (
	ErrCacheMiss           = errors.New(errors.ErrCodeNotFound, "cache miss")
	ErrSerializationFailed = errors.New(errors.ErrCodeSerialization, "serialization failed")
)

type entry struct {
	data    []byte
	expires time.Time
}

// Cache is a size-bounded LRU.  Values are stored JSON-encoded so callers
// never share mutable state with the cache.
type Cache struct {
	lru *expirable.LRU[string, entry]
	ttl time.Duration
	now func() time.Time
}

// NewCache holds at most size entries, each expiring after ttl.  A zero ttl
// disables expiry.
func NewCache(size int, ttl time.Duration) (*Cache, error) {
	if size < 1 {
		return nil, errors.Newf(errors.ErrCodeConfigInvalid, "memory cache size must be positive, got %d", size)
	}
	return &Cache{
		lru: expirable.NewLRU[string, entry](size, nil, ttl),
		ttl: ttl,
		now: time.Now,
	}, nil
}

func (c *Cache) Get(_ context.Context, key string, dest interface{}) error {
	e, ok := c.lru.Get(key)
	if !ok {
		return ErrCacheMiss
	}
	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		c.lru.Remove(key)
		return ErrCacheMiss
	}
	if err := json.Unmarshal(e.data, dest); err != nil {
		return ErrSerializationFailed.WithCause(err)
	}
	return nil
}

// Set stores value.  A ttl shorter than the cache-wide one is honoured per
// entry; zero uses the cache-wide ttl.
func (c *Cache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return ErrSerializationFailed.WithCause(err)
	}
	e := entry{data: data}
	if ttl > 0 && (c.ttl == 0 || ttl < c.ttl) {
		e.expires = c.now().Add(ttl)
	}
	c.lru.Add(key, e)
	return nil
}

func (c *Cache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		c.lru.Remove(k)
	}
	return nil
}

func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	var raw json.RawMessage
	err := c.Get(ctx, key, &raw)
	if err == nil {
		return true, nil
	}
	if errors.IsNotFound(err) {
		return false, nil
	}
	return false, err
}

// DeleteByPrefix removes every key starting with prefix.
func (c *Cache) DeleteByPrefix(_ context.Context, prefix string) (int64, error) {
	var n int64
	for _, k := range c.lru.Keys() {
		if strings.HasPrefix(k, prefix) && c.lru.Remove(k) {
			n++
		}
	}
	return n, nil
}

// Len reports the number of live entries.
func (c *Cache) Len() int {
	return c.lru.Len()
}

func (c *Cache) Ping(context.Context) error {
	return nil
}

//Personal.AI order the ending
