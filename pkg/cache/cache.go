// Package cache is a small JSON key/value cache over Redis with an
// in-process fallback for tests and single-node setups.
//
// Values are stored as JSON, so any serialisable struct round-trips:
//
//	store, err := cache.Connect(ctx, "localhost:6379", "", "shopdesk:")
//	if err != nil {
//	    store = cache.NewMemory()
//	}
//	_ = store.Set(ctx, "token:"+jti, row, 5*time.Minute)
//
//	var row cachedToken
//	if store.Get(ctx, "token:"+jti, &row) { ... }
//
//	_ = store.Del(ctx, "token:"+jti) // on logout
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/shopdesk/pkg/metrics"
)

// Store is the cache contract used by services. Get reports a hit.
type Store interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Redis is a Store backed by go-redis.
type Redis struct {
	rdb    *redis.Client
	prefix string
}

// Connect dials Redis and verifies the connection with a ping.
func Connect(ctx context.Context, addr, password, prefix string) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("cache: redis ping: %w", err)
	}
	return &Redis{rdb: rdb, prefix: prefix}, nil
}

func (r *Redis) Get(ctx context.Context, key string, dest interface{}) bool {
	val, err := r.rdb.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		metrics.CacheMisses.WithLabelValues("redis").Inc()
		return false
	}
	if err := json.Unmarshal(val, dest); err != nil {
		metrics.CacheMisses.WithLabelValues("redis").Inc()
		return false
	}
	metrics.CacheHits.WithLabelValues("redis").Inc()
	return true
}

func (r *Redis) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, r.prefix+key, data, ttl).Err()
}

func (r *Redis) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.prefix + k
	}
	err := r.rdb.Del(ctx, full...).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}

// Ping is used by the health check.
func (r *Redis) Ping(ctx context.Context) error { return r.rdb.Ping(ctx).Err() }

func (r *Redis) Close() error { return r.rdb.Close() }

type entry struct {
	data    []byte
	expires time.Time
}

// Memory is an in-process Store. Entries expire lazily on read.
type Memory struct {
	mu    sync.Mutex
	items map[string]entry
	now   func() time.Time
}

func NewMemory() *Memory {
	return &Memory{items: make(map[string]entry), now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string, dest interface{}) bool {
	m.mu.Lock()
	e, ok := m.items[key]
	if ok && !e.expires.IsZero() && m.now().After(e.expires) {
		delete(m.items, key)
		ok = false
	}
	m.mu.Unlock()

	if !ok || json.Unmarshal(e.data, dest) != nil {
		metrics.CacheMisses.WithLabelValues("memory").Inc()
		return false
	}
	metrics.CacheHits.WithLabelValues("memory").Inc()
	return true
}

func (m *Memory) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	e := entry{data: data}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.items[key] = e
	m.mu.Unlock()
	return nil
}

func (m *Memory) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	for _, k := range keys {
		delete(m.items, k)
	}
	m.mu.Unlock()
	return nil
}
