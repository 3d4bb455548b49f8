// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache keeps recently parsed RFCs in memory.
// Implements: a bounded least-recently-used cache keyed by RFC number with
// single-flight loading, so concurrent requests for one RFC trigger one
// fetch and parse, plus hit/miss/load/eviction counters.
package cache

import (
	"context"
	"fmt"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/singleflight"
)

// DefaultSize is used when New is given a non-positive size.
const DefaultSize = 50

// Metrics holds Prometheus collectors for the cache.
type Metrics struct {
	Hits       prometheus.Counter
	Misses     prometheus.Counter
	LoadErrors prometheus.Counter
	Evictions  prometheus.Counter
}

// NewMetrics creates the cache collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Hits: f.NewCounter(prometheus.CounterOpts{
			Name: "rfc_cache_hits_total",
			Help: "Total number of parsed-document cache hits",
		}),
		Misses: f.NewCounter(prometheus.CounterOpts{
			Name: "rfc_cache_misses_total",
			Help: "Total number of parsed-document cache misses",
		}),
		LoadErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "rfc_cache_load_errors_total",
			Help: "Total number of failed document loads",
		}),
		Evictions: f.NewCounter(prometheus.CounterOpts{
			Name: "rfc_cache_evictions_total",
			Help: "Total number of documents evicted from the cache",
		}),
	}
}

// LoadFunc produces the value for a key on a miss.
type LoadFunc[V any] func(ctx context.Context) (V, error)

// Cache is a bounded LRU keyed by RFC number. It is safe for concurrent use.
type Cache[V any] struct {
	lru     *lru.Cache[int, V]
	group   singleflight.Group
	metrics *Metrics
}

// New creates a cache holding at most size entries. m may be nil.
func New[V any](size int, m *Metrics) (*Cache[V], error) {
	if size <= 0 {
		size = DefaultSize
	}
	if m == nil {
		m = NewMetrics(nil)
	}
	c := &Cache[V]{metrics: m}
	l, err := lru.NewWithEvict[int, V](size, func(int, V) { m.Evictions.Inc() })
	if err != nil {
		return nil, fmt.Errorf("creating LRU: %w", err)
	}
	c.lru = l
	return c, nil
}

// Get returns the cached value for key, calling load on a miss. Concurrent
// misses for the same key share one load. Failed loads are not cached.
// A caller whose ctx ends while waiting returns ctx.Err(); the load itself
// keeps running for the other waiters.
func (c *Cache[V]) Get(ctx context.Context, key int, load LoadFunc[V]) (V, error) {
	if v, ok := c.lru.Get(key); ok {
		c.metrics.Hits.Inc()
		return v, nil
	}

	ch := c.group.DoChan(strconv.Itoa(key), func() (any, error) {
		if v, ok := c.lru.Get(key); ok {
			c.metrics.Hits.Inc()
			return v, nil
		}
		c.metrics.Misses.Inc()
		v, err := load(context.WithoutCancel(ctx))
		if err != nil {
			c.metrics.LoadErrors.Inc()
			return v, err
		}
		c.lru.Add(key, v)
		return v, nil
	})

	select {
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			var zero V
			return zero, r.Err
		}
		return r.Val.(V), nil
	}
}

// Peek returns the cached value without loading or updating recency.
func (c *Cache[V]) Peek(key int) (V, bool) {
	return c.lru.Peek(key)
}

// Purge drops every entry, starting a new cache epoch.
func (c *Cache[V]) Purge() {
	c.lru.Purge()
}

// Len returns the number of cached entries.
func (c *Cache[V]) Len() int {
	return c.lru.Len()
}
