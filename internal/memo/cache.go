// Package memo caches derived results keyed by the content hash of their
// input. Entries are also stamped with a generation counter so a single
// Invalidate call discards everything computed before it.
package memo

import (
	"context"
	"strconv"
	"sync"
	"time"

	"lottolab/domain/core"

	"golang.org/x/sync/singleflight"
)

// Stats reports cache effectiveness.
type Stats struct {
	Hits        int64     `json:"hits"`
	Misses      int64     `json:"misses"`
	Entries     int       `json:"entries"`
	Generation  uint64    `json:"generation"`
	Invalidated time.Time `json:"invalidated_at"`
}

type entry[V any] struct {
	value      V
	generation uint64
}

// Cache memoizes values of type V. The zero value is not usable; call New.
type Cache[V any] struct {
	mu          sync.RWMutex
	entries     map[core.Hash]entry[V]
	generation  uint64
	hits        int64
	misses      int64
	invalidated time.Time
	group       singleflight.Group
}

// New returns an empty cache.
func New[V any]() *Cache[V] {
	return &Cache[V]{entries: make(map[core.Hash]entry[V])}
}

// Get returns the cached value for key or calls compute to produce it.
// Concurrent callers for the same key share one compute call, which runs
// without the callers' cancellation. A failed compute is not cached.
func (c *Cache[V]) Get(ctx context.Context, key core.Hash, compute func(context.Context) (V, error)) (V, error) {
	c.mu.Lock()
	gen := c.generation
	if e, ok := c.entries[key]; ok && e.generation == gen {
		c.hits++
		c.mu.Unlock()
		return e.value, nil
	}
	c.misses++
	c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		var zero V
		return zero, err
	}

	// The shared compute outlives any single caller; each caller stops
	// waiting on its own ctx.
	flightKey := key.Derive(genSuffix(gen)).String()
	ch := c.group.DoChan(flightKey, func() (interface{}, error) {
		value, err := compute(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		// An Invalidate during compute makes this result stale.
		if c.generation == gen {
			c.entries[key] = entry[V]{value: value, generation: gen}
		}
		c.mu.Unlock()
		return value, nil
	})

	select {
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			var zero V
			return zero, res.Err
		}
		return res.Val.(V), nil
	}
}

// Peek returns a current entry without computing it.
func (c *Cache[V]) Peek(key core.Hash) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || e.generation != c.generation {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Invalidate drops every entry. In-flight computations started before the
// call will not be stored.
func (c *Cache[V]) Invalidate() {
	c.mu.Lock()
	c.generation++
	c.entries = make(map[core.Hash]entry[V])
	c.invalidated = time.Now().UTC()
	c.mu.Unlock()
}

// Stats returns a snapshot of the cache counters.
func (c *Cache[V]) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		Hits:        c.hits,
		Misses:      c.misses,
		Entries:     len(c.entries),
		Generation:  c.generation,
		Invalidated: c.invalidated,
	}
}

func genSuffix(gen uint64) string {
	return "g" + strconv.FormatUint(gen, 10)
}
