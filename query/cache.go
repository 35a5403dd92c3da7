// Package query caches backend reads by query key and refreshes them when a
// mutation invalidates one of the tags they provide.
//
// Reads of the same key share one in-flight fetch. Subscriptions keep an
// entry alive and receive every refreshed value; once the last subscriber
// leaves, any refresh it started is cancelled and the entry is dropped after
// the keep-unused period.
package query

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const DefaultKeepUnusedFor = 60 * time.Second

const maxFetchAttempts = 3

var errEvicted = errors.New("query: entry evicted during fetch")

// Query describes one cacheable read.
type Query struct {
	Key   string
	Fetch func(ctx context.Context) (any, error)

	// Provides lists the tags the result holds. It is called with a nil
	// value and the error when the fetch fails.
	Provides func(data any, err error) []Tag
}

// NewQuery builds a Query for a typed fetch. When the fetch fails the entry
// holds onFailure, so a later invalidation of those tags still refetches it.
func NewQuery[T any](key string, fetch func(ctx context.Context) (T, error), provides func(T) []Tag, onFailure ...Tag) Query {
	return Query{
		Key: key,
		Fetch: func(ctx context.Context) (any, error) {
			return fetch(ctx)
		},
		Provides: func(data any, err error) []Tag {
			if err != nil || provides == nil {
				return onFailure
			}
			typed, ok := data.(T)
			if !ok {
				return onFailure
			}
			return provides(typed)
		},
	}
}

type Update struct {
	Data any
	Err  error
}

type entry struct {
	query Query

	data    any
	err     error
	tags    []Tag
	fetched bool
	stale   bool

	// generation is bumped by every invalidation so a fetch that started
	// earlier cannot mark the entry fresh.
	generation uint64

	subscribers map[*Subscription]struct{}
	refreshing  bool
	cancel      context.CancelFunc
	gc          *time.Timer
}

func (e *entry) holdsAny(tags map[Tag]struct{}) bool {
	for _, t := range e.tags {
		if _, ok := tags[t]; ok {
			return true
		}
	}
	return false
}

type flightResult struct {
	data       any
	generation uint64
}

type Cache struct {
	keepUnusedFor time.Duration
	group         singleflight.Group

	mu      sync.Mutex
	entries map[string]*entry
}

func New(keepUnusedFor time.Duration) *Cache {
	if keepUnusedFor <= 0 {
		keepUnusedFor = DefaultKeepUnusedFor
	}
	return &Cache{keepUnusedFor: keepUnusedFor, entries: make(map[string]*entry)}
}

func (c *Cache) entryLocked(q Query) *entry {
	e, ok := c.entries[q.Key]
	if !ok {
		e = &entry{query: q, subscribers: make(map[*Subscription]struct{})}
		c.entries[q.Key] = e
		cacheEntries.Inc()
		return e
	}
	e.query = q
	return e
}

// Fetch returns the cached value for q when it is fresh, otherwise it joins
// or starts the single in-flight fetch for q.Key. The fetch itself outlives
// ctx so other callers still get the result; ctx only bounds the wait.
func (c *Cache) Fetch(ctx context.Context, q Query) (any, error) {
	if q.Key == "" || q.Fetch == nil {
		return nil, fmt.Errorf("query: key and fetch are required")
	}

	var (
		data any
		err  error
	)
	for attempt := 0; attempt < maxFetchAttempts; attempt++ {
		c.mu.Lock()
		e := c.entryLocked(q)
		if e.fetched && !e.stale && e.err == nil {
			cached := e.data
			c.mu.Unlock()
			cacheHits.Inc()
			return cached, nil
		}
		wantGeneration := e.generation
		c.mu.Unlock()
		if attempt == 0 {
			cacheMisses.Inc()
		}

		ch := c.group.DoChan(q.Key, c.flight(context.WithoutCancel(ctx), q.Key))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case res := <-ch:
			fr, _ := res.Val.(flightResult)
			data, err = fr.data, res.Err

			// A flight that began before the latest invalidation, or one
			// cancelled by its subscribers leaving, does not answer this read.
			outdated := fr.generation < wantGeneration
			abandoned := errors.Is(err, context.Canceled) || errors.Is(err, errEvicted)
			if !outdated && !abandoned {
				return data, err
			}
		}
	}
	return data, err
}

// Get is Fetch with the result asserted to T.
func Get[T any](ctx context.Context, c *Cache, q Query) (T, error) {
	var zero T
	v, err := c.Fetch(ctx, q)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("query: %s holds %T, not %T", q.Key, v, zero)
	}
	return typed, nil
}

func (c *Cache) flight(ctx context.Context, key string) func() (any, error) {
	return func() (any, error) {
		c.mu.Lock()
		e, ok := c.entries[key]
		if !ok {
			c.mu.Unlock()
			return flightResult{}, errEvicted
		}
		generation := e.generation
		q := e.query
		c.mu.Unlock()

		data, err := q.Fetch(ctx)
		if err != nil && ctx.Err() != nil {
			cacheFetches.WithLabelValues("cancelled").Inc()
			return flightResult{generation: generation}, ctx.Err()
		}
		if err != nil {
			cacheFetches.WithLabelValues("error").Inc()
		} else {
			cacheFetches.WithLabelValues("ok").Inc()
		}

		c.store(key, generation, data, err)
		return flightResult{data: data, generation: generation}, err
	}
}

func (c *Cache) store(key string, generation uint64, data any, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return
	}
	if err == nil {
		e.data = data
	}
	e.err = err
	e.fetched = true
	e.stale = e.generation != generation
	if e.query.Provides != nil {
		if err != nil {
			e.tags = e.query.Provides(nil, err)
		} else {
			e.tags = e.query.Provides(data, nil)
		}
	}

	update := Update{Data: e.data, Err: err}
	for s := range e.subscribers {
		s.deliver(update)
	}
	if len(e.subscribers) == 0 {
		c.scheduleGCLocked(key, e)
	}
}

// refreshLocked starts a subscription-driven fetch of e unless one is running.
func (c *Cache) refreshLocked(key string, e *entry) {
	if e.refreshing {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	e.refreshing = true
	e.cancel = cancel

	ch := c.group.DoChan(key, c.flight(ctx, key))
	go func() {
		res := <-ch
		cancel()

		c.mu.Lock()
		defer c.mu.Unlock()
		e.refreshing = false
		e.cancel = nil
		// Invalidated, or cancelled and then re-subscribed, while the refresh
		// was running: go again for the subscribers still watching.
		retry := e.stale || !e.fetched || errors.Is(res.Err, context.Canceled)
		if c.entries[key] == e && retry && len(e.subscribers) > 0 {
			c.refreshLocked(key, e)
		}
	}()
}

func (c *Cache) scheduleGCLocked(key string, e *entry) {
	if e.gc != nil {
		e.gc.Stop()
	}
	e.gc = time.AfterFunc(c.keepUnusedFor, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.entries[key] != e || len(e.subscribers) > 0 {
			return
		}
		if e.cancel != nil {
			e.cancel()
		}
		delete(c.entries, key)
		cacheEntries.Dec()
		log.Debug().Str("key", key).Msg("Query cache: entry collected")
	})
}

// Invalidate marks every entry holding any of tags stale. Subscribed entries
// are refetched now; the rest on their next read. It returns the number of
// entries affected.
func (c *Cache) Invalidate(tags ...Tag) int {
	if len(tags) == 0 {
		return 0
	}
	want := make(map[Tag]struct{}, len(tags))
	for _, t := range tags {
		want[t] = struct{}{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for key, e := range c.entries {
		if !e.holdsAny(want) {
			continue
		}
		e.stale = true
		e.generation++
		n++
		cacheInvalidations.Inc()
		if len(e.subscribers) > 0 {
			c.refreshLocked(key, e)
		}
	}
	log.Debug().Int("entries", n).Interface("tags", tags).Msg("Query cache: invalidated")
	return n
}

// Mutate runs fn once and, only if it succeeds, invalidates tags. fn runs
// detached from ctx's cancellation: once issued a mutation is not abandoned.
func (c *Cache) Mutate(ctx context.Context, fn func(ctx context.Context) error, invalidates ...Tag) error {
	if err := fn(context.WithoutCancel(ctx)); err != nil {
		return err
	}
	c.Invalidate(invalidates...)
	return nil
}

// Has reports whether key currently has an entry.
func (c *Cache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

// IsStale reports whether key has an entry that must be refetched on next read.
func (c *Cache) IsStale(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return ok && (e.stale || !e.fetched)
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
