// Package cache provides a small concurrency-safe cache with per-entry TTL
// and a hard size cap, used for month summary responses.
package cache

import (
	"sync"
	"time"
)

type entry[T any] struct {
	data      T
	expiresAt time.Time
}

// TTL caches values for a fixed duration. When full, the entry closest to
// expiry is evicted to make room.
type TTL[T any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	maxSize int
	items   map[string]entry[T]
}

func New[T any](maxSize int, ttl time.Duration) *TTL[T] {
	return &TTL[T]{
		ttl:     ttl,
		maxSize: maxSize,
		items:   make(map[string]entry[T]),
	}
}

func (c *TTL[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	e, ok := c.items[key]
	if !ok {
		return zero, false
	}
	if time.Now().After(e.expiresAt) {
		delete(c.items, key)
		return zero, false
	}
	return e.data, true
}

func (c *TTL[T]) Set(key string, data T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[key]; !ok && len(c.items) >= c.maxSize {
		c.evictSoonest()
	}
	c.items[key] = entry[T]{data: data, expiresAt: time.Now().Add(c.ttl)}
}

func (c *TTL[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

func (c *TTL[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// CleanExpired removes all expired entries and returns how many were dropped.
func (c *TTL[T]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	n := 0
	for key, e := range c.items {
		if now.After(e.expiresAt) {
			delete(c.items, key)
			n++
		}
	}
	return n
}

// evictSoonest drops the entry expiring first. Caller holds the lock.
func (c *TTL[T]) evictSoonest() {
	var victim string
	var soonest time.Time
	first := true
	for key, e := range c.items {
		if first || e.expiresAt.Before(soonest) {
			victim = key
			soonest = e.expiresAt
			first = false
		}
	}
	if !first {
		delete(c.items, victim)
	}
}
