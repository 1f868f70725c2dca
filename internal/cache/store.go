// Package cache provides a small in-memory store with per-entry expiry.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value   V
	expires time.Time
}

// Store is a concurrency-safe map whose entries expire after a fixed TTL.
// A zero TTL keeps entries until Invalidate.
type Store[V any] struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry[V]
}

type Option[V any] func(*Store[V])

// WithClock replaces the time source used for expiry.
func WithClock[V any](now func() time.Time) Option[V] {
	return func(s *Store[V]) {
		s.now = now
	}
}

func New[V any](ttl time.Duration, opts ...Option[V]) *Store[V] {
	s := &Store[V]{ttl: ttl, now: time.Now, entries: make(map[string]entry[V])}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store[V]) Get(key string) (V, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		var zero V
		return zero, false
	}
	if s.ttl > 0 && !s.now().Before(e.expires) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		var zero V
		return zero, false
	}
	return e.value, true
}

func (s *Store[V]) Put(key string, v V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry[V]{value: v, expires: s.now().Add(s.ttl)}
}

// Invalidate drops every entry.
func (s *Store[V]) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.entries)
}

func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
