// Package cache is a process-local TTL cache. Entries live for a fixed
// window from write; a stale entry is ignored rather than actively evicted.
// GetOrLoad coalesces concurrent loads of the same key.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/itbasis/go-clock"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Store holds TTL-bound entries. The zero value is not usable; construct
// with NewStore.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	clock   clock.Clock
	flight  singleFlight
}

// NewStore builds a store whose entries stay fresh for ttl. A nil clk falls
// back to the wall clock.
func NewStore(ttl time.Duration, clk clock.Clock) *Store {
	if clk == nil {
		clk = clock.New()
	}
	return &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		clock:   clk,
	}
}

// Get returns the fresh value for key, if any.
func (s *Store) Get(key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	now := s.clock.Now()
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.ttl > 0 && !e.expiresAt.After(now) {
		return nil, false
	}
	return e.value, true
}

// Set overwrites the slot for key with a fresh entry.
func (s *Store) Set(key string, value any) {
	if key == "" {
		return
	}

	expiresAt := time.Time{}
	if s.ttl > 0 {
		expiresAt = s.clock.Now().Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[key] = entry{value: value, expiresAt: expiresAt}
	s.mu.Unlock()
}

// GetOrLoad returns the fresh value for key, or runs loader to populate it.
// Concurrent callers of a stale key share one loader invocation.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, bool, error) {
	if loader == nil {
		return nil, false, errors.New("loader is required")
	}
	if key == "" {
		value, err := loader(ctx)
		return value, false, err
	}

	if value, ok := s.Get(key); ok {
		return value, true, nil
	}

	value, err := s.flight.do(key, func() (any, error) {
		if cached, ok := s.Get(key); ok {
			return cached, nil
		}
		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		s.Set(key, loaded)
		return loaded, nil
	})
	if err != nil {
		return nil, false, err
	}
	return value, false, nil
}
