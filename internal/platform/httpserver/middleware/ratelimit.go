package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// RateLimitConfig is the per-route attempt budget. Window is the fixed
// interval over which attempts accumulate before the counter resets.
type RateLimitConfig struct {
	MaxAttempts int
	Window      time.Duration
}

// CounterStore tracks attempt counts per caller key. Incr must be atomic per
// key: the returned count is the caller's position inside the current window,
// and two concurrent calls never observe the same position.
//
// The store is injected at pipeline construction so tests get a fresh store
// per case and deployments can back it with a shared external store.
type CounterStore interface {
	Incr(ctx context.Context, key string, window time.Duration) (count int64, retryAfter time.Duration, err error)
}

type windowCounter struct {
	count       int64
	windowStart time.Time
}

// MemoryCounterStore is the in-process CounterStore: a mutex-guarded map of
// key to {count, windowStart}. State does not survive process restarts.
type MemoryCounterStore struct {
	mu      sync.Mutex
	entries map[string]*windowCounter
	now     func() time.Time
}

func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{
		entries: make(map[string]*windowCounter),
		now:     time.Now,
	}
}

// NewMemoryCounterStoreWithClock exists for tests that step time manually.
func NewMemoryCounterStoreWithClock(now func() time.Time) *MemoryCounterStore {
	store := NewMemoryCounterStore()
	store.now = now
	return store
}

func (s *MemoryCounterStore) Incr(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok || now.Sub(entry.windowStart) >= window {
		entry = &windowCounter{windowStart: now}
		s.entries[key] = entry
	}
	entry.count++
	retryAfter := window - now.Sub(entry.windowStart)
	return entry.count, retryAfter, nil
}

// Cleanup drops counters whose window elapsed before cutoff. The worker calls
// this periodically; correctness does not depend on it.
func (s *MemoryCounterStore) Cleanup(window time.Duration) {
	cutoff := s.now().Add(-window)

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, entry := range s.entries {
		if entry.windowStart.Before(cutoff) {
			delete(s.entries, key)
		}
	}
}

// clientKey partitions unauthenticated traffic by origin.
func clientKey(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
