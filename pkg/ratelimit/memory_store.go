package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sliding windows in process memory behind a single
// mutex. Stale timestamps are pruned lazily on every Record call; a full
// sweep of idle keys runs opportunistically, at most once per
// cleanupInterval, inside the same call. There is no background goroutine,
// so a store that stops receiving traffic simply stops sweeping.
type MemoryStore struct {
	mu        sync.Mutex
	windows   map[string][]time.Time
	lastSweep time.Time

	cleanupInterval time.Duration
	staleAfter      time.Duration
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithCleanupInterval sets how often the opportunistic full sweep may run.
func WithCleanupInterval(interval time.Duration) MemoryStoreOption {
	return func(s *MemoryStore) {
		if interval > 0 {
			s.cleanupInterval = interval
		}
	}
}

// WithStaleAfter sets how long a key may go without fresh timestamps
// before the sweep drops it.
func WithStaleAfter(d time.Duration) MemoryStoreOption {
	return func(s *MemoryStore) {
		if d > 0 {
			s.staleAfter = d
		}
	}
}

// NewMemoryStore creates an in-memory sliding window store.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		windows:         make(map[string][]time.Time),
		lastSweep:       time.Now(),
		cleanupInterval: 5 * time.Minute,
		staleAfter:      time.Hour,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Record implements Store.
func (s *MemoryStore) Record(ctx context.Context, key string, now time.Time, window time.Duration, limit int) (bool, int, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now.Add(-window)
	valid := s.windows[key][:0]
	for _, ts := range s.windows[key] {
		if ts.After(cutoff) {
			valid = append(valid, ts)
		}
	}

	var oldest time.Time
	if len(valid) > 0 {
		oldest = valid[0]
	}

	allowed := len(valid) < limit
	if allowed {
		valid = append(valid, now)
		if oldest.IsZero() {
			oldest = now
		}
	}
	s.windows[key] = valid

	s.sweepLocked(now)

	return allowed, len(valid), oldest, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.windows, key)
	return nil
}

// Len returns the number of tracked keys. Exposed for tests and metrics.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.windows)
}

// sweepLocked drops keys whose newest timestamp is older than staleAfter.
// Runs at most once per cleanupInterval. Caller must hold the mutex.
func (s *MemoryStore) sweepLocked(now time.Time) {
	if now.Sub(s.lastSweep) < s.cleanupInterval {
		return
	}
	s.lastSweep = now

	cutoff := now.Add(-s.staleAfter)
	for key, timestamps := range s.windows {
		if len(timestamps) == 0 || timestamps[len(timestamps)-1].Before(cutoff) {
			delete(s.windows, key)
		}
	}
}
