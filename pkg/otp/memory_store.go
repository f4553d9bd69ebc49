package otp

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps records in process memory behind a single mutex.
// Suitable for a single-instance deployment and for tests; multi-instance
// deployments must share records through the Redis store instead.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*Record
}

// NewMemoryStore creates an in-memory record store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

// Create implements Store. Pending records for the same identifier are
// superseded so at most one code per identifier is ever live.
func (s *MemoryStore) Create(ctx context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, existing := range s.records {
		if existing.Identifier == record.Identifier && !existing.Verified() {
			delete(s.records, id)
		}
	}

	stored := record
	s.records[record.ID] = &stored
	return nil
}

// LatestUnverified implements Store.
func (s *MemoryStore) LatestUnverified(ctx context.Context, identifier string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var latest *Record
	for _, r := range s.records {
		if r.Identifier != identifier || r.Verified() {
			continue
		}
		if latest == nil || r.CreatedAt.After(latest.CreatedAt) {
			latest = r
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}

	copied := *latest
	return &copied, nil
}

// IncrementAttempts implements Store.
func (s *MemoryStore) IncrementAttempts(ctx context.Context, id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[id]
	if !ok {
		return 0, ErrNotFound
	}
	r.Attempts++
	return r.Attempts, nil
}

// MarkVerified implements Store.
func (s *MemoryStore) MarkVerified(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[id]
	if !ok {
		return ErrNotFound
	}
	if r.VerifiedAt == nil {
		verifiedAt := at
		r.VerifiedAt = &verifiedAt
	}
	return nil
}

// DeleteExpiredBefore implements Store.
func (s *MemoryStore) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	for id, r := range s.records {
		if r.ExpiresAt.Before(cutoff) {
			delete(s.records, id)
			dropped++
		}
	}
	return dropped, nil
}
