package memory

import (
	"context"
	"sync"
	"time"

	"bizbay/internal/app/idempotency"
)

// IdempotencyStore keeps replay records in process memory. Records age out
// after the configured TTL, mirroring the Mongo store's TTL index, so a
// gateway running without Mongo does not accumulate keys forever.
type IdempotencyStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[string]idempotency.Record
}

// NewIdempotencyStore builds a store; a non-positive ttl disables expiry.
func NewIdempotencyStore(ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{ttl: ttl, items: make(map[string]idempotency.Record)}
}

func (s *IdempotencyStore) Get(ctx context.Context, key string) (idempotency.Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.items[key]
	if !ok {
		return idempotency.Record{}, false, nil
	}
	if s.ttl > 0 && time.Since(rec.OccurredAt) > s.ttl {
		delete(s.items, key)
		return idempotency.Record{}, false, nil
	}
	return rec, true, nil
}

func (s *IdempotencyStore) Save(ctx context.Context, rec idempotency.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[rec.Key] = rec
	return nil
}

var _ idempotency.Store = (*IdempotencyStore)(nil)
