package idempotency

import (
	"context"
	"time"
)

// Record is a stored response for a previously seen Idempotency-Key. Payload
// holds the normalized JSON body that was first returned to the caller.
type Record struct {
	Key        string
	Status     int
	Payload    []byte
	OccurredAt time.Time
}

// Store persists idempotency records. Implementations must treat Save as an
// upsert on Key.
type Store interface {
	Get(ctx context.Context, key string) (Record, bool, error)
	Save(ctx context.Context, rec Record) error
}
