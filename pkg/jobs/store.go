package jobs

import (
	"context"
	"time"
)

// Store is the interface for job storage backends.
//
// Set writes the job with a TTL; a ttl of zero or less falls back to
// DefaultTTL. Updating a job rewrites it and refreshes the TTL, so a job
// stays retrievable for the TTL after its last state change.
type Store interface {
	// Get retrieves a job by ID. Returns ErrNotFound for unknown IDs and
	// ErrExpired when the backend still holds a lapsed entry.
	Get(ctx context.Context, id string) (*Job, error)

	// Set stores a copy of the job.
	Set(ctx context.Context, job *Job, ttl time.Duration) error

	// Delete removes a job. Deleting an absent job is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired jobs. Backends with native expiry may no-op.
	Cleanup(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
