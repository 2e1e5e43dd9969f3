package jobs

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps jobs in a mutex-guarded map. It is the default backend
// for single-instance servers, the CLI, and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]memoryEntry
}

type memoryEntry struct {
	job       *Job
	expiresAt time.Time
}

// NewMemoryStore creates an empty in-memory job store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[string]memoryEntry)}
}

// Get returns a copy of the stored job, so callers can mutate the result
// without racing other readers.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	if time.Now().After(entry.expiresAt) {
		return nil, ErrExpired
	}
	return entry.job.Clone(), nil
}

// Set stores a copy of job with the given TTL.
func (s *MemoryStore) Set(ctx context.Context, job *Job, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs[job.ID] = memoryEntry{
		job:       job.Clone(),
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Delete removes a job.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, id)
	return nil
}

// Cleanup sweeps expired entries.
func (s *MemoryStore) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, entry := range s.jobs {
		if now.After(entry.expiresAt) {
			delete(s.jobs, id)
		}
	}
	return nil
}

// Close does nothing for the in-memory store.
func (s *MemoryStore) Close() error { return nil }

// Len reports the number of stored jobs, expired entries included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

var _ Store = (*MemoryStore)(nil)
