// Package jobs tracks asynchronous layout runs submitted through the HTTP
// API.
//
// A Job moves through queued, running, and one of the terminal states done,
// failed, or canceled. Progress fields (Percent, Message, ETAMillis) are
// updated between iteration batches; the Result field carries the positioned
// graph document once the run finishes.
//
// Storage is behind the Store interface with two backends:
//   - memory: mutex-guarded map for single-instance deployments and tests
//   - redis: shared store for multi-instance deployments
//
// Results are delivery, not persistence: every entry is written with a TTL
// and disappears after it. Callers that want to keep a layout export it.
package jobs

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors for job lookups.
var (
	// ErrNotFound is returned when no job exists under an ID.
	ErrNotFound = errors.New("job not found")

	// ErrExpired is returned when a job exists but its TTL has lapsed.
	// Backends that evict eagerly report ErrNotFound instead.
	ErrExpired = errors.New("job expired")
)

// DefaultTTL bounds how long finished jobs stay retrievable.
const DefaultTTL = 15 * time.Minute

// State is a job's lifecycle phase.
type State string

// Job lifecycle states.
const (
	StateQueued   State = "queued"
	StateRunning  State = "running"
	StateDone     State = "done"
	StateFailed   State = "failed"
	StateCanceled State = "canceled"
)

// Terminal reports whether the state is final.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed || s == StateCanceled
}

// Job is one asynchronous layout run.
type Job struct {
	ID        string          `json:"id"`
	State     State           `json:"state"`
	Algorithm string          `json:"algorithm,omitempty"`
	Percent   float64         `json:"percent"`
	Message   string          `json:"message,omitempty"`
	ETAMillis int64           `json:"eta_ms,omitempty"`
	Error     string          `json:"error,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// New creates a queued job with a fresh UUID.
func New(algorithm string) *Job {
	now := time.Now().UTC()
	return &Job{
		ID:        uuid.NewString(),
		State:     StateQueued,
		Algorithm: algorithm,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch stamps UpdatedAt. Call it after mutating a job and before Set.
func (j *Job) Touch() { j.UpdatedAt = time.Now().UTC() }

// Clone returns an independent copy of the job.
func (j *Job) Clone() *Job {
	c := *j
	if j.Result != nil {
		c.Result = append(json.RawMessage(nil), j.Result...)
	}
	return &c
}
