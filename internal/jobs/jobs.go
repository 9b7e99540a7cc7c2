package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Job statuses stored in background_jobs.status.
const (
	StatusQueued  = "queued"
	StatusRunning = "running"
	StatusRetry   = "retry"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

// DefaultMaxAttempts applies when a job is enqueued without a limit.
const DefaultMaxAttempts = 5

// Job is a queued unit of work such as a notification email.
type Job struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Payload     json.RawMessage `json:"payload"`
	Status      string          `json:"status"`
	Attempts    int             `json:"attempts"`
	MaxAttempts int             `json:"max_attempts"`
	AvailableAt time.Time       `json:"available_at"`
	LastError   string          `json:"last_error,omitempty"`
	Created     time.Time       `json:"created"`
	Updated     time.Time       `json:"updated"`
}

// Handler processes one job. A returned error schedules a retry until
// MaxAttempts is reached.
type Handler func(ctx context.Context, j *Job) error

// ErrMaxAttempts prefixes the last error of a dead-lettered job.
var ErrMaxAttempts = errors.New("max attempts reached")

// maxBackoff caps the delay between two attempts of the same job.
const maxBackoff = 5 * time.Minute

// BackoffDuration returns 2^attempt seconds, at least one second and at most
// maxBackoff.
func BackoffDuration(attempt int) time.Duration {
	if attempt <= 0 {
		return time.Second
	}
	d := time.Duration(1<<uint(min(attempt, 16))) * time.Second
	return min(d, maxBackoff)
}
