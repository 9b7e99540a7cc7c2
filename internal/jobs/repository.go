package jobs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/garnizeh/placement/internal/db"
	"github.com/google/uuid"
)

type Repository struct {
	db *db.DB
}

func NewRepository(d *db.DB) *Repository { return &Repository{db: d} }

// Enqueue inserts a job into background_jobs and returns the new ID
func (r *Repository) Enqueue(ctx context.Context, j *Job) (string, error) {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	if j.MaxAttempts <= 0 {
		j.MaxAttempts = DefaultMaxAttempts
	}
	if j.AvailableAt.IsZero() {
		j.AvailableAt = time.Now()
	}
	if len(j.Payload) == 0 {
		j.Payload = json.RawMessage("{}")
	}
	j.Status = StatusQueued
	now := time.Now().UTC().UnixMilli()
	q := `INSERT INTO background_jobs (id, type, payload, status, attempts, max_attempts, available_at, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.db.Exec(ctx, q, j.ID, j.Type, string(j.Payload), j.Status, j.Attempts, j.MaxAttempts, j.AvailableAt.UTC().UnixMilli(), now, now); err != nil {
		return "", fmt.Errorf("enqueue failed: %w", err)
	}

	return j.ID, nil
}

// FetchNext claims the oldest available job by flipping it to running in a
// single statement, so concurrent workers never receive the same job.
func (r *Repository) FetchNext(ctx context.Context) (*Job, error) {
	now := time.Now().UTC().UnixMilli()
	q := `UPDATE background_jobs SET status = 'running', updated = ?
		WHERE id = (
			SELECT id FROM background_jobs
			WHERE status IN ('queued', 'retry') AND available_at <= ?
			ORDER BY available_at ASC, created ASC LIMIT 1
		)
		RETURNING id, type, payload, status, attempts, max_attempts, available_at, last_error, created, updated`
	row := r.db.QueryRow(ctx, q, now, now)

	var (
		j           Job
		payload     string
		availableAt int64
		lastError   sql.NullString
		created     int64
		updated     int64
	)
	if err := row.Scan(&j.ID, &j.Type, &payload, &j.Status, &j.Attempts, &j.MaxAttempts, &availableAt, &lastError, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch next job: %w", err)
	}
	j.Payload = json.RawMessage(payload)
	j.AvailableAt = time.UnixMilli(availableAt)
	j.LastError = lastError.String
	j.Created = time.UnixMilli(created)
	j.Updated = time.UnixMilli(updated)

	return &j, nil
}

// UpdateJob updates status, attempts, availability and last_error
func (r *Repository) UpdateJob(ctx context.Context, j *Job) error {
	q := `UPDATE background_jobs SET status = ?, attempts = ?, available_at = ?, last_error = ?, updated = ? WHERE id = ?`
	_, err := r.db.Exec(ctx, q, j.Status, j.Attempts, j.AvailableAt.UTC().UnixMilli(), j.LastError, time.Now().UTC().UnixMilli(), j.ID)
	return err
}

// MoveToDeadLetter moves a job to dead_letter_jobs and deletes the original
func (r *Repository) MoveToDeadLetter(ctx context.Context, j *Job) error {
	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	insert := `INSERT INTO dead_letter_jobs (id, type, payload, attempts, last_error, failed) VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, insert, j.ID, j.Type, string(j.Payload), j.Attempts, j.LastError, time.Now().UTC().UnixMilli()); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM background_jobs WHERE id = ?`, j.ID); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// RequeueRunning returns jobs left running by a previous process to the queue.
func (r *Repository) RequeueRunning(ctx context.Context) (int64, error) {
	res, err := r.db.Exec(ctx, `UPDATE background_jobs SET status = 'queued', updated = ? WHERE status = 'running'`, time.Now().UTC().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("requeue running jobs: %w", err)
	}
	return res.RowsAffected()
}
