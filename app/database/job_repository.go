package database

import (
	"context"
	"database/sql"
	"fmt"
)

var _ JobRepository = (*JobRepo)(nil)

// JobRepo handles database operations for recurring job registrations
type JobRepo struct {
	db *DB
}

// NewJobRepository creates a new scheduled job repository
func NewJobRepository(db *DB) *JobRepo {
	return &JobRepo{db: db}
}

// Get retrieves a job registration by name, or nil when none exists.
func (r *JobRepo) Get(ctx context.Context, name string) (*ScheduledJob, error) {
	var job ScheduledJob
	err := r.db.QueryRowContext(ctx, `
		SELECT job_name, interval_seconds, last_run_at, updated_at
		FROM scheduled_jobs
		WHERE job_name = $1
	`, name).Scan(&job.JobName, &job.IntervalSeconds, &job.LastRunAt, &job.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scheduled job: %w", err)
	}

	return &job, nil
}

// Upsert registers a job or repairs its interval. Idempotent.
func (r *JobRepo) Upsert(ctx context.Context, name string, intervalSeconds int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO scheduled_jobs (job_name, interval_seconds)
		VALUES ($1, $2)
		ON CONFLICT (job_name) DO UPDATE
		SET interval_seconds = EXCLUDED.interval_seconds, updated_at = NOW()
	`, name, intervalSeconds)

	if err != nil {
		return fmt.Errorf("failed to upsert scheduled job: %w", err)
	}

	return nil
}

// MarkRun records that the job fired.
func (r *JobRepo) MarkRun(ctx context.Context, name string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE scheduled_jobs
		SET last_run_at = NOW(), updated_at = NOW()
		WHERE job_name = $1
	`, name)

	if err != nil {
		return fmt.Errorf("failed to mark job run: %w", err)
	}

	return nil
}
