package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/snapmeal/jobs-be/internal/worker/domain"
	"github.com/snapmeal/jobs-be/internal/worker/jobs"
)

// JobStore mutates job records after a dispatch. Both calls write the
// attempts value computed by the dispatcher, so a dispatch increments
// attempts exactly once whatever the outcome.
type JobStore interface {
	MarkCompleted(ctx context.Context, jobID string, attempts int) error
	MarkFailed(ctx context.Context, jobID string, attempts int, message string) error
}

// Handler executes one job for a user and reports the outcome. A non-nil
// error means the handler refused to run (precondition violation), not
// that the work failed.
type Handler func(ctx context.Context, userID, userEmail string) (jobs.Result, error)

// Dispatcher routes newly created job records to the handler registered
// for their type and writes back the terminal state.
type Dispatcher struct {
	store    JobStore
	handlers map[string]Handler
	reporter jobs.ErrorReporter
	logger   *slog.Logger
}

// NewDispatcher creates a Dispatcher with an empty handler registry
func NewDispatcher(store JobStore, reporter jobs.ErrorReporter, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		store:    store,
		handlers: make(map[string]Handler),
		reporter: reporter,
		logger:   logger,
	}
}

// Register binds a handler to a job type
func (d *Dispatcher) Register(jobType string, handler Handler) {
	d.handlers[jobType] = handler
}

// Dispatch processes one newly created job record. Delivery is
// at-least-once: a duplicate delivery runs the handler again and may
// duplicate its side effects; there is no deduplication token.
func (d *Dispatcher) Dispatch(ctx context.Context, jobID string, job *domain.Job) {
	d.logger.Info("Processing job",
		slog.String("job_id", jobID),
		slog.String("job_type", job.JobType),
		slog.String("user_id", job.UserID),
	)

	attempts := job.Attempts + 1

	handler, ok := d.handlers[job.JobType]
	if !ok {
		// An unregistered type fails the record rather than leaving it
		// stranded in pending with no surfaced error.
		d.logger.Error("Unknown job type",
			slog.String("job_id", jobID),
			slog.String("job_type", job.JobType),
		)
		d.markFailed(ctx, jobID, attempts, fmt.Sprintf("unknown job type: %s", job.JobType))
		return
	}

	result, err := handler(ctx, job.UserID, job.UserEmail)
	if err != nil {
		// Precondition violations escape the handler as real errors;
		// guard here so the record still reaches a terminal state.
		d.reporter.CaptureException(err)
		d.logger.Error("Handler refused job",
			slog.String("job_id", jobID),
			slog.String("job_type", job.JobType),
			slog.String("error", err.Error()),
		)
		d.markFailed(ctx, jobID, attempts, err.Error())
		return
	}

	if result.Success {
		if err := d.store.MarkCompleted(ctx, jobID, attempts); err != nil {
			d.reporter.CaptureException(err)
			d.logger.Error("Failed to mark job completed",
				slog.String("job_id", jobID),
				slog.String("error", err.Error()),
			)
		}

		d.logger.Info("Job completed",
			slog.String("job_id", jobID),
			slog.String("job_type", job.JobType),
			slog.Int("attempts", attempts),
		)
		return
	}

	d.markFailed(ctx, jobID, attempts, result.Message)
	d.logger.Warn("Job failed",
		slog.String("job_id", jobID),
		slog.String("job_type", job.JobType),
		slog.String("error", result.Message),
	)
}

// markFailed is best effort: a failed status write is reported but not
// retried.
func (d *Dispatcher) markFailed(ctx context.Context, jobID string, attempts int, message string) {
	if err := d.store.MarkFailed(ctx, jobID, attempts, message); err != nil {
		d.reporter.CaptureException(err)
		d.logger.Error("Failed to mark job failed",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
	}
}
