package storage

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/firestore"

	"github.com/snapmeal/jobs-be/internal/worker/domain"
)

// Storage handles job record mutations for the worker
type Storage struct {
	fs             *firestore.Client
	jobsCollection string
	logger         *slog.Logger
}

// NewStorage creates a new Storage instance
func NewStorage(fs *firestore.Client, jobsCollection string, logger *slog.Logger) *Storage {
	return &Storage{
		fs:             fs,
		jobsCollection: jobsCollection,
		logger:         logger,
	}
}

// MarkCompleted transitions a job to completed and stamps completedAt
func (s *Storage) MarkCompleted(ctx context.Context, jobID string, attempts int) error {
	_, err := s.fs.Collection(s.jobsCollection).Doc(jobID).Update(ctx, []firestore.Update{
		{Path: "status", Value: domain.JobStatusCompleted},
		{Path: "attempts", Value: attempts},
		{Path: "completedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		return fmt.Errorf("failed to mark job %s completed: %w", jobID, err)
	}

	s.logger.Info("Job status updated",
		slog.String("job_id", jobID),
		slog.String("status", domain.JobStatusCompleted),
	)

	return nil
}

// MarkFailed transitions a job to failed. The errors field is written as
// a single-element list holding this dispatch's failure message; there is
// no retry loop, so no prior content is preserved.
func (s *Storage) MarkFailed(ctx context.Context, jobID string, attempts int, message string) error {
	_, err := s.fs.Collection(s.jobsCollection).Doc(jobID).Update(ctx, []firestore.Update{
		{Path: "status", Value: domain.JobStatusFailed},
		{Path: "attempts", Value: attempts},
		{Path: "errors", Value: []string{message}},
	})
	if err != nil {
		return fmt.Errorf("failed to mark job %s failed: %w", jobID, err)
	}

	s.logger.Info("Job status updated",
		slog.String("job_id", jobID),
		slog.String("status", domain.JobStatusFailed),
	)

	return nil
}
