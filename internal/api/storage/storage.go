package storage

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/snapmeal/jobs-be/internal/api/domain"
	"github.com/snapmeal/jobs-be/internal/api/model"
)

// Storage persists job records in the jobs collection
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

// CreateJob appends a new job document and returns its generated id.
// The fields map is written as-is so caller-supplied task data passes
// through verbatim.
func (s *Storage) CreateJob(ctx context.Context, fields map[string]any) (string, error) {
	ref, _, err := s.fs.Collection(s.jobsCollection).Add(ctx, fields)
	if err != nil {
		return "", fmt.Errorf("failed to create job: %w", err)
	}

	s.logger.Debug("Job record created",
		slog.String("job_id", ref.ID),
	)

	return ref.ID, nil
}

// GetJobByID loads a single job record, or domain.ErrJobNotFound
func (s *Storage) GetJobByID(ctx context.Context, jobID string) (*model.Job, error) {
	snap, err := s.fs.Collection(s.jobsCollection).Doc(jobID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, domain.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	var job model.Job
	if err := snap.DataTo(&job); err != nil {
		return nil, fmt.Errorf("failed to decode job %s: %w", jobID, err)
	}
	job.JobID = snap.Ref.ID

	return &job, nil
}
