package handler

import (
	"context"
	"log/slog"

	"github.com/snapmeal/jobs-be/internal/api/model"
)

// Context keys set by the auth middleware and read by handlers
const (
	ContextAuthenticated = "authenticated"
	ContextUserID        = "uid"
	ContextUserEmail     = "email"
)

// JobStore persists and reads job records
type JobStore interface {
	CreateJob(ctx context.Context, fields map[string]any) (string, error)
	GetJobByID(ctx context.Context, jobID string) (*model.Job, error)
}

// ErrorReporter captures an error for telemetry
type ErrorReporter interface {
	CaptureException(err error)
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger   *slog.Logger
	Storage  JobStore
	Reporter ErrorReporter
}

// JobHandler handles job-related HTTP requests
type JobHandler struct {
	logger   *slog.Logger
	storage  JobStore
	reporter ErrorReporter
}

// NewJobHandler creates a new JobHandler instance
func NewJobHandler(deps *Dependencies) *JobHandler {
	return &JobHandler{
		logger:   deps.Logger,
		storage:  deps.Storage,
		reporter: deps.Reporter,
	}
}
