package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/snapmeal/jobs-be/internal/worker/domain"
	"github.com/snapmeal/jobs-be/internal/worker/jobs"
)

// Config holds worker configuration
type Config struct {
	Logger         *slog.Logger
	Firestore      *firestore.Client
	JobsCollection string
	Dispatcher     *Dispatcher
	Reporter       jobs.ErrorReporter
}

// Worker watches the jobs collection and dispatches each newly created
// pending record. The snapshot listener on status==pending is the
// trigger-delivery mechanism: new documents arrive as added changes, and
// records already pending at startup are delivered again, which the
// at-least-once dispatch contract allows.
type Worker struct {
	workerID       string
	logger         *slog.Logger
	fs             *firestore.Client
	jobsCollection string
	dispatcher     *Dispatcher
	reporter       jobs.ErrorReporter
	wg             sync.WaitGroup
}

// NewWorker creates a new worker instance
func NewWorker(cfg *Config) *Worker {
	workerID := uuid.NewString()
	return &Worker{
		workerID:       workerID,
		logger:         cfg.Logger.With(slog.String("worker_id", workerID)),
		fs:             cfg.Firestore,
		jobsCollection: cfg.JobsCollection,
		dispatcher:     cfg.Dispatcher,
		reporter:       cfg.Reporter,
	}
}

// Start consumes job-creation events until the context is canceled
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("Starting worker",
		slog.String("collection", w.jobsCollection),
	)

	it := w.fs.Collection(w.jobsCollection).
		Where("status", "==", domain.JobStatusPending).
		Snapshots(ctx)
	defer it.Stop()

	for {
		snap, err := it.Next()
		if err != nil {
			if status.Code(err) == codes.Canceled || errors.Is(err, context.Canceled) {
				w.logger.Info("Job listener stopped - context canceled")
				return nil
			}
			return fmt.Errorf("jobs snapshot stream failed: %w", err)
		}

		for _, change := range snap.Changes {
			if change.Kind != firestore.DocumentAdded {
				continue
			}

			doc := change.Doc
			w.wg.Add(1)
			go func() {
				defer w.wg.Done()
				w.handleCreated(ctx, doc)
			}()
		}
	}
}

// Stop waits for in-flight dispatches to finish
func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	w.wg.Wait()
	w.logger.Info("Worker stopped")
}

// handleCreated decodes one created job document and dispatches it. An
// undecodable record is logged and reported but not mutated.
func (w *Worker) handleCreated(ctx context.Context, doc *firestore.DocumentSnapshot) {
	var job domain.Job
	if err := doc.DataTo(&job); err != nil {
		w.reporter.CaptureException(err)
		w.logger.Error("Failed to decode job record",
			slog.String("job_id", doc.Ref.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	w.dispatcher.Dispatch(ctx, doc.Ref.ID, &job)
}
