package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/snapmeal/jobs-be/internal/mailer"
	"github.com/snapmeal/jobs-be/internal/worker/domain"
)

const signedURLTTL = 7 * 24 * time.Hour

const exportEmailSubject = "Your data export is ready"

const exportEmailBody = `<h2>Your data export is ready</h2>
<p>You requested an export of your spending data. Your file is now ready for download.</p>
<p><a href="%s">Click here to download your CSV file</a></p>
<p>This link will expire in 7 days.</p>`

// Exporter handles exportData jobs: it reads the user's meal records,
// serializes them to CSV, uploads the file to the object store and mails
// the user a time-limited download link.
type Exporter struct {
	users    UserStore
	objects  ObjectStore
	email    EmailSender
	reporter ErrorReporter
	logger   *slog.Logger
}

// NewExporter creates an Exporter with its collaborators
func NewExporter(users UserStore, objects ObjectStore, email EmailSender, reporter ErrorReporter, logger *slog.Logger) *Exporter {
	return &Exporter{
		users:    users,
		objects:  objects,
		email:    email,
		reporter: reporter,
		logger:   logger,
	}
}

// Run executes one export. The returned error is non-nil only for the
// empty-userId precondition; every other failure is reported and folded
// into the Result.
func (e *Exporter) Run(ctx context.Context, userID, userEmail string) (Result, error) {
	if userID == "" {
		return Result{}, domain.ErrUserIDRequired
	}

	// The parent user document is intentionally not checked here; only
	// the meals sub-collection determines whether there is data to export.
	meals, err := e.users.ListMeals(ctx, userID)
	if err != nil {
		return e.fail(userID, fmt.Errorf("failed to list meals: %w", err))
	}

	if len(meals) == 0 {
		return e.fail(userID, fmt.Errorf("No data found for %s.", userEmail))
	}

	csvData, err := marshalMealsCSV(meals)
	if err != nil {
		return e.fail(userID, fmt.Errorf("failed to serialize meals: %w", err))
	}

	timestamp := time.Now().UnixMilli()
	scratchPath := filepath.Join(os.TempDir(), fmt.Sprintf("meals-export-%s.csv", uuid.NewString()))
	if err := os.WriteFile(scratchPath, csvData, 0o600); err != nil {
		return e.fail(userID, fmt.Errorf("failed to write scratch file: %w", err))
	}
	// Scratch file removal must happen regardless of upload outcome.
	defer os.Remove(scratchPath)

	objectPath := fmt.Sprintf("users/%s/exports/meals-%d.csv", userID, timestamp)
	if err := e.objects.Upload(ctx, objectPath, scratchPath, "text/csv"); err != nil {
		return e.fail(userID, fmt.Errorf("failed to upload export: %w", err))
	}

	url, err := e.objects.SignedURL(objectPath, time.Now().Add(signedURLTTL))
	if err != nil {
		return e.fail(userID, fmt.Errorf("failed to sign download url: %w", err))
	}

	err = e.email.Send(ctx, mailer.Message{
		To:      userEmail,
		Subject: exportEmailSubject,
		HTML:    fmt.Sprintf(exportEmailBody, url),
	})
	if err != nil {
		return e.fail(userID, fmt.Errorf("failed to send export email: %w", err))
	}

	e.logger.Info("Data export completed",
		slog.String("user_id", userID),
		slog.String("object_path", objectPath),
		slog.Int("meal_count", len(meals)),
	)

	return Result{
		Success:     true,
		Message:     fmt.Sprintf("%s data exported successfully.", userEmail),
		DownloadURL: url,
	}, nil
}

func (e *Exporter) fail(userID string, err error) (Result, error) {
	e.reporter.CaptureException(err)
	e.logger.Error("Data export failed",
		slog.String("user_id", userID),
		slog.String("error", err.Error()),
	)

	return Result{Success: false, Message: err.Error()}, nil
}
