// Package jobs implements the handlers executed for queued job records.
//
// Handlers never let an unexpected error escape to the dispatcher: every
// failure inside a handler is reported to telemetry, logged, and folded
// into the returned Result. The single exception is the empty-userId
// precondition, which is returned as a real error for the dispatcher to
// guard against.
package jobs

import (
	"context"
	"time"

	"github.com/snapmeal/jobs-be/internal/mailer"
)

// Result is the outcome a handler reports back to the dispatcher.
// Tolerated holds non-fatal sub-errors (object-store cleanup) that were
// reported and logged but did not affect Success.
type Result struct {
	Success     bool
	Message     string
	DownloadURL string
	AccountID   string
	Tolerated   []string
}

// MealRecord is a single entry of a user's meals sub-collection
type MealRecord struct {
	ID     string
	Fields map[string]any
}

// UserStore is the document-store surface the handlers need
type UserStore interface {
	// GetUser returns the user document fields, or domain.ErrUserNotFound
	GetUser(ctx context.Context, userID string) (map[string]any, error)
	ListMeals(ctx context.Context, userID string) ([]MealRecord, error)
	DeleteMeal(ctx context.Context, userID, mealID string) error
	DeleteUser(ctx context.Context, userID string) error
}

// Identity deletes a user from the authentication provider.
// *auth.Client satisfies this directly.
type Identity interface {
	DeleteUser(ctx context.Context, uid string) error
}

// ObjectStore is the object-store surface the handlers need
type ObjectStore interface {
	Upload(ctx context.Context, objectPath, localPath, contentType string) error
	SignedURL(objectPath string, expires time.Time) (string, error)
	DeletePrefix(ctx context.Context, prefix string) error
}

// EmailSender delivers a notification email
type EmailSender interface {
	Send(ctx context.Context, msg mailer.Message) error
}

// ErrorReporter captures an error for telemetry
type ErrorReporter interface {
	CaptureException(err error)
}
