package telemetry

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

// Config holds Sentry configuration
type Config struct {
	DSN              string
	Environment      string
	Release          string
	TracesSampleRate float64
}

// Init configures the Sentry SDK. An empty DSN leaves the SDK in its
// disabled state, so CaptureException calls become no-ops; that keeps
// local development and tests free of network side effects.
func Init(cfg *Config) error {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		TracesSampleRate: cfg.TracesSampleRate,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize sentry: %w", err)
	}

	return nil
}

// CaptureException reports an error to Sentry
func CaptureException(err error) {
	if err == nil {
		return
	}
	sentry.CaptureException(err)
}

// Flush drains buffered events; call before process exit
func Flush(timeout time.Duration) {
	sentry.Flush(timeout)
}

// Reporter is an injectable handle satisfying the error-reporting
// interfaces declared at point of use, so tests can swap in a recorder.
type Reporter struct{}

// CaptureException reports an error to Sentry
func (Reporter) CaptureException(err error) {
	CaptureException(err)
}
