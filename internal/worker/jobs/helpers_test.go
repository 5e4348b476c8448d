package jobs

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/snapmeal/jobs-be/internal/mailer"
	"github.com/snapmeal/jobs-be/internal/worker/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeUserStore struct {
	mu sync.Mutex

	user  map[string]any // nil means the user document does not exist
	meals []MealRecord

	listErr       error
	deleteMealErr error
	deleteUserErr error

	deletedMeals []string
	userDeleted  bool
}

func (f *fakeUserStore) GetUser(ctx context.Context, userID string) (map[string]any, error) {
	if f.user == nil {
		return nil, domain.ErrUserNotFound
	}
	return f.user, nil
}

func (f *fakeUserStore) ListMeals(ctx context.Context, userID string) ([]MealRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.meals, nil
}

func (f *fakeUserStore) DeleteMeal(ctx context.Context, userID, mealID string) error {
	if f.deleteMealErr != nil {
		return f.deleteMealErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedMeals = append(f.deletedMeals, mealID)
	return nil
}

func (f *fakeUserStore) DeleteUser(ctx context.Context, userID string) error {
	if f.deleteUserErr != nil {
		return f.deleteUserErr
	}
	f.userDeleted = true
	return nil
}

type fakeIdentity struct {
	deleted []string
	err     error
}

func (f *fakeIdentity) DeleteUser(ctx context.Context, uid string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, uid)
	return nil
}

type upload struct {
	objectPath  string
	localPath   string
	contentType string
	sawFile     bool
}

type fakeObjectStore struct {
	uploads   []upload
	uploadErr error

	signedURL string
	signErr   error

	deletedPrefixes []string
	deletePrefixErr error

	// lastLocalPath is recorded even when the upload fails, so tests
	// can check scratch file cleanup afterwards.
	lastLocalPath string
}

func (f *fakeObjectStore) Upload(ctx context.Context, objectPath, localPath, contentType string) error {
	f.lastLocalPath = localPath
	if f.uploadErr != nil {
		return f.uploadErr
	}
	_, statErr := os.Stat(localPath)
	f.uploads = append(f.uploads, upload{
		objectPath:  objectPath,
		localPath:   localPath,
		contentType: contentType,
		sawFile:     statErr == nil,
	})
	return nil
}

func (f *fakeObjectStore) SignedURL(objectPath string, expires time.Time) (string, error) {
	if f.signErr != nil {
		return "", f.signErr
	}
	if f.signedURL != "" {
		return f.signedURL, nil
	}
	return "https://storage.example.com/" + objectPath, nil
}

func (f *fakeObjectStore) DeletePrefix(ctx context.Context, prefix string) error {
	if f.deletePrefixErr != nil {
		return f.deletePrefixErr
	}
	f.deletedPrefixes = append(f.deletedPrefixes, prefix)
	return nil
}

type fakeEmailSender struct {
	sent []mailer.Message
	err  error
}

func (f *fakeEmailSender) Send(ctx context.Context, msg mailer.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeReporter struct {
	mu       sync.Mutex
	captured []error
}

func (f *fakeReporter) CaptureException(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.captured = append(f.captured, err)
}

func (f *fakeReporter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.captured)
}
