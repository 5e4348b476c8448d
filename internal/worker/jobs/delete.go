package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/snapmeal/jobs-be/internal/mailer"
	"github.com/snapmeal/jobs-be/internal/worker/domain"
)

const deleteEmailSubject = "Your account has been deleted"

const deleteEmailBody = `<h2>Account Deletion Confirmation</h2>
<p>Hello,</p>
<p>This is a confirmation that your SnapMeal account and all associated data have been successfully deleted from our system.</p>
<p>We're sorry to see you go. If you have any feedback about your experience with SnapMeal, please feel free to reply to this email.</p>
<p>If you deleted your account by mistake or wish to rejoin in the future, you'll need to create a new account.</p>
<p>Thank you for using SnapMeal.</p>`

// Deleter handles deleteAccount jobs: it removes the user's meal records,
// the user document, the identity record, and the user's stored files.
// Object-store cleanup is best effort; everything else is fatal.
type Deleter struct {
	users    UserStore
	identity Identity
	objects  ObjectStore
	email    EmailSender
	reporter ErrorReporter
	logger   *slog.Logger
}

// NewDeleter creates a Deleter with its collaborators
func NewDeleter(users UserStore, identity Identity, objects ObjectStore, email EmailSender, reporter ErrorReporter, logger *slog.Logger) *Deleter {
	return &Deleter{
		users:    users,
		identity: identity,
		objects:  objects,
		email:    email,
		reporter: reporter,
		logger:   logger,
	}
}

// Run executes one account deletion. The returned error is non-nil only
// for the empty-userId precondition; every other failure is reported and
// folded into the Result.
func (d *Deleter) Run(ctx context.Context, userID, userEmail string) (Result, error) {
	if userID == "" {
		return Result{}, domain.ErrUserIDRequired
	}

	if _, err := d.users.GetUser(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return d.fail(userID, fmt.Errorf("User Doc with ID %s not found.", userID))
		}
		return d.fail(userID, fmt.Errorf("failed to load user document: %w", err))
	}

	// Firestore does not cascade sub-collection deletes, so the meals
	// entries go first, concurrently, and all must finish before the
	// parent document is removed.
	meals, err := d.users.ListMeals(ctx, userID)
	if err != nil {
		return d.fail(userID, fmt.Errorf("failed to list meals: %w", err))
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, meal := range meals {
		g.Go(func() error {
			return d.users.DeleteMeal(gctx, userID, meal.ID)
		})
	}
	if err := g.Wait(); err != nil {
		return d.fail(userID, fmt.Errorf("failed to delete meals: %w", err))
	}

	if err := d.users.DeleteUser(ctx, userID); err != nil {
		return d.fail(userID, fmt.Errorf("failed to delete user document: %w", err))
	}

	if err := d.identity.DeleteUser(ctx, userID); err != nil {
		return d.fail(userID, fmt.Errorf("failed to delete auth user: %w", err))
	}

	// Storage cleanup is tolerated on failure: report it, record it on
	// the result, but do not fail the deletion.
	var tolerated []string
	if err := d.objects.DeletePrefix(ctx, fmt.Sprintf("users/%s/", userID)); err != nil {
		d.reporter.CaptureException(err)
		d.logger.Warn("Storage cleanup failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		tolerated = append(tolerated, err.Error())
	}

	err = d.email.Send(ctx, mailer.Message{
		To:      userEmail,
		Subject: deleteEmailSubject,
		HTML:    deleteEmailBody,
	})
	if err != nil {
		return d.fail(userID, fmt.Errorf("failed to send deletion email: %w", err))
	}

	d.logger.Info("Account deleted",
		slog.String("user_id", userID),
		slog.Int("meal_count", len(meals)),
	)

	return Result{
		Success:   true,
		Message:   fmt.Sprintf("Account for %s deleted successfully.", userEmail),
		AccountID: userID,
		Tolerated: tolerated,
	}, nil
}

func (d *Deleter) fail(userID string, err error) (Result, error) {
	d.reporter.CaptureException(err)
	d.logger.Error("Account deletion failed",
		slog.String("user_id", userID),
		slog.String("error", err.Error()),
	)

	return Result{Success: false, Message: err.Error()}, nil
}
