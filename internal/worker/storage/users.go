package storage

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/snapmeal/jobs-be/internal/worker/domain"
	"github.com/snapmeal/jobs-be/internal/worker/jobs"
)

const (
	usersCollection = "users"
	mealsCollection = "meals"
)

// Users reads and deletes user documents and their meals sub-collection
type Users struct {
	fs     *firestore.Client
	logger *slog.Logger
}

// NewUsers creates a new Users store
func NewUsers(fs *firestore.Client, logger *slog.Logger) *Users {
	return &Users{fs: fs, logger: logger}
}

func (u *Users) userDoc(userID string) *firestore.DocumentRef {
	return u.fs.Collection(usersCollection).Doc(userID)
}

// GetUser returns the user document fields, or domain.ErrUserNotFound
func (u *Users) GetUser(ctx context.Context, userID string) (map[string]any, error) {
	snap, err := u.userDoc(userID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", userID, err)
	}
	if !snap.Exists() {
		return nil, domain.ErrUserNotFound
	}

	return snap.Data(), nil
}

// ListMeals returns every entry of the user's meals sub-collection
func (u *Users) ListMeals(ctx context.Context, userID string) ([]jobs.MealRecord, error) {
	it := u.userDoc(userID).Collection(mealsCollection).Documents(ctx)
	defer it.Stop()

	var meals []jobs.MealRecord
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list meals for user %s: %w", userID, err)
		}

		meals = append(meals, jobs.MealRecord{
			ID:     doc.Ref.ID,
			Fields: doc.Data(),
		})
	}

	return meals, nil
}

// DeleteMeal removes a single meals entry
func (u *Users) DeleteMeal(ctx context.Context, userID, mealID string) error {
	_, err := u.userDoc(userID).Collection(mealsCollection).Doc(mealID).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete meal %s for user %s: %w", mealID, userID, err)
	}

	return nil
}

// DeleteUser removes the user's top-level document
func (u *Users) DeleteUser(ctx context.Context, userID string) error {
	_, err := u.userDoc(userID).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete user %s: %w", userID, err)
	}

	u.logger.Info("User document deleted",
		slog.String("user_id", userID),
	)

	return nil
}
