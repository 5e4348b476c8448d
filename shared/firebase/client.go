package firebase

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/firestore"
	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// Config holds Firebase client configuration
type Config struct {
	ProjectID       string
	CredentialsFile string
	DatabaseID      string
	StorageBucket   string
}

// Client bundles the Firebase-backed service handles used by this system.
// It is constructed exactly once in main and passed to whoever needs it;
// there is no package-level cached instance.
type Client struct {
	App       *firebase.App
	Firestore *firestore.Client
	Auth      *auth.Client
	Bucket    *gcs.BucketHandle

	logger *slog.Logger
}

// NewClient initializes the Firebase app and derives the Firestore, Auth
// and Storage handles from it. DatabaseID selects a named Firestore
// database; empty falls back to the project default.
func NewClient(ctx context.Context, config *Config, logger *slog.Logger) (*Client, error) {
	var opts []option.ClientOption
	if config.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(config.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:     config.ProjectID,
		StorageBucket: config.StorageBucket,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	var fsClient *firestore.Client
	if config.DatabaseID != "" {
		fsClient, err = firestore.NewClientWithDatabase(ctx, config.ProjectID, config.DatabaseID, opts...)
	} else {
		fsClient, err = app.Firestore(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firestore client: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		fsClient.Close()
		return nil, fmt.Errorf("failed to initialize auth client: %w", err)
	}

	storageClient, err := app.Storage(ctx)
	if err != nil {
		fsClient.Close()
		return nil, fmt.Errorf("failed to initialize storage client: %w", err)
	}

	bucket, err := storageClient.Bucket(config.StorageBucket)
	if err != nil {
		fsClient.Close()
		return nil, fmt.Errorf("failed to resolve storage bucket: %w", err)
	}

	logger.Info("Firebase client initialized",
		slog.String("project_id", config.ProjectID),
		slog.String("database_id", config.DatabaseID),
		slog.String("bucket", config.StorageBucket),
	)

	return &Client{
		App:       app,
		Firestore: fsClient,
		Auth:      authClient,
		Bucket:    bucket,
		logger:    logger,
	}, nil
}

// Close releases the underlying Firestore connection
func (c *Client) Close() error {
	c.logger.Info("Closing Firebase client")

	if err := c.Firestore.Close(); err != nil {
		return fmt.Errorf("failed to close firestore client: %w", err)
	}

	return nil
}
