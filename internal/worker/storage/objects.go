package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// Objects implements the object-store operations over a GCS bucket
type Objects struct {
	bucket *gcs.BucketHandle
	logger *slog.Logger
}

// NewObjects creates a new Objects store
func NewObjects(bucket *gcs.BucketHandle, logger *slog.Logger) *Objects {
	return &Objects{bucket: bucket, logger: logger}
}

// Upload copies a local file into the bucket under objectPath
func (o *Objects) Upload(ctx context.Context, objectPath, localPath, contentType string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer f.Close()

	w := o.bucket.Object(objectPath).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, f); err != nil {
		w.Close()
		return fmt.Errorf("failed to upload %s: %w", objectPath, err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize upload of %s: %w", objectPath, err)
	}

	o.logger.Info("Object uploaded",
		slog.String("object_path", objectPath),
		slog.String("content_type", contentType),
	)

	return nil
}

// SignedURL issues a time-limited read-only URL for an object
func (o *Objects) SignedURL(objectPath string, expires time.Time) (string, error) {
	url, err := o.bucket.SignedURL(objectPath, &gcs.SignedURLOptions{
		Scheme:  gcs.SigningSchemeV4,
		Method:  http.MethodGet,
		Expires: expires,
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign url for %s: %w", objectPath, err)
	}

	return url, nil
}

// DeletePrefix removes every object under the given prefix. Objects that
// fail to delete are counted and reported together; already-absent
// objects are not an error.
func (o *Objects) DeletePrefix(ctx context.Context, prefix string) error {
	it := o.bucket.Objects(ctx, &gcs.Query{Prefix: prefix})

	var deleted, failed int
	var firstErr error
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to list objects under %s: %w", prefix, err)
		}

		if err := o.bucket.Object(attrs.Name).Delete(ctx); err != nil && err != gcs.ErrObjectNotExist {
			failed++
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		deleted++
	}

	if failed > 0 {
		return fmt.Errorf("failed to delete %d of %d objects under %s: %w", failed, failed+deleted, prefix, firstErr)
	}

	o.logger.Info("Object prefix deleted",
		slog.String("prefix", prefix),
		slog.Int("deleted", deleted),
	)

	return nil
}
