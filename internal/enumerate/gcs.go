package enumerate

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"metacat/internal/domain"
)

var _ Enumerator = (*GCSEnumerator)(nil)

// GCSEnumerator lists and samples objects in one GCS bucket.
type GCSEnumerator struct {
	client *storage.Client
	bucket string
}

// NewGCSEnumerator creates an enumerator for the bucket named in the
// connection config. Without a key file it falls back to application
// default credentials.
func NewGCSEnumerator(ctx context.Context, cfg domain.ConnectionConfig) (*GCSEnumerator, error) {
	if cfg.Container == "" {
		return nil, domain.ErrValidation("gcs connections require a bucket")
	}

	var opts []option.ClientOption
	if cfg.KeyFilePath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.KeyFilePath))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}

	return &GCSEnumerator{client: client, bucket: cfg.Container}, nil
}

// List returns every object under prefix in the configured bucket.
func (e *GCSEnumerator) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	var query *storage.Query
	if prefix != "" {
		query = &storage.Query{Prefix: prefix}
	}

	var objects []ObjectInfo
	it := e.client.Bucket(e.bucket).Objects(ctx, query)
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list objects in %q: %w", e.bucket, err)
		}
		objects = append(objects, ObjectInfo{
			Key:          attrs.Name,
			SizeBytes:    attrs.Size,
			LastModified: attrs.Updated,
		})
	}
	return objects, nil
}

// Read downloads up to maxBytes of an object.
func (e *GCSEnumerator) Read(ctx context.Context, key string, maxBytes int64) ([]byte, error) {
	reader, err := e.client.Bucket(e.bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open object %q: %w", key, err)
	}
	defer reader.Close() //nolint:errcheck
	return readLimited(reader, maxBytes)
}

// URL reconstructs the gs:// URL for a listed key.
func (e *GCSEnumerator) URL(key string) string {
	return fmt.Sprintf("gs://%s/%s", e.bucket, key)
}
