package enumerate

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"metacat/internal/domain"
)

var _ Enumerator = (*S3Enumerator)(nil)

// S3Enumerator lists and samples objects in one S3 bucket. A custom
// endpoint switches the client to path-style addressing for S3-compatible
// stores.
type S3Enumerator struct {
	client *s3.Client
	bucket string
}

// NewS3Enumerator creates an enumerator for the bucket named in the
// connection config (Container carries the bucket name).
func NewS3Enumerator(cfg domain.ConnectionConfig) (*S3Enumerator, error) {
	if cfg.Container == "" {
		return nil, domain.ErrValidation("s3 connections require a bucket")
	}
	if cfg.KeyID == "" || cfg.Secret == "" {
		return nil, domain.ErrValidation("s3 connections require key id and secret")
	}

	opts := s3.Options{
		Region: cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.KeyID, cfg.Secret, "",
		),
	}
	if opts.Region == "" {
		opts.Region = "us-east-1"
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String("https://" + cfg.Endpoint)
		opts.UsePathStyle = true
	}

	return &S3Enumerator{client: s3.New(opts), bucket: cfg.Container}, nil
}

// List returns every object under prefix in the configured bucket.
func (e *S3Enumerator) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	input := &s3.ListObjectsV2Input{Bucket: aws.String(e.bucket)}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	var objects []ObjectInfo
	paginator := s3.NewListObjectsV2Paginator(e.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list objects in %q: %w", e.bucket, err)
		}
		for _, obj := range page.Contents {
			if obj.Key == nil {
				continue
			}
			info := ObjectInfo{Key: *obj.Key}
			if obj.Size != nil {
				info.SizeBytes = *obj.Size
			}
			if obj.LastModified != nil {
				info.LastModified = *obj.LastModified
			}
			objects = append(objects, info)
		}
	}
	return objects, nil
}

// Read downloads up to maxBytes of an object.
func (e *S3Enumerator) Read(ctx context.Context, key string, maxBytes int64) ([]byte, error) {
	resp, err := e.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(e.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get object %q: %w", key, err)
	}
	defer resp.Body.Close() //nolint:errcheck
	return readLimited(resp.Body, maxBytes)
}

// URL reconstructs the s3:// URL for a listed key.
func (e *S3Enumerator) URL(key string) string {
	return fmt.Sprintf("s3://%s/%s", e.bucket, key)
}
