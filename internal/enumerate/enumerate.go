// Package enumerate lists and samples objects in external object stores so
// the discovery service can fingerprint them. One Enumerator exists per
// registered connection.
package enumerate

import (
	"context"
	"fmt"
	"io"
	"time"

	"metacat/internal/domain"
)

// ObjectInfo describes one object found under a connection's prefix.
type ObjectInfo struct {
	Key          string
	SizeBytes    int64
	LastModified time.Time
}

// Enumerator walks an object store container. URL reconstructs the full
// storage URL for a listed key, suitable for the path normalizer.
type Enumerator interface {
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
	// Read returns up to maxBytes of the object's content. maxBytes <= 0
	// reads the whole object.
	Read(ctx context.Context, key string, maxBytes int64) ([]byte, error)
	URL(key string) string
}

// ForConnection constructs the Enumerator matching a connection's type.
func ForConnection(ctx context.Context, conn *domain.Connection) (Enumerator, error) {
	if conn == nil {
		return nil, domain.ErrValidation("connection is required")
	}
	switch conn.ConnectorType {
	case domain.StorageKindAzureBlob, domain.StorageKindAzureDataLake:
		return NewAzureEnumerator(conn.ConnectorType, conn.Config)
	case domain.StorageKindS3:
		return NewS3Enumerator(conn.Config)
	case domain.StorageKindGCS:
		return NewGCSEnumerator(ctx, conn.Config)
	default:
		return nil, domain.ErrValidation("unsupported connector type %q", conn.ConnectorType)
	}
}

func readLimited(r io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes > 0 {
		r = io.LimitReader(r, maxBytes)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read object: %w", err)
	}
	return data, nil
}
