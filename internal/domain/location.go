package domain

import (
	"fmt"
	"strings"
)

// StorageKind identifies the storage backend a location belongs to.
type StorageKind string

const (
	StorageKindAzureBlob     StorageKind = "azure_blob"
	StorageKindAzureDataLake StorageKind = "azure_datalake"
	StorageKindS3            StorageKind = "s3"
	StorageKindGCS           StorageKind = "gcs"
)

// ConnectionMethod describes how a connector should authenticate against
// the storage account that hosts a location.
type ConnectionMethod string

const (
	// ConnMethodServicePrincipal is mandatory for Data Lake Gen2 (abfs/abfss)
	// locations; hierarchical-namespace endpoints do not accept shared keys.
	ConnMethodServicePrincipal ConnectionMethod = "service_principal"
	// ConnMethodConnectionString is the default for plain blob locations.
	ConnMethodConnectionString ConnectionMethod = "connection_string"
)

// StorageLocation is the canonical, normalized form of a raw storage path.
// It is immutable once parsed and serves as the deduplication key for
// discovered assets. Path carries no leading or trailing slash; comparison
// is case-insensitive (see NormalizedPath).
type StorageLocation struct {
	Kind      StorageKind
	Account   string
	Container string
	Path      string
	Protocol  string
	Method    ConnectionMethod
}

// NormalizedPath returns the lower-cased, slash-trimmed comparison form of
// the location path. Two locations refer to the same object when their
// container, account, and normalized paths are equal case-insensitively.
func (l StorageLocation) NormalizedPath() string {
	return strings.ToLower(strings.Trim(l.Path, "/"))
}

// String reconstructs a canonical URL for the location. Round-tripping the
// result through the normalizer yields an equal StorageLocation.
func (l StorageLocation) String() string {
	switch l.Kind {
	case StorageKindAzureDataLake:
		proto := l.Protocol
		if proto == "" {
			proto = "abfss"
		}
		return fmt.Sprintf("%s://%s@%s.dfs.core.windows.net/%s", proto, l.Container, l.Account, l.Path)
	case StorageKindS3:
		return fmt.Sprintf("s3://%s/%s", l.Container, l.Path)
	case StorageKindGCS:
		return fmt.Sprintf("gs://%s/%s", l.Container, l.Path)
	default:
		if l.Account != "" {
			return fmt.Sprintf("https://%s.blob.core.windows.net/%s/%s", l.Account, l.Container, l.Path)
		}
		return l.Container + "/" + l.Path
	}
}
