package domain

import "time"

// SchemaColumn is one column of an inferred file schema, in declaration order.
type SchemaColumn struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// AssetFingerprint pairs a content hash with a schema hash. Equal schema
// hashes with differing content hashes describe the same logical table
// shape carrying new data.
type AssetFingerprint struct {
	ContentHash string `json:"content_hash"`
	SchemaHash  string `json:"schema_hash"`
}

// Asset is a discovered data asset (file, table, view) as stored in the
// metastore. TechnicalMetadata carries the normalized storage location and
// the last-seen fingerprint.
type Asset struct {
	ID                  string
	Name                string
	Type                string
	Catalog             string
	ConnectorID         string
	TechnicalMetadata   TechnicalMetadata
	OperationalMetadata map[string]any
	Columns             []SchemaColumn
	DiscoveredAt        time.Time
	UpdatedAt           time.Time
}

// TechnicalMetadata is the structured bag persisted with every asset.
type TechnicalMetadata struct {
	Location    string           `json:"location"`
	StorageKind StorageKind      `json:"storage_kind,omitempty"`
	Account     string           `json:"account,omitempty"`
	Container   string           `json:"container,omitempty"`
	Fingerprint AssetFingerprint `json:"fingerprint"`
	SizeBytes   int64            `json:"size_bytes,omitempty"`
	Format      string           `json:"format,omitempty"`
}

// ReconcileAction is the Reconciler's recommendation to the store.
type ReconcileAction string

const (
	ActionInsert ReconcileAction = "insert"
	ActionUpdate ReconcileAction = "update"
	ActionSkip   ReconcileAction = "skip"
)

// Connection is a registered storage connector.
type Connection struct {
	ID            string
	Name          string
	ConnectorType StorageKind
	Config        ConnectionConfig
	Status        string
	CreatedAt     time.Time
}

// ConnectionConfig holds connector credentials and scope. Which fields are
// required depends on ConnectorType.
type ConnectionConfig struct {
	Account     string `json:"account,omitempty"`
	Container   string `json:"container,omitempty"`
	AccountKey  string `json:"account_key,omitempty"`
	KeyID       string `json:"key_id,omitempty"`
	Secret      string `json:"secret,omitempty"`
	Region      string `json:"region,omitempty"`
	Endpoint    string `json:"endpoint,omitempty"`
	KeyFilePath string `json:"key_file_path,omitempty"`
	Prefix      string `json:"prefix,omitempty"`
}
