package domain

import "time"

// ExtractionMethod tags how a lineage relationship was derived.
type ExtractionMethod string

const (
	MethodSQLParsing     ExtractionMethod = "sql_parsing"
	MethodFuzzyInference ExtractionMethod = "fuzzy_inference"
	MethodRegexFallback  ExtractionMethod = "regex_fallback"
	MethodManual         ExtractionMethod = "manual"
)

// TransformationKind classifies how a source column maps to a target column.
type TransformationKind string

const (
	TransformPassThrough TransformationKind = "pass_through"
	TransformAggregate   TransformationKind = "aggregate"
	TransformRename      TransformationKind = "rename"
)

// ColumnLineageEntry is one source→target column mapping.
type ColumnLineageEntry struct {
	SourceColumn   string             `json:"source_column"`
	TargetColumn   string             `json:"target_column"`
	Transformation TransformationKind `json:"transformation"`
	Confidence     float64            `json:"confidence,omitempty"`
}

// LineageRelationship is a directed source→target edge between assets.
// Uniqueness is enforced by the store on (SourceAssetID, TargetAssetID,
// SourceJobID); callers must supply SourceJobID consistently (possibly
// empty) so re-runs upsert instead of accrete.
type LineageRelationship struct {
	ID               string
	SourceAssetID    string
	TargetAssetID    string
	RelationshipType string
	ColumnLineage    []ColumnLineageEntry
	SQLQuery         string
	SourceSystem     string
	SourceJobID      string
	SourceJobName    string
	ConfidenceScore  float64
	ExtractionMethod ExtractionMethod
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// QueryType classifies a SQL statement for lineage purposes.
type QueryType string

const (
	QueryCreate     QueryType = "CREATE"
	QueryCreateView QueryType = "CREATE_VIEW"
	QueryInsert     QueryType = "INSERT"
	QuerySelect     QueryType = "SELECT"
	QueryUnknown    QueryType = "UNKNOWN"
)

// LineageExtraction is the result of analyzing one SQL statement. It is
// always populated; extraction never fails outright, it only loses
// confidence.
type LineageExtraction struct {
	SourceTables     []string
	TargetTable      string
	ColumnLineage    []ColumnLineageEntry
	QueryType        QueryType
	ConfidenceScore  float64
	ExtractionMethod ExtractionMethod
}

// SQLQuery is a submitted SQL statement retained for provenance.
type SQLQuery struct {
	ID            string
	QueryText     string
	QueryType     QueryType
	SourceSystem  string
	JobID         string
	JobName       string
	AssetID       string
	ParsedLineage *LineageExtraction
	ParseStatus   string
	ParseError    string
	CreatedAt     time.Time
}
