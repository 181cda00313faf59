package api

import (
	"net/http"
	"time"

	"metacat/internal/domain"
	"metacat/internal/service"
)

// LineageRelationship is the API representation of a lineage edge.
type LineageRelationship struct {
	ID               string                      `json:"id"`
	SourceAssetID    string                      `json:"source_asset_id"`
	TargetAssetID    string                      `json:"target_asset_id"`
	RelationshipType string                      `json:"relationship_type"`
	ColumnLineage    []domain.ColumnLineageEntry `json:"column_lineage,omitempty"`
	SQLQuery         string                      `json:"sql_query,omitempty"`
	SourceSystem     string                      `json:"source_system,omitempty"`
	SourceJobID      string                      `json:"source_job_id,omitempty"`
	SourceJobName    string                      `json:"source_job_name,omitempty"`
	ConfidenceScore  float64                     `json:"confidence_score"`
	ExtractionMethod string                      `json:"extraction_method"`
	CreatedAt        time.Time                   `json:"created_at"`
	UpdatedAt        time.Time                   `json:"updated_at"`
}

type lineageListResponse struct {
	Data []LineageRelationship `json:"data"`
}

type sqlLineageRequest struct {
	SQL          string `json:"sql"`
	Dialect      string `json:"dialect,omitempty"`
	ConnectorID  string `json:"connector_id,omitempty"`
	SourceSystem string `json:"source_system,omitempty"`
	JobID        string `json:"job_id,omitempty"`
	JobName      string `json:"job_name,omitempty"`
}

type sqlLineageResponse struct {
	SourceTables     []string                    `json:"source_tables"`
	TargetTable      string                      `json:"target_table,omitempty"`
	QueryType        string                      `json:"query_type"`
	ColumnLineage    []domain.ColumnLineageEntry `json:"column_lineage,omitempty"`
	ConfidenceScore  float64                     `json:"confidence_score"`
	ExtractionMethod string                      `json:"extraction_method"`
	Relationships    []LineageRelationship       `json:"relationships"`
	UnresolvedTables []string                    `json:"unresolved_tables,omitempty"`
}

type inferLineageRequest struct {
	SourceAssetID string  `json:"source_asset_id"`
	TargetAssetID string  `json:"target_asset_id"`
	MinMatchRatio float64 `json:"min_match_ratio,omitempty"`
}

func (h *Handler) extractSQLLineage(w http.ResponseWriter, r *http.Request) {
	var req sqlLineageRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	result, err := h.lineage.ExtractFromSQL(r.Context(), service.SQLLineageRequest{
		SQL:          req.SQL,
		Dialect:      req.Dialect,
		ConnectorID:  req.ConnectorID,
		SourceSystem: req.SourceSystem,
		JobID:        req.JobID,
		JobName:      req.JobName,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	rels := make([]LineageRelationship, len(result.Relationships))
	for i, rel := range result.Relationships {
		rels[i] = relationshipToAPI(rel)
	}
	extraction := result.Extraction
	h.writeJSON(w, http.StatusOK, sqlLineageResponse{
		SourceTables:     extraction.SourceTables,
		TargetTable:      extraction.TargetTable,
		QueryType:        string(extraction.QueryType),
		ColumnLineage:    extraction.ColumnLineage,
		ConfidenceScore:  extraction.ConfidenceScore,
		ExtractionMethod: string(extraction.ExtractionMethod),
		Relationships:    rels,
		UnresolvedTables: result.UnresolvedTables,
	})
}

func (h *Handler) inferLineage(w http.ResponseWriter, r *http.Request) {
	var req inferLineageRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.SourceAssetID == "" || req.TargetAssetID == "" {
		h.writeError(w, domain.ErrValidation("source_asset_id and target_asset_id are required"))
		return
	}

	rel, err := h.lineage.InferBetweenAssets(r.Context(), req.SourceAssetID, req.TargetAssetID, req.MinMatchRatio)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, relationshipToAPI(*rel))
}

func relationshipToAPI(rel domain.LineageRelationship) LineageRelationship {
	return LineageRelationship{
		ID:               rel.ID,
		SourceAssetID:    rel.SourceAssetID,
		TargetAssetID:    rel.TargetAssetID,
		RelationshipType: rel.RelationshipType,
		ColumnLineage:    rel.ColumnLineage,
		SQLQuery:         rel.SQLQuery,
		SourceSystem:     rel.SourceSystem,
		SourceJobID:      rel.SourceJobID,
		SourceJobName:    rel.SourceJobName,
		ConfidenceScore:  rel.ConfidenceScore,
		ExtractionMethod: string(rel.ExtractionMethod),
		CreatedAt:        rel.CreatedAt,
		UpdatedAt:        rel.UpdatedAt,
	}
}
