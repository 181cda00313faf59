package repository

import (
	"context"
	"database/sql"

	"metacat/internal/domain"
)

var _ domain.LineageRepository = (*LineageRepo)(nil)

// LineageRepo stores lineage relationships in SQLite.
type LineageRepo struct {
	db *sql.DB
}

// NewLineageRepo creates a new LineageRepo.
func NewLineageRepo(db *sql.DB) *LineageRepo {
	return &LineageRepo{db: db}
}

// Upsert inserts the relationship or, when a row already exists for
// (source_asset_id, target_asset_id, source_job_id), replaces its payload.
// Re-running the same extraction is idempotent.
func (r *LineageRepo) Upsert(ctx context.Context, rel *domain.LineageRelationship) error {
	if rel == nil {
		return domain.ErrValidation("lineage relationship is required")
	}
	if rel.SourceAssetID == "" || rel.TargetAssetID == "" {
		return domain.ErrValidation("source and target asset ids are required")
	}
	if rel.ID == "" {
		rel.ID = domain.NewID()
	}
	if rel.RelationshipType == "" {
		rel.RelationshipType = "derived_from"
	}

	columnLineage, err := marshalJSON(orEmptySlice(rel.ColumnLineage), "column lineage")
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO lineage_relationships (
			id, source_asset_id, target_asset_id, relationship_type, column_lineage,
			sql_query, source_system, source_job_id, source_job_name,
			confidence_score, extraction_method)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (source_asset_id, target_asset_id, source_job_id) DO UPDATE SET
			relationship_type = excluded.relationship_type,
			column_lineage = excluded.column_lineage,
			sql_query = excluded.sql_query,
			source_system = excluded.source_system,
			source_job_name = excluded.source_job_name,
			confidence_score = excluded.confidence_score,
			extraction_method = excluded.extraction_method,
			updated_at = CURRENT_TIMESTAMP
	`, rel.ID, rel.SourceAssetID, rel.TargetAssetID, rel.RelationshipType, columnLineage,
		rel.SQLQuery, rel.SourceSystem, rel.SourceJobID, rel.SourceJobName,
		rel.ConfidenceScore, string(rel.ExtractionMethod))
	return mapDBError(err)
}

// ListForAsset returns every relationship where the asset is source or target.
func (r *LineageRepo) ListForAsset(ctx context.Context, assetID string) ([]domain.LineageRelationship, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, source_asset_id, target_asset_id, relationship_type, column_lineage,
		       sql_query, source_system, source_job_id, source_job_name,
		       confidence_score, extraction_method, created_at, updated_at
		FROM lineage_relationships
		WHERE source_asset_id = ? OR target_asset_id = ?
		ORDER BY created_at, id
	`, assetID, assetID)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close() //nolint:errcheck

	var rels []domain.LineageRelationship
	for rows.Next() {
		var (
			rel           domain.LineageRelationship
			columnLineage string
			method        string
		)
		if err := rows.Scan(&rel.ID, &rel.SourceAssetID, &rel.TargetAssetID,
			&rel.RelationshipType, &columnLineage, &rel.SQLQuery, &rel.SourceSystem,
			&rel.SourceJobID, &rel.SourceJobName, &rel.ConfidenceScore, &method,
			&rel.CreatedAt, &rel.UpdatedAt); err != nil {
			return nil, mapDBError(err)
		}
		if err := unmarshalJSON(columnLineage, "column lineage", &rel.ColumnLineage); err != nil {
			return nil, err
		}
		rel.ExtractionMethod = domain.ExtractionMethod(method)
		rels = append(rels, rel)
	}
	return rels, rows.Err()
}

func orEmptySlice(entries []domain.ColumnLineageEntry) []domain.ColumnLineageEntry {
	if entries == nil {
		return []domain.ColumnLineageEntry{}
	}
	return entries
}
