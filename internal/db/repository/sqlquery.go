package repository

import (
	"context"
	"database/sql"

	"metacat/internal/domain"
)

var _ domain.SQLQueryRepository = (*SQLQueryRepo)(nil)

// SQLQueryRepo retains submitted SQL statements with their parse state.
type SQLQueryRepo struct {
	db *sql.DB
}

// NewSQLQueryRepo creates a new SQLQueryRepo.
func NewSQLQueryRepo(db *sql.DB) *SQLQueryRepo {
	return &SQLQueryRepo{db: db}
}

// Insert records a submitted SQL statement.
func (r *SQLQueryRepo) Insert(ctx context.Context, q *domain.SQLQuery) error {
	if q == nil || q.QueryText == "" {
		return domain.ErrValidation("query text is required")
	}
	if q.ID == "" {
		q.ID = domain.NewID()
	}
	if q.ParseStatus == "" {
		q.ParseStatus = "pending"
	}
	if q.QueryType == "" {
		q.QueryType = domain.QueryUnknown
	}

	var parsed sql.NullString
	if q.ParsedLineage != nil {
		data, err := marshalJSON(q.ParsedLineage, "parsed lineage")
		if err != nil {
			return err
		}
		parsed = sql.NullString{String: data, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sql_queries (id, query_text, query_type, source_system,
		                         job_id, job_name, asset_id, parsed_lineage,
		                         parse_status, parse_error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, q.ID, q.QueryText, string(q.QueryType), q.SourceSystem,
		q.JobID, q.JobName, q.AssetID, parsed, q.ParseStatus, q.ParseError)
	return mapDBError(err)
}

// ListForAsset returns queries recorded against an asset, newest first.
func (r *SQLQueryRepo) ListForAsset(ctx context.Context, assetID string) ([]domain.SQLQuery, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, query_text, query_type, source_system, job_id, job_name,
		       asset_id, parsed_lineage, parse_status, parse_error, created_at
		FROM sql_queries
		WHERE asset_id = ?
		ORDER BY created_at DESC, id
	`, assetID)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close() //nolint:errcheck

	var queries []domain.SQLQuery
	for rows.Next() {
		var (
			q         domain.SQLQuery
			queryType string
			parsed    sql.NullString
		)
		if err := rows.Scan(&q.ID, &q.QueryText, &queryType, &q.SourceSystem,
			&q.JobID, &q.JobName, &q.AssetID, &parsed, &q.ParseStatus,
			&q.ParseError, &q.CreatedAt); err != nil {
			return nil, mapDBError(err)
		}
		q.QueryType = domain.QueryType(queryType)
		if parsed.Valid {
			q.ParsedLineage = &domain.LineageExtraction{}
			if err := unmarshalJSON(parsed.String, "parsed lineage", q.ParsedLineage); err != nil {
				return nil, err
			}
		}
		queries = append(queries, q)
	}
	return queries, rows.Err()
}
