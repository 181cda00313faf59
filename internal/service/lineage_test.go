package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metacat/internal/domain"
)

const summaryInsert = `INSERT INTO sales_summary (total, region) SELECT SUM(amount), region FROM sales GROUP BY region`

func TestExtractFromSQL_ResolvedTables(t *testing.T) {
	t.Parallel()

	assets := &mockAssetRepo{
		findByNameFn: func(_ context.Context, connectorID, name string) (*domain.Asset, error) {
			assert.Equal(t, "conn-1", connectorID)
			switch name {
			case "sales_summary":
				return &domain.Asset{ID: "asset-summary", Name: "sales_summary"}, nil
			case "sales":
				return &domain.Asset{ID: "asset-sales", Name: "sales"}, nil
			default:
				return nil, nil
			}
		},
	}
	var upserted *domain.LineageRelationship
	relations := &mockLineageRepo{
		upsertFn: func(_ context.Context, rel *domain.LineageRelationship) error {
			upserted = rel
			return nil
		},
	}
	var recorded *domain.SQLQuery
	queries := &mockSQLQueryRepo{
		insertFn: func(_ context.Context, q *domain.SQLQuery) error {
			recorded = q
			return nil
		},
	}
	svc := NewLineageService(assets, relations, queries, nil)

	result, err := svc.ExtractFromSQL(context.Background(), SQLLineageRequest{
		SQL:          summaryInsert,
		ConnectorID:  "conn-1",
		SourceSystem: "airflow",
		JobID:        "job-42",
		JobName:      "nightly-rollup",
	})
	require.NoError(t, err)
	require.Len(t, result.Relationships, 1)
	assert.Empty(t, result.UnresolvedTables)

	require.NotNil(t, upserted)
	assert.Equal(t, "asset-sales", upserted.SourceAssetID)
	assert.Equal(t, "asset-summary", upserted.TargetAssetID)
	assert.Equal(t, "job-42", upserted.SourceJobID)
	assert.Equal(t, domain.MethodSQLParsing, upserted.ExtractionMethod)
	assert.InDelta(t, 0.9, upserted.ConfidenceScore, 1e-9)
	assert.Equal(t, []domain.ColumnLineageEntry{
		{SourceColumn: "amount", TargetColumn: "total", Transformation: domain.TransformAggregate},
		{SourceColumn: "region", TargetColumn: "region", Transformation: domain.TransformPassThrough},
	}, upserted.ColumnLineage)

	require.NotNil(t, recorded)
	assert.Equal(t, summaryInsert, recorded.QueryText)
	assert.Equal(t, domain.QueryInsert, recorded.QueryType)
	assert.Equal(t, "asset-summary", recorded.AssetID)
	assert.Equal(t, "parsed", recorded.ParseStatus)
	require.NotNil(t, recorded.ParsedLineage)
	assert.Equal(t, []string{"sales"}, recorded.ParsedLineage.SourceTables)
}

func TestExtractFromSQL_UnresolvedSource(t *testing.T) {
	t.Parallel()

	assets := &mockAssetRepo{
		findByNameFn: func(_ context.Context, _, name string) (*domain.Asset, error) {
			if name == "sales_summary" {
				return &domain.Asset{ID: "asset-summary"}, nil
			}
			return nil, nil
		},
	}
	queries := &mockSQLQueryRepo{
		insertFn: func(context.Context, *domain.SQLQuery) error { return nil },
	}
	// No upsertFn: persisting a relationship here would panic the test.
	svc := NewLineageService(assets, &mockLineageRepo{}, queries, nil)

	result, err := svc.ExtractFromSQL(context.Background(), SQLLineageRequest{SQL: summaryInsert})
	require.NoError(t, err)
	assert.Empty(t, result.Relationships)
	assert.Equal(t, []string{"sales"}, result.UnresolvedTables)
}

func TestExtractFromSQL_BareSelectRecordsQueryOnly(t *testing.T) {
	t.Parallel()

	var recorded *domain.SQLQuery
	queries := &mockSQLQueryRepo{
		insertFn: func(_ context.Context, q *domain.SQLQuery) error {
			recorded = q
			return nil
		},
	}
	assets := &mockAssetRepo{
		findByNameFn: func(context.Context, string, string) (*domain.Asset, error) {
			return nil, nil
		},
	}
	svc := NewLineageService(assets, &mockLineageRepo{}, queries, nil)

	result, err := svc.ExtractFromSQL(context.Background(), SQLLineageRequest{
		SQL: "SELECT id, amount FROM orders",
	})
	require.NoError(t, err)
	assert.Empty(t, result.Relationships)
	assert.Equal(t, []string{"orders"}, result.UnresolvedTables)

	require.NotNil(t, recorded)
	assert.Empty(t, recorded.AssetID)
	assert.Equal(t, domain.QuerySelect, recorded.QueryType)
}

func TestExtractFromSQL_FallbackStatus(t *testing.T) {
	t.Parallel()

	var recorded *domain.SQLQuery
	queries := &mockSQLQueryRepo{
		insertFn: func(_ context.Context, q *domain.SQLQuery) error {
			recorded = q
			return nil
		},
	}
	assets := &mockAssetRepo{
		findByNameFn: func(context.Context, string, string) (*domain.Asset, error) {
			return nil, nil
		},
	}
	svc := NewLineageService(assets, &mockLineageRepo{}, queries, nil)

	result, err := svc.ExtractFromSQL(context.Background(), SQLLineageRequest{
		SQL: "UPDATE orders SET total = total + 1 FROM adjustments",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.MethodRegexFallback, result.Extraction.ExtractionMethod)

	require.NotNil(t, recorded)
	assert.Equal(t, "fallback", recorded.ParseStatus)
}

func TestExtractFromSQL_EmptySQL(t *testing.T) {
	t.Parallel()

	svc := NewLineageService(&mockAssetRepo{}, &mockLineageRepo{}, &mockSQLQueryRepo{}, nil)

	var validation *domain.ValidationError
	_, err := svc.ExtractFromSQL(context.Background(), SQLLineageRequest{SQL: "   "})
	assert.ErrorAs(t, err, &validation)
}

func TestInferBetweenAssets_AbbreviatedColumns(t *testing.T) {
	t.Parallel()

	assets := &mockAssetRepo{
		getByIDFn: func(_ context.Context, id string) (*domain.Asset, error) {
			switch id {
			case "asset-src":
				return &domain.Asset{
					ID:   "asset-src",
					Name: "orders_raw",
					Columns: []domain.SchemaColumn{
						{Name: "cust_id", Type: "integer"},
						{Name: "order_dt", Type: "string"},
					},
				}, nil
			case "asset-dst":
				return &domain.Asset{
					ID:   "asset-dst",
					Name: "orders",
					Columns: []domain.SchemaColumn{
						{Name: "customer_id", Type: "integer"},
						{Name: "order_date", Type: "string"},
					},
				}, nil
			default:
				return nil, domain.ErrNotFound("asset %q not found", id)
			}
		},
	}
	var upserted *domain.LineageRelationship
	relations := &mockLineageRepo{
		upsertFn: func(_ context.Context, rel *domain.LineageRelationship) error {
			upserted = rel
			return nil
		},
	}
	svc := NewLineageService(assets, relations, &mockSQLQueryRepo{}, nil)

	rel, err := svc.InferBetweenAssets(context.Background(), "asset-src", "asset-dst", 0)
	require.NoError(t, err)
	assert.Same(t, upserted, rel)

	assert.Equal(t, "inferred_from", rel.RelationshipType)
	assert.Equal(t, domain.MethodFuzzyInference, rel.ExtractionMethod)
	assert.Len(t, rel.ColumnLineage, 2)
	assert.GreaterOrEqual(t, rel.ConfidenceScore, 0.6)
	assert.LessOrEqual(t, rel.ConfidenceScore, 0.95)

	mapped := map[string]string{}
	for _, entry := range rel.ColumnLineage {
		mapped[entry.SourceColumn] = entry.TargetColumn
	}
	assert.Equal(t, map[string]string{
		"cust_id":  "customer_id",
		"order_dt": "order_date",
	}, mapped)
}

func TestInferBetweenAssets_NoOverlap(t *testing.T) {
	t.Parallel()

	assets := &mockAssetRepo{
		getByIDFn: func(_ context.Context, id string) (*domain.Asset, error) {
			if id == "asset-src" {
				return &domain.Asset{
					ID: id, Name: "metrics",
					Columns: []domain.SchemaColumn{{Name: "latency_ms", Type: "float"}},
				}, nil
			}
			return &domain.Asset{
				ID: id, Name: "customers",
				Columns: []domain.SchemaColumn{{Name: "email", Type: "string"}},
			}, nil
		},
	}
	svc := NewLineageService(assets, &mockLineageRepo{}, &mockSQLQueryRepo{}, nil)

	var validation *domain.ValidationError
	_, err := svc.InferBetweenAssets(context.Background(), "asset-src", "asset-dst", 0)
	assert.ErrorAs(t, err, &validation)
}

func TestInferBetweenAssets_SameAsset(t *testing.T) {
	t.Parallel()

	svc := NewLineageService(&mockAssetRepo{}, &mockLineageRepo{}, &mockSQLQueryRepo{}, nil)

	var validation *domain.ValidationError
	_, err := svc.InferBetweenAssets(context.Background(), "asset-1", "asset-1", 0)
	assert.ErrorAs(t, err, &validation)
}

func TestLineageListForAsset(t *testing.T) {
	t.Parallel()

	assets := &mockAssetRepo{
		getByIDFn: func(_ context.Context, id string) (*domain.Asset, error) {
			if id != "asset-1" {
				return nil, domain.ErrNotFound("asset %q not found", id)
			}
			return &domain.Asset{ID: id}, nil
		},
	}
	relations := &mockLineageRepo{
		listForAssetFn: func(_ context.Context, assetID string) ([]domain.LineageRelationship, error) {
			return []domain.LineageRelationship{{ID: "rel-1", SourceAssetID: assetID}}, nil
		},
	}
	svc := NewLineageService(assets, relations, &mockSQLQueryRepo{}, nil)

	rels, err := svc.ListForAsset(context.Background(), "asset-1")
	require.NoError(t, err)
	require.Len(t, rels, 1)

	var notFound *domain.NotFoundError
	_, err = svc.ListForAsset(context.Background(), "missing")
	assert.ErrorAs(t, err, &notFound)
}
