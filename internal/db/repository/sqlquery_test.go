package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/mattn/go-sqlite3"

	"metacat/internal/db"
	"metacat/internal/domain"
)

func TestSQLQueryRepo_InsertAndListForAsset(t *testing.T) {
	t.Parallel()

	writeDB, _ := db.OpenTestSQLite(t)
	repo := NewSQLQueryRepo(writeDB)
	ctx := context.Background()

	q := &domain.SQLQuery{
		QueryText:    "INSERT INTO t SELECT * FROM s",
		QueryType:    domain.QueryInsert,
		SourceSystem: "airflow",
		JobID:        "job-1",
		AssetID:      "asset-1",
		ParsedLineage: &domain.LineageExtraction{
			SourceTables:     []string{"s"},
			TargetTable:      "t",
			QueryType:        domain.QueryInsert,
			ConfidenceScore:  0.9,
			ExtractionMethod: domain.MethodSQLParsing,
		},
		ParseStatus: "parsed",
	}
	require.NoError(t, repo.Insert(ctx, q))
	require.NotEmpty(t, q.ID)

	queries, err := repo.ListForAsset(ctx, "asset-1")
	require.NoError(t, err)
	require.Len(t, queries, 1)
	assert.Equal(t, domain.QueryInsert, queries[0].QueryType)
	require.NotNil(t, queries[0].ParsedLineage)
	assert.Equal(t, "t", queries[0].ParsedLineage.TargetTable)
	assert.Equal(t, "parsed", queries[0].ParseStatus)
}

func TestSQLQueryRepo_InsertWithoutLineage(t *testing.T) {
	t.Parallel()

	writeDB, _ := db.OpenTestSQLite(t)
	repo := NewSQLQueryRepo(writeDB)
	ctx := context.Background()

	q := &domain.SQLQuery{QueryText: "SELECT 1", AssetID: "asset-2"}
	require.NoError(t, repo.Insert(ctx, q))
	assert.Equal(t, "pending", q.ParseStatus)

	queries, err := repo.ListForAsset(ctx, "asset-2")
	require.NoError(t, err)
	require.Len(t, queries, 1)
	assert.Nil(t, queries[0].ParsedLineage)
}

func TestSQLQueryRepo_InsertValidation(t *testing.T) {
	t.Parallel()

	writeDB, _ := db.OpenTestSQLite(t)
	repo := NewSQLQueryRepo(writeDB)

	var validation *domain.ValidationError
	err := repo.Insert(context.Background(), &domain.SQLQuery{})
	assert.ErrorAs(t, err, &validation)
}
