package lineage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metacat/internal/domain"
)

func TestMatchColumns(t *testing.T) {
	cases := []struct {
		name      string
		a, b      string
		threshold float64
		wantMatch bool
		minScore  float64
	}{
		{"exact", "user_id", "user_id", 0.8, true, 1.0},
		{"exact case-insensitive", "UserID", "userid", 0.8, true, 1.0},
		{"separator stripped", "user_id", "userid", 0.8, true, 0.95},
		{"hyphen and space stripped", "order-date", "order date", 0.8, true, 0.95},
		{"abbreviation rejected", "customer_name", "cust_nm", 0.8, false, 0.0},
		{"substring floor", "user", "username", 0.8, true, 0.85},
		{"affix cleaned", "dim_customer", "customer_key", 0.8, true, 0.9},
		{"unrelated", "region", "amount", 0.6, false, 0.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			match, score := MatchColumns(tc.a, tc.b, tc.threshold)
			assert.Equal(t, tc.wantMatch, match)
			assert.GreaterOrEqual(t, score, tc.minScore)
			assert.LessOrEqual(t, score, 1.0)
			if !tc.wantMatch {
				assert.Less(t, score, tc.threshold)
			}
		})
	}
}

func TestMatchColumns_EmptyNames(t *testing.T) {
	match, score := MatchColumns("", "user_id", 0.6)
	assert.False(t, match)
	assert.Zero(t, score)

	match, score = MatchColumns("user_id", "", 0.6)
	assert.False(t, match)
	assert.Zero(t, score)
}

func TestMatchColumns_Symmetric(t *testing.T) {
	_, ab := MatchColumns("cust_id", "customer_id", 0.6)
	_, ba := MatchColumns("customer_id", "cust_id", 0.6)
	assert.InDelta(t, ab, ba, 1e-9)
}

func TestInferColumnLineage_AbbreviatedSchemas(t *testing.T) {
	source := []domain.SchemaColumn{
		{Name: "cust_id", Type: "integer"},
		{Name: "order_dt", Type: "string"},
	}
	target := []domain.SchemaColumn{
		{Name: "customer_id", Type: "integer"},
		{Name: "order_date", Type: "string"},
	}

	entries, confidence := InferColumnLineage(source, target, DefaultMinMatchRatio)
	require.Len(t, entries, 2)
	assert.Equal(t, "customer_id", entries[0].TargetColumn)
	assert.Equal(t, "order_date", entries[1].TargetColumn)
	assert.GreaterOrEqual(t, confidence, 0.6)
	assert.LessOrEqual(t, confidence, 0.95)
}

func TestInferColumnLineage_GreedyConsumesTargets(t *testing.T) {
	source := []domain.SchemaColumn{
		{Name: "id"},
		{Name: "id2"},
	}
	target := []domain.SchemaColumn{
		{Name: "id"},
	}

	entries, _ := InferColumnLineage(source, target, DefaultMinMatchRatio)
	require.Len(t, entries, 1)
	assert.Equal(t, "id", entries[0].SourceColumn)
	assert.Equal(t, "id", entries[0].TargetColumn)
	assert.InDelta(t, 1.0, entries[0].Confidence, 1e-9)
}

func TestInferColumnLineage_NoMatches(t *testing.T) {
	source := []domain.SchemaColumn{{Name: "alpha"}}
	target := []domain.SchemaColumn{{Name: "zzz"}}

	entries, confidence := InferColumnLineage(source, target, DefaultMinMatchRatio)
	assert.Empty(t, entries)
	assert.Zero(t, confidence)
}

func TestInferColumnLineage_EmptyInputs(t *testing.T) {
	entries, confidence := InferColumnLineage(nil, []domain.SchemaColumn{{Name: "a"}}, DefaultMinMatchRatio)
	assert.Empty(t, entries)
	assert.Zero(t, confidence)

	entries, confidence = InferColumnLineage([]domain.SchemaColumn{{Name: "a"}}, nil, DefaultMinMatchRatio)
	assert.Empty(t, entries)
	assert.Zero(t, confidence)
}

func TestInferColumnLineage_NoBonusBelowMinRatio(t *testing.T) {
	source := []domain.SchemaColumn{
		{Name: "amount"},
		{Name: "xqzw"},
		{Name: "pmtk"},
		{Name: "vvvv"},
	}
	target := []domain.SchemaColumn{
		{Name: "amount"},
		{Name: "zzz1"},
		{Name: "yyy2"},
		{Name: "qqq3"},
	}

	entries, confidence := InferColumnLineage(source, target, DefaultMinMatchRatio)
	require.Len(t, entries, 1)
	// matchRatio 0.25, avg score 1.0, below the coverage bonus cutoff.
	assert.InDelta(t, 0.25*0.6+1.0*0.4, confidence, 1e-9)
}

func TestInferColumnLineage_FullOverlapCapped(t *testing.T) {
	cols := []domain.SchemaColumn{
		{Name: "id"}, {Name: "name"}, {Name: "created_at"},
	}

	entries, confidence := InferColumnLineage(cols, cols, DefaultMinMatchRatio)
	require.Len(t, entries, 3)
	assert.InDelta(t, 0.95, confidence, 1e-9)
	for _, entry := range entries {
		assert.Equal(t, domain.TransformPassThrough, entry.Transformation)
	}
}

func TestDetectTransformation(t *testing.T) {
	cases := []struct {
		src, dst string
		want     domain.TransformationKind
	}{
		{"amount", "sum_amount", domain.TransformAggregate},
		{"amount", "total_amount", domain.TransformAggregate},
		{"customer_id", "customer_key", domain.TransformRename},
		{"region", "region", domain.TransformPassThrough},
		{"alpha", "zzz", domain.TransformPassThrough},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DetectTransformation(tc.src, tc.dst), "%s -> %s", tc.src, tc.dst)
	}
}
