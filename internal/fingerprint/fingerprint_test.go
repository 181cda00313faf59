package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"metacat/internal/domain"
)

var testSchema = []domain.SchemaColumn{
	{Name: "id", Type: "integer"},
	{Name: "name", Type: "string"},
}

func TestCompute_Deterministic(t *testing.T) {
	a := Compute([]byte("col1,col2\n1,2\n"), testSchema)
	b := Compute([]byte("col1,col2\n1,2\n"), testSchema)
	assert.Equal(t, a, b)
	assert.Len(t, a.ContentHash, 64)
	assert.Len(t, a.SchemaHash, 64)
}

func TestCompute_ContentChangeKeepsSchemaHash(t *testing.T) {
	a := Compute([]byte("col1,col2\n1,2\n"), testSchema)
	b := Compute([]byte("col1,col2\n1,3\n"), testSchema)

	assert.NotEqual(t, a.ContentHash, b.ContentHash)
	assert.Equal(t, a.SchemaHash, b.SchemaHash)
}

func TestSchemaHash_OrderSensitive(t *testing.T) {
	reversed := []domain.SchemaColumn{testSchema[1], testSchema[0]}
	assert.NotEqual(t, SchemaHash(testSchema), SchemaHash(reversed))
}

func TestSchemaHash_CaseInsensitiveNames(t *testing.T) {
	upper := []domain.SchemaColumn{
		{Name: "ID", Type: "INTEGER"},
		{Name: "Name", Type: "String"},
	}
	assert.Equal(t, SchemaHash(testSchema), SchemaHash(upper))
}

func TestSchemaHash_EmptySchema(t *testing.T) {
	assert.Len(t, SchemaHash(nil), 64)
	assert.Equal(t, SchemaHash(nil), SchemaHash([]domain.SchemaColumn{}))
}
