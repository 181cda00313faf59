// Package fingerprint computes stable content and schema hashes for
// discovered assets. Both digests are SHA-256 hex strings; the schema hash
// is taken over a canonical serialization in declaration order so the same
// schema always produces the same digest.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"metacat/internal/domain"
)

// Compute returns the fingerprint for a file's raw bytes and its inferred
// schema. Pure function: no I/O, deterministic for identical inputs.
func Compute(fileBytes []byte, schema []domain.SchemaColumn) domain.AssetFingerprint {
	return domain.AssetFingerprint{
		ContentHash: ContentHash(fileBytes),
		SchemaHash:  SchemaHash(schema),
	}
}

// ContentHash returns the SHA-256 hex digest of the raw file bytes.
func ContentHash(fileBytes []byte) string {
	sum := sha256.Sum256(fileBytes)
	return hex.EncodeToString(sum[:])
}

// SchemaHash returns the SHA-256 hex digest of the canonical schema
// serialization: one "name:type" line per column, declaration order,
// lower-cased. Column order is part of the identity; reordering columns is
// a schema change.
func SchemaHash(schema []domain.SchemaColumn) string {
	var b strings.Builder
	for _, col := range schema {
		b.WriteString(strings.ToLower(col.Name))
		b.WriteByte(':')
		b.WriteString(strings.ToLower(col.Type))
		b.WriteByte('\n')
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
