package db

import (
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDSN_Write(t *testing.T) {
	dsn := buildDSN("/tmp/test.sqlite", "write")

	assert.Contains(t, dsn, "_journal_mode=WAL")
	assert.Contains(t, dsn, "_busy_timeout=5000")
	assert.Contains(t, dsn, "_synchronous=NORMAL")
	assert.Contains(t, dsn, "_foreign_keys=on")
	assert.Contains(t, dsn, "_txlock=immediate")
	assert.True(t, strings.HasPrefix(dsn, "/tmp/test.sqlite?"))
}

func TestBuildDSN_Read(t *testing.T) {
	dsn := buildDSN("/tmp/test.sqlite", "read")

	assert.Contains(t, dsn, "_journal_mode=WAL")
	assert.NotContains(t, dsn, "_txlock")
}

func TestOpenSQLite_InvalidMode(t *testing.T) {
	_, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"), "invalid", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid SQLite mode")
}

func TestOpenSQLite_Write(t *testing.T) {
	pool, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"), "write", 0)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	var journalMode string
	require.NoError(t, pool.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", strings.ToLower(journalMode))
	assert.Equal(t, 1, pool.Stats().MaxOpenConnections)
}

func TestRunMigrations_CreatesSchema(t *testing.T) {
	writeDB, readDB := OpenTestSQLite(t)

	for _, table := range []string{"connections", "assets", "lineage_relationships", "sql_queries"} {
		var name string
		err := readDB.QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}

	// Second run is a no-op.
	require.NoError(t, RunMigrations(writeDB))
}
