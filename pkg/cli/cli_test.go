package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/mattn/go-sqlite3"
)

// runCLI executes the root command with the given args and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "metacat version")
}

func TestPathParseCmd(t *testing.T) {
	out, err := runCLI(t, "path", "parse", "abfss://raw@acct.dfs.core.windows.net/sales/2024.csv")
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.Equal(t, "azure_datalake", parsed["kind"])
	assert.Equal(t, "acct", parsed["account"])
	assert.Equal(t, "raw", parsed["container"])
	assert.Equal(t, "sales/2024.csv", parsed["path"])
}

func TestPathParseCmd_HintsForBarePath(t *testing.T) {
	out, err := runCLI(t, "path", "parse", "landing/users.json", "--account", "acct", "--container", "raw")
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.Equal(t, "azure_blob", parsed["kind"])
}

func TestPathParseCmd_Unrecognized(t *testing.T) {
	_, err := runCLI(t, "path", "parse", "ftp://host/file.csv")
	assert.Error(t, err)
}

func TestLineageSQLCmd(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "meta.sqlite")

	out, err := runCLI(t, "lineage", "sql",
		"INSERT INTO sales_summary (total, region) SELECT SUM(amount), region FROM sales GROUP BY region",
		"--db", dbPath)
	require.NoError(t, err)

	var result struct {
		Extraction struct {
			SourceTables []string `json:"SourceTables"`
			TargetTable  string   `json:"TargetTable"`
		}
		UnresolvedTables []string
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, []string{"sales"}, result.Extraction.SourceTables)
	assert.Equal(t, "sales_summary", result.Extraction.TargetTable)
	assert.Equal(t, []string{"sales"}, result.UnresolvedTables)
}

func TestDiscoverCmd_UnknownConnection(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "meta.sqlite")

	_, err := runCLI(t, "discover", "no-such-connection", "--db", dbPath)
	assert.Error(t, err)
}
