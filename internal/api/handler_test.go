package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	_ "github.com/mattn/go-sqlite3"

	"metacat/internal/db"
	"metacat/internal/db/repository"
	"metacat/internal/domain"
	"metacat/internal/enumerate"
	"metacat/internal/service"
)

// testEnv is a fully wired test server over an in-memory SQLite metastore.
// Repos are exposed for seeding.
type testEnv struct {
	server      *httptest.Server
	assets      *repository.AssetRepo
	connections *repository.ConnectionRepo
	enumerator  *fakeEnumerator
}

type fakeEnumerator struct {
	objects map[string][]byte
}

func (f *fakeEnumerator) List(context.Context, string) ([]enumerate.ObjectInfo, error) {
	var objects []enumerate.ObjectInfo
	for key, content := range f.objects {
		objects = append(objects, enumerate.ObjectInfo{Key: key, SizeBytes: int64(len(content))})
	}
	return objects, nil
}

func (f *fakeEnumerator) Read(_ context.Context, key string, _ int64) ([]byte, error) {
	content, ok := f.objects[key]
	if !ok {
		return nil, domain.ErrNotFound("object %q not found", key)
	}
	return content, nil
}

func (f *fakeEnumerator) URL(key string) string {
	return "abfss://raw@acct.dfs.core.windows.net/" + key
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	writeDB, _ := db.OpenTestSQLite(t)
	assetRepo := repository.NewAssetRepo(writeDB)
	connectionRepo := repository.NewConnectionRepo(writeDB)
	lineageRepo := repository.NewLineageRepo(writeDB)
	queryRepo := repository.NewSQLQueryRepo(writeDB)

	enumerator := &fakeEnumerator{objects: map[string][]byte{}}
	factory := func(context.Context, *domain.Connection) (enumerate.Enumerator, error) {
		return enumerator, nil
	}

	handler := NewHandler(
		service.NewConnectionService(connectionRepo, nil),
		service.NewAssetService(assetRepo),
		service.NewDiscoveryService(assetRepo, connectionRepo, factory, 2, 1<<20, nil),
		service.NewLineageService(assetRepo, lineageRepo, queryRepo, nil),
		nil,
	)
	router := NewRouter(handler, RouterConfig{AllowedOrigins: []string{"*"}})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testEnv{
		server:      server,
		assets:      assetRepo,
		connections: connectionRepo,
		enumerator:  enumerator,
	}
}

// doJSON issues a request with a JSON body and decodes the JSON response
// into out (when out is non-nil).
func doJSON(t *testing.T, method, url string, body, out any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	env := setupTestServer(t)
	resp, err := http.Get(env.server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestErrorMapping(t *testing.T) {
	t.Parallel()

	env := setupTestServer(t)

	// Unknown asset maps to 404.
	var errResp errorResponse
	resp := doJSON(t, http.MethodGet, env.server.URL+"/v1/assets/"+domain.NewID(), nil, &errResp)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, http.StatusNotFound, errResp.Code)

	// Malformed body maps to 400.
	req, err := http.NewRequest(http.MethodPost, env.server.URL+"/v1/lineage/sql",
		bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	raw, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer raw.Body.Close() //nolint:errcheck
	require.Equal(t, http.StatusBadRequest, raw.StatusCode)
}

// seedAsset inserts an asset directly into the store.
func seedAsset(t *testing.T, env *testEnv, name, connectorID, location string, columns []domain.SchemaColumn) *domain.Asset {
	t.Helper()

	asset := &domain.Asset{
		Name:        name,
		Type:        "file",
		ConnectorID: connectorID,
		TechnicalMetadata: domain.TechnicalMetadata{
			Location: location,
		},
		Columns: columns,
	}
	require.NoError(t, env.assets.Insert(context.Background(), asset))
	return asset
}
