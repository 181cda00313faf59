package enumerate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metacat/internal/domain"
)

func TestForConnection_UnsupportedType(t *testing.T) {
	_, err := ForConnection(context.Background(), &domain.Connection{ConnectorType: "ftp"})
	var validation *domain.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestForConnection_NilConnection(t *testing.T) {
	_, err := ForConnection(context.Background(), nil)
	assert.Error(t, err)
}

func TestNewAzureEnumerator_RequiresCredentials(t *testing.T) {
	_, err := NewAzureEnumerator(domain.StorageKindAzureBlob, domain.ConnectionConfig{Account: "acct", Container: "raw"})
	var validation *domain.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestAzureEnumerator_URL(t *testing.T) {
	blob := &AzureEnumerator{kind: domain.StorageKindAzureBlob, account: "acct", container: "raw"}
	assert.Equal(t, "https://acct.blob.core.windows.net/raw/sales/2024.csv", blob.URL("sales/2024.csv"))

	lake := &AzureEnumerator{kind: domain.StorageKindAzureDataLake, account: "acct", container: "raw"}
	assert.Equal(t, "abfss://raw@acct.dfs.core.windows.net/sales/2024.csv", lake.URL("sales/2024.csv"))
}

func TestNewS3Enumerator_Validation(t *testing.T) {
	_, err := NewS3Enumerator(domain.ConnectionConfig{Container: "bucket"})
	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)

	_, err = NewS3Enumerator(domain.ConnectionConfig{KeyID: "k", Secret: "s"})
	assert.ErrorAs(t, err, &validation)
}

func TestS3Enumerator_URL(t *testing.T) {
	e, err := NewS3Enumerator(domain.ConnectionConfig{Container: "bucket", KeyID: "k", Secret: "s", Region: "eu-central-1"})
	require.NoError(t, err)
	assert.Equal(t, "s3://bucket/raw/a.csv", e.URL("raw/a.csv"))
}

func TestGCSEnumerator_URL(t *testing.T) {
	e := &GCSEnumerator{bucket: "bucket"}
	assert.Equal(t, "gs://bucket/raw/a.csv", e.URL("raw/a.csv"))
}
