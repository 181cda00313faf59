package enumerate

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	"metacat/internal/domain"
)

var _ Enumerator = (*AzureEnumerator)(nil)

// AzureEnumerator lists and samples blobs in one Azure storage container
// using shared-key credentials. Listing uses the blob endpoint for both
// plain blob and Data Lake Gen2 accounts; kind only affects URL
// reconstruction.
type AzureEnumerator struct {
	client    *azblob.Client
	kind      domain.StorageKind
	account   string
	container string
}

// NewAzureEnumerator creates an enumerator for the container named in the
// connection config.
func NewAzureEnumerator(kind domain.StorageKind, cfg domain.ConnectionConfig) (*AzureEnumerator, error) {
	if cfg.Account == "" || cfg.Container == "" {
		return nil, domain.ErrValidation("azure connections require account and container")
	}
	if cfg.AccountKey == "" {
		return nil, domain.ErrValidation("azure connections require an account key")
	}

	cred, err := azblob.NewSharedKeyCredential(cfg.Account, cfg.AccountKey)
	if err != nil {
		return nil, fmt.Errorf("create shared key credential: %w", err)
	}

	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net", cfg.Account)
	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("create azure blob client: %w", err)
	}

	return &AzureEnumerator{client: client, kind: kind, account: cfg.Account, container: cfg.Container}, nil
}

// List returns every blob under prefix in the configured container.
func (e *AzureEnumerator) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	opts := &azblob.ListBlobsFlatOptions{}
	if prefix != "" {
		opts.Prefix = &prefix
	}

	var objects []ObjectInfo
	pager := e.client.NewListBlobsFlatPager(e.container, opts)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list blobs in %q: %w", e.container, err)
		}
		for _, item := range page.Segment.BlobItems {
			if item == nil || item.Name == nil {
				continue
			}
			info := ObjectInfo{Key: *item.Name}
			if item.Properties != nil {
				if item.Properties.ContentLength != nil {
					info.SizeBytes = *item.Properties.ContentLength
				}
				if item.Properties.LastModified != nil {
					info.LastModified = *item.Properties.LastModified
				}
			}
			objects = append(objects, info)
		}
	}
	return objects, nil
}

// Read downloads up to maxBytes of a blob.
func (e *AzureEnumerator) Read(ctx context.Context, key string, maxBytes int64) ([]byte, error) {
	resp, err := e.client.DownloadStream(ctx, e.container, key, nil)
	if err != nil {
		return nil, fmt.Errorf("download blob %q: %w", key, err)
	}
	defer resp.Body.Close() //nolint:errcheck
	return readLimited(resp.Body, maxBytes)
}

// URL reconstructs the canonical URL for a listed key: the dfs endpoint
// for Data Lake connections, the blob endpoint otherwise.
func (e *AzureEnumerator) URL(key string) string {
	if e.kind == domain.StorageKindAzureDataLake {
		return fmt.Sprintf("abfss://%s@%s.dfs.core.windows.net/%s", e.container, e.account, key)
	}
	return fmt.Sprintf("https://%s.blob.core.windows.net/%s/%s", e.account, e.container, key)
}
