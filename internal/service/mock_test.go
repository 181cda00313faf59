package service

import (
	"context"

	"metacat/internal/domain"
	"metacat/internal/enumerate"
)

// === Asset repository mock ===

type mockAssetRepo struct {
	findByConnectorAndPathFn func(ctx context.Context, connectorID, normalizedPath string) (*domain.Asset, error)
	findByNameFn             func(ctx context.Context, connectorID, name string) (*domain.Asset, error)
	getByIDFn                func(ctx context.Context, id string) (*domain.Asset, error)
	insertFn                 func(ctx context.Context, asset *domain.Asset) error
	updateFn                 func(ctx context.Context, asset *domain.Asset) error
	listFn                   func(ctx context.Context, connectorID string, page domain.PageRequest) ([]domain.Asset, int64, error)
}

func (m *mockAssetRepo) FindByConnectorAndPath(ctx context.Context, connectorID, normalizedPath string) (*domain.Asset, error) {
	if m.findByConnectorAndPathFn != nil {
		return m.findByConnectorAndPathFn(ctx, connectorID, normalizedPath)
	}
	panic("unexpected call to mockAssetRepo.FindByConnectorAndPath")
}

func (m *mockAssetRepo) FindByName(ctx context.Context, connectorID, name string) (*domain.Asset, error) {
	if m.findByNameFn != nil {
		return m.findByNameFn(ctx, connectorID, name)
	}
	panic("unexpected call to mockAssetRepo.FindByName")
}

func (m *mockAssetRepo) GetByID(ctx context.Context, id string) (*domain.Asset, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	panic("unexpected call to mockAssetRepo.GetByID")
}

func (m *mockAssetRepo) Insert(ctx context.Context, asset *domain.Asset) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, asset)
	}
	panic("unexpected call to mockAssetRepo.Insert")
}

func (m *mockAssetRepo) Update(ctx context.Context, asset *domain.Asset) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, asset)
	}
	panic("unexpected call to mockAssetRepo.Update")
}

func (m *mockAssetRepo) List(ctx context.Context, connectorID string, page domain.PageRequest) ([]domain.Asset, int64, error) {
	if m.listFn != nil {
		return m.listFn(ctx, connectorID, page)
	}
	panic("unexpected call to mockAssetRepo.List")
}

// === Connection repository mock ===

type mockConnectionRepo struct {
	createFn  func(ctx context.Context, conn *domain.Connection) error
	getByIDFn func(ctx context.Context, id string) (*domain.Connection, error)
	listFn    func(ctx context.Context, page domain.PageRequest) ([]domain.Connection, int64, error)
	deleteFn  func(ctx context.Context, id string) error
}

func (m *mockConnectionRepo) Create(ctx context.Context, conn *domain.Connection) error {
	if m.createFn != nil {
		return m.createFn(ctx, conn)
	}
	panic("unexpected call to mockConnectionRepo.Create")
}

func (m *mockConnectionRepo) GetByID(ctx context.Context, id string) (*domain.Connection, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	panic("unexpected call to mockConnectionRepo.GetByID")
}

func (m *mockConnectionRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.Connection, int64, error) {
	if m.listFn != nil {
		return m.listFn(ctx, page)
	}
	panic("unexpected call to mockConnectionRepo.List")
}

func (m *mockConnectionRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	panic("unexpected call to mockConnectionRepo.Delete")
}

// === Lineage repository mock ===

type mockLineageRepo struct {
	upsertFn       func(ctx context.Context, rel *domain.LineageRelationship) error
	listForAssetFn func(ctx context.Context, assetID string) ([]domain.LineageRelationship, error)
}

func (m *mockLineageRepo) Upsert(ctx context.Context, rel *domain.LineageRelationship) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, rel)
	}
	panic("unexpected call to mockLineageRepo.Upsert")
}

func (m *mockLineageRepo) ListForAsset(ctx context.Context, assetID string) ([]domain.LineageRelationship, error) {
	if m.listForAssetFn != nil {
		return m.listForAssetFn(ctx, assetID)
	}
	panic("unexpected call to mockLineageRepo.ListForAsset")
}

// === SQL query repository mock ===

type mockSQLQueryRepo struct {
	insertFn       func(ctx context.Context, q *domain.SQLQuery) error
	listForAssetFn func(ctx context.Context, assetID string) ([]domain.SQLQuery, error)
}

func (m *mockSQLQueryRepo) Insert(ctx context.Context, q *domain.SQLQuery) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, q)
	}
	panic("unexpected call to mockSQLQueryRepo.Insert")
}

func (m *mockSQLQueryRepo) ListForAsset(ctx context.Context, assetID string) ([]domain.SQLQuery, error) {
	if m.listForAssetFn != nil {
		return m.listForAssetFn(ctx, assetID)
	}
	panic("unexpected call to mockSQLQueryRepo.ListForAsset")
}

// === Enumerator mock ===

type mockEnumerator struct {
	objects map[string][]byte
	urls    func(key string) string
	listErr error
}

func (m *mockEnumerator) List(_ context.Context, prefix string) ([]enumerate.ObjectInfo, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var objects []enumerate.ObjectInfo
	for key, content := range m.objects {
		objects = append(objects, enumerate.ObjectInfo{Key: key, SizeBytes: int64(len(content))})
	}
	return objects, nil
}

func (m *mockEnumerator) Read(_ context.Context, key string, maxBytes int64) ([]byte, error) {
	content, ok := m.objects[key]
	if !ok {
		return nil, domain.ErrNotFound("object %q not found", key)
	}
	if maxBytes > 0 && int64(len(content)) > maxBytes {
		content = content[:maxBytes]
	}
	return content, nil
}

func (m *mockEnumerator) URL(key string) string {
	if m.urls != nil {
		return m.urls(key)
	}
	return "abfss://raw@acct.dfs.core.windows.net/" + key
}
