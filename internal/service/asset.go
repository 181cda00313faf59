package service

import (
	"context"

	"metacat/internal/domain"
)

// AssetService exposes read access to the asset store.
type AssetService struct {
	assets domain.AssetRepository
}

// NewAssetService creates an AssetService.
func NewAssetService(assets domain.AssetRepository) *AssetService {
	return &AssetService{assets: assets}
}

// GetByID returns an asset by ID.
func (s *AssetService) GetByID(ctx context.Context, id string) (*domain.Asset, error) {
	return s.assets.GetByID(ctx, id)
}

// List returns a page of assets, optionally scoped to one connector.
func (s *AssetService) List(ctx context.Context, connectorID string, page domain.PageRequest) ([]domain.Asset, int64, error) {
	return s.assets.List(ctx, connectorID, page)
}
