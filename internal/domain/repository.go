package domain

import "context"

// AssetRepository provides persistence for discovered assets.
//
// FindByConnectorAndPath resolves the prior asset for a (connectorID,
// normalized path) pair; it returns nil, nil when no asset exists. The
// caller owns the read-decide-write sequence around reconciliation:
// concurrent discovery of the same path must be serialized by the store
// (transaction or unique constraint), not by the engine.
type AssetRepository interface {
	FindByConnectorAndPath(ctx context.Context, connectorID, normalizedPath string) (*Asset, error)
	// FindByName resolves an asset by case-insensitive name, optionally
	// scoped to one connector. Returns nil, nil when no asset matches.
	FindByName(ctx context.Context, connectorID, name string) (*Asset, error)
	GetByID(ctx context.Context, id string) (*Asset, error)
	Insert(ctx context.Context, asset *Asset) error
	Update(ctx context.Context, asset *Asset) error
	List(ctx context.Context, connectorID string, page PageRequest) ([]Asset, int64, error)
}

// LineageRepository provides persistence for lineage relationships.
type LineageRepository interface {
	// Upsert inserts or replaces the relationship identified by
	// (SourceAssetID, TargetAssetID, SourceJobID).
	Upsert(ctx context.Context, rel *LineageRelationship) error
	ListForAsset(ctx context.Context, assetID string) ([]LineageRelationship, error)
}

// ConnectionRepository provides persistence for storage connections.
type ConnectionRepository interface {
	Create(ctx context.Context, conn *Connection) error
	GetByID(ctx context.Context, id string) (*Connection, error)
	List(ctx context.Context, page PageRequest) ([]Connection, int64, error)
	Delete(ctx context.Context, id string) error
}

// SQLQueryRepository retains submitted SQL statements with their parse state.
type SQLQueryRepository interface {
	Insert(ctx context.Context, q *SQLQuery) error
	ListForAsset(ctx context.Context, assetID string) ([]SQLQuery, error)
}
