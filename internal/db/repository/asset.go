package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"metacat/internal/domain"
)

var _ domain.AssetRepository = (*AssetRepo)(nil)

// AssetRepo stores discovered assets in SQLite. The (connector_id,
// normalized_path) unique constraint is the serialization point for
// concurrent discovery of the same object.
type AssetRepo struct {
	db *sql.DB
}

// NewAssetRepo creates a new AssetRepo.
func NewAssetRepo(db *sql.DB) *AssetRepo {
	return &AssetRepo{db: db}
}

const assetColumns = `
	id, name, type, catalog, connector_id,
	technical_json, operational_json, columns_json, discovered_at, updated_at
`

// FindByConnectorAndPath resolves the prior asset for a connector and
// normalized storage path. Returns nil, nil when no asset exists.
func (r *AssetRepo) FindByConnectorAndPath(ctx context.Context, connectorID, normalizedPath string) (*domain.Asset, error) {
	asset, err := r.getOne(ctx, `
		SELECT `+assetColumns+`
		FROM assets WHERE connector_id = ? AND normalized_path = ?
	`, connectorID, strings.ToLower(normalizedPath))
	if _, notFound := err.(*domain.NotFoundError); notFound {
		return nil, nil
	}
	return asset, err
}

// FindByName resolves an asset by case-insensitive name, optionally scoped
// to one connector. Returns nil, nil when no asset matches; the oldest
// discovery wins when several share a name.
func (r *AssetRepo) FindByName(ctx context.Context, connectorID, name string) (*domain.Asset, error) {
	stmt := `SELECT ` + assetColumns + ` FROM assets WHERE LOWER(name) = LOWER(?)`
	args := []any{name}
	if connectorID != "" {
		stmt += ` AND connector_id = ?`
		args = append(args, connectorID)
	}
	stmt += ` ORDER BY discovered_at, id LIMIT 1`

	asset, err := r.getOne(ctx, stmt, args...)
	if _, notFound := err.(*domain.NotFoundError); notFound {
		return nil, nil
	}
	return asset, err
}

// GetByID returns an asset by ID.
func (r *AssetRepo) GetByID(ctx context.Context, id string) (*domain.Asset, error) {
	return r.getOne(ctx, `SELECT `+assetColumns+` FROM assets WHERE id = ?`, id)
}

// Insert stores a newly discovered asset.
func (r *AssetRepo) Insert(ctx context.Context, asset *domain.Asset) error {
	if asset == nil {
		return domain.ErrValidation("asset is required")
	}
	if asset.ConnectorID == "" || asset.TechnicalMetadata.Location == "" {
		return domain.ErrValidation("asset connector id and location are required")
	}
	if asset.ID == "" {
		asset.ID = domain.NewID()
	}

	technical, operational, columns, err := marshalAssetJSON(asset)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO assets (id, name, type, catalog, connector_id, normalized_path,
		                    technical_json, operational_json, columns_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, asset.ID, asset.Name, asset.Type, asset.Catalog, asset.ConnectorID,
		strings.ToLower(asset.TechnicalMetadata.Location), technical, operational, columns)
	return mapDBError(err)
}

// Update replaces the metadata of an existing asset.
func (r *AssetRepo) Update(ctx context.Context, asset *domain.Asset) error {
	if asset == nil || asset.ID == "" {
		return domain.ErrValidation("asset id is required")
	}

	technical, operational, columns, err := marshalAssetJSON(asset)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE assets
		SET name = ?, type = ?, catalog = ?, normalized_path = ?,
		    technical_json = ?, operational_json = ?, columns_json = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, asset.Name, asset.Type, asset.Catalog,
		strings.ToLower(asset.TechnicalMetadata.Location),
		technical, operational, columns, asset.ID)
	if err != nil {
		return mapDBError(err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound("asset %q not found", asset.ID)
	}
	return nil
}

// List returns a page of assets, optionally scoped to one connector, plus
// the total count for the same filter.
func (r *AssetRepo) List(ctx context.Context, connectorID string, page domain.PageRequest) ([]domain.Asset, int64, error) {
	where := ""
	args := []any{}
	if connectorID != "" {
		where = "WHERE connector_id = ?"
		args = append(args, connectorID)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM assets `+where, args...).Scan(&total); err != nil {
		return nil, 0, mapDBError(err)
	}

	args = append(args, page.Limit(), page.Offset())
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+assetColumns+`
		FROM assets `+where+`
		ORDER BY discovered_at DESC, id
		LIMIT ? OFFSET ?
	`, args...)
	if err != nil {
		return nil, 0, mapDBError(err)
	}
	defer rows.Close() //nolint:errcheck

	var assets []domain.Asset
	for rows.Next() {
		asset, err := scanAsset(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		assets = append(assets, *asset)
	}
	return assets, total, rows.Err()
}

func (r *AssetRepo) getOne(ctx context.Context, stmt string, args ...any) (*domain.Asset, error) {
	asset, err := scanAsset(r.db.QueryRowContext(ctx, stmt, args...).Scan)
	if err != nil {
		return nil, mapDBError(err)
	}
	return asset, nil
}

func scanAsset(scan func(...any) error) (*domain.Asset, error) {
	var (
		asset                           domain.Asset
		technical, operational, columns string
	)
	if err := scan(&asset.ID, &asset.Name, &asset.Type, &asset.Catalog, &asset.ConnectorID,
		&technical, &operational, &columns, &asset.DiscoveredAt, &asset.UpdatedAt); err != nil {
		return nil, mapDBError(err)
	}
	if err := unmarshalJSON(technical, "technical metadata", &asset.TechnicalMetadata); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(operational, "operational metadata", &asset.OperationalMetadata); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(columns, "columns", &asset.Columns); err != nil {
		return nil, err
	}
	return &asset, nil
}

func marshalAssetJSON(asset *domain.Asset) (technical, operational, columns string, err error) {
	if technical, err = marshalJSON(asset.TechnicalMetadata, "technical metadata"); err != nil {
		return
	}
	if asset.OperationalMetadata == nil {
		operational = "{}"
	} else if operational, err = marshalJSON(asset.OperationalMetadata, "operational metadata"); err != nil {
		return
	}
	if asset.Columns == nil {
		columns = "[]"
	} else if columns, err = marshalJSON(asset.Columns, "columns"); err != nil {
		return
	}
	return
}
