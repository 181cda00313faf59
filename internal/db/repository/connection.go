package repository

import (
	"context"
	"database/sql"
	"fmt"

	"metacat/internal/domain"
)

var _ domain.ConnectionRepository = (*ConnectionRepo)(nil)

// ConnectionRepo stores storage connections in SQLite.
type ConnectionRepo struct {
	db *sql.DB
}

// NewConnectionRepo creates a new ConnectionRepo.
func NewConnectionRepo(db *sql.DB) *ConnectionRepo {
	return &ConnectionRepo{db: db}
}

// Create inserts a new connection.
func (r *ConnectionRepo) Create(ctx context.Context, conn *domain.Connection) error {
	if conn == nil {
		return domain.ErrValidation("connection is required")
	}
	if conn.Name == "" || conn.ConnectorType == "" {
		return domain.ErrValidation("connection name and connector type are required")
	}
	if conn.ID == "" {
		conn.ID = domain.NewID()
	}
	if conn.Status == "" {
		conn.Status = "active"
	}

	config, err := marshalJSON(conn.Config, "connection config")
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO connections (id, name, connector_type, config_json, status)
		VALUES (?, ?, ?, ?, ?)
	`, conn.ID, conn.Name, string(conn.ConnectorType), config, conn.Status)
	return mapDBError(err)
}

// GetByID returns a connection by ID.
func (r *ConnectionRepo) GetByID(ctx context.Context, id string) (*domain.Connection, error) {
	conn, err := scanConnection(r.db.QueryRowContext(ctx, `
		SELECT id, name, connector_type, config_json, status, created_at
		FROM connections WHERE id = ?
	`, id).Scan)
	if err != nil {
		if _, notFound := mapDBError(err).(*domain.NotFoundError); notFound {
			return nil, domain.ErrNotFound("connection %q not found", id)
		}
		return nil, mapDBError(err)
	}
	return conn, nil
}

// List returns a page of connections plus the total count.
func (r *ConnectionRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.Connection, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM connections`).Scan(&total); err != nil {
		return nil, 0, mapDBError(err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, connector_type, config_json, status, created_at
		FROM connections
		ORDER BY created_at, id
		LIMIT ? OFFSET ?
	`, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, mapDBError(err)
	}
	defer rows.Close() //nolint:errcheck

	var conns []domain.Connection
	for rows.Next() {
		conn, err := scanConnection(rows.Scan)
		if err != nil {
			return nil, 0, mapDBError(err)
		}
		conns = append(conns, *conn)
	}
	return conns, total, rows.Err()
}

// Delete removes a connection.
func (r *ConnectionRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM connections WHERE id = ?`, id)
	if err != nil {
		return mapDBError(err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound("connection %q not found", id)
	}
	return nil
}

func scanConnection(scan func(...any) error) (*domain.Connection, error) {
	var (
		conn          domain.Connection
		connectorType string
		config        string
	)
	if err := scan(&conn.ID, &conn.Name, &connectorType, &config, &conn.Status, &conn.CreatedAt); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(config, "connection config", &conn.Config); err != nil {
		return nil, err
	}
	conn.ConnectorType = domain.StorageKind(connectorType)
	return &conn, nil
}
