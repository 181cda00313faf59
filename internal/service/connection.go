package service

import (
	"context"
	"log/slog"

	"metacat/internal/domain"
)

// ConnectionService manages registered storage connections.
type ConnectionService struct {
	connections domain.ConnectionRepository
	logger      *slog.Logger
}

// NewConnectionService creates a ConnectionService.
func NewConnectionService(connections domain.ConnectionRepository, logger *slog.Logger) *ConnectionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConnectionService{
		connections: connections,
		logger:      logger.With("component", "connections"),
	}
}

// Create validates and registers a new connection.
func (s *ConnectionService) Create(ctx context.Context, conn *domain.Connection) (*domain.Connection, error) {
	if conn == nil || conn.Name == "" {
		return nil, domain.ErrValidation("connection name is required")
	}
	if err := validateConnectorConfig(conn.ConnectorType, conn.Config); err != nil {
		return nil, err
	}
	if err := s.connections.Create(ctx, conn); err != nil {
		return nil, err
	}
	s.logger.Info("connection registered", "connection_id", conn.ID, "type", conn.ConnectorType)
	return conn, nil
}

// GetByID returns a connection by ID.
func (s *ConnectionService) GetByID(ctx context.Context, id string) (*domain.Connection, error) {
	return s.connections.GetByID(ctx, id)
}

// List returns a page of connections plus the total count.
func (s *ConnectionService) List(ctx context.Context, page domain.PageRequest) ([]domain.Connection, int64, error) {
	return s.connections.List(ctx, page)
}

// Delete removes a connection. Assets discovered through it are retained.
func (s *ConnectionService) Delete(ctx context.Context, id string) error {
	if err := s.connections.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("connection deleted", "connection_id", id)
	return nil
}

// validateConnectorConfig checks the per-kind required fields before the
// connection is stored, so enumerator construction cannot fail on missing
// scope later.
func validateConnectorConfig(kind domain.StorageKind, cfg domain.ConnectionConfig) error {
	switch kind {
	case domain.StorageKindAzureBlob, domain.StorageKindAzureDataLake:
		if cfg.Account == "" || cfg.Container == "" {
			return domain.ErrValidation("azure connections require account and container")
		}
	case domain.StorageKindS3:
		if cfg.Container == "" {
			return domain.ErrValidation("s3 connections require a bucket")
		}
	case domain.StorageKindGCS:
		if cfg.Container == "" {
			return domain.ErrValidation("gcs connections require a bucket")
		}
	default:
		return domain.ErrValidation("unsupported connector type %q", kind)
	}
	return nil
}
