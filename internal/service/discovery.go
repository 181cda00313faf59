// Package service orchestrates discovery and lineage over the repositories,
// the path normalizer, and the object-store enumerators.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"metacat/internal/domain"
	"metacat/internal/enumerate"
	"metacat/internal/fingerprint"
	"metacat/internal/reconcile"
	"metacat/internal/schemainfer"
	"metacat/internal/storagepath"
)

// EnumeratorFactory builds an enumerator for a connection. Injected so
// tests can run discovery against an in-memory store.
type EnumeratorFactory func(ctx context.Context, conn *domain.Connection) (enumerate.Enumerator, error)

// ObjectEvent is one discovered-object notification, either pushed by an
// external pipeline or produced internally by RunDiscovery.
type ObjectEvent struct {
	ConnectorID   string
	RawPath       string
	AccountHint   string
	ContainerHint string
	SizeBytes     int64
	Content       []byte
	// Columns overrides schema inference when the caller already knows
	// the schema.
	Columns []domain.SchemaColumn
}

// DiscoveryReport tallies one discovery run.
type DiscoveryReport struct {
	ConnectionID string `json:"connection_id"`
	Scanned      int    `json:"scanned"`
	Inserted     int    `json:"inserted"`
	Updated      int    `json:"updated"`
	Skipped      int    `json:"skipped"`
	Failed       int    `json:"failed"`
}

// DiscoveryService reconciles discovered objects into the asset store.
type DiscoveryService struct {
	assets      domain.AssetRepository
	connections domain.ConnectionRepository
	enumerators EnumeratorFactory
	workers     int
	sampleBytes int64
	logger      *slog.Logger
}

// NewDiscoveryService creates a DiscoveryService.
func NewDiscoveryService(
	assets domain.AssetRepository,
	connections domain.ConnectionRepository,
	enumerators EnumeratorFactory,
	workers int,
	sampleBytes int64,
	logger *slog.Logger,
) *DiscoveryService {
	if enumerators == nil {
		enumerators = enumerate.ForConnection
	}
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DiscoveryService{
		assets:      assets,
		connections: connections,
		enumerators: enumerators,
		workers:     workers,
		sampleBytes: sampleBytes,
		logger:      logger.With("component", "discovery"),
	}
}

// ProcessObject runs the full pipeline for one object: normalize the path,
// infer the schema, fingerprint, compare against the stored asset, and
// apply the resulting action. The returned action reports what happened.
//
// Concurrent events for the same (connector, path) are serialized by the
// store's unique constraint: a losing insert surfaces as a ConflictError.
func (s *DiscoveryService) ProcessObject(ctx context.Context, event ObjectEvent) (*domain.Asset, domain.ReconcileAction, error) {
	if event.ConnectorID == "" || event.RawPath == "" {
		return nil, "", domain.ErrValidation("connector id and path are required")
	}

	location, err := storagepath.Normalize(event.RawPath, storagepath.Hints{
		Account:   event.AccountHint,
		Container: event.ContainerHint,
	})
	if err != nil {
		return nil, "", fmt.Errorf("normalize path %q: %w", event.RawPath, err)
	}

	columns := event.Columns
	if columns == nil && len(event.Content) > 0 {
		if columns, err = schemainfer.Infer(location.Path, event.Content); err != nil {
			s.logger.Warn("schema inference failed, fingerprinting content only",
				"path", location.Path, "error", err)
			columns = nil
		}
	}

	next := fingerprint.Compute(event.Content, columns)

	canonical := location.String()
	existing, err := s.assets.FindByConnectorAndPath(ctx, event.ConnectorID, canonical)
	if err != nil {
		return nil, "", fmt.Errorf("lookup asset: %w", err)
	}

	var prior *domain.AssetFingerprint
	if existing != nil {
		prior = &existing.TechnicalMetadata.Fingerprint
	}
	decision := reconcile.Decide(prior, next)

	switch decision.Action {
	case domain.ActionInsert:
		asset := s.buildAsset(event, location, columns, next)
		if err := s.assets.Insert(ctx, asset); err != nil {
			return nil, "", fmt.Errorf("insert asset: %w", err)
		}
		s.logger.Info("asset discovered", "connector_id", event.ConnectorID, "location", canonical)
		return asset, domain.ActionInsert, nil

	case domain.ActionUpdate:
		existing.Name = assetName(location.Path)
		existing.Columns = columns
		existing.TechnicalMetadata.Fingerprint = next
		existing.TechnicalMetadata.SizeBytes = event.SizeBytes
		existing.TechnicalMetadata.Format = formatOf(location.Path)
		if err := s.assets.Update(ctx, existing); err != nil {
			return nil, "", fmt.Errorf("update asset: %w", err)
		}
		s.logger.Info("asset schema changed", "asset_id", existing.ID, "location", canonical)
		return existing, domain.ActionUpdate, nil

	default:
		return existing, domain.ActionSkip, nil
	}
}

// RunDiscovery enumerates every object under a connection's prefix and
// processes them with a bounded worker pool. Per-object failures are
// counted, logged, and do not abort the run.
func (s *DiscoveryService) RunDiscovery(ctx context.Context, connectionID string) (*DiscoveryReport, error) {
	conn, err := s.connections.GetByID(ctx, connectionID)
	if err != nil {
		return nil, err
	}

	enumerator, err := s.enumerators(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("build enumerator: %w", err)
	}

	objects, err := enumerator.List(ctx, conn.Config.Prefix)
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}

	report := &DiscoveryReport{ConnectionID: connectionID, Scanned: len(objects)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, obj := range objects {
		obj := obj
		g.Go(func() error {
			content, err := enumerator.Read(gctx, obj.Key, s.sampleBytes)
			if err != nil {
				s.logger.Warn("read object failed", "key", obj.Key, "error", err)
				mu.Lock()
				report.Failed++
				mu.Unlock()
				return nil
			}

			_, action, err := s.ProcessObject(gctx, ObjectEvent{
				ConnectorID:   conn.ID,
				RawPath:       enumerator.URL(obj.Key),
				AccountHint:   conn.Config.Account,
				ContainerHint: conn.Config.Container,
				SizeBytes:     obj.SizeBytes,
				Content:       content,
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				s.logger.Warn("process object failed", "key", obj.Key, "error", err)
				report.Failed++
			case action == domain.ActionInsert:
				report.Inserted++
			case action == domain.ActionUpdate:
				report.Updated++
			default:
				report.Skipped++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info("discovery run complete",
		"connection_id", connectionID,
		"scanned", report.Scanned,
		"inserted", report.Inserted,
		"updated", report.Updated,
		"skipped", report.Skipped,
		"failed", report.Failed)
	return report, nil
}

func (s *DiscoveryService) buildAsset(event ObjectEvent, location domain.StorageLocation, columns []domain.SchemaColumn, fp domain.AssetFingerprint) *domain.Asset {
	return &domain.Asset{
		Name:        assetName(location.Path),
		Type:        "file",
		ConnectorID: event.ConnectorID,
		TechnicalMetadata: domain.TechnicalMetadata{
			Location:    location.String(),
			StorageKind: location.Kind,
			Account:     location.Account,
			Container:   location.Container,
			Fingerprint: fp,
			SizeBytes:   event.SizeBytes,
			Format:      formatOf(location.Path),
		},
		Columns: columns,
	}
}

func assetName(p string) string {
	if p == "" {
		return ""
	}
	return path.Base(p)
}

func formatOf(p string) string {
	return strings.TrimPrefix(strings.ToLower(path.Ext(p)), ".")
}
