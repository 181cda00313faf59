package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"metacat/internal/domain"
	"metacat/internal/lineage"
)

// SQLLineageRequest is a submitted SQL statement with its provenance.
type SQLLineageRequest struct {
	SQL          string
	Dialect      string
	ConnectorID  string
	SourceSystem string
	JobID        string
	JobName      string
}

// SQLLineageResult reports what an extraction produced and which
// relationships could be anchored to known assets.
type SQLLineageResult struct {
	Extraction    domain.LineageExtraction
	Relationships []domain.LineageRelationship
	// UnresolvedTables lists source tables with no matching asset.
	UnresolvedTables []string
}

// LineageService extracts and infers lineage relationships between assets.
type LineageService struct {
	assets    domain.AssetRepository
	relations domain.LineageRepository
	queries   domain.SQLQueryRepository
	extractor *lineage.Extractor
	logger    *slog.Logger
}

// NewLineageService creates a LineageService.
func NewLineageService(
	assets domain.AssetRepository,
	relations domain.LineageRepository,
	queries domain.SQLQueryRepository,
	logger *slog.Logger,
) *LineageService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "lineage")
	return &LineageService{
		assets:    assets,
		relations: relations,
		queries:   queries,
		extractor: lineage.NewExtractor(logger),
		logger:    logger,
	}
}

// ExtractFromSQL analyzes a SQL statement, records it, and upserts a
// relationship for every source table that resolves to a known asset when
// the target table resolves too. Table names match asset names
// case-insensitively within the request's connector scope.
func (s *LineageService) ExtractFromSQL(ctx context.Context, req SQLLineageRequest) (*SQLLineageResult, error) {
	if strings.TrimSpace(req.SQL) == "" {
		return nil, domain.ErrValidation("sql text is required")
	}

	extraction := s.extractor.Extract(req.SQL, req.Dialect)
	result := &SQLLineageResult{Extraction: extraction}

	var targetAsset *domain.Asset
	if extraction.TargetTable != "" {
		asset, err := s.assets.FindByName(ctx, req.ConnectorID, extraction.TargetTable)
		if err != nil {
			return nil, fmt.Errorf("resolve target table %q: %w", extraction.TargetTable, err)
		}
		targetAsset = asset
	}

	for _, table := range extraction.SourceTables {
		sourceAsset, err := s.assets.FindByName(ctx, req.ConnectorID, table)
		if err != nil {
			return nil, fmt.Errorf("resolve source table %q: %w", table, err)
		}
		if sourceAsset == nil || targetAsset == nil {
			result.UnresolvedTables = append(result.UnresolvedTables, table)
			continue
		}

		rel := domain.LineageRelationship{
			SourceAssetID:    sourceAsset.ID,
			TargetAssetID:    targetAsset.ID,
			ColumnLineage:    extraction.ColumnLineage,
			SQLQuery:         req.SQL,
			SourceSystem:     req.SourceSystem,
			SourceJobID:      req.JobID,
			SourceJobName:    req.JobName,
			ConfidenceScore:  extraction.ConfidenceScore,
			ExtractionMethod: extraction.ExtractionMethod,
		}
		if err := s.relations.Upsert(ctx, &rel); err != nil {
			return nil, fmt.Errorf("upsert relationship: %w", err)
		}
		result.Relationships = append(result.Relationships, rel)
	}

	record := &domain.SQLQuery{
		QueryText:     req.SQL,
		QueryType:     extraction.QueryType,
		SourceSystem:  req.SourceSystem,
		JobID:         req.JobID,
		JobName:       req.JobName,
		ParsedLineage: &extraction,
		ParseStatus:   parseStatus(extraction),
	}
	if targetAsset != nil {
		record.AssetID = targetAsset.ID
	}
	if err := s.queries.Insert(ctx, record); err != nil {
		return nil, fmt.Errorf("record sql query: %w", err)
	}

	s.logger.Info("sql lineage extracted",
		"query_type", extraction.QueryType,
		"relationships", len(result.Relationships),
		"unresolved", len(result.UnresolvedTables))
	return result, nil
}

// InferBetweenAssets infers column lineage between two assets from their
// schemas alone and persists the relationship when anything matched.
func (s *LineageService) InferBetweenAssets(ctx context.Context, sourceAssetID, targetAssetID string, minMatchRatio float64) (*domain.LineageRelationship, error) {
	if sourceAssetID == targetAssetID {
		return nil, domain.ErrValidation("source and target assets must differ")
	}
	if minMatchRatio <= 0 {
		minMatchRatio = lineage.DefaultMinMatchRatio
	}

	source, err := s.assets.GetByID(ctx, sourceAssetID)
	if err != nil {
		return nil, err
	}
	target, err := s.assets.GetByID(ctx, targetAssetID)
	if err != nil {
		return nil, err
	}

	entries, confidence := lineage.InferColumnLineage(source.Columns, target.Columns, minMatchRatio)
	if len(entries) == 0 {
		return nil, domain.ErrValidation(
			"no column overlap between %q and %q", source.Name, target.Name)
	}

	rel := &domain.LineageRelationship{
		SourceAssetID:    sourceAssetID,
		TargetAssetID:    targetAssetID,
		RelationshipType: "inferred_from",
		ColumnLineage:    entries,
		ConfidenceScore:  confidence,
		ExtractionMethod: domain.MethodFuzzyInference,
	}
	if err := s.relations.Upsert(ctx, rel); err != nil {
		return nil, fmt.Errorf("upsert relationship: %w", err)
	}

	s.logger.Info("column lineage inferred",
		"source_asset_id", sourceAssetID,
		"target_asset_id", targetAssetID,
		"columns", len(entries),
		"confidence", confidence)
	return rel, nil
}

// ListForAsset returns every relationship touching an asset.
func (s *LineageService) ListForAsset(ctx context.Context, assetID string) ([]domain.LineageRelationship, error) {
	if _, err := s.assets.GetByID(ctx, assetID); err != nil {
		return nil, err
	}
	return s.relations.ListForAsset(ctx, assetID)
}

func parseStatus(extraction domain.LineageExtraction) string {
	if extraction.ExtractionMethod == domain.MethodRegexFallback {
		return "fallback"
	}
	return "parsed"
}
