// Package lineage derives source→target lineage relationships between data
// assets, either deterministically from SQL statements or by fuzzy
// column-name inference when no SQL is available.
package lineage

import (
	"log/slog"
	"regexp"
	"strings"

	"metacat/internal/domain"
	"metacat/internal/sqlparse"
)

// Base confidence per statement class. A statement that names its target
// is a strong lineage signal; a bare SELECT only evidences reads.
const (
	confidenceWrite          = 0.9
	confidenceSelect         = 0.7
	confidenceFallback       = 0.3
	confidenceFallbackTarget = 0.5
)

// Extractor analyzes SQL statements for lineage. It never returns an
// error: any parse failure degrades to the regex fallback so an extraction
// attempt always yields something usable, tagged with a lower confidence.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor creates an Extractor.
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Extract analyzes one SQL statement under the given dialect tag. The
// dialect only influences identifier quoting in the parser; unknown
// dialects are parsed with the common grammar subset.
func (e *Extractor) Extract(sqlText, dialect string) (result domain.LineageExtraction) {
	// Panic safety: a malformed statement must never take down the caller.
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("sql lineage extraction panic", "error", r)
			result = e.fallback(sqlText)
		}
	}()

	stmt, err := sqlparse.Parse(sqlText)
	if err != nil {
		e.logger.Debug("structured parse failed, using regex fallback",
			"dialect", dialect, "error", err)
		return e.fallback(sqlText)
	}

	result = domain.LineageExtraction{
		SourceTables:     sqlparse.CollectSourceTables(stmt),
		TargetTable:      sqlparse.TargetTable(stmt),
		ExtractionMethod: domain.MethodSQLParsing,
	}

	switch sqlparse.Classify(stmt) {
	case sqlparse.StmtInsert:
		result.QueryType = domain.QueryInsert
		result.ConfidenceScore = confidenceWrite
	case sqlparse.StmtCreate:
		result.QueryType = domain.QueryCreate
		result.ConfidenceScore = confidenceWrite
	case sqlparse.StmtCreateView:
		result.QueryType = domain.QueryCreateView
		result.ConfidenceScore = confidenceWrite
	case sqlparse.StmtSelect:
		result.QueryType = domain.QuerySelect
		result.ConfidenceScore = confidenceSelect
	default:
		return e.fallback(sqlText)
	}

	if result.TargetTable != "" {
		result.ColumnLineage = columnLineage(stmt)
	}

	e.logger.Info("extracted sql lineage",
		"query_type", result.QueryType,
		"source_tables", len(result.SourceTables),
		"target_table", result.TargetTable,
		"confidence", result.ConfidenceScore)
	return result
}

// columnLineage derives column-level mappings for writing statements.
func columnLineage(stmt sqlparse.Statement) []domain.ColumnLineageEntry {
	switch s := stmt.(type) {
	case *sqlparse.InsertStmt:
		return insertColumnLineage(s)
	case *sqlparse.CreateStmt:
		if s.Select == nil {
			return nil
		}
		return selectColumnLineage(s.Select)
	default:
		return nil
	}
}

// insertColumnLineage pairs the INSERT column list positionally with the
// SELECT output expressions. A length mismatch yields no column lineage:
// an ambiguous positional mapping is worse than none.
func insertColumnLineage(ins *sqlparse.InsertStmt) []domain.ColumnLineageEntry {
	if ins.Select == nil || len(ins.Columns) == 0 {
		return nil
	}
	if len(ins.Columns) != len(ins.Select.Items) {
		return nil
	}

	entries := make([]domain.ColumnLineageEntry, 0, len(ins.Columns))
	for i, target := range ins.Columns {
		item := ins.Select.Items[i]
		if item.Star {
			return nil // positional pairing is meaningless against *
		}
		entries = append(entries, domain.ColumnLineageEntry{
			SourceColumn:   sourceColumnName(item),
			TargetColumn:   target,
			Transformation: transformationOf(item),
		})
	}
	return entries
}

// selectColumnLineage maps each CTAS/CREATE VIEW output expression to its
// alias, or to its own column name when unaliased.
func selectColumnLineage(sel *sqlparse.SelectStmt) []domain.ColumnLineageEntry {
	var entries []domain.ColumnLineageEntry
	for _, item := range sel.Items {
		if item.Star {
			continue
		}
		target := sqlparse.OutputName(item)
		source := sourceColumnName(item)
		if target == "" || source == "" {
			continue
		}
		entries = append(entries, domain.ColumnLineageEntry{
			SourceColumn:   source,
			TargetColumn:   target,
			Transformation: transformationOf(item),
		})
	}
	return entries
}

func sourceColumnName(item sqlparse.SelectItem) string {
	if name := sqlparse.SourceName(item); name != "" {
		return name
	}
	return sqlparse.OutputName(item)
}

func transformationOf(item sqlparse.SelectItem) domain.TransformationKind {
	if sqlparse.IsAggregate(item.Expr) {
		return domain.TransformAggregate
	}
	return domain.TransformPassThrough
}

var (
	insertIntoRe  = regexp.MustCompile(`(?i)INSERT\s+INTO\s+([A-Za-z_][A-Za-z0-9_$.]*)`)
	createTableRe = regexp.MustCompile(`(?i)CREATE\s+TABLE\s+(?:IF\s+NOT\s+EXISTS\s+)?([A-Za-z_][A-Za-z0-9_$.]*)`)
	fromRe        = regexp.MustCompile(`(?i)FROM\s+([A-Za-z_][A-Za-z0-9_$.]*)`)
	joinRe        = regexp.MustCompile(`(?i)JOIN\s+([A-Za-z_][A-Za-z0-9_$.]*)`)
)

// fallback performs best-effort pattern extraction when structured parsing
// is unavailable. Column lineage is always empty here.
func (e *Extractor) fallback(sqlText string) domain.LineageExtraction {
	result := domain.LineageExtraction{
		QueryType:        domain.QueryUnknown,
		ConfidenceScore:  confidenceFallback,
		ExtractionMethod: domain.MethodRegexFallback,
	}

	if m := insertIntoRe.FindStringSubmatch(sqlText); m != nil {
		result.TargetTable = m[1]
		result.QueryType = domain.QueryInsert
		result.ConfidenceScore = confidenceFallbackTarget
	}
	if m := createTableRe.FindStringSubmatch(sqlText); m != nil {
		result.TargetTable = m[1]
		result.QueryType = domain.QueryCreate
		result.ConfidenceScore = confidenceFallbackTarget
	}

	seen := make(map[string]struct{})
	collect := func(re *regexp.Regexp) {
		for _, m := range re.FindAllStringSubmatch(sqlText, -1) {
			name := m[1]
			key := strings.ToLower(name)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			result.SourceTables = append(result.SourceTables, name)
		}
	}
	collect(fromRe)
	collect(joinRe)

	return result
}
