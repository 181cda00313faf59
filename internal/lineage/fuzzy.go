package lineage

import (
	"strings"

	"metacat/internal/domain"
)

// Matching thresholds. The lower inference threshold trades precision for
// recall; inferred results also carry a confidence score the caller can
// gate on.
const (
	DefaultMatchThreshold   = 0.8
	inferenceThreshold      = 0.6
	DefaultMinMatchRatio    = 0.3
	renameSimilarityFloor   = 0.7
	maxInferenceConfidence  = 0.95
	broadCoverageBonus      = 0.1
	substringScoreFloor     = 0.85
	cleanedEqualityFloor    = 0.9
	strippedSeparatorsScore = 0.95
)

var (
	separatorReplacer = strings.NewReplacer("_", "", "-", "", " ", "")

	rolePrefixes = []string{"tbl_", "dim_", "fact_", "stg_", "raw_", "src_"}
	keySuffixes  = []string{"_id", "_key", "_pk", "_fk"}

	aggregationMarkers = []string{"sum_", "avg_", "count_", "max_", "min_", "total_"}
)

// MatchColumns fuzzy-matches two column names. The score ladder, highest
// signal first: exact match 1.0, equality after stripping separators 0.95,
// otherwise an edit-similarity ratio floored at 0.85 when one stripped name
// contains the other and at 0.9 when stripping table-role prefixes and key
// suffixes makes the names equal.
func MatchColumns(a, b string, threshold float64) (bool, float64) {
	if a == "" || b == "" {
		return false, 0.0
	}

	aLower := strings.ToLower(strings.TrimSpace(a))
	bLower := strings.ToLower(strings.TrimSpace(b))

	if aLower == bLower {
		return true, 1.0
	}

	aStripped := separatorReplacer.Replace(aLower)
	bStripped := separatorReplacer.Replace(bLower)
	if aStripped == bStripped {
		return true, strippedSeparatorsScore
	}

	score := similarityRatio(aLower, bLower)

	if strings.Contains(aStripped, bStripped) || strings.Contains(bStripped, aStripped) {
		score = max(score, substringScoreFloor)
	}

	if stripAffixes(aLower) == stripAffixes(bLower) {
		score = max(score, cleanedEqualityFloor)
	}

	return score >= threshold, score
}

func stripAffixes(name string) string {
	for _, prefix := range rolePrefixes {
		name = strings.TrimPrefix(name, prefix)
	}
	for _, suffix := range keySuffixes {
		name = strings.TrimSuffix(name, suffix)
	}
	return name
}

// similarityRatio is a Ratcliff-Obershelp ratio in [0,1]: twice the number
// of matching characters over the combined length, where matches are found
// by recursively splitting around the longest common substring.
func similarityRatio(a, b string) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 1.0
	}
	return 2.0 * float64(commonChars(a, b)) / float64(total)
}

func commonChars(a, b string) int {
	aStart, bStart, size := longestCommonSubstring(a, b)
	if size == 0 {
		return 0
	}
	return size +
		commonChars(a[:aStart], b[:bStart]) +
		commonChars(a[aStart+size:], b[bStart+size:])
}

func longestCommonSubstring(a, b string) (aStart, bStart, size int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}
	// lengths[j] is the common-suffix length ending at a[i], b[j-1].
	lengths := make([]int, len(b)+1)
	for i := 0; i < len(a); i++ {
		for j := len(b); j > 0; j-- {
			if a[i] == b[j-1] {
				lengths[j] = lengths[j-1] + 1
				if lengths[j] > size {
					size = lengths[j]
					aStart = i - size + 1
					bStart = j - size
				}
			} else {
				lengths[j] = 0
			}
		}
	}
	return aStart, bStart, size
}

// InferColumnLineage infers column mappings between two schemas when no SQL
// is available. Greedy bipartite matching: source columns are visited in
// input order and each keeps its highest-scoring unconsumed target at or
// above the inference threshold. The aggregate confidence is
// 0.6*matchRatio + 0.4*avgScore with matchRatio over the larger side, plus
// a 0.1 coverage bonus (capped at 0.95) when matchRatio reaches
// minMatchRatio. Zero matches yield no lineage and confidence 0.0.
func InferColumnLineage(sourceCols, targetCols []domain.SchemaColumn, minMatchRatio float64) ([]domain.ColumnLineageEntry, float64) {
	sourceNames := columnNames(sourceCols)
	targetNames := columnNames(targetCols)
	if len(sourceNames) == 0 || len(targetNames) == 0 {
		return nil, 0.0
	}

	var entries []domain.ColumnLineageEntry
	consumed := make(map[string]struct{})
	totalScore := 0.0

	for _, source := range sourceNames {
		bestTarget := ""
		bestScore := 0.0
		for _, target := range targetNames {
			if _, taken := consumed[target]; taken {
				continue
			}
			ok, score := MatchColumns(source, target, inferenceThreshold)
			if ok && score > bestScore {
				bestTarget = target
				bestScore = score
			}
		}
		if bestTarget == "" {
			continue
		}
		consumed[bestTarget] = struct{}{}
		totalScore += bestScore
		entries = append(entries, domain.ColumnLineageEntry{
			SourceColumn:   source,
			TargetColumn:   bestTarget,
			Transformation: DetectTransformation(source, bestTarget),
			Confidence:     bestScore,
		})
	}

	if len(entries) == 0 {
		return nil, 0.0
	}

	avgScore := totalScore / float64(len(entries))
	matchRatio := float64(len(entries)) / float64(max(len(sourceNames), len(targetNames)))

	confidence := matchRatio*0.6 + avgScore*0.4
	if matchRatio >= minMatchRatio {
		confidence = min(maxInferenceConfidence, confidence+broadCoverageBonus)
	}
	return entries, confidence
}

func columnNames(cols []domain.SchemaColumn) []string {
	names := make([]string, 0, len(cols))
	for _, col := range cols {
		if col.Name != "" {
			names = append(names, col.Name)
		}
	}
	return names
}

// DetectTransformation classifies how a source column name relates to a
// target column name: aggregation when the target carries an aggregation
// marker that strips back to the source, rename when the names differ but
// remain similar, pass-through otherwise.
func DetectTransformation(sourceCol, targetCol string) domain.TransformationKind {
	source := strings.ToLower(sourceCol)
	target := strings.ToLower(targetCol)

	for _, marker := range aggregationMarkers {
		if !strings.Contains(target, marker) {
			continue
		}
		if strings.Contains(target, source) || stripMarkers(target) == source {
			return domain.TransformAggregate
		}
	}

	if source != target && similarityRatio(source, target) > renameSimilarityFloor {
		return domain.TransformRename
	}
	return domain.TransformPassThrough
}

func stripMarkers(name string) string {
	for _, marker := range aggregationMarkers {
		name = strings.ReplaceAll(name, marker, "")
	}
	return name
}
