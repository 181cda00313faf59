// Package storagepath normalizes raw storage paths and URLs into canonical
// StorageLocation values.
//
// Supported formats, most specific first:
//
//	abfs[s]://container@account.dfs.core.windows.net/path  (Data Lake Gen2)
//	s3://bucket/path
//	gs://bucket/path
//	https://account.blob.core.windows.net/container/path
//	container/path                                          (bare, hint-aware)
//
// Matchers are evaluated in fixed priority order; the first matcher whose
// parse succeeds wins. The set of formats is closed, so the registry is a
// plain ordered slice rather than open-ended dispatch.
package storagepath

import (
	"regexp"
	"strings"

	"metacat/internal/domain"
)

// matcher is one entry in the ordered registry.
type matcher struct {
	accepts func(path string) bool
	parse   func(path string, hints Hints) (domain.StorageLocation, error)
}

// Hints carry optional caller-supplied defaults for bare paths.
type Hints struct {
	Account   string
	Container string
}

var (
	dataLakeRe = regexp.MustCompile(`(?i)^(abfs|abfss)://([^@]+)@([^.]+)\.dfs\.core\.windows\.net(.*)$`)
	blobURLRe  = regexp.MustCompile(`(?i)^https://([^.]+)\.blob\.core\.windows\.net/([^/]+)(.*)$`)
	s3URLRe    = regexp.MustCompile(`(?i)^s3://([^/]+)(.*)$`)
	gcsURLRe   = regexp.MustCompile(`(?i)^gs://([^/]+)(.*)$`)
)

var registry = []matcher{
	{acceptsDataLake, parseDataLake},
	{acceptsS3, parseS3},
	{acceptsGCS, parseGCS},
	{acceptsBlob, parseBlob},
}

// Normalize parses a raw storage path into a StorageLocation. When no
// matcher accepts the input, both hints must be present; the raw string is
// then treated as a container-relative path. Otherwise it fails with
// UnrecognizedPathFormatError.
func Normalize(raw string, hints Hints) (domain.StorageLocation, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.StorageLocation{}, &domain.UnrecognizedPathFormatError{Path: raw}
	}

	for _, m := range registry {
		if !m.accepts(raw) {
			continue
		}
		loc, err := m.parse(raw, hints)
		if err != nil {
			continue
		}
		return loc, nil
	}

	// Best-effort fallback: build the location directly from the hints.
	if hints.Account != "" && hints.Container != "" {
		return domain.StorageLocation{
			Kind:      domain.StorageKindAzureBlob,
			Account:   hints.Account,
			Container: hints.Container,
			Path:      strings.Trim(raw, "/"),
			Protocol:  "https",
			Method:    domain.ConnMethodConnectionString,
		}, nil
	}

	return domain.StorageLocation{}, &domain.UnrecognizedPathFormatError{Path: raw}
}

func acceptsDataLake(path string) bool { return dataLakeRe.MatchString(path) }

// parseDataLake handles hierarchical-namespace URLs. The dfs endpoint only
// accepts principal-based auth, so the connection method is fixed.
func parseDataLake(path string, _ Hints) (domain.StorageLocation, error) {
	m := dataLakeRe.FindStringSubmatch(path)
	if m == nil {
		return domain.StorageLocation{}, &domain.UnrecognizedPathFormatError{Path: path}
	}
	return domain.StorageLocation{
		Kind:      domain.StorageKindAzureDataLake,
		Account:   m[3],
		Container: m[2],
		Path:      strings.Trim(m[4], "/"),
		Protocol:  strings.ToLower(m[1]),
		Method:    domain.ConnMethodServicePrincipal,
	}, nil
}

func acceptsS3(path string) bool { return s3URLRe.MatchString(path) }

func parseS3(path string, _ Hints) (domain.StorageLocation, error) {
	m := s3URLRe.FindStringSubmatch(path)
	if m == nil {
		return domain.StorageLocation{}, &domain.UnrecognizedPathFormatError{Path: path}
	}
	return domain.StorageLocation{
		Kind:      domain.StorageKindS3,
		Container: m[1],
		Path:      strings.Trim(m[2], "/"),
		Protocol:  "s3",
	}, nil
}

func acceptsGCS(path string) bool { return gcsURLRe.MatchString(path) }

func parseGCS(path string, _ Hints) (domain.StorageLocation, error) {
	m := gcsURLRe.FindStringSubmatch(path)
	if m == nil {
		return domain.StorageLocation{}, &domain.UnrecognizedPathFormatError{Path: path}
	}
	return domain.StorageLocation{
		Kind:      domain.StorageKindGCS,
		Container: m[1],
		Path:      strings.Trim(m[2], "/"),
		Protocol:  "gs",
	}, nil
}

// acceptsBlob accepts full blob URLs and bare container/path strings that
// carry no scheme prefix.
func acceptsBlob(path string) bool {
	if blobURLRe.MatchString(path) {
		return true
	}
	lower := strings.ToLower(path)
	for _, scheme := range []string{"http://", "https://", "abfs://", "abfss://", "s3://", "gs://"} {
		if strings.HasPrefix(lower, scheme) {
			return false
		}
	}
	return strings.Contains(path, "/")
}

func parseBlob(path string, hints Hints) (domain.StorageLocation, error) {
	loc := domain.StorageLocation{
		Kind:     domain.StorageKindAzureBlob,
		Protocol: "https",
		Method:   domain.ConnMethodConnectionString,
	}

	if m := blobURLRe.FindStringSubmatch(path); m != nil {
		loc.Account = m[1]
		loc.Container = m[2]
		loc.Path = strings.Trim(m[3], "/")
		return loc, nil
	}

	if hints.Account != "" && hints.Container != "" {
		// Both hints present: the whole string is the in-container path.
		loc.Account = hints.Account
		loc.Container = hints.Container
		loc.Path = strings.Trim(path, "/")
		return loc, nil
	}

	// Split on the first separator into container and remaining path.
	parts := strings.SplitN(strings.Trim(path, "/"), "/", 2)
	if len(parts) != 2 {
		return domain.StorageLocation{}, &domain.UnrecognizedPathFormatError{Path: path}
	}
	loc.Account = hints.Account
	loc.Container = parts[0]
	loc.Path = strings.Trim(parts[1], "/")
	return loc, nil
}
