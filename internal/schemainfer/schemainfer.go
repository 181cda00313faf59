// Package schemainfer derives a column schema from raw file bytes so
// discovered objects can be fingerprinted on structure, not just content.
// Inference is conservative: a column keeps a narrow type only when every
// sampled value parses as that type.
package schemainfer

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"

	"metacat/internal/domain"
)

// sampleLimit caps how many data rows feed type inference per file.
const sampleLimit = 100

// Column types produced by inference.
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeFloat   = "float"
	TypeBoolean = "boolean"
)

// Infer sniffs a schema from file bytes, dispatching on the file name's
// extension. Formats without a structural schema return (nil, nil): the
// caller can still fingerprint the raw content.
func Infer(name string, data []byte) ([]domain.SchemaColumn, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".csv":
		return InferCSV(data)
	case ".json", ".jsonl", ".ndjson":
		return InferJSON(data)
	default:
		return nil, nil
	}
}

// InferCSV reads the header row as column names, in file order, and types
// each column from up to sampleLimit data rows.
func InferCSV(data []byte) ([]domain.SchemaColumn, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	samples := make([][]string, len(header))
	for row := 0; row < sampleLimit; row++ {
		record, err := reader.Read()
		if err != nil {
			break
		}
		for i := range header {
			if i < len(record) {
				samples[i] = append(samples[i], record[i])
			}
		}
	}

	columns := make([]domain.SchemaColumn, 0, len(header))
	for i, name := range header {
		columns = append(columns, domain.SchemaColumn{
			Name: strings.TrimSpace(name),
			Type: inferType(samples[i]),
		})
	}
	return columns, nil
}

// InferJSON accepts an array of objects, a single object, or
// newline-delimited objects. Keys are reported in sorted order so the
// schema hash is stable across map iteration.
func InferJSON(data []byte) ([]domain.SchemaColumn, error) {
	objects, err := decodeObjects(data)
	if err != nil {
		return nil, err
	}
	if len(objects) == 0 {
		return nil, nil
	}

	samples := make(map[string][]string)
	scalars := make(map[string]string)
	hasString := make(map[string]bool)
	seen := make(map[string]struct{})
	for _, obj := range objects {
		for key, value := range obj {
			seen[key] = struct{}{}
			if jsonType := scalarJSONType(value); jsonType != "" {
				scalars[key] = widerType(scalars[key], jsonType)
				continue
			}
			switch v := value.(type) {
			case string:
				hasString[key] = true
				samples[key] = append(samples[key], v)
			case nil:
			default:
				// Nested object or array: no narrower type applies.
				scalars[key] = TypeString
			}
		}
	}

	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	columns := make([]domain.SchemaColumn, 0, len(keys))
	for _, key := range keys {
		colType := scalars[key]
		switch {
		case hasString[key] && colType != "":
			colType = TypeString
		case colType == "":
			colType = inferType(samples[key])
		}
		columns = append(columns, domain.SchemaColumn{Name: key, Type: colType})
	}
	return columns, nil
}

func decodeObjects(data []byte) ([]map[string]any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var arr []map[string]any
		if err := json.Unmarshal(trimmed, &arr); err != nil {
			return nil, fmt.Errorf("decoding json array: %w", err)
		}
		if len(arr) > sampleLimit {
			arr = arr[:sampleLimit]
		}
		return arr, nil
	}

	var objects []map[string]any
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	for dec.More() && len(objects) < sampleLimit {
		var obj map[string]any
		if err := dec.Decode(&obj); err != nil {
			return nil, fmt.Errorf("decoding json object: %w", err)
		}
		objects = append(objects, obj)
	}
	return objects, nil
}

// scalarJSONType maps a decoded JSON scalar to a column type, or "" for
// strings and nulls which need sample-based inference.
func scalarJSONType(value any) string {
	switch v := value.(type) {
	case bool:
		return TypeBoolean
	case float64:
		if v == float64(int64(v)) {
			return TypeInteger
		}
		return TypeFloat
	default:
		return ""
	}
}

// widerType merges two observed types for a key across sampled objects.
func widerType(a, b string) string {
	if a == "" || a == b {
		return b
	}
	if (a == TypeInteger && b == TypeFloat) || (a == TypeFloat && b == TypeInteger) {
		return TypeFloat
	}
	return TypeString
}

// inferType types a column from string samples: boolean, then integer,
// then float, falling back to string. Empty values are ignored; a column
// with no non-empty samples is a string.
func inferType(samples []string) string {
	seen := false
	isBool, isInt, isFloat := true, true, true

	for _, raw := range samples {
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}
		seen = true

		switch strings.ToLower(value) {
		case "true", "false":
		default:
			isBool = false
		}
		if _, err := strconv.ParseInt(value, 10, 64); err != nil {
			isInt = false
		}
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			isFloat = false
		}
	}

	switch {
	case !seen:
		return TypeString
	case isBool:
		return TypeBoolean
	case isInt:
		return TypeInteger
	case isFloat:
		return TypeFloat
	default:
		return TypeString
	}
}
