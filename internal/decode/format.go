// Package decode parses object bytes in a known file format into a
// tabular.Frame.
package decode

import (
	"path"
	"strings"

	"catalog-kit/internal/domain"
)

// Format is a decodable file format tag.
type Format string

// Supported formats.
const (
	FormatParquet Format = "parquet"
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
	FormatExcel   Format = "excel"
)

// Formats lists the supported formats.
var Formats = []Format{FormatParquet, FormatCSV, FormatJSON, FormatExcel}

// ParseFormat validates a format tag. Anything but parquet, csv, json and
// excel is a *domain.UnsupportedFormatError.
func ParseFormat(tag string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(tag)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", domain.ErrUnsupportedFormat(tag)
}

// FormatFromKey infers the format from an object key's extension.
func FormatFromKey(key string) (Format, error) {
	switch ext := strings.ToLower(path.Ext(key)); ext {
	case ".parquet", ".pq":
		return FormatParquet, nil
	case ".csv":
		return FormatCSV, nil
	case ".json", ".jsonl", ".ndjson":
		return FormatJSON, nil
	case ".xlsx", ".xlsm":
		return FormatExcel, nil
	default:
		return "", domain.ErrUnsupportedFormat(strings.TrimPrefix(ext, "."))
	}
}

// extension is the scratch-file suffix DuckDB sees for the format.
func (f Format) extension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatCSV:
		return ".csv"
	default:
		return ".parquet"
	}
}
