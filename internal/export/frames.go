// Package export turns aggregate mappings into tables and writes them out as
// spreadsheet workbooks or JSON.
package export

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	"catalog-kit/internal/domain"
	"catalog-kit/internal/tabular"
)

// IndexColumn is the header of the first column of every exported table.
const IndexColumn = "name"

// DefaultColumns is used when Frames is called without column names.
var DefaultColumns = []string{"type"}

// Celler is implemented by values that span more than one cell, such as
// date ranges.
type Celler interface {
	Cells() []any
}

// Frames converts {table -> {key -> value}} into one table per entry, with
// one row per inner key in ascending key order. Each row is the key followed
// by the value's cells; the cell count must equal len(columns).
func Frames[V any](m map[domain.TableRef]map[string]V, columns ...string) (map[domain.TableRef]*tabular.Frame, error) {
	if len(columns) == 0 {
		columns = DefaultColumns
	}
	out := make(map[domain.TableRef]*tabular.Frame, len(m))
	for ref, inner := range m {
		f := tabular.New(append([]string{IndexColumn}, columns...)...)
		for _, key := range slices.Sorted(maps.Keys(inner)) {
			cells := cellsOf(inner[key])
			if len(cells) != len(columns) {
				return nil, fmt.Errorf("%s: value for %q has %d cells, want %d (columns %v)",
					ref.QualifiedName(), key, len(cells), len(columns), columns)
			}
			if err := f.Append(append([]any{key}, cells...)...); err != nil {
				return nil, fmt.Errorf("%s: %w", ref.QualifiedName(), err)
			}
		}
		out[ref] = f
	}
	return out, nil
}

// ScalarFrame builds a single table with one row per table reference.
func ScalarFrame[V any](m map[domain.TableRef]V, column string) *tabular.Frame {
	f := tabular.New("table", column)
	for _, ref := range SortedRefs(m) {
		f.Rows = append(f.Rows, []any{ref.QualifiedName(), m[ref]})
	}
	return f
}

// ListFrames builds one single-column table per reference, one row per list item.
func ListFrames(m map[domain.TableRef][]string, column string) map[domain.TableRef]*tabular.Frame {
	out := make(map[domain.TableRef]*tabular.Frame, len(m))
	for ref, items := range m {
		f := tabular.New(column)
		for _, item := range items {
			f.Rows = append(f.Rows, []any{item})
		}
		out[ref] = f
	}
	return out
}

// SortedRefs returns the map keys ordered by dataset then table id.
func SortedRefs[V any](m map[domain.TableRef]V) []domain.TableRef {
	return slices.SortedFunc(maps.Keys(m), compareRefs)
}

func compareRefs(a, b domain.TableRef) int {
	return cmp.Or(cmp.Compare(a.DatasetID, b.DatasetID), cmp.Compare(a.TableID, b.TableID))
}

func cellsOf(v any) []any {
	switch c := v.(type) {
	case Celler:
		return c.Cells()
	case domain.FieldType:
		return []any{string(c)}
	default:
		return []any{v}
	}
}
