// Package tabular provides a small in-memory table: named columns over rows
// of untyped cells.
package tabular

import "fmt"

// Frame is a rectangular table. Every row has len(Columns) cells.
type Frame struct {
	Columns []string
	Rows    [][]any
}

// New creates an empty frame with the given columns.
func New(columns ...string) *Frame {
	return &Frame{Columns: append([]string(nil), columns...)}
}

// NumRows returns the number of rows.
func (f *Frame) NumRows() int {
	if f == nil {
		return 0
	}
	return len(f.Rows)
}

// NumColumns returns the number of columns.
func (f *Frame) NumColumns() int {
	if f == nil {
		return 0
	}
	return len(f.Columns)
}

// Append adds a row. The cell count must match the column count.
func (f *Frame) Append(cells ...any) error {
	if len(cells) != len(f.Columns) {
		return fmt.Errorf("row has %d cells, frame has %d columns", len(cells), len(f.Columns))
	}
	f.Rows = append(f.Rows, cells)
	return nil
}

// ColumnIndex returns the position of the named column, or -1.
func (f *Frame) ColumnIndex(name string) int {
	for i, c := range f.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Value returns the cell at row i in the named column.
func (f *Frame) Value(row int, column string) (any, error) {
	idx := f.ColumnIndex(column)
	if idx < 0 {
		return nil, fmt.Errorf("column %q not found", column)
	}
	if row < 0 || row >= len(f.Rows) {
		return nil, fmt.Errorf("row %d out of range [0, %d)", row, len(f.Rows))
	}
	return f.Rows[row][idx], nil
}

// Head returns a frame with at most n leading rows. Rows are shared, not copied.
func (f *Frame) Head(n int) *Frame {
	if n < 0 || n >= len(f.Rows) {
		return f
	}
	return &Frame{Columns: f.Columns, Rows: f.Rows[:n]}
}

// Records returns the rows as column-name keyed maps.
func (f *Frame) Records() []map[string]any {
	out := make([]map[string]any, 0, len(f.Rows))
	for _, row := range f.Rows {
		rec := make(map[string]any, len(f.Columns))
		for i, c := range f.Columns {
			rec[c] = row[i]
		}
		out = append(out, rec)
	}
	return out
}
