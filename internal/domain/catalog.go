package domain

import (
	"strings"
	"time"
)

// FieldType is the declared type tag of a warehouse column. Tags outside the
// constants below are passed through unchanged.
type FieldType string

// Field type tags as reported by the warehouse.
const (
	FieldTypeString     FieldType = "STRING"
	FieldTypeInteger    FieldType = "INTEGER"
	FieldTypeFloat      FieldType = "FLOAT"
	FieldTypeBoolean    FieldType = "BOOLEAN"
	FieldTypeTimestamp  FieldType = "TIMESTAMP"
	FieldTypeDate       FieldType = "DATE"
	FieldTypeDateTime   FieldType = "DATETIME"
	FieldTypeTime       FieldType = "TIME"
	FieldTypeNumeric    FieldType = "NUMERIC"
	FieldTypeBigNumeric FieldType = "BIGNUMERIC"
	FieldTypeBytes      FieldType = "BYTES"
	FieldTypeRecord     FieldType = "RECORD"
	FieldTypeGeography  FieldType = "GEOGRAPHY"
	FieldTypeJSON       FieldType = "JSON"
)

// IsTemporal reports whether the type denotes timestamp-valued columns.
func (t FieldType) IsTemporal() bool {
	return t == FieldTypeTimestamp
}

// Dataset is a named grouping of tables.
type Dataset struct {
	ID        string
	ProjectID string
}

// Table is a table listed within a dataset.
type Table struct {
	DatasetID string
	ID        string
}

// Ref returns the composite key of the table.
func (t Table) Ref() TableRef {
	return TableRef{DatasetID: t.DatasetID, TableID: t.ID}
}

// TableRef identifies a table by dataset and table id. It is comparable and
// used as the key of every aggregate mapping, so identifiers containing dots
// never collide.
type TableRef struct {
	DatasetID string
	TableID   string
}

// QualifiedName returns "{dataset}.{table}". Use it for output only; two
// distinct refs can share a qualified name when an id contains a dot.
func (r TableRef) QualifiedName() string {
	return r.DatasetID + "." + r.TableID
}

func (r TableRef) String() string { return r.QualifiedName() }

// Field is a column definition in a table schema.
type Field struct {
	Name string
	Type FieldType
}

// TableMetadata is a snapshot of a table's schema and row count.
type TableMetadata struct {
	Ref     TableRef
	Schema  []Field
	NumRows int64
}

// DefaultDateFormat is the strftime layout used to stringify date ranges.
const DefaultDateFormat = "%Y-%m-%d %H:%M:%S"

// DateRange holds the observed minimum and maximum date of a column.
// Min and Max are nil when the table has no non-null values.
type DateRange struct {
	Min *time.Time
	Max *time.Time
}

// Cells returns the range as a row of two cells (min, max).
func (r DateRange) Cells() []any {
	return []any{timeCell(r.Min), timeCell(r.Max)}
}

func timeCell(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

// FormattedDateRange is a DateRange rendered with a date layout.
type FormattedDateRange struct {
	Min string `json:"min_date" yaml:"min_date"`
	Max string `json:"max_date" yaml:"max_date"`
}

// Cells returns the range as a row of two cells (min, max).
func (r FormattedDateRange) Cells() []any {
	return []any{r.Min, r.Max}
}

// DateRangeColumn selects which column a date-range query measures.
type DateRangeColumn int

const (
	// DateRangeColumnCurrent measures the temporal field being examined.
	DateRangeColumnCurrent DateRangeColumn = iota
	// DateRangeColumnFirst measures the first field of the table schema for
	// every temporal field, matching older catalog exports.
	DateRangeColumnFirst
)

// ParseDateRangeColumn maps "current" (or "") and "first" to a DateRangeColumn.
func ParseDateRangeColumn(s string) (DateRangeColumn, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "current":
		return DateRangeColumnCurrent, nil
	case "first":
		return DateRangeColumnFirst, nil
	default:
		return 0, ErrValidation("unknown date range column mode %q: use 'current' or 'first'", s)
	}
}

func (c DateRangeColumn) String() string {
	if c == DateRangeColumnFirst {
		return "first"
	}
	return "current"
}
