package decode

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/duckdb/duckdb-go/v2" // registers the "duckdb" driver
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"catalog-kit/internal/domain"
	"catalog-kit/internal/sqlquote"
	"catalog-kit/internal/tabular"
)

// readers maps DuckDB-backed formats to their table function.
var readers = map[Format]string{
	FormatParquet: "read_parquet",
	FormatCSV:     "read_csv_auto",
	FormatJSON:    "read_json_auto",
}

// Decoder parses buffers into frames. Parquet, CSV and JSON are read by
// DuckDB; Excel workbooks by excelize.
type Decoder struct {
	db         *sql.DB
	ownsDB     bool
	scratchDir string
}

// NewDecoder creates a Decoder over an existing DuckDB connection.
func NewDecoder(db *sql.DB) *Decoder {
	return &Decoder{db: db, scratchDir: os.TempDir()}
}

// Open creates a Decoder backed by a private in-memory DuckDB database.
func Open() (*Decoder, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	d := NewDecoder(db)
	d.ownsDB = true
	return d, nil
}

// SetScratchDir sets where buffers are spilled for DuckDB to read.
func (d *Decoder) SetScratchDir(dir string) {
	d.scratchDir = dir
}

// Close closes the DuckDB database if the Decoder opened it.
func (d *Decoder) Close() error {
	if d.ownsDB {
		return d.db.Close()
	}
	return nil
}

// Decode parses data in the given format. It returns either a complete frame
// or an error, never both: *domain.UnsupportedFormatError for an unknown
// format, *domain.DecodeError when the bytes do not parse.
func (d *Decoder) Decode(ctx context.Context, data []byte, format Format) (*tabular.Frame, error) {
	var (
		frame *tabular.Frame
		err   error
	)
	switch format {
	case FormatParquet, FormatCSV, FormatJSON:
		frame, err = d.decodeDuckDB(ctx, data, format)
	case FormatExcel:
		frame, err = decodeExcel(data)
	default:
		return nil, domain.ErrUnsupportedFormat(string(format))
	}
	if err != nil {
		return nil, &domain.DecodeError{Format: string(format), Err: err}
	}
	return frame, nil
}

func (d *Decoder) decodeDuckDB(ctx context.Context, data []byte, format Format) (*tabular.Frame, error) {
	path := filepath.Join(d.scratchDir, "decode-"+uuid.NewString()+format.extension())
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return nil, fmt.Errorf("spill buffer: %w", err)
	}
	defer os.Remove(path) //nolint:errcheck

	query := fmt.Sprintf("SELECT * FROM %s(%s)", readers[format], sqlquote.QuoteLiteral(path))
	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	return scanRows(rows)
}

func scanRows(rows *sql.Rows) (*tabular.Frame, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	frame := tabular.New(cols...)

	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		frame.Rows = append(frame.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return frame, nil
}

// decodeExcel reads the first sheet of a workbook. The first row is the
// header; cells are kept as the strings excelize renders, and short rows are
// padded with nil.
func decodeExcel(data []byte) (frame *tabular.Frame, err error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return tabular.New(), nil
	}

	frame = tabular.New(rows[0]...)
	for _, row := range rows[1:] {
		cells := make([]any, len(frame.Columns))
		for i := range cells {
			if i < len(row) {
				cells[i] = row[i]
			}
		}
		frame.Rows = append(frame.Rows, cells)
	}
	return frame, nil
}
