package export

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"catalog-kit/internal/domain"
	"catalog-kit/internal/tabular"
)

func ref(dataset, table string) domain.TableRef {
	return domain.TableRef{DatasetID: dataset, TableID: table}
}

func typeMap() map[domain.TableRef]map[string]domain.FieldType {
	return map[domain.TableRef]map[string]domain.FieldType{
		ref("sales", "orders"): {
			"id":         domain.FieldTypeInteger,
			"created_at": domain.FieldTypeTimestamp,
		},
		ref("raw", "events"): {},
	}
}

func TestFrames_DefaultColumn(t *testing.T) {
	frames, err := Frames(typeMap())
	require.NoError(t, err)
	require.Len(t, frames, 2)

	orders := frames[ref("sales", "orders")]
	assert.Equal(t, []string{"name", "type"}, orders.Columns)
	assert.Equal(t, [][]any{
		{"created_at", "TIMESTAMP"},
		{"id", "INTEGER"},
	}, orders.Rows)

	assert.Equal(t, 0, frames[ref("raw", "events")].NumRows())
}

func TestFrames_CustomColumns(t *testing.T) {
	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ranges := map[domain.TableRef]map[string]domain.DateRange{
		ref("d", "t"): {"ts": {Min: &jan, Max: &jan}},
	}

	frames, err := Frames(ranges, "min_date", "max_date")
	require.NoError(t, err)
	assert.Equal(t, [][]any{{"ts", jan, jan}}, frames[ref("d", "t")].Rows)

	_, err = Frames(ranges)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has 2 cells, want 1")
}

func TestScalarFrame(t *testing.T) {
	f := ScalarFrame(map[domain.TableRef]int64{
		ref("b", "x"): 2,
		ref("a", "y"): 1,
		ref("a", "b"): 3,
	}, "num_rows")

	assert.Equal(t, []string{"table", "num_rows"}, f.Columns)
	assert.Equal(t, [][]any{
		{"a.b", int64(3)},
		{"a.y", int64(1)},
		{"b.x", int64(2)},
	}, f.Rows)
}

func TestListFrames(t *testing.T) {
	frames := ListFrames(map[domain.TableRef][]string{
		ref("d", "t"):     {"created_at", "updated_at"},
		ref("d", "empty"): {},
	}, "column")

	assert.Equal(t, [][]any{{"created_at"}, {"updated_at"}}, frames[ref("d", "t")].Rows)
	assert.Equal(t, 0, frames[ref("d", "empty")].NumRows())
}

func TestWriteWorkbook(t *testing.T) {
	frames, err := Frames(typeMap())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "types.xlsx")
	require.NoError(t, WriteWorkbook(path, frames))

	wb, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer wb.Close() //nolint:errcheck

	assert.Equal(t, []string{"raw.events", "sales.orders"}, wb.GetSheetList())

	rows, err := wb.GetRows("sales.orders")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"name", "type"},
		{"created_at", "TIMESTAMP"},
		{"id", "INTEGER"},
	}, rows)

	rows, err = wb.GetRows("raw.events")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"name", "type"}}, rows)
}

func TestWriteWorkbook_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, WriteWorkbook(path, nil))

	wb, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer wb.Close() //nolint:errcheck
	assert.Len(t, wb.GetSheetList(), 1)
}

func TestWriteWorkbook_SheetNameTooLong(t *testing.T) {
	frames := map[domain.TableRef]*tabular.Frame{
		ref("analytics", strings.Repeat("t", 40)): tabular.New("name", "type"),
	}

	err := WriteWorkbook(filepath.Join(t.TempDir(), "long.xlsx"), frames)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create sheet")
}

func TestWriteWorkbook_Collision(t *testing.T) {
	frames := map[domain.TableRef]*tabular.Frame{
		ref("a.b", "c"): tabular.New("name", "type"),
		ref("a", "b.c"): tabular.New("name", "type"),
	}

	err := WriteWorkbook(filepath.Join(t.TempDir(), "dup.xlsx"), frames)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collides")
}

func TestWriteJSON(t *testing.T) {
	frames, err := Frames(typeMap())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, frames))

	var got map[string][]map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, []map[string]any{
		{"name": "created_at", "type": "TIMESTAMP"},
		{"name": "id", "type": "INTEGER"},
	}, got["sales.orders"])
	assert.Empty(t, got["raw.events"])
}
