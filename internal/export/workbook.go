package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"catalog-kit/internal/domain"
	"catalog-kit/internal/tabular"
)

// DefaultWorkbookName is the file name used when none is given.
const DefaultWorkbookName = "column_types.xlsx"

// defaultSheet is the sheet every new excelize workbook starts with.
const defaultSheet = "Sheet1"

// WriteWorkbook writes each table to its own sheet, named after the table's
// qualified name, in one workbook at path. Sheet names are not shortened:
// names excelize rejects (over 31 characters, or containing : \ / ? * [ ])
// fail the write, as do two tables whose names collide case-insensitively.
func WriteWorkbook(path string, frames map[domain.TableRef]*tabular.Frame) (err error) {
	if path == "" {
		path = DefaultWorkbookName
	}

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close workbook: %w", cerr)
		}
	}()

	seen := make(map[string]domain.TableRef, len(frames))
	var first string
	for _, ref := range SortedRefs(frames) {
		name := ref.QualifiedName()
		if prev, ok := seen[strings.ToLower(name)]; ok {
			return fmt.Errorf("sheet name %q of %v collides with %v", name, ref, prev)
		}
		seen[strings.ToLower(name)] = ref

		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %q: %w", name, err)
		}
		if first == "" {
			first = name
		}
		if err := writeSheet(f, name, frames[ref]); err != nil {
			return fmt.Errorf("write sheet %q: %w", name, err)
		}
	}

	if first != "" {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return fmt.Errorf("delete default sheet: %w", err)
		}
		idx, err := f.GetSheetIndex(first)
		if err != nil {
			return fmt.Errorf("activate sheet %q: %w", first, err)
		}
		f.SetActiveSheet(idx)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, frame *tabular.Frame) error {
	header := make([]any, len(frame.Columns))
	for i, c := range frame.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, row := range frame.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := append([]any(nil), row...)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return nil
}
