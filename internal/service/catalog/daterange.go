package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/lestrrat-go/strftime"

	"catalog-kit/internal/domain"
	"catalog-kit/internal/sqlquote"
)

// Result columns of DateRangeQuery.
const (
	MinDateColumn = "min_date"
	MaxDateColumn = "max_date"
)

// DateRangeQuery builds the statement computing the min and max date of a column.
func DateRangeQuery(ref domain.TableRef, column string) string {
	col := sqlquote.QuoteIdentifier(column)
	return fmt.Sprintf("SELECT MIN(CAST(%s AS DATE)) AS %s, MAX(CAST(%s AS DATE)) AS %s FROM %s",
		col, MinDateColumn, col, MaxDateColumn, sqlquote.QuoteTable(ref.DatasetID, ref.TableID))
}

// DateRanges maps every table with temporal fields to {field -> date range}.
// One query is issued per temporal field. The measured column depends on the
// aggregator's DateRangeColumn: the temporal field itself by default, or the
// first schema field when configured with DateRangeColumnFirst. Tables with no
// temporal field get no entry.
func (a *Aggregator) DateRanges(ctx context.Context) (map[domain.TableRef]map[string]domain.DateRange, error) {
	out := map[domain.TableRef]map[string]domain.DateRange{}
	err := a.eachTable(ctx, "date ranges", func(ref domain.TableRef) error {
		schema, err := a.walker.Schema(ctx, ref)
		if err != nil {
			return err
		}
		ranges := map[string]domain.DateRange{}
		for _, f := range schema {
			if !f.Type.IsTemporal() {
				continue
			}
			column := f.Name
			if a.column == domain.DateRangeColumnFirst {
				column = schema[0].Name
			}
			r, err := a.TableDateRange(ctx, ref, column)
			if err != nil {
				return err
			}
			ranges[f.Name] = r
		}
		if len(ranges) > 0 {
			out[ref] = ranges
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// TableDateRange queries the min and max date of one column.
func (a *Aggregator) TableDateRange(ctx context.Context, ref domain.TableRef, column string) (domain.DateRange, error) {
	frame, err := a.wh.Query(ctx, DateRangeQuery(ref, column))
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("query date range of %s.%s: %w", ref.QualifiedName(), column, err)
	}
	if frame.NumRows() != 1 {
		return domain.DateRange{}, fmt.Errorf("date range of %s.%s: expected 1 row, got %d",
			ref.QualifiedName(), column, frame.NumRows())
	}

	var r domain.DateRange
	for _, c := range []struct {
		name string
		dst  **time.Time
	}{{MinDateColumn, &r.Min}, {MaxDateColumn, &r.Max}} {
		v, err := frame.Value(0, c.name)
		if err != nil {
			return domain.DateRange{}, fmt.Errorf("date range of %s.%s: %w", ref.QualifiedName(), column, err)
		}
		t, err := asTime(v)
		if err != nil {
			return domain.DateRange{}, fmt.Errorf("date range of %s.%s: %s: %w", ref.QualifiedName(), column, c.name, err)
		}
		*c.dst = t
	}
	return r, nil
}

func asTime(v any) (*time.Time, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return &t, nil
	case *time.Time:
		return t, nil
	case string:
		parsed, err := time.Parse(time.DateOnly, t)
		if err != nil {
			return nil, err
		}
		return &parsed, nil
	default:
		return nil, fmt.Errorf("unexpected value type %T", v)
	}
}

// FormatDateRanges renders date ranges with a strftime layout. An empty
// layout uses domain.DefaultDateFormat; a missing bound renders as "".
func FormatDateRanges(ranges map[domain.TableRef]map[string]domain.DateRange, layout string) (map[domain.TableRef]map[string]domain.FormattedDateRange, error) {
	if layout == "" {
		layout = domain.DefaultDateFormat
	}
	f, err := strftime.New(layout)
	if err != nil {
		return nil, domain.ErrValidation("invalid date format %q: %v", layout, err)
	}

	out := make(map[domain.TableRef]map[string]domain.FormattedDateRange, len(ranges))
	for ref, fields := range ranges {
		inner := make(map[string]domain.FormattedDateRange, len(fields))
		for name, r := range fields {
			inner[name] = domain.FormattedDateRange{
				Min: formatTime(f, r.Min),
				Max: formatTime(f, r.Max),
			}
		}
		out[ref] = inner
	}
	return out, nil
}

func formatTime(f *strftime.Strftime, t *time.Time) string {
	if t == nil {
		return ""
	}
	return f.FormatString(*t)
}
