package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"catalog-kit/internal/domain"
)

// Aggregator folds per-table metadata across a whole warehouse into mappings
// keyed by domain.TableRef. Every call rebuilds its mapping from scratch.
//
// The first failing lookup aborts the fold; no partial mapping is returned.
type Aggregator struct {
	wh     domain.Warehouse
	walker *Walker
	column domain.DateRangeColumn
	logger *slog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithDateRangeColumn selects which column DateRanges measures.
func WithDateRangeColumn(c domain.DateRangeColumn) Option {
	return func(a *Aggregator) { a.column = c }
}

// WithLogger sets the logger used for fold progress and failures.
func WithLogger(l *slog.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithPageSize sets the listing page size.
func WithPageSize(n int) Option {
	return func(a *Aggregator) { a.walker.SetPageSize(n) }
}

// NewAggregator creates an Aggregator over the given warehouse connection.
func NewAggregator(wh domain.Warehouse, opts ...Option) *Aggregator {
	a := &Aggregator{
		wh:     wh,
		walker: NewWalker(wh),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Walker returns the walker the aggregator enumerates tables with.
func (a *Aggregator) Walker() *Walker {
	return a.walker
}

// Types maps every table to its {field name -> type tag}.
func (a *Aggregator) Types(ctx context.Context) (map[domain.TableRef]map[string]domain.FieldType, error) {
	out := map[domain.TableRef]map[string]domain.FieldType{}
	err := a.eachTable(ctx, "types", func(ref domain.TableRef) error {
		types, err := a.TableTypes(ctx, ref)
		if err != nil {
			return err
		}
		out[ref] = types
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RowCounts maps every table to its row count snapshot.
func (a *Aggregator) RowCounts(ctx context.Context) (map[domain.TableRef]int64, error) {
	out := map[domain.TableRef]int64{}
	err := a.eachTable(ctx, "row counts", func(ref domain.TableRef) error {
		n, err := a.TableRowCount(ctx, ref)
		if err != nil {
			return err
		}
		out[ref] = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// TimestampColumns maps every table to the names of its temporal fields, in
// schema order. Tables without temporal fields map to an empty slice.
func (a *Aggregator) TimestampColumns(ctx context.Context) (map[domain.TableRef][]string, error) {
	out := map[domain.TableRef][]string{}
	err := a.eachTable(ctx, "timestamp columns", func(ref domain.TableRef) error {
		cols, err := a.TableTimestampColumns(ctx, ref)
		if err != nil {
			return err
		}
		out[ref] = cols
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// TableTypes returns {field name -> type tag} for one table.
func (a *Aggregator) TableTypes(ctx context.Context, ref domain.TableRef) (map[string]domain.FieldType, error) {
	schema, err := a.walker.Schema(ctx, ref)
	if err != nil {
		return nil, err
	}
	types := make(map[string]domain.FieldType, len(schema))
	for _, f := range schema {
		types[f.Name] = f.Type
	}
	return types, nil
}

// TableRowCount returns the row count snapshot of one table.
func (a *Aggregator) TableRowCount(ctx context.Context, ref domain.TableRef) (int64, error) {
	md, err := a.wh.GetTable(ctx, ref)
	if err != nil {
		return 0, fmt.Errorf("get table %s: %w", ref.QualifiedName(), err)
	}
	return md.NumRows, nil
}

// TableTimestampColumns returns the temporal field names of one table.
func (a *Aggregator) TableTimestampColumns(ctx context.Context, ref domain.TableRef) ([]string, error) {
	schema, err := a.walker.Schema(ctx, ref)
	if err != nil {
		return nil, err
	}
	return temporalNames(schema), nil
}

func temporalNames(schema []domain.Field) []string {
	cols := []string{}
	for _, f := range schema {
		if f.Type.IsTemporal() {
			cols = append(cols, f.Name)
		}
	}
	return cols
}

// eachTable runs fn for every table the walker yields, stopping at the first error.
func (a *Aggregator) eachTable(ctx context.Context, op string, fn func(domain.TableRef) error) error {
	n := 0
	for ref, err := range a.walker.DatasetTables(ctx) {
		if err != nil {
			return a.fail(op, err)
		}
		if err := fn(ref); err != nil {
			return a.fail(op, fmt.Errorf("%s: %w", ref.QualifiedName(), err))
		}
		n++
	}
	a.logger.Info("catalog aggregated", "op", op, "tables", n)
	return nil
}

func (a *Aggregator) fail(op string, err error) error {
	a.logger.Error("catalog aggregation failed", "op", op, "error", err)
	return fmt.Errorf("aggregate %s: %w", op, err)
}
