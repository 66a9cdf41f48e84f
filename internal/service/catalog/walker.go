// Package catalog walks a warehouse's datasets, tables and fields and folds
// their metadata into per-table mappings.
package catalog

import (
	"context"
	"fmt"
	"iter"

	"catalog-kit/internal/domain"
)

// TableField pairs a field with the table it belongs to.
type TableField struct {
	Ref   domain.TableRef
	Field domain.Field
}

// Walker produces lazy sequences over a warehouse catalog. Every sequence is
// a single forward pass: nothing is cached, and ranging again re-issues all
// listing calls. Order is whatever the warehouse returns.
//
// A listing error is yielded once as the sequence's last element.
type Walker struct {
	wh       domain.Warehouse
	pageSize int
}

// NewWalker creates a Walker over the given warehouse connection.
func NewWalker(wh domain.Warehouse) *Walker {
	return &Walker{wh: wh}
}

// SetPageSize sets the page size requested from the warehouse. Zero uses
// domain.DefaultMaxResults.
func (w *Walker) SetPageSize(n int) {
	w.pageSize = n
}

// Datasets yields every dataset, following pagination until the last page.
func (w *Walker) Datasets(ctx context.Context) iter.Seq2[domain.Dataset, error] {
	return paginate(w.pageSize, func(page domain.PageRequest) (domain.Page[domain.Dataset], error) {
		p, err := w.wh.ListDatasets(ctx, page)
		if err != nil {
			return p, fmt.Errorf("list datasets: %w", err)
		}
		return p, nil
	})
}

// Tables yields every table of a dataset, following pagination.
func (w *Walker) Tables(ctx context.Context, datasetID string) iter.Seq2[domain.Table, error] {
	return paginate(w.pageSize, func(page domain.PageRequest) (domain.Page[domain.Table], error) {
		p, err := w.wh.ListTables(ctx, datasetID, page)
		if err != nil {
			return p, fmt.Errorf("list tables in %q: %w", datasetID, err)
		}
		return p, nil
	})
}

// Fields fetches the table schema once and yields its fields in declared order.
func (w *Walker) Fields(ctx context.Context, ref domain.TableRef) iter.Seq2[domain.Field, error] {
	return func(yield func(domain.Field, error) bool) {
		schema, err := w.Schema(ctx, ref)
		if err != nil {
			yield(domain.Field{}, err)
			return
		}
		for _, f := range schema {
			if !yield(f, nil) {
				return
			}
		}
	}
}

// DatasetTables yields every (dataset, table) pair of the warehouse.
func (w *Walker) DatasetTables(ctx context.Context) iter.Seq2[domain.TableRef, error] {
	return func(yield func(domain.TableRef, error) bool) {
		for ds, err := range w.Datasets(ctx) {
			if err != nil {
				yield(domain.TableRef{}, err)
				return
			}
			for t, err := range w.Tables(ctx, ds.ID) {
				if err != nil {
					yield(domain.TableRef{}, err)
					return
				}
				if !yield(t.Ref(), nil) {
					return
				}
			}
		}
	}
}

// TableFields yields every (table, field) pair of one dataset.
func (w *Walker) TableFields(ctx context.Context, datasetID string) iter.Seq2[TableField, error] {
	return func(yield func(TableField, error) bool) {
		for t, err := range w.Tables(ctx, datasetID) {
			if err != nil {
				yield(TableField{}, err)
				return
			}
			if !w.yieldFields(ctx, t.Ref(), yield) {
				return
			}
		}
	}
}

// DatasetTableFields yields every (dataset, table, field) triple of the warehouse.
func (w *Walker) DatasetTableFields(ctx context.Context) iter.Seq2[TableField, error] {
	return func(yield func(TableField, error) bool) {
		for ref, err := range w.DatasetTables(ctx) {
			if err != nil {
				yield(TableField{}, err)
				return
			}
			if !w.yieldFields(ctx, ref, yield) {
				return
			}
		}
	}
}

// ListTableIDs collects the table ids of a dataset.
func (w *Walker) ListTableIDs(ctx context.Context, datasetID string) ([]string, error) {
	ids := []string{}
	for t, err := range w.Tables(ctx, datasetID) {
		if err != nil {
			return nil, err
		}
		ids = append(ids, t.ID)
	}
	return ids, nil
}

// Schema returns the ordered schema of a table.
func (w *Walker) Schema(ctx context.Context, ref domain.TableRef) ([]domain.Field, error) {
	md, err := w.wh.GetTable(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("get table %s: %w", ref.QualifiedName(), err)
	}
	return md.Schema, nil
}

// yieldFields reports false when iteration must stop.
func (w *Walker) yieldFields(ctx context.Context, ref domain.TableRef, yield func(TableField, error) bool) bool {
	for f, err := range w.Fields(ctx, ref) {
		if err != nil {
			yield(TableField{}, err)
			return false
		}
		if !yield(TableField{Ref: ref, Field: f}, nil) {
			return false
		}
	}
	return true
}

func paginate[T any](pageSize int, fetch func(domain.PageRequest) (domain.Page[T], error)) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		req := domain.PageRequest{MaxResults: pageSize}
		for {
			page, err := fetch(req)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			for _, item := range page.Items {
				if !yield(item, nil) {
					return
				}
			}
			if page.NextPageToken == "" {
				return
			}
			req.PageToken = page.NextPageToken
		}
	}
}
