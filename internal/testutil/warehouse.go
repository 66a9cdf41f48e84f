package testutil

import (
	"context"
	"strconv"
	"sync"

	"catalog-kit/internal/domain"
	"catalog-kit/internal/tabular"
)

// FakeDataset is one dataset of a FakeWarehouse, with its tables in listing order.
type FakeDataset struct {
	ID     string
	Tables []FakeTable
}

// FakeTable is a table fixture.
type FakeTable struct {
	ID      string
	Schema  []domain.Field
	NumRows int64
}

// FakeWarehouse is an in-memory domain.Warehouse serving a fixed catalog.
// Listings are paged with offset tokens so callers must follow NextPageToken.
// Query answers come from QueryFn; every statement is recorded.
type FakeWarehouse struct {
	Datasets []FakeDataset
	QueryFn  func(sql string) (*tabular.Frame, error)

	mu       sync.Mutex
	queries  []string
	getCalls int
}

// ListDatasets implements domain.Warehouse.
func (f *FakeWarehouse) ListDatasets(_ context.Context, page domain.PageRequest) (domain.Page[domain.Dataset], error) {
	items := make([]domain.Dataset, 0, len(f.Datasets))
	for _, d := range f.Datasets {
		items = append(items, domain.Dataset{ID: d.ID, ProjectID: "test-project"})
	}
	return pageOf(items, page)
}

// ListTables implements domain.Warehouse.
func (f *FakeWarehouse) ListTables(_ context.Context, datasetID string, page domain.PageRequest) (domain.Page[domain.Table], error) {
	ds, ok := f.dataset(datasetID)
	if !ok {
		return domain.Page[domain.Table]{}, domain.ErrNotFound("dataset %q not found", datasetID)
	}
	items := make([]domain.Table, 0, len(ds.Tables))
	for _, t := range ds.Tables {
		items = append(items, domain.Table{DatasetID: datasetID, ID: t.ID})
	}
	return pageOf(items, page)
}

// GetTable implements domain.Warehouse.
func (f *FakeWarehouse) GetTable(_ context.Context, ref domain.TableRef) (*domain.TableMetadata, error) {
	f.mu.Lock()
	f.getCalls++
	f.mu.Unlock()

	ds, ok := f.dataset(ref.DatasetID)
	if !ok {
		return nil, domain.ErrNotFound("dataset %q not found", ref.DatasetID)
	}
	for _, t := range ds.Tables {
		if t.ID == ref.TableID {
			return &domain.TableMetadata{
				Ref:     ref,
				Schema:  append([]domain.Field(nil), t.Schema...),
				NumRows: t.NumRows,
			}, nil
		}
	}
	return nil, domain.ErrNotFound("table %q not found", ref.QualifiedName())
}

// Query implements domain.Warehouse.
func (f *FakeWarehouse) Query(_ context.Context, sql string) (*tabular.Frame, error) {
	f.mu.Lock()
	f.queries = append(f.queries, sql)
	f.mu.Unlock()
	if f.QueryFn == nil {
		panic("unexpected call to FakeWarehouse.Query")
	}
	return f.QueryFn(sql)
}

// Queries returns every statement passed to Query, in order.
func (f *FakeWarehouse) Queries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

// GetTableCalls returns how many times GetTable was called.
func (f *FakeWarehouse) GetTableCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getCalls
}

func (f *FakeWarehouse) dataset(id string) (FakeDataset, bool) {
	for _, d := range f.Datasets {
		if d.ID == id {
			return d, true
		}
	}
	return FakeDataset{}, false
}

func pageOf[T any](items []T, req domain.PageRequest) (domain.Page[T], error) {
	offset := 0
	if req.PageToken != "" {
		n, err := strconv.Atoi(req.PageToken)
		if err != nil || n < 0 {
			return domain.Page[T]{}, domain.ErrValidation("invalid page token %q", req.PageToken)
		}
		offset = n
	}
	if offset > len(items) {
		offset = len(items)
	}
	end := offset + req.Limit()
	if end > len(items) {
		end = len(items)
	}
	page := domain.Page[T]{Items: items[offset:end]}
	if end < len(items) {
		page.NextPageToken = strconv.Itoa(end)
	}
	return page, nil
}
