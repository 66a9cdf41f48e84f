// Package testutil provides shared mock implementations of domain interfaces
// for use in tests across the codebase. This follows the Go convention of a
// shared test utility package (like net/http/httptest).
package testutil

import (
	"bytes"
	"context"
	"io"

	"catalog-kit/internal/domain"
	"catalog-kit/internal/tabular"
)

// === Warehouse Mock ===

// MockWarehouse implements domain.Warehouse for testing.
type MockWarehouse struct {
	ListDatasetsFn func(ctx context.Context, page domain.PageRequest) (domain.Page[domain.Dataset], error)
	ListTablesFn   func(ctx context.Context, datasetID string, page domain.PageRequest) (domain.Page[domain.Table], error)
	GetTableFn     func(ctx context.Context, ref domain.TableRef) (*domain.TableMetadata, error)
	QueryFn        func(ctx context.Context, sql string) (*tabular.Frame, error)
}

// ListDatasets implements the interface method for testing.
func (m *MockWarehouse) ListDatasets(ctx context.Context, page domain.PageRequest) (domain.Page[domain.Dataset], error) {
	if m.ListDatasetsFn != nil {
		return m.ListDatasetsFn(ctx, page)
	}
	panic("unexpected call to MockWarehouse.ListDatasets")
}

// ListTables implements the interface method for testing.
func (m *MockWarehouse) ListTables(ctx context.Context, datasetID string, page domain.PageRequest) (domain.Page[domain.Table], error) {
	if m.ListTablesFn != nil {
		return m.ListTablesFn(ctx, datasetID, page)
	}
	panic("unexpected call to MockWarehouse.ListTables")
}

// GetTable implements the interface method for testing.
func (m *MockWarehouse) GetTable(ctx context.Context, ref domain.TableRef) (*domain.TableMetadata, error) {
	if m.GetTableFn != nil {
		return m.GetTableFn(ctx, ref)
	}
	panic("unexpected call to MockWarehouse.GetTable")
}

// Query implements the interface method for testing.
func (m *MockWarehouse) Query(ctx context.Context, sql string) (*tabular.Frame, error) {
	if m.QueryFn != nil {
		return m.QueryFn(ctx, sql)
	}
	panic("unexpected call to MockWarehouse.Query")
}

// === Object Store Mock ===

// MockObjectStore implements domain.ObjectStore for testing.
type MockObjectStore struct {
	GetFn  func(ctx context.Context, bucket, key string) ([]byte, error)
	OpenFn func(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// Get implements the interface method for testing.
func (m *MockObjectStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, bucket, key)
	}
	panic("unexpected call to MockObjectStore.Get")
}

// Open implements the interface method for testing. Without OpenFn it
// serves GetFn's bytes.
func (m *MockObjectStore) Open(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	if m.OpenFn != nil {
		return m.OpenFn(ctx, bucket, key)
	}
	if m.GetFn != nil {
		data, err := m.GetFn(ctx, bucket, key)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	panic("unexpected call to MockObjectStore.Open")
}
