package domain

import (
	"context"
	"io"

	"catalog-kit/internal/tabular"
)

// Warehouse is the data-warehouse connection used by the catalog services.
// Implementations: warehouse.BigQuery.
type Warehouse interface {
	// ListDatasets returns one page of datasets.
	ListDatasets(ctx context.Context, page PageRequest) (Page[Dataset], error)
	// ListTables returns one page of tables in a dataset.
	ListTables(ctx context.Context, datasetID string, page PageRequest) (Page[Table], error)
	// GetTable fetches the schema and row count of a table.
	GetTable(ctx context.Context, ref TableRef) (*TableMetadata, error)
	// Query runs a SQL statement and returns its full result.
	Query(ctx context.Context, sql string) (*tabular.Frame, error)
}

// ObjectStore reads objects from a bucket.
// Implementations: objectstore.S3, objectstore.GCS, objectstore.Azure.
type ObjectStore interface {
	// Get reads the whole object into memory.
	Get(ctx context.Context, bucket, key string) ([]byte, error)
	// Open returns a reader over the object body. The caller closes it.
	Open(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}
