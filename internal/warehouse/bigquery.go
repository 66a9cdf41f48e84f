// Package warehouse adapts BigQuery to the domain.Warehouse port.
package warehouse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"catalog-kit/internal/domain"
	"catalog-kit/internal/tabular"
)

// Compile-time check: BigQuery implements domain.Warehouse.
var _ domain.Warehouse = (*BigQuery)(nil)

// Options configures NewBigQuery.
type Options struct {
	ProjectID       string // GCP project; bigquery.DetectProjectID when empty
	CredentialsFile string // service-account key file; application default credentials when empty
	Location        string // query location, e.g. "US" or "southamerica-east1"
}

// BigQuery is a domain.Warehouse backed by a BigQuery client. The caller owns
// its lifetime and must Close it.
type BigQuery struct {
	client *bigquery.Client
}

// NewBigQuery creates a BigQuery client.
func NewBigQuery(ctx context.Context, opts Options) (*BigQuery, error) {
	var clientOpts []option.ClientOption
	if opts.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithAuthCredentialsFile(option.ServiceAccount, opts.CredentialsFile))
	}
	project := opts.ProjectID
	if project == "" {
		project = bigquery.DetectProjectID
	}

	client, err := bigquery.NewClient(ctx, project, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create BigQuery client: %w", err)
	}
	// Jobs created by the client, including queries, run in this location.
	client.Location = opts.Location
	return &BigQuery{client: client}, nil
}

// Close releases the underlying client.
func (b *BigQuery) Close() error {
	return b.client.Close()
}

// ListDatasets implements domain.Warehouse.
func (b *BigQuery) ListDatasets(ctx context.Context, page domain.PageRequest) (domain.Page[domain.Dataset], error) {
	var items []*bigquery.Dataset
	next, err := iterator.NewPager(b.client.Datasets(ctx), page.Limit(), page.PageToken).NextPage(&items)
	if err != nil {
		return domain.Page[domain.Dataset]{}, err
	}

	out := domain.Page[domain.Dataset]{NextPageToken: next, Items: make([]domain.Dataset, 0, len(items))}
	for _, d := range items {
		out.Items = append(out.Items, domain.Dataset{ID: d.DatasetID, ProjectID: d.ProjectID})
	}
	return out, nil
}

// ListTables implements domain.Warehouse.
func (b *BigQuery) ListTables(ctx context.Context, datasetID string, page domain.PageRequest) (domain.Page[domain.Table], error) {
	var items []*bigquery.Table
	it := b.client.Dataset(datasetID).Tables(ctx)
	next, err := iterator.NewPager(it, page.Limit(), page.PageToken).NextPage(&items)
	if err != nil {
		return domain.Page[domain.Table]{}, err
	}

	out := domain.Page[domain.Table]{NextPageToken: next, Items: make([]domain.Table, 0, len(items))}
	for _, t := range items {
		out.Items = append(out.Items, domain.Table{DatasetID: t.DatasetID, ID: t.TableID})
	}
	return out, nil
}

// GetTable implements domain.Warehouse.
func (b *BigQuery) GetTable(ctx context.Context, ref domain.TableRef) (*domain.TableMetadata, error) {
	md, err := b.client.Dataset(ref.DatasetID).Table(ref.TableID).Metadata(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.TableMetadata{
		Ref:     ref,
		Schema:  convertSchema(md.Schema),
		NumRows: int64(md.NumRows), //nolint:gosec // row counts fit in int64
	}, nil
}

// Query implements domain.Warehouse. The whole result is read into memory.
func (b *BigQuery) Query(ctx context.Context, sql string) (*tabular.Frame, error) {
	it, err := b.client.Query(sql).Read(ctx)
	if err != nil {
		return nil, err
	}

	var frame *tabular.Frame
	for {
		var row []bigquery.Value
		err := it.Next(&row)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read query result: %w", err)
		}
		if frame == nil {
			frame = tabular.New(columnNames(it.Schema)...)
		}
		if err := frame.Append(convertRow(row)...); err != nil {
			return nil, err
		}
	}
	if frame == nil {
		frame = tabular.New(columnNames(it.Schema)...)
	}
	return frame, nil
}

func convertSchema(schema bigquery.Schema) []domain.Field {
	fields := make([]domain.Field, 0, len(schema))
	for _, f := range schema {
		fields = append(fields, domain.Field{Name: f.Name, Type: domain.FieldType(f.Type)})
	}
	return fields
}

func columnNames(schema bigquery.Schema) []string {
	names := make([]string, 0, len(schema))
	for _, f := range schema {
		names = append(names, f.Name)
	}
	return names
}

func convertRow(row []bigquery.Value) []any {
	out := make([]any, len(row))
	for i, v := range row {
		out[i] = convertValue(v)
	}
	return out
}

// convertValue maps civil dates and datetimes to UTC time.Time so callers do
// not depend on the BigQuery client types.
func convertValue(v bigquery.Value) any {
	switch t := v.(type) {
	case civil.Date:
		return t.In(time.UTC)
	case civil.DateTime:
		return t.In(time.UTC)
	default:
		return v
	}
}
