package catalog

import (
	"fmt"

	"catalog-kit/internal/domain"
	"catalog-kit/internal/testutil"
)

// errTest is a sentinel error for test scenarios.
var errTest = fmt.Errorf("test error")

type mockWarehouse = testutil.MockWarehouse

func ref(dataset, table string) domain.TableRef {
	return domain.TableRef{DatasetID: dataset, TableID: table}
}

// newFixtureWarehouse returns a warehouse with two populated datasets and an
// empty one:
//
//	sales.orders    id INTEGER, created_at TIMESTAMP, amount FLOAT, shipped_at TIMESTAMP
//	sales.customers name STRING, active BOOLEAN
//	empty           (no tables)
//	raw.events      (empty schema)
func newFixtureWarehouse() *testutil.FakeWarehouse {
	return &testutil.FakeWarehouse{
		Datasets: []testutil.FakeDataset{
			{ID: "sales", Tables: []testutil.FakeTable{
				{ID: "orders", NumRows: 42, Schema: []domain.Field{
					{Name: "id", Type: domain.FieldTypeInteger},
					{Name: "created_at", Type: domain.FieldTypeTimestamp},
					{Name: "amount", Type: domain.FieldTypeFloat},
					{Name: "shipped_at", Type: domain.FieldTypeTimestamp},
				}},
				{ID: "customers", NumRows: 7, Schema: []domain.Field{
					{Name: "name", Type: domain.FieldTypeString},
					{Name: "active", Type: domain.FieldTypeBoolean},
				}},
			}},
			{ID: "empty"},
			{ID: "raw", Tables: []testutil.FakeTable{
				{ID: "events", NumRows: 0},
			}},
		},
	}
}
