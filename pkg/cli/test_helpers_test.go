package cli

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"catalog-kit/internal/config"
	"catalog-kit/internal/decode"
	"catalog-kit/internal/domain"
	"catalog-kit/internal/service/loader"
	"catalog-kit/internal/tabular"
	"catalog-kit/internal/testutil"
)

// testApp returns an app whose warehouse and stores are in-memory fakes.
// Environment variables read by config.LoadFromEnv are cleared.
func testApp(t *testing.T, wh domain.Warehouse, store domain.ObjectStore) *app {
	t.Helper()
	for _, key := range []string{
		"DATE_FORMAT", "DATE_RANGE_COLUMN", "LOG_LEVEL", "LOG_FORMAT",
		"AZURE_STORAGE_ACCOUNT", "AZURE_STORAGE_KEY", "S3_ENDPOINT",
	} {
		t.Setenv(key, "")
	}
	return &app{
		logger: slog.Default(),
		openWarehouse: func(context.Context, *config.Config) (domain.Warehouse, func(), error) {
			if wh == nil {
				panic("unexpected call to openWarehouse")
			}
			return wh, func() {}, nil
		},
		openStore: func(context.Context, *config.Config, string) (domain.ObjectStore, func(), error) {
			if store == nil {
				panic("unexpected call to openStore")
			}
			return store, func() {}, nil
		},
		openDecoder: func() (loader.Decoder, func(), error) {
			d, err := decode.Open()
			if err != nil {
				return nil, nil, err
			}
			d.SetScratchDir(t.TempDir())
			return d, func() { _ = d.Close() }, nil
		},
	}
}

// run executes the root command with args and returns what it wrote to stdout.
func run(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(a)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "absent.env")))
	err := cmd.Execute()
	return stdout.String(), err
}

func mustRun(t *testing.T, a *app, args ...string) string {
	t.Helper()
	out, err := run(t, a, args...)
	require.NoError(t, err)
	return out
}

// fixtureWarehouse serves:
//
//	sales.orders    id INTEGER, created_at TIMESTAMP, amount FLOAT
//	sales.customers name STRING
//	raw.events      (empty schema)
//
// Every date-range query answers 2024-01-01 .. 2024-03-31.
func fixtureWarehouse() *testutil.FakeWarehouse {
	lo := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	hi := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	return &testutil.FakeWarehouse{
		Datasets: []testutil.FakeDataset{
			{ID: "sales", Tables: []testutil.FakeTable{
				{ID: "orders", NumRows: 42, Schema: []domain.Field{
					{Name: "id", Type: domain.FieldTypeInteger},
					{Name: "created_at", Type: domain.FieldTypeTimestamp},
					{Name: "amount", Type: domain.FieldTypeFloat},
				}},
				{ID: "customers", NumRows: 7, Schema: []domain.Field{
					{Name: "name", Type: domain.FieldTypeString},
				}},
			}},
			{ID: "raw", Tables: []testutil.FakeTable{
				{ID: "events"},
			}},
		},
		QueryFn: func(string) (*tabular.Frame, error) {
			f := tabular.New("min_date", "max_date")
			f.Rows = append(f.Rows, []any{lo, hi})
			return f, nil
		},
	}
}
