package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"catalog-kit/internal/domain"
	"catalog-kit/internal/export"
	"catalog-kit/internal/service/catalog"
	"catalog-kit/internal/tabular"
)

func newCatalogCmd(a *app) *cobra.Command {
	var pageSize int

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Walk the warehouse catalog and aggregate table metadata",
	}
	cmd.PersistentFlags().IntVar(&pageSize, "page-size", domain.DefaultMaxResults, "Results requested per listing page")

	withAggregator := func(ctx context.Context, fn func(*catalog.Aggregator) error) error {
		wh, closeFn, err := a.openWarehouse(ctx, a.cfg)
		if err != nil {
			return fmt.Errorf("open warehouse: %w", err)
		}
		defer closeFn()
		mode, err := a.cfg.DateRangeMode()
		if err != nil {
			return err
		}
		return fn(catalog.NewAggregator(wh,
			catalog.WithLogger(a.logger),
			catalog.WithPageSize(pageSize),
			catalog.WithDateRangeColumn(mode),
		))
	}

	cmd.AddCommand(newCatalogDatasetsCmd(withAggregator))
	cmd.AddCommand(newCatalogTablesCmd(withAggregator))
	cmd.AddCommand(newCatalogFieldsCmd(withAggregator))
	cmd.AddCommand(newCatalogTypesCmd(withAggregator))
	cmd.AddCommand(newCatalogRowsCmd(withAggregator))
	cmd.AddCommand(newCatalogTimestampsCmd(withAggregator))
	cmd.AddCommand(newCatalogDateRangesCmd(a, withAggregator))

	return cmd
}

type aggregatorRunner func(ctx context.Context, fn func(*catalog.Aggregator) error) error

func newCatalogDatasetsCmd(run aggregatorRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "datasets",
		Short: "List datasets in the project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), func(agg *catalog.Aggregator) error {
				f := tabular.New("dataset", "project")
				for ds, err := range agg.Walker().Datasets(cmd.Context()) {
					if err != nil {
						return err
					}
					f.Rows = append(f.Rows, []any{ds.ID, ds.ProjectID})
				}
				return printFrame(cmd, f)
			})
		},
	}
}

func newCatalogTablesCmd(run aggregatorRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "tables <dataset>",
		Short: "List tables in a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), func(agg *catalog.Aggregator) error {
				ids, err := agg.Walker().ListTableIDs(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				f := tabular.New("table")
				for _, id := range ids {
					f.Rows = append(f.Rows, []any{id})
				}
				return printFrame(cmd, f)
			})
		},
	}
}

func newCatalogFieldsCmd(run aggregatorRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "fields <dataset> <table>",
		Short: "Show the schema of a table",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), func(agg *catalog.Aggregator) error {
				ref := domain.TableRef{DatasetID: args[0], TableID: args[1]}
				schema, err := agg.Walker().Schema(cmd.Context(), ref)
				if err != nil {
					return err
				}
				f := tabular.New(export.IndexColumn, "type")
				for _, field := range schema {
					f.Rows = append(f.Rows, []any{field.Name, string(field.Type)})
				}
				return printFrame(cmd, f)
			})
		},
	}
}

func newCatalogTypesCmd(run aggregatorRunner) *cobra.Command {
	var xlsx string

	cmd := &cobra.Command{
		Use:   "types",
		Short: "Column types of every table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), func(agg *catalog.Aggregator) error {
				types, err := agg.Types(cmd.Context())
				if err != nil {
					return err
				}
				frames, err := export.Frames(types)
				if err != nil {
					return err
				}
				return emitFrames(cmd, frames, xlsx)
			})
		},
	}
	addWorkbookFlag(cmd, &xlsx)
	return cmd
}

func newCatalogRowsCmd(run aggregatorRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "rows",
		Short: "Row count of every table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), func(agg *catalog.Aggregator) error {
				counts, err := agg.RowCounts(cmd.Context())
				if err != nil {
					return err
				}
				return printFrame(cmd, export.ScalarFrame(counts, "num_rows"))
			})
		},
	}
}

func newCatalogTimestampsCmd(run aggregatorRunner) *cobra.Command {
	var xlsx string

	cmd := &cobra.Command{
		Use:   "timestamps",
		Short: "Timestamp columns of every table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), func(agg *catalog.Aggregator) error {
				cols, err := agg.TimestampColumns(cmd.Context())
				if err != nil {
					return err
				}
				return emitFrames(cmd, export.ListFrames(cols, "column"), xlsx)
			})
		},
	}
	addWorkbookFlag(cmd, &xlsx)
	return cmd
}

func newCatalogDateRangesCmd(a *app, run aggregatorRunner) *cobra.Command {
	var (
		xlsx       string
		asStr      bool
		dateFormat string
	)

	cmd := &cobra.Command{
		Use:   "date-ranges",
		Short: "Min and max date of every timestamp column",
		Long: "Queries MIN and MAX of every timestamp column, cast to DATE. " +
			"With --as-str the dates are rendered with DATE_FORMAT (strftime).",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			layout := a.cfg.DateFormat
			if cmd.Flags().Changed("date-format") {
				layout = dateFormat
			}
			return run(cmd.Context(), func(agg *catalog.Aggregator) error {
				ranges, err := agg.DateRanges(cmd.Context())
				if err != nil {
					return err
				}
				var frames map[domain.TableRef]*tabular.Frame
				if asStr {
					formatted, err := catalog.FormatDateRanges(ranges, layout)
					if err != nil {
						return err
					}
					frames, err = export.Frames(formatted, catalog.MinDateColumn, catalog.MaxDateColumn)
					if err != nil {
						return err
					}
				} else {
					frames, err = export.Frames(ranges, catalog.MinDateColumn, catalog.MaxDateColumn)
					if err != nil {
						return err
					}
				}
				return emitFrames(cmd, frames, xlsx)
			})
		},
	}
	addWorkbookFlag(cmd, &xlsx)
	cmd.Flags().BoolVar(&asStr, "as-str", false, "Render dates as strings using the date format")
	cmd.Flags().StringVar(&dateFormat, "date-format", "", "strftime layout overriding DATE_FORMAT")
	return cmd
}

func addWorkbookFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVar(target, "xlsx", "", "Write one sheet per table to this workbook instead of printing")
	cmd.Flags().Lookup("xlsx").NoOptDefVal = export.DefaultWorkbookName
}

// emitFrames writes per-table frames to a workbook when path is set, and
// prints them otherwise.
func emitFrames(cmd *cobra.Command, frames map[domain.TableRef]*tabular.Frame, path string) error {
	out := cmd.OutOrStdout()
	if path != "" {
		if err := export.WriteWorkbook(path, frames); err != nil {
			return err
		}
		if getOutputFormat(cmd) == "json" {
			return printJSON(out, map[string]any{"workbook": path, "sheets": len(frames)})
		}
		_, _ = fmt.Fprintf(out, "wrote %d sheets to %s\n", len(frames), path)
		return nil
	}
	if getOutputFormat(cmd) == "json" {
		return export.WriteJSON(out, frames)
	}
	for _, ref := range export.SortedRefs(frames) {
		if err := printTitled(out, ref.QualifiedName(), frames[ref]); err != nil {
			return err
		}
	}
	return nil
}

func printFrame(cmd *cobra.Command, f *tabular.Frame) error {
	if getOutputFormat(cmd) == "json" {
		return printJSON(cmd.OutOrStdout(), f.Records())
	}
	return printTable(cmd.OutOrStdout(), f)
}
