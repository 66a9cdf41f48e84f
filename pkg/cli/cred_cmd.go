package cli

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"catalog-kit/internal/credential"
	"catalog-kit/internal/tabular"
)

func newCredCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cred",
		Short: "Read, anonymize and convert credential files",
	}

	cmd.AddCommand(newCredReadCmd(a))
	cmd.AddCommand(newCredShowCmd())
	cmd.AddCommand(newCredExportEnvCmd())

	return cmd
}

func newCredReadCmd(a *app) *cobra.Command {
	var (
		anonymize bool
		dump      string
	)

	cmd := &cobra.Command{
		Use:   "read <file>",
		Short: "Print the first profile of an INI credential file",
		Long: "Prints the options of the first section of an INI credential file. " +
			"With --anonymize every value is replaced by its SHA-256 digest; " +
			"with --dump the profile is also written as YAML.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				rec credential.Record
				err error
			)
			if dump != "" {
				rec, err = credential.Convert(args[0], dump, anonymize)
			} else {
				rec, err = credential.Read(args[0])
				if err == nil && anonymize {
					rec = credential.Anonymize(rec)
				}
			}
			if err != nil {
				return err
			}
			if dump != "" {
				a.logger.Info("credential profile written", "path", dump, "anonymized", anonymize)
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(cmd.OutOrStdout(), rec)
			}
			return printTable(cmd.OutOrStdout(), recordFrame(rec))
		},
	}

	cmd.Flags().BoolVar(&anonymize, "anonymize", false, "Replace values with their SHA-256 digest")
	cmd.Flags().StringVar(&dump, "dump", "", "Also write the profile as YAML to this path")
	cmd.Flags().Lookup("dump").NoOptDefVal = credential.DefaultConfigPath

	return cmd
}

func newCredShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <yml>",
		Short: "Print a YAML config document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := credential.ReadConfig(args[0])
			if err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(cmd.OutOrStdout(), doc)
			}
			f := tabular.New("option", "value")
			for _, k := range slices.Sorted(maps.Keys(doc)) {
				f.Rows = append(f.Rows, []any{k, doc[k]})
			}
			return printTable(cmd.OutOrStdout(), f)
		},
	}
}

func newCredExportEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-env <file>",
		Short: "Print AWS export statements for a credential file",
		Long: "Prints shell export statements for AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY " +
			"and AWS_SESSION_TOKEN taken from the first profile. Use: eval \"$(catalog-kit cred export-env FILE)\"",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := credential.Read(args[0])
			if err != nil {
				return err
			}
			lines, err := credential.ExportLines(rec)
			if err != nil {
				return err
			}
			for _, line := range lines {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}

func recordFrame(rec credential.Record) *tabular.Frame {
	f := tabular.New("option", "value")
	for _, k := range slices.Sorted(maps.Keys(rec)) {
		f.Rows = append(f.Rows, []any{k, rec[k]})
	}
	return f
}
