package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"catalog-kit/internal/config"
	"catalog-kit/internal/domain"
)

var (
	version = "dev"
	commit  = "none"
)

// Execute runs the CLI.
func Execute() int {
	rootCmd := newRootCmd(newApp())
	if err := rootCmd.Execute(); err != nil {
		output, _ := rootCmd.PersistentFlags().GetString("output")
		if output == "json" {
			errObj := map[string]any{
				"error": err.Error(),
			}
			if kind := errorKind(err); kind != "" {
				errObj["kind"] = kind
			}
			_ = printJSON(os.Stdout, errObj)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func errorKind(err error) string {
	var (
		notFound    *domain.NotFoundError
		validation  *domain.ValidationError
		unsupported *domain.UnsupportedFormatError
		decodeErr   *domain.DecodeError
	)
	switch {
	case errors.As(err, &unsupported):
		return "unsupported_format"
	case errors.As(err, &decodeErr):
		return "decode"
	case errors.As(err, &validation):
		return "validation"
	case errors.As(err, &notFound):
		return "not_found"
	default:
		return ""
	}
}

func newRootCmd(a *app) *cobra.Command {
	var (
		output   string
		logLevel string
		envFile  string
	)

	rootCmd := &cobra.Command{
		Use:           "catalog-kit",
		Short:         "Warehouse catalog and object-store toolkit",
		Long:          "Walk a BigQuery catalog, export its metadata, manage credential files and load objects into tables.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateOutputFormat(output); err != nil {
				return err
			}
			if skipsConfig(cmd) {
				return nil
			}
			if err := config.LoadDotEnv(envFile); err != nil {
				return err
			}
			cfg, err := config.LoadFromEnv()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			// Flag > env > default
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			a.cfg = cfg
			a.logger = newLogger(cmd.ErrOrStderr(), cfg)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "Output format (table, json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides LOG_LEVEL")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Dotenv file to load before reading the environment")

	rootCmd.AddCommand(newCatalogCmd(a))
	rootCmd.AddCommand(newCredCmd(a))
	rootCmd.AddCommand(newObjectCmd(a))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// skipConfigAnnotation marks commands that run without loading configuration.
const skipConfigAnnotation = "skip-config"

func skipsConfig(cmd *cobra.Command) bool {
	if cmd.Name() == cobra.ShellCompRequestCmd || cmd.Name() == cobra.ShellCompNoDescRequestCmd {
		return true
	}
	_, ok := cmd.Annotations[skipConfigAnnotation]
	return ok
}

func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.JSONLogs() {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "completion [bash|zsh|fish|powershell]",
		Short:       "Generate shell completion scripts",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	}
	return cmd
}
