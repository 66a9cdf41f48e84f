package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"catalog-kit/internal/credential"
	"catalog-kit/internal/decode"
	"catalog-kit/internal/objectstore"
	"catalog-kit/internal/service/loader"
	"catalog-kit/internal/tabular"
)

func newObjectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "object",
		Short: "Fetch objects from S3, GCS or Azure and parse them into tables",
	}

	cmd.AddCommand(newObjectGetCmd(a))
	cmd.AddCommand(newObjectURLCmd())

	return cmd
}

func newObjectGetCmd(a *app) *cobra.Command {
	var (
		format      string
		limit       int
		credentials string
	)

	cmd := &cobra.Command{
		Use:   "get <uri>...",
		Short: "Fetch objects and print them as tables",
		Long: "Fetches each object URI (s3://, gs://, az://) and parses it as parquet, csv, json or excel. " +
			"The format is inferred from the key's extension unless --format is given.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if credentials != "" {
				rec, err := credential.Read(credentials)
				if err != nil {
					return err
				}
				if err := credential.SetAWSEnv(rec); err != nil {
					return err
				}
			}

			router, closeStores, err := a.router(ctx, args)
			if err != nil {
				return err
			}
			defer closeStores()

			dec, closeDecoder, err := a.openDecoder()
			if err != nil {
				return err
			}
			defer closeDecoder()

			results := make(map[string][]map[string]any, len(args))
			for _, uri := range args {
				loc, store, err := router.Resolve(uri)
				if err != nil {
					return err
				}
				l := loader.NewLoader(store, dec, a.logger)

				var frame *tabular.Frame
				if format != "" {
					frame, err = l.Load(ctx, loc.Bucket, loc.Key, format)
				} else {
					frame, err = l.LoadAuto(ctx, loc.Bucket, loc.Key)
				}
				if err != nil {
					return fmt.Errorf("%s: %w", loc, err)
				}
				frame = frame.Head(limit)

				if getOutputFormat(cmd) == "json" {
					results[loc.String()] = frame.Records()
					continue
				}
				if err := printTitled(cmd.OutOrStdout(), loc.String(), frame); err != nil {
					return err
				}
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(cmd.OutOrStdout(), results)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", fmt.Sprintf("Object format %v; inferred from the key when empty", decode.Formats))
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum rows to print per object (negative for all)")
	cmd.Flags().StringVar(&credentials, "credentials", "", "INI credential file whose first profile sets the AWS_* variables")

	return cmd
}

func newObjectURLCmd() *cobra.Command {
	var scheme, site string

	cmd := &cobra.Command{
		Use:   "url <bucket> <key>",
		Short: "Print the static-website URL of an object",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			u := objectstore.WebsiteURL(args[0], args[1], scheme, site)
			if getOutputFormat(cmd) == "json" {
				return printJSON(cmd.OutOrStdout(), map[string]string{"url": u})
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		},
	}

	cmd.Flags().StringVar(&scheme, "scheme", objectstore.DefaultWebsiteScheme, "URL scheme")
	cmd.Flags().StringVar(&site, "site", objectstore.DefaultWebsiteSite, "Website endpoint host")

	return cmd
}
