package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/blimu-dev/specir/internal/cli"
	"github.com/blimu-dev/specir/pkg/generator"
)

func main() {
	var logOpts cli.LogOptions
	var logger *slog.Logger

	root := &cobra.Command{
		Use:           "specir",
		Short:         "Compile OpenAPI documents to an IR and generate clients from it",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			logger, err = logOpts.NewLogger(os.Stderr)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			return nil
		},
	}
	logOpts.Bind(root.PersistentFlags())

	root.AddCommand(newGenerateCmd(&logger))
	root.AddCommand(newValidateCmd(&logger))
	root.AddCommand(newInspectCmd(&logger))

	if err := root.Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func newGenerateCmd(logger **slog.Logger) *cobra.Command {
	var configPath string
	var singleClient string
	var check bool
	var fallback generator.FallbackOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate clients",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunGenerate(cli.RunGenerateParams{
				ConfigPath:   configPath,
				SingleClient: singleClient,
				Fallback:     fallback,
				Check:        check,
				Logger:       *logger,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to specir.yaml config")
	cmd.Flags().StringVar(&singleClient, "client", "", "Generate only the named client from config")
	cmd.Flags().BoolVar(&check, "check", false, "Report stale files instead of writing them")
	// Fallback single-client flags
	cmd.Flags().StringVar(&fallback.Spec, "input", "", "OpenAPI spec file or URL (yaml/json)")
	cmd.Flags().StringVar(&fallback.Type, "type", "", "Client type (typescript or go)")
	cmd.Flags().StringVar(&fallback.OutDir, "out", "", "Output directory")
	cmd.Flags().StringVar(&fallback.PackageName, "package-name", "", "Package name")
	cmd.Flags().StringVar(&fallback.Name, "client-name", "", "Client name")
	cmd.Flags().StringVar(&fallback.SplitBy, "split-by", "", "Group endpoints by tag, operation or route")
	cmd.Flags().StringArrayVar(&fallback.IncludeTags, "include-tags", nil, "Regex patterns for tags to include")
	cmd.Flags().StringArrayVar(&fallback.ExcludeTags, "exclude-tags", nil, "Regex patterns for tags to exclude")
	cmd.Flags().StringVar(&fallback.Naming, "naming", "", "Operation naming strategy (use_operation_id or use_route_based)")
	cmd.Flags().StringArrayVar(&fallback.Aliases, "alias", nil, "Operation name override as from=to")

	return cmd
}

func newValidateCmd(logger **slog.Logger) *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an OpenAPI spec",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunValidate(input, *logger)
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "OpenAPI spec file or URL (yaml/json)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func newInspectCmd(logger **slog.Logger) *cobra.Command {
	var p cli.InspectParams
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the schemas, operations and modules compiled from a spec",
		RunE: func(cmd *cobra.Command, args []string) error {
			p.Logger = *logger
			return cli.RunInspect(cmd.OutOrStdout(), p)
		},
	}
	cmd.Flags().StringVar(&p.Input, "input", "", "OpenAPI spec file or URL (yaml/json)")
	cmd.Flags().StringVar(&p.Naming, "naming", "", "Operation naming strategy (use_operation_id or use_route_based)")
	cmd.Flags().StringArrayVar(&p.Aliases, "alias", nil, "Operation name override as from=to")
	cmd.Flags().StringVarP(&p.Format, "format", "o", "text", "Output format (text or yaml)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
