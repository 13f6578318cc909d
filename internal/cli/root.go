// Package cli wires the cobra commands around the pipeline. Entry-point
// glue only; the stages and the loader live in their own packages.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"starling/internal/config"
)

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the starling command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "starling",
		Short:         "Batch event analytics pipeline over a DuckDB star schema",
		Long:          "starling ingests line-delimited JSON events and a CSV user dimension,\nvalidates and normalizes them, loads a star-schema DuckDB warehouse, and\ncomputes daily analytics.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "path to config file (default starling.yaml)")
	flags.String("events-path", "", "raw events JSONL feed")
	flags.String("users-path", "", "user dimension CSV feed")
	flags.String("intl-sales-path", "", "optional international sales JSONL feed")
	flags.String("warehouse-path", "", "DuckDB warehouse file")
	flags.String("output-dir", "", "directory for quarantine, report, and export artifacts")
	flags.Int("preview-limit", 0, "rows in the fact preview export")
	flags.BoolP("verbose", "v", false, "enable debug logging")

	root.AddCommand(
		NewRunCommand(),
		NewReportCommand(),
		NewStatsCommand(),
		NewConvertCommand(),
		NewVersionCommand(),
	)
	return root
}

// loadConfig builds the layered configuration for a command invocation.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	return config.Load(configPath, cmd.Flags())
}

// newLogger builds the run logger; debug level when verbose.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
