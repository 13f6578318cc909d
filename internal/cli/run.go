package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"starling/internal/pipeline"
)

// NewRunCommand creates the run command: one full batch pass.
func NewRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline: ingest, transform, load, report",
		Example: `  # Run with the conventional data layout
  starling run

  # Run against explicit feeds
  starling run --events-path events.jsonl --users-path users.csv --warehouse-path wh.duckdb`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cfg.Verbose)

			pcfg := pipeline.Config{
				EventsPath:        cfg.EventsPath,
				UsersPath:         cfg.UsersPath,
				IntlSalesPath:     cfg.IntlSalesPath,
				WarehousePath:     cfg.WarehousePath,
				QuarantinePath:    cfg.QuarantinePath(),
				QualityReportPath: cfg.QualityReportPath(),
				PreviewPath:       cfg.PreviewPath(),
				PreviewLimit:      cfg.PreviewLimit,
			}
			if err := pcfg.Validate(); err != nil {
				return err
			}

			report, err := pipeline.New(pcfg, logger).Run(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "run %s complete\n", report.RunID)
			fmt.Fprintf(out, "  raw lines:      %d\n", report.RawLines)
			fmt.Fprintf(out, "  loaded rows:    %d\n", report.LoadedRows)
			fmt.Fprintf(out, "  dedup removed:  %d\n", report.DedupRemoved)
			fmt.Fprintf(out, "  rejected:       %d (rate %.4f)\n", report.RejectedTotal, report.RejectRate)
			fmt.Fprintf(out, "  quarantine:     %s\n", pcfg.QuarantinePath)
			fmt.Fprintf(out, "  quality report: %s\n", pcfg.QualityReportPath)
			return nil
		},
	}
}
