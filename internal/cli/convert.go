package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"starling/internal/sources/marketplace"
)

// NewConvertCommand creates the convert command: raw marketplace report
// CSVs to the canonical JSONL feeds the pipeline ingests.
func NewConvertCommand() *cobra.Command {
	var (
		saleReport string
		intlReport string
		stagingDir string
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert marketplace sale-report CSVs into canonical JSONL feeds",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if saleReport == "" && intlReport == "" {
				return fmt.Errorf("nothing to convert: pass --sale-report and/or --international-report")
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cfg.Verbose)

			if err := os.MkdirAll(stagingDir, 0750); err != nil {
				return fmt.Errorf("failed to create staging directory: %w", err)
			}

			report := map[string]*marketplace.Stats{}

			if saleReport != "" {
				out, err := os.Create(filepath.Join(stagingDir, "events.jsonl"))
				if err != nil {
					return fmt.Errorf("failed to create events feed: %w", err)
				}
				stats, err := marketplace.ConvertSaleReport(saleReport, out, logger)
				out.Close()
				if err != nil {
					return err
				}
				report[filepath.Base(saleReport)] = stats
			}

			if intlReport != "" {
				out, err := os.Create(filepath.Join(stagingDir, "international_sales.jsonl"))
				if err != nil {
					return fmt.Errorf("failed to create international sales feed: %w", err)
				}
				stats, err := marketplace.ConvertInternationalReport(intlReport, out, logger)
				out.Close()
				if err != nil {
					return err
				}
				report[filepath.Base(intlReport)] = stats
			}

			payload, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			reportPath := filepath.Join(stagingDir, "loader_report.json")
			if err := os.WriteFile(reportPath, append(payload, '\n'), 0644); err != nil {
				return fmt.Errorf("failed to write loader report: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "converted feeds written to %s\n", stagingDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&saleReport, "sale-report", "", "domestic sale report CSV")
	cmd.Flags().StringVar(&intlReport, "international-report", "", "international sale report CSV")
	cmd.Flags().StringVar(&stagingDir, "staging-dir", "data/staging", "directory for canonical JSONL feeds")
	return cmd
}
