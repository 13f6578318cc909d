package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"starling/internal/analytics"
	"starling/internal/warehouse"
)

// NewReportCommand creates the report command: read-only daily analytics
// over the warehouse, rendered as tables and exported as CSV.
func NewReportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Compute daily analytics (DAU, revenue, funnel, event mix)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cfg.Verbose)

			wh, err := warehouse.Open(cfg.WarehousePath, logger)
			if err != nil {
				return err
			}
			defer wh.Close()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			exports := cfg.ExportsDir()

			dau, err := analytics.QueryDAU(ctx, wh.DB())
			if err != nil {
				return err
			}
			dauHeader := []string{"event_date", "dau"}
			analytics.RenderTable(out, "DAU", dauHeader, analytics.DAUCells(dau))
			if err := analytics.WriteCSV(filepath.Join(exports, "dau.csv"), dauHeader, analytics.DAUCells(dau)); err != nil {
				return err
			}

			revenue, err := analytics.QueryRevenue(ctx, wh.DB())
			if err != nil {
				return err
			}
			revenueHeader := []string{"event_date", "revenue"}
			analytics.RenderTable(out, "Revenue", revenueHeader, analytics.RevenueCells(revenue))
			if err := analytics.WriteCSV(filepath.Join(exports, "revenue.csv"), revenueHeader, analytics.RevenueCells(revenue)); err != nil {
				return err
			}

			counts, err := analytics.QueryEventCounts(ctx, wh.DB())
			if err != nil {
				return err
			}
			countsHeader := []string{"event_date", "event", "events"}
			analytics.RenderTable(out, "Event Mix", countsHeader, analytics.EventCountCells(counts))
			if err := analytics.WriteCSV(filepath.Join(exports, "event_counts.csv"), countsHeader, analytics.EventCountCells(counts)); err != nil {
				return err
			}

			funnel, err := analytics.QueryFunnel(ctx, wh.DB())
			if err != nil {
				return err
			}
			funnelHeader := []string{"event_date", "signup_users", "purchasers", "signup_to_purchase_rate"}
			analytics.RenderTable(out, "Funnel", funnelHeader, analytics.FunnelCells(funnel))
			return analytics.WriteCSV(filepath.Join(exports, "funnel.csv"), funnelHeader, analytics.FunnelCells(funnel))
		},
	}
}
