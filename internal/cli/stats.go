package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"starling/internal/analytics"
	"starling/internal/warehouse"
)

// NewStatsCommand creates the stats command: warehouse file and table
// sizes.
func NewStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show warehouse file size and per-table row counts",
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

			stats, err := wh.Stats(cmd.Context())
			if err != nil {
				return err
			}

			rows := [][]string{
				{"dim_event_types", strconv.FormatInt(stats.Tables.EventTypes, 10)},
				{"dim_dates", strconv.FormatInt(stats.Tables.Dates, 10)},
				{"dim_users", strconv.FormatInt(stats.Tables.Users, 10)},
				{"dim_customers", strconv.FormatInt(stats.Tables.Customers, 10)},
				{"dim_products", strconv.FormatInt(stats.Tables.Products, 10)},
				{"fact_events", strconv.FormatInt(stats.Tables.Events, 10)},
				{"fact_intl_sales", strconv.FormatInt(stats.Tables.IntlSales, 10)},
			}
			title := stats.Path + " (" + strconv.FormatInt(stats.SizeBytes, 10) + " bytes)"
			analytics.RenderTable(cmd.OutOrStdout(), title, []string{"table", "rows"}, rows)
			return nil
		},
	}
}
