package warehouse

import (
	"context"
	"os"
)

// TableCounts holds per-table row counts.
type TableCounts struct {
	EventTypes int64
	Dates      int64
	Users      int64
	Customers  int64
	Products   int64
	Events     int64
	IntlSales  int64
}

// Stats describes the warehouse file and its contents.
type Stats struct {
	Path      string
	SizeBytes int64
	Tables    TableCounts
}

// Stats returns the database file size and row counts for every table.
func (w *Warehouse) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{Path: w.path}

	if w.path != ":memory:" {
		if info, err := os.Stat(w.path); err == nil {
			stats.SizeBytes = info.Size()
		}
	}

	tables := []struct {
		name  string
		count *int64
	}{
		{"dim_event_types", &stats.Tables.EventTypes},
		{"dim_dates", &stats.Tables.Dates},
		{"dim_users", &stats.Tables.Users},
		{"dim_customers", &stats.Tables.Customers},
		{"dim_products", &stats.Tables.Products},
		{"fact_events", &stats.Tables.Events},
		{"fact_intl_sales", &stats.Tables.IntlSales},
	}
	for _, t := range tables {
		if err := w.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+t.name).Scan(t.count); err != nil {
			return nil, newLoadError(t.name+" count", err)
		}
	}
	return stats, nil
}
