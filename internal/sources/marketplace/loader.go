// Package marketplace converts raw marketplace sale-report CSVs into the
// canonical JSONL feeds the pipeline ingests: purchase events from the
// domestic report and wholesale lines from the international report.
// Column names vary between report exports, so lookups go through alias
// lists.
package marketplace

import (
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
)

// Outlier guardrails. A consumer order line above the event cap, or a
// wholesale line above the sale cap, means a broken amount parse upstream.
const (
	maxEventAmount = 250000
	maxSaleAmount  = 5000000
)

// Stats counts what one report conversion did.
type Stats struct {
	RowsTotal      int `json:"rows_total"`
	Written        int `json:"written"`
	SkippedNoTS    int `json:"skipped_no_ts"`
	SkippedBadDate int `json:"skipped_bad_date_value"`
	SkippedOutlier int `json:"skipped_amount_outlier"`
}

// ConvertSaleReport turns the domestic sale report CSV into canonical
// purchase-event JSONL on out.
func ConvertSaleReport(csvPath string, out io.Writer, logger *slog.Logger) (*Stats, error) {
	stats := &Stats{}
	source := filepath.Base(csvPath)

	err := eachRow(csvPath, func(row map[string]string) error {
		stats.RowsTotal++

		ts := parseRowTS(row)
		if ts == "" {
			stats.SkippedNoTS++
			return nil
		}

		orderID := pick(row, "Order ID", "Order Id", "order_id", "OrderID", "ID")
		userID := pick(row,
			"Customer Email", "Email", "Buyer Email", "Phone", "Customer", "Buyer", "Ship Name", "Name")
		if userID == "" {
			userID = orderID
		}
		if userID == "" {
			userID = "unknown_user"
		}

		productID := pick(row,
			"ASIN", "SKU", "SKU Code", "Product ID", "product_id", "Product", "Item", "Title", "Product Name", "Style")
		if productID == "" {
			productID = "unknown_product"
		}

		qty := toInt(pick(row, "Qty", "Quantity", "quantity", "Units"))
		unitPrice := toFloat(pick(row, "Unit Price", "Price", "Item Price", "unit_price"))
		amount := toFloat(pick(row, "Amount", "Sales", "Total", "Order Total", "line_total"))
		if amount == 0 && unitPrice > 0 && qty > 0 {
			amount = unitPrice * float64(qty)
		}
		if amount > maxEventAmount {
			stats.SkippedOutlier++
			return nil
		}

		currency := pick(row, "Currency", "currency")
		if currency == "" {
			currency = "USD"
		}
		country := pick(row, "Ship Country", "ship-country", "Country", "country")
		if country == "" {
			country = "unknown"
		}

		record := map[string]any{
			"event_id":       hashID(source, orderID, productID, formatAmount(amount), ts),
			"ts":             ts,
			"user_id":        userID,
			"event":          "purchase",
			"amount":         amount,
			"currency":       currency,
			"country":        country,
			"order_id":       orderID,
			"product_id":     productID,
			"source_dataset": source,
		}
		if err := writeJSONLine(out, record); err != nil {
			return err
		}
		stats.Written++
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("marketplace: sale report converted",
		slog.String("source", source),
		slog.Int("rows", stats.RowsTotal),
		slog.Int("written", stats.Written),
		slog.Int("skipped_no_ts", stats.SkippedNoTS),
		slog.Int("skipped_outlier", stats.SkippedOutlier))
	return stats, nil
}

// ConvertInternationalReport turns the international sale report CSV into
// canonical wholesale-line JSONL on out. The report's DATE column is
// known to carry SKU and customer junk, so only rows whose DATE is a real
// date token are accepted.
func ConvertInternationalReport(csvPath string, out io.Writer, logger *slog.Logger) (*Stats, error) {
	stats := &Stats{}
	source := filepath.Base(csvPath)

	err := eachRow(csvPath, func(row map[string]string) error {
		stats.RowsTotal++

		rawDate := pick(row, "DATE", "Date", "date")
		if rawDate != "" && !dateToken.MatchString(rawDate) {
			stats.SkippedBadDate++
			return nil
		}

		ts := parseRowTS(row)
		if ts == "" {
			stats.SkippedNoTS++
			return nil
		}

		customer := pick(row, "CUSTOMER", "Customer", "customer")
		if customer == "" {
			customer = "unknown_customer"
		}
		sku := pick(row, "SKU", "Sku", "sku")
		if sku == "" {
			sku = "unknown_sku"
		}

		pcs := toInt(pick(row, "PCS", "Qty", "Quantity", "quantity"))
		rate := toFloat(pick(row, "RATE", "Rate", "rate"))
		grossAmt := toFloat(pick(row, "GROSS AMT", "Gross Amt", "gross_amt", "Amount", "amount"))
		if grossAmt > maxSaleAmount {
			stats.SkippedOutlier++
			return nil
		}

		currency := pick(row, "Currency", "currency")
		if currency == "" {
			currency = "USD"
		}

		record := map[string]any{
			"sale_id":        hashID(source, customer, sku, formatAmount(grossAmt), ts),
			"ts":             ts,
			"date_key":       ts[:10],
			"customer":       customer,
			"sku":            sku,
			"pcs":            pcs,
			"rate":           rate,
			"gross_amt":      grossAmt,
			"currency":       currency,
			"source_dataset": source,
		}
		if err := writeJSONLine(out, record); err != nil {
			return err
		}
		stats.Written++
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("marketplace: international report converted",
		slog.String("source", source),
		slog.Int("rows", stats.RowsTotal),
		slog.Int("written", stats.Written),
		slog.Int("skipped_bad_date", stats.SkippedBadDate),
		slog.Int("skipped_no_ts", stats.SkippedNoTS),
		slog.Int("skipped_outlier", stats.SkippedOutlier))
	return stats, nil
}

func writeJSONLine(out io.Writer, record map[string]any) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	if _, err := out.Write(append(payload, '\n')); err != nil {
		return err
	}
	return nil
}
