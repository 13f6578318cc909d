package ingest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"starling/internal/model"
)

// ReadIntlSales reads the secondary international/wholesale feed. This is
// a best-effort feed: lines that fail to decode or carry no usable
// timestamp are skipped and counted, not quarantined.
func ReadIntlSales(r io.Reader, logger *slog.Logger) ([]model.IntlSale, int, error) {
	var (
		sales   []model.IntlSale
		skipped int
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var obj map[string]any
		if err := json.Unmarshal([]byte(text), &obj); err != nil {
			skipped++
			continue
		}

		ts, ok := ParseTimestamp(coerceString(obj["ts"]))
		if !ok {
			skipped++
			continue
		}

		dateKey := coerceString(obj["date_key"])
		if dateKey == "" {
			dateKey = ts.Format("2006-01-02")
		}

		sale := model.IntlSale{
			SaleID:        coerceString(obj["sale_id"]),
			TS:            ts,
			DateKey:       dateKey,
			Customer:      strings.TrimSpace(coerceString(obj["customer"])),
			SKU:           strings.TrimSpace(coerceString(obj["sku"])),
			Currency:      coerceString(obj["currency"]),
			SourceDataset: coerceString(obj["source_dataset"]),
		}
		if v := coerceFloat(obj["pcs"]); v != nil {
			sale.Pcs = int(*v)
		}
		if v := coerceFloat(obj["rate"]); v != nil {
			sale.Rate = *v
		}
		if v := coerceFloat(obj["gross_amt"]); v != nil {
			sale.GrossAmt = *v
		}
		sales = append(sales, sale)
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read international sales: %w", err)
	}

	logger.Info("ingest: international sales read",
		slog.Int("rows", len(sales)),
		slog.Int("skipped", skipped))
	return sales, skipped, nil
}

// ReadIntlSalesFile opens path and delegates to ReadIntlSales.
func ReadIntlSalesFile(path string, logger *slog.Logger) ([]model.IntlSale, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open international sales file: %w", err)
	}
	defer f.Close()
	return ReadIntlSales(f, logger)
}
