package marketplace

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func decodeLines(t *testing.T, out *bytes.Buffer) []map[string]any {
	t.Helper()
	var records []map[string]any
	scanner := bufio.NewScanner(out)
	for scanner.Scan() {
		var obj map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &obj))
		records = append(records, obj)
	}
	require.NoError(t, scanner.Err())
	return records
}

func TestConvertSaleReport(t *testing.T) {
	csvPath := writeCSV(t, "sale_report.csv",
		"Order Date,Order ID,SKU,Qty,Item Price,Amount,Currency,Ship Country\n"+
			"2022-04-30,O1,SKU-1,2,10.00,,INR,IN\n"+
			"2022-04-30,O2,SKU-2,1,,\"₹1,234.50\",INR,IN\n"+
			",O3,SKU-3,1,5.00,5.00,INR,IN\n"+
			"2022-04-30,O4,SKU-4,1,,300000,INR,IN\n")

	var out bytes.Buffer
	stats, err := ConvertSaleReport(csvPath, &out, discard())
	require.NoError(t, err)

	assert.Equal(t, 4, stats.RowsTotal)
	assert.Equal(t, 2, stats.Written)
	assert.Equal(t, 1, stats.SkippedNoTS)
	assert.Equal(t, 1, stats.SkippedOutlier)

	records := decodeLines(t, &out)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "purchase", first["event"])
	// date-only timestamps anchor to noon
	assert.Equal(t, "2022-04-30T12:00:00", first["ts"])
	// qty * unit price fallback when the amount column is blank
	assert.InDelta(t, 20.0, first["amount"].(float64), 1e-9)
	assert.Equal(t, "O1", first["order_id"])
	assert.Equal(t, "SKU-1", first["product_id"])
	assert.Equal(t, "sale_report.csv", first["source_dataset"])

	// currency symbol and thousands separator stripped
	assert.InDelta(t, 1234.50, records[1]["amount"].(float64), 1e-9)
}

func TestConvertSaleReportStableIDs(t *testing.T) {
	content := "Order Date,Order ID,SKU,Amount\n2022-04-30,O1,SKU-1,10.00\n"
	csvPath := writeCSV(t, "sale_report.csv", content)

	var first, second bytes.Buffer
	_, err := ConvertSaleReport(csvPath, &first, discard())
	require.NoError(t, err)
	_, err = ConvertSaleReport(csvPath, &second, discard())
	require.NoError(t, err)

	a := decodeLines(t, &first)
	b := decodeLines(t, &second)
	require.Len(t, a, 1)
	require.Len(t, b, 1)
	id := a[0]["event_id"].(string)
	assert.Equal(t, id, b[0]["event_id"])
	assert.Len(t, id, 24)
}

func TestConvertSaleReportUserFallbacks(t *testing.T) {
	csvPath := writeCSV(t, "sale_report.csv",
		"Order Date,Order ID,Customer Email,SKU,Amount\n"+
			"2022-04-30,O1,buyer@example.com,SKU-1,10\n"+
			"2022-04-30,O2,,SKU-2,10\n"+
			"2022-04-30,,,,10\n")

	var out bytes.Buffer
	_, err := ConvertSaleReport(csvPath, &out, discard())
	require.NoError(t, err)

	records := decodeLines(t, &out)
	require.Len(t, records, 3)
	assert.Equal(t, "buyer@example.com", records[0]["user_id"])
	assert.Equal(t, "O2", records[1]["user_id"])
	assert.Equal(t, "unknown_user", records[2]["user_id"])
	assert.Equal(t, "unknown_product", records[2]["product_id"])
}

func TestConvertInternationalReport(t *testing.T) {
	csvPath := writeCSV(t, "intl_report.csv",
		"DATE,CUSTOMER,SKU,PCS,RATE,GROSS AMT\n"+
			"04-30-22,ACME,SKU-1,3,9.50,28.50\n"+
			"SKU-JUNK-ROW,,,,,\n"+
			"04-30-22,ACME,SKU-2,1,6000000,6000000\n")

	var out bytes.Buffer
	stats, err := ConvertInternationalReport(csvPath, &out, discard())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.RowsTotal)
	assert.Equal(t, 1, stats.Written)
	assert.Equal(t, 1, stats.SkippedBadDate)
	assert.Equal(t, 1, stats.SkippedOutlier)

	records := decodeLines(t, &out)
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "2022-04-30T12:00:00", rec["ts"])
	assert.Equal(t, "2022-04-30", rec["date_key"])
	assert.Equal(t, "ACME", rec["customer"])
	assert.Equal(t, "SKU-1", rec["sku"])
	assert.InDelta(t, 3, rec["pcs"].(float64), 1e-9)
	assert.InDelta(t, 28.50, rec["gross_amt"].(float64), 1e-9)
	assert.Equal(t, "intl_report.csv", rec["source_dataset"])
}

func TestConvertInternationalReportDefaults(t *testing.T) {
	csvPath := writeCSV(t, "intl_report.csv",
		"DATE,CUSTOMER,SKU,GROSS AMT\n"+
			"04-30-22,,,100\n")

	var out bytes.Buffer
	_, err := ConvertInternationalReport(csvPath, &out, discard())
	require.NoError(t, err)

	records := decodeLines(t, &out)
	require.Len(t, records, 1)
	assert.Equal(t, "unknown_customer", records[0]["customer"])
	assert.Equal(t, "unknown_sku", records[0]["sku"])
	assert.Equal(t, "USD", records[0]["currency"])
}

func TestTryParseTSLayouts(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"2022-04-30", "2022-04-30T12:00:00"},
		{"04-30-22", "2022-04-30T12:00:00"},
		{"2022-04-30 08:15:00", "2022-04-30T08:15:00"},
		{"04/30/2022", "2022-04-30T12:00:00"},
		{"garbage", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, tryParseTS(tt.raw))
		})
	}
}

func TestToFloat(t *testing.T) {
	assert.InDelta(t, 1234.5, toFloat("₹1,234.50"), 1e-9)
	assert.InDelta(t, 99.99, toFloat("$99.99"), 1e-9)
	assert.Zero(t, toFloat("n/a"))
	assert.Zero(t, toFloat(""))
}

func TestToInt(t *testing.T) {
	assert.Equal(t, 12, toInt("12.0"))
	assert.Equal(t, 1200, toInt("1,200"))
	assert.Zero(t, toInt("x"))
}
