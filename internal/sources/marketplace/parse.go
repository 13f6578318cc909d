package marketplace

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// dateToken matches bare MM-DD-YY date values, e.g. "04-30-22".
var dateToken = regexp.MustCompile(`^\d{2}-\d{2}-\d{2}$`)

// tsFormats are the date/time layouts seen across report exports.
var tsFormats = []string{
	"2006-01-02",
	"02-01-2006",
	"01/02/2006",
	"02/01/2006",
	"2006-01-02 15:04:05",
	"01/02/2006 15:04",
	"02/01/2006 15:04",
	"01-02-06",
	"02-01-06",
}

// tsColumns are the header names a timestamp may hide behind.
var tsColumns = []string{
	"Date", "DATE", "Order Date", "OrderDate", "order_date", "date",
	"Order Date & Time", "Timestamp", "ts",
}

// currencySymbols get stripped from money values before parsing.
var currencySymbols = []string{"$", "₹", "€", "£"}

// eachRow streams a CSV file as header-keyed rows.
func eachRow(path string, fn func(row map[string]string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open report: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read report header: %w", err)
	}
	// Exports sometimes carry a UTF-8 BOM on the first header cell.
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	for {
		record, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read report row: %w", err)
		}

		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			}
		}
		if err := fn(row); err != nil {
			return err
		}
	}
}

// parseRowTS finds a timestamp for a row: first the known timestamp
// columns, then a scan of all values for a bare date token. Returns an
// ISO 8601 string, or "" when nothing parses.
func parseRowTS(row map[string]string) string {
	for _, col := range tsColumns {
		if v := strings.TrimSpace(row[col]); v != "" {
			if ts := tryParseTS(v); ts != "" {
				return ts
			}
		}
	}
	for _, v := range row {
		s := strings.TrimSpace(v)
		if dateToken.MatchString(s) {
			if ts := tryParseTS(s); ts != "" {
				return ts
			}
		}
	}
	return ""
}

// tryParseTS parses raw against the known layouts. Date-only values are
// anchored to noon so they survive timezone rendering without shifting
// days.
func tryParseTS(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	for _, layout := range tsFormats {
		ts, err := time.ParseInLocation(layout, raw, time.UTC)
		if err != nil {
			continue
		}
		if ts.Hour() == 0 && ts.Minute() == 0 && ts.Second() == 0 && len(raw) <= 10 {
			ts = ts.Add(12 * time.Hour)
		}
		return ts.Format("2006-01-02T15:04:05")
	}
	return ""
}

// pick returns the first non-blank value among the aliased columns.
func pick(row map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(row[k]); v != "" {
			return v
		}
	}
	return ""
}

// toFloat parses a money value, tolerating thousands separators and
// currency symbols. Unparsable values become 0.
func toFloat(raw string) float64 {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if raw == "" {
		return 0
	}
	for _, sym := range currencySymbols {
		raw = strings.ReplaceAll(raw, sym, "")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return f
}

// toInt parses a quantity, tolerating "12.0" style values.
func toInt(raw string) int {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if raw == "" {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return int(f)
}

// hashID derives a stable 24-char id from the identifying parts of a row,
// so re-converting the same report yields the same ids.
func hashID(parts ...string) string {
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])[:24]
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
