package pipeline

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEvents = `{"event_id":"e1","event":"signup","ts":"2026-01-01T10:00:00Z","user_id":"u1"}
{"event_id":"e2","event":"purchase","ts":"2026-01-01T11:00:00Z","user_id":"u1","amount":"19.99"}
{"event_id":"e2","event":"purchase","ts":"2026-01-01T11:05:00Z","user_id":"u1","amount":21.50}
{"event_id":"e3","event":"page_view","ts":"2026-01-01T12:00:00Z","user_id":"u2"}
{"event_id":"e4","event":"logout","ts":"2026-01-01T13:00:00Z","user_id":"u2"}
{"event_id":"e5","event":"pageview","ts":"BAD_TIME","user_id":"u2"}
{"event_id":"e6","event":"pageview","ts":"2026-01-01T14:00:00Z","user_id":"nan"}
not json at all
{"user_id":"u9"}
`

const testUsers = `user_id,country,signup_source
u1,US,organic
u2,IN,paid
`

const testIntlSales = `{"sale_id":"s1","ts":"2026-02-01T12:00:00Z","customer":"ACME","sku":"SKU-1","pcs":3,"rate":9.5,"gross_amt":28.5,"currency":"INR"}
{"sale_id":"s2","ts":"2026-02-01T12:00:00Z","customer":"","sku":"SKU-2","gross_amt":10}
`

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func testConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()
	return Config{
		EventsPath:        writeFixture(t, dir, "events.jsonl", testEvents),
		UsersPath:         writeFixture(t, dir, "users.csv", testUsers),
		IntlSalesPath:     writeFixture(t, dir, "international_sales.jsonl", testIntlSales),
		WarehousePath:     filepath.Join(dir, "warehouse.duckdb"),
		QuarantinePath:    filepath.Join(dir, "bad_records.jsonl"),
		QualityReportPath: filepath.Join(dir, "data_quality_report.json"),
		PreviewPath:       filepath.Join(dir, "fact_events_preview.csv"),
		PreviewLimit:      10,
	}
}

func TestRun(t *testing.T) {
	cfg := testConfig(t)
	report, err := New(cfg, nil).Run(context.Background())
	require.NoError(t, err)

	// 9 raw lines: 7 parse with valid timestamps, 2 fail at ingest
	// (undecodable line, missing fields) plus the bad-timestamp record.
	assert.Equal(t, 9, report.RawLines)
	assert.Equal(t, 6, report.IngestGood)
	assert.Equal(t, 3, report.IngestBad)
	assert.Equal(t, 1, report.TransformInvalidEventType)
	assert.Equal(t, 1, report.DedupRemoved)
	assert.Equal(t, 1, report.NullUserID)
	assert.Equal(t, 4, report.LoadedRows)
	assert.Equal(t, 4, report.RejectedTotal)
	assert.InDelta(t, 4.0/9.0, report.RejectRate, 1e-9)
}

func TestRunWritesArtifacts(t *testing.T) {
	cfg := testConfig(t)
	report, err := New(cfg, nil).Run(context.Background())
	require.NoError(t, err)

	// quarantine holds ingest rejections followed by transform rejections
	f, err := os.Open(cfg.QuarantinePath)
	require.NoError(t, err)
	defer f.Close()

	var reasons []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var obj map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &obj))
		reasons = append(reasons, obj["_reason"].(string))
	}
	require.NoError(t, scanner.Err())
	require.Len(t, reasons, 4)
	assert.Equal(t, "invalid_timestamp", reasons[0])
	assert.True(t, strings.HasPrefix(reasons[1], "json_decode_error="))
	assert.True(t, strings.HasPrefix(reasons[2], "missing_fields="))
	assert.Equal(t, "invalid_event_type", reasons[3])

	payload, err := os.ReadFile(cfg.QualityReportPath)
	require.NoError(t, err)
	var persisted map[string]any
	require.NoError(t, json.Unmarshal(payload, &persisted))
	assert.Equal(t, report.RunID, persisted["run_id"])

	preview, err := os.ReadFile(cfg.PreviewPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(preview)), "\n")
	assert.Len(t, lines, 5) // header + 4 fact rows
	assert.True(t, strings.HasPrefix(lines[0], "event_id,ts,"))
}

func TestRunIdempotent(t *testing.T) {
	cfg := testConfig(t)
	p := New(cfg, nil)

	first, err := p.Run(context.Background())
	require.NoError(t, err)
	second, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.LoadedRows, second.LoadedRows)
	assert.Equal(t, first.RejectedTotal, second.RejectedTotal)
}

func TestRunWithoutIntlFeed(t *testing.T) {
	cfg := testConfig(t)
	cfg.IntlSalesPath = filepath.Join(t.TempDir(), "missing.jsonl")

	_, err := New(cfg, nil).Run(context.Background())
	require.NoError(t, err)
}

func TestRunMissingEventsFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.EventsPath = filepath.Join(t.TempDir(), "missing.jsonl")

	_, err := New(cfg, nil).Run(context.Background())
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, cfg.Validate())

	missing := cfg
	missing.EventsPath = ""
	assert.Error(t, missing.Validate())

	unreadable := cfg
	unreadable.UsersPath = filepath.Join(t.TempDir(), "missing.csv")
	assert.Error(t, unreadable.Validate())

	noWarehouse := cfg
	noWarehouse.WarehousePath = ""
	assert.Error(t, noWarehouse.Validate())
}
