// Package quality aggregates per-stage counters into the run's
// observability artifact.
package quality

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Report is one run's data quality summary. RejectedTotal and RejectRate
// are derived from the other counters by Finalize.
type Report struct {
	RunID                     string  `json:"run_id"`
	RunUTC                    string  `json:"run_utc"`
	RawLines                  int     `json:"raw_lines"`
	IngestGood                int     `json:"ingest_good"`
	IngestBad                 int     `json:"ingest_bad"`
	TransformInvalidEventType int     `json:"transform_invalid_event_type"`
	LoadedRows                int     `json:"loaded_rows"`
	DedupRemoved              int     `json:"dedup_removed"`
	NullUserID                int     `json:"null_user_id"`
	RejectedTotal             int     `json:"rejected_total"`
	RejectRate                float64 `json:"reject_rate"`
}

// NewReport stamps a fresh report with a run id and the current UTC time.
func NewReport() *Report {
	return &Report{
		RunID:  uuid.New().String(),
		RunUTC: time.Now().UTC().Format(time.RFC3339),
	}
}

// Finalize computes the derived metrics. The reject rate is defined as 0
// when no raw lines were read.
func (r *Report) Finalize() {
	r.RejectedTotal = r.IngestBad + r.TransformInvalidEventType
	if r.RawLines > 0 {
		r.RejectRate = float64(r.RejectedTotal) / float64(r.RawLines)
	} else {
		r.RejectRate = 0
	}
}

// Write persists the report as indented JSON, rewriting any previous
// run's artifact.
func (r *Report) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	payload, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal quality report: %w", err)
	}
	if err := os.WriteFile(path, append(payload, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write quality report: %w", err)
	}
	return nil
}
