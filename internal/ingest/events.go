// Package ingest reads the raw input feeds: line-delimited JSON events,
// the CSV user dimension, and the optional international sales feed.
// Records that fail validation are quarantined with a reason code, never
// dropped silently.
package ingest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"starling/internal/model"
)

// requiredFields must be present on every raw event object.
var requiredFields = []string{"event_id", "event", "ts"}

// Result is the outcome of reading the raw event feed: good records with
// parsed timestamps, quarantined records with reasons, and the raw line
// count (blank lines included).
type Result struct {
	Events   []model.Event
	Bad      []model.BadRecord
	RawLines int
}

// ReadEvents consumes line-delimited JSON from r. For each non-blank line:
// decode, check required fields, parse the timestamp in UTC. Failures go
// to Result.Bad with the 1-based line number; nothing is written here,
// callers persist the quarantine output.
func ReadEvents(r io.Reader, logger *slog.Logger) (*Result, error) {
	res := &Result{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var obj map[string]any
		if err := json.Unmarshal([]byte(text), &obj); err != nil {
			res.Bad = append(res.Bad, model.NewUnparsableRecord(text, line, "json_decode_error="+err.Error()))
			continue
		}

		if missing := missingFields(obj); len(missing) > 0 {
			reason := "missing_fields=" + strings.Join(missing, ",")
			res.Bad = append(res.Bad, model.NewBadRecord(obj, line, reason))
			continue
		}

		ts, ok := ParseTimestamp(coerceString(obj["ts"]))
		if !ok {
			res.Bad = append(res.Bad, model.NewBadRecord(obj, line, model.ReasonInvalidTimestamp))
			continue
		}

		res.Events = append(res.Events, model.Event{
			EventID: coerceString(obj["event_id"]),
			TS:      ts,
			UserID:  coerceStringPtr(obj["user_id"]),
			Kind:    coerceString(obj["event"]),
			Amount:  coerceFloat(obj["amount"]),
			Page:    coerceStringPtr(obj["page"]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}

	res.RawLines = line
	logger.Info("ingest: events read",
		slog.Int("raw_lines", res.RawLines),
		slog.Int("good", len(res.Events)),
		slog.Int("bad", len(res.Bad)))
	return res, nil
}

// ReadEventsFile opens path and delegates to ReadEvents.
func ReadEventsFile(path string, logger *slog.Logger) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open events file: %w", err)
	}
	defer f.Close()
	return ReadEvents(f, logger)
}

// missingFields returns the sorted names of required fields absent from
// obj. Presence is a key check; null values pass here and fail later.
func missingFields(obj map[string]any) []string {
	var missing []string
	for _, field := range requiredFields {
		if _, ok := obj[field]; !ok {
			missing = append(missing, field)
		}
	}
	sort.Strings(missing)
	return missing
}
