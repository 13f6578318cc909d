package transform

import (
	"log/slog"
	"time"

	"starling/internal/model"
)

// Metrics reports what the transform stage did to the batch.
type Metrics struct {
	DedupRemoved     int
	NullUserID       int
	InvalidEventType int
	RowsOut          int
}

// Apply runs the full transform over a validated batch: canonicalize and
// allow-list event kinds (quarantining the rest), dedup by event_id, then
// enrich and join the user dimension. Every input record ends up in
// exactly one of the two outputs.
func Apply(events []model.Event, users []model.User, logger *slog.Logger) ([]model.Row, []model.BadRecord, Metrics) {
	var metrics Metrics
	if len(events) == 0 {
		return nil, nil, metrics
	}

	var (
		valid []model.Event
		bad   []model.BadRecord
	)
	for _, ev := range events {
		ev.Kind = CanonicalKind(ev.Kind)
		if !Allowed(ev.Kind) {
			bad = append(bad, invalidKindRecord(ev))
			metrics.InvalidEventType++
			continue
		}
		valid = append(valid, ev)
	}

	deduped, removed := Dedup(valid)
	metrics.DedupRemoved = removed

	idx := usersIndex(users)
	rows := make([]model.Row, 0, len(deduped))
	for _, ev := range deduped {
		row := Enrich(ev, idx)
		if row.UserID == nil {
			metrics.NullUserID++
		}
		rows = append(rows, row)
	}
	metrics.RowsOut = len(rows)

	logger.Info("transform: batch cleaned",
		slog.Int("rows", metrics.RowsOut),
		slog.Int("dedup_removed", metrics.DedupRemoved),
		slog.Int("null_user_id", metrics.NullUserID),
		slog.Int("invalid_event_type", metrics.InvalidEventType))
	return rows, bad, metrics
}

// invalidKindRecord builds the quarantine entry for a disallowed event
// kind, keeping the identifying fields for traceability.
func invalidKindRecord(ev model.Event) model.BadRecord {
	bad := model.BadRecord{
		"event_id": ev.EventID,
		"ts":       ev.TS.UTC().Format(time.RFC3339),
		"event":    ev.Kind,
		"_reason":  model.ReasonInvalidEventType,
	}
	if ev.UserID != nil {
		bad["user_id"] = *ev.UserID
	} else {
		bad["user_id"] = nil
	}
	return bad
}
