package transform

import (
	"sort"

	"starling/internal/model"
)

// Dedup collapses records sharing an event_id to the one with the maximum
// timestamp, ties broken by input order (last seen wins). Output is
// ordered by timestamp. This is the only in-run guard against duplicate
// fact rows; the loader's upsert handles cross-run duplicates.
func Dedup(events []model.Event) ([]model.Event, int) {
	if len(events) == 0 {
		return events, 0
	}

	sorted := make([]model.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TS.Before(sorted[j].TS)
	})

	latest := make(map[string]int, len(sorted))
	var out []model.Event
	for _, ev := range sorted {
		if i, ok := latest[ev.EventID]; ok {
			out[i] = ev
			continue
		}
		latest[ev.EventID] = len(out)
		out = append(out, ev)
	}
	return out, len(events) - len(out)
}
