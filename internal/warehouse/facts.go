package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"starling/internal/model"
)

// Load applies a transformed batch to the warehouse in dependency order:
// event-type and date dimensions first (insert-if-absent), then the user
// dimension (last write wins), then the foreign-key lookup, then the fact
// upsert. Each step must complete before the next begins, since later
// steps resolve keys populated by earlier ones. Any failure aborts the
// load with the failing batch rolled back.
func (w *Warehouse) Load(ctx context.Context, rows []model.Row) (*LoadResult, error) {
	result := &LoadResult{}
	if len(rows) == 0 {
		return result, nil
	}

	var err error
	if result.EventTypesInserted, err = w.UpsertEventTypes(ctx, rows); err != nil {
		return nil, err
	}

	dates := make([]string, 0, len(rows))
	for _, row := range rows {
		dates = append(dates, row.EventDate)
	}
	if result.DatesInserted, err = w.UpsertDates(ctx, dates); err != nil {
		return nil, err
	}

	if result.UsersUpserted, err = w.UpsertUsers(ctx, rows); err != nil {
		return nil, err
	}

	typeIDs, err := w.EventTypeIDs(ctx)
	if err != nil {
		return nil, err
	}

	if result.FactsUpserted, err = w.UpsertFactEvents(ctx, rows, typeIDs); err != nil {
		return nil, err
	}

	w.logger.Info("load: batch applied",
		slog.Int("facts", result.FactsUpserted),
		slog.Int("event_types_inserted", result.EventTypesInserted),
		slog.Int("dates_inserted", result.DatesInserted),
		slog.Int("users_upserted", result.UsersUpserted))
	return result, nil
}

// UpsertFactEvents writes the fact rows, keyed on event_id. Re-ingesting
// an event overwrites all non-key fields with the latest values. A kind
// missing from typeIDs aborts the batch: the dimension upsert ran first,
// so an unresolvable key is a coordination bug, not input to skip.
func (w *Warehouse) UpsertFactEvents(ctx context.Context, rows []model.Row, typeIDs map[string]int64) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	err := w.withTx(ctx, "fact_events", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO fact_events (event_id, ts, user_id, event_type_id, page, amount, event_date, event_hour)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (event_id) DO UPDATE SET
				ts = EXCLUDED.ts,
				user_id = EXCLUDED.user_id,
				event_type_id = EXCLUDED.event_type_id,
				page = EXCLUDED.page,
				amount = EXCLUDED.amount,
				event_date = EXCLUDED.event_date,
				event_hour = EXCLUDED.event_hour`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, row := range rows {
			typeID, ok := typeIDs[row.Kind]
			if !ok {
				return fmt.Errorf("%w: %q", ErrUnresolvedEventType, row.Kind)
			}
			_, err := stmt.ExecContext(ctx,
				row.EventID,
				row.TS.UTC(),
				row.UserID,
				typeID,
				row.Page,
				row.Amount,
				row.EventDate,
				row.EventHour,
			)
			if err != nil {
				return fmt.Errorf("event %s: %w", row.EventID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}
