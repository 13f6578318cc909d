package warehouse

import (
	"context"
	"database/sql"
	"sort"
	"strconv"
	"strings"

	"starling/internal/model"
)

// UpsertEventTypes inserts any canonical event kinds from the batch that
// are not already present. Existing rows are never mutated; the surrogate
// id must stay stable across runs.
func (w *Warehouse) UpsertEventTypes(ctx context.Context, rows []model.Row) (int, error) {
	kinds := distinctKinds(rows)
	if len(kinds) == 0 {
		return 0, nil
	}

	inserted := 0
	err := w.withTx(ctx, "dim_event_types", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO dim_event_types (event) VALUES (?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, kind := range kinds {
			res, err := stmt.ExecContext(ctx, kind)
			if err != nil {
				return err
			}
			if n, err := res.RowsAffected(); err == nil {
				inserted += int(n)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// UpsertDates inserts any calendar dates from the batch that are not
// already present, decomposed into year/month/day. Malformed date strings
// are skipped; the enricher derives them, so none are expected.
func (w *Warehouse) UpsertDates(ctx context.Context, dates []string) (int, error) {
	distinct := distinctStrings(dates)
	if len(distinct) == 0 {
		return 0, nil
	}

	inserted := 0
	err := w.withTx(ctx, "dim_dates", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT OR IGNORE INTO dim_dates (date_key, year, month, day) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, date := range distinct {
			year, month, day, ok := splitDateKey(date)
			if !ok {
				continue
			}
			res, err := stmt.ExecContext(ctx, date, year, month, day)
			if err != nil {
				return err
			}
			if n, err := res.RowsAffected(); err == nil {
				inserted += int(n)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// UpsertUsers writes the distinct (user_id, country, signup_source)
// triples observed in the batch, last value wins per key. Rows with a
// null user id are excluded.
func (w *Warehouse) UpsertUsers(ctx context.Context, rows []model.Row) (int, error) {
	type triple struct {
		country, source *string
	}
	seen := make(map[string]triple, len(rows))
	var order []string
	for _, row := range rows {
		if row.UserID == nil || *row.UserID == "" {
			continue
		}
		if _, ok := seen[*row.UserID]; !ok {
			order = append(order, *row.UserID)
		}
		seen[*row.UserID] = triple{country: row.Country, source: row.SignupSource}
	}
	if len(order) == 0 {
		return 0, nil
	}

	err := w.withTx(ctx, "dim_users", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO dim_users (user_id, country, signup_source)
			VALUES (?, ?, ?)
			ON CONFLICT (user_id) DO UPDATE SET
				country = EXCLUDED.country,
				signup_source = EXCLUDED.signup_source`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, id := range order {
			t := seen[id]
			if _, err := stmt.ExecContext(ctx, id, t.country, t.source); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(order), nil
}

// EventTypeIDs re-reads the event-type dimension into a kind → surrogate
// id lookup. Reading back after the insert guarantees correct ids for
// both newly and previously inserted kinds.
func (w *Warehouse) EventTypeIDs(ctx context.Context) (map[string]int64, error) {
	rows, err := w.db.QueryContext(ctx, `SELECT event, event_type_id FROM dim_event_types`)
	if err != nil {
		return nil, newLoadError("dim_event_types lookup", err)
	}
	defer rows.Close()

	ids := make(map[string]int64)
	for rows.Next() {
		var kind string
		var id int64
		if err := rows.Scan(&kind, &id); err != nil {
			return nil, newLoadError("dim_event_types lookup", err)
		}
		ids[kind] = id
	}
	if err := rows.Err(); err != nil {
		return nil, newLoadError("dim_event_types lookup", err)
	}
	return ids, nil
}

func distinctKinds(rows []model.Row) []string {
	kinds := make([]string, 0, len(rows))
	for _, row := range rows {
		kinds = append(kinds, row.Kind)
	}
	return distinctStrings(kinds)
}

func distinctStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// splitDateKey decomposes a YYYY-MM-DD key.
func splitDateKey(date string) (year, month, day int, ok bool) {
	parts := strings.SplitN(date, "-", 3)
	if len(parts) != 3 {
		return 0, 0, 0, false
	}
	var err error
	if year, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, 0, false
	}
	if month, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, 0, false
	}
	if day, err = strconv.Atoi(parts[2]); err != nil {
		return 0, 0, 0, false
	}
	return year, month, day, true
}
