// Package analytics runs the read-only daily queries over the warehouse:
// DAU, revenue, event mix, and the signup-to-purchase funnel.
package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"
)

// DAURow is distinct active users for one day. Null user ids are excluded
// from DAU.
type DAURow struct {
	EventDate string
	DAU       int64
}

// RevenueRow is summed purchase amounts for one day.
type RevenueRow struct {
	EventDate string
	Revenue   float64
}

// EventCountRow is event volume for one (day, kind) pair.
type EventCountRow struct {
	EventDate string
	Event     string
	Count     int64
}

// FunnelRow is the same-day signup-to-purchase funnel for one day.
type FunnelRow struct {
	EventDate            string
	SignupUsers          int64
	Purchasers           int64
	SignupToPurchaseRate float64
}

// QueryDAU returns distinct non-null users per event_date.
func QueryDAU(ctx context.Context, db *sql.DB) ([]DAURow, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT event_date, COUNT(DISTINCT user_id) AS dau
		FROM fact_events
		WHERE user_id IS NOT NULL
		GROUP BY event_date
		ORDER BY event_date`)
	if err != nil {
		return nil, fmt.Errorf("dau query failed: %w", err)
	}
	defer rows.Close()

	var out []DAURow
	for rows.Next() {
		var r DAURow
		if err := rows.Scan(&r.EventDate, &r.DAU); err != nil {
			return nil, fmt.Errorf("dau scan failed: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// QueryRevenue returns summed purchase amounts per event_date.
func QueryRevenue(ctx context.Context, db *sql.DB) ([]RevenueRow, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT f.event_date, ROUND(SUM(COALESCE(f.amount, 0)), 2) AS revenue
		FROM fact_events f
		JOIN dim_event_types e ON e.event_type_id = f.event_type_id
		WHERE e.event = 'purchase'
		GROUP BY f.event_date
		ORDER BY f.event_date`)
	if err != nil {
		return nil, fmt.Errorf("revenue query failed: %w", err)
	}
	defer rows.Close()

	var out []RevenueRow
	for rows.Next() {
		var r RevenueRow
		if err := rows.Scan(&r.EventDate, &r.Revenue); err != nil {
			return nil, fmt.Errorf("revenue scan failed: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// QueryEventCounts returns event volume by kind per day, for
// sanity-checking traffic mix.
func QueryEventCounts(ctx context.Context, db *sql.DB) ([]EventCountRow, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT f.event_date, e.event, COUNT(*) AS events
		FROM fact_events f
		JOIN dim_event_types e ON e.event_type_id = f.event_type_id
		GROUP BY f.event_date, e.event
		ORDER BY f.event_date, e.event`)
	if err != nil {
		return nil, fmt.Errorf("event counts query failed: %w", err)
	}
	defer rows.Close()

	var out []EventCountRow
	for rows.Next() {
		var r EventCountRow
		if err := rows.Scan(&r.EventDate, &r.Event, &r.Count); err != nil {
			return nil, fmt.Errorf("event counts scan failed: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// QueryFunnel returns the same-day signup-to-purchase funnel per day.
func QueryFunnel(ctx context.Context, db *sql.DB) ([]FunnelRow, error) {
	rows, err := db.QueryContext(ctx, `
		WITH daily AS (
			SELECT
				f.event_date,
				COUNT(DISTINCT CASE WHEN e.event = 'signup' THEN f.user_id END) AS signup_users,
				COUNT(DISTINCT CASE WHEN e.event = 'purchase' THEN f.user_id END) AS purchasers
			FROM fact_events f
			JOIN dim_event_types e ON e.event_type_id = f.event_type_id
			WHERE f.user_id IS NOT NULL
			GROUP BY f.event_date
		)
		SELECT
			event_date,
			signup_users,
			purchasers,
			CASE WHEN signup_users = 0 THEN 0.0
			     ELSE ROUND(1.0 * purchasers / signup_users, 4)
			END AS signup_to_purchase_rate
		FROM daily
		ORDER BY event_date`)
	if err != nil {
		return nil, fmt.Errorf("funnel query failed: %w", err)
	}
	defer rows.Close()

	var out []FunnelRow
	for rows.Next() {
		var r FunnelRow
		if err := rows.Scan(&r.EventDate, &r.SignupUsers, &r.Purchasers, &r.SignupToPurchaseRate); err != nil {
			return nil, fmt.Errorf("funnel scan failed: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// QueryFactPreview returns the first rows of the fact table joined with
// user attributes, for the per-run preview export.
func QueryFactPreview(ctx context.Context, db *sql.DB, limit int) ([][]string, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT f.event_id, f.ts, f.user_id, f.event_type_id, f.amount, f.event_date, f.event_hour,
		       u.country, u.signup_source
		FROM fact_events f
		LEFT JOIN dim_users u ON f.user_id = u.user_id
		ORDER BY f.ts
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("preview query failed: %w", err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var (
			eventID, eventDate            string
			ts                            time.Time
			userID, country, signupSource sql.NullString
			amount                        sql.NullFloat64
			eventTypeID                   int64
			eventHour                     int
		)
		if err := rows.Scan(&eventID, &ts, &userID, &eventTypeID, &amount, &eventDate, &eventHour, &country, &signupSource); err != nil {
			return nil, fmt.Errorf("preview scan failed: %w", err)
		}
		amountStr := ""
		if amount.Valid {
			amountStr = strconv.FormatFloat(amount.Float64, 'f', -1, 64)
		}
		out = append(out, []string{
			eventID, ts.UTC().Format(time.RFC3339), userID.String, strconv.FormatInt(eventTypeID, 10),
			amountStr, eventDate, strconv.Itoa(eventHour),
			country.String, signupSource.String,
		})
	}
	return out, rows.Err()
}

// PreviewHeader is the column header for QueryFactPreview exports.
var PreviewHeader = []string{
	"event_id", "ts", "user_id", "event_type_id", "amount",
	"event_date", "event_hour", "country", "signup_source",
}
