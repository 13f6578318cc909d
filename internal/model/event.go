// Package model defines the record types flowing through the pipeline.
package model

import "time"

// Canonical event kinds allowed into the warehouse.
const (
	EventPageview = "pageview"
	EventSignup   = "signup"
	EventPurchase = "purchase"
)

// Event is a validated event record with a parsed timestamp.
// UserID and Amount are nil when absent in the source; absence is a
// valid state, not an error.
type Event struct {
	EventID string
	TS      time.Time
	UserID  *string
	Kind    string
	Amount  *float64
	Page    *string
}

// Row is a fully transformed event, ready for the warehouse: kind
// canonicalized, user id normalized, partition keys derived, user
// dimension attributes joined in (nil when unmatched).
type Row struct {
	Event
	EventDate    string // YYYY-MM-DD, derived from TS
	EventHour    int    // 0-23, derived from TS
	Country      *string
	SignupSource *string
}

// User is one row of the user dimension feed.
type User struct {
	UserID       string
	Country      string
	SignupSource string
}

// IntlSale is one line of the secondary international/wholesale feed.
type IntlSale struct {
	SaleID        string
	TS            time.Time
	DateKey       string
	Customer      string
	SKU           string
	Pcs           int
	Rate          float64
	GrossAmt      float64
	Currency      string
	SourceDataset string
}
