package transform

import (
	"strings"

	"starling/internal/model"
)

// nullTokens are textual spellings of "no value" seen in loosely typed
// feeds. A user_id matching one of these is treated as truly absent.
var nullTokens = map[string]bool{
	"":     true,
	"nan":  true,
	"none": true,
	"null": true,
	"<na>": true,
}

// NormalizeUserID trims the id and converts null-ish textual tokens into
// a real missing marker.
func NormalizeUserID(id *string) *string {
	if id == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*id)
	if nullTokens[strings.ToLower(trimmed)] {
		return nil
	}
	return &trimmed
}

// Enrich derives the partition keys from the timestamp and left-joins the
// user dimension. Rows with no matching user keep nil user attributes
// rather than being dropped.
func Enrich(ev model.Event, usersByID map[string]model.User) model.Row {
	row := model.Row{
		Event:     ev,
		EventDate: ev.TS.Format("2006-01-02"),
		EventHour: ev.TS.Hour(),
	}
	row.UserID = NormalizeUserID(ev.UserID)

	if row.UserID != nil {
		if u, ok := usersByID[*row.UserID]; ok {
			country := u.Country
			source := u.SignupSource
			row.Country = &country
			row.SignupSource = &source
		}
	}
	return row
}

// usersIndex builds the join index keyed on trimmed user_id.
func usersIndex(users []model.User) map[string]model.User {
	idx := make(map[string]model.User, len(users))
	for _, u := range users {
		idx[strings.TrimSpace(u.UserID)] = u
	}
	return idx
}
