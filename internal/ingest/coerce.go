package ingest

import (
	"strconv"
	"strings"
)

// coerceString converts a decoded JSON value to its string form.
// Returns "" for nil and for types with no sensible text rendering.
func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// coerceStringPtr is coerceString for nullable fields: nil in, nil out.
func coerceStringPtr(v any) *string {
	if v == nil {
		return nil
	}
	s := coerceString(v)
	if s == "" {
		return nil
	}
	return &s
}

// coerceFloat converts a decoded JSON value to a float, accepting numeric
// strings like "19.99". Unconvertible values become nil rather than an
// error, matching the loose typing of the raw feed.
func coerceFloat(v any) *float64 {
	switch val := v.(type) {
	case float64:
		return &val
	case int64:
		f := float64(val)
		return &f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}
