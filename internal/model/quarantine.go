package model

// BadRecord is an opaque copy of a rejected input record, augmented with
// rejection metadata. The "_reason" key always holds one of the reason
// codes; "_line" holds the 1-based input line number where known.
// Quarantined records are never loaded into the warehouse.
type BadRecord map[string]any

// Rejection reason codes. json_decode_error and missing_fields carry a
// detail suffix after the "=".
const (
	ReasonInvalidTimestamp = "invalid_timestamp"
	ReasonInvalidEventType = "invalid_event_type"
)

// NewBadRecord copies the decoded input object and tags it with a reason
// and line number.
func NewBadRecord(obj map[string]any, line int, reason string) BadRecord {
	bad := make(BadRecord, len(obj)+2)
	for k, v := range obj {
		bad[k] = v
	}
	bad["_line"] = line
	bad["_reason"] = reason
	return bad
}

// NewUnparsableRecord quarantines a line that could not be decoded at all,
// keeping the raw text for inspection.
func NewUnparsableRecord(raw string, line int, reason string) BadRecord {
	return BadRecord{
		"_line":   line,
		"_reason": reason,
		"_raw":    raw,
	}
}

// Reason returns the record's rejection reason code.
func (b BadRecord) Reason() string {
	r, _ := b["_reason"].(string)
	return r
}
