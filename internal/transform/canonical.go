// Package transform cleans, normalizes, and enriches validated events:
// event-kind canonicalization with allow-list enforcement, dedup by
// event_id keeping the latest timestamp, user id normalization, partition
// key derivation, and the left join against the user dimension.
package transform

import (
	"strings"

	"starling/internal/model"
)

// allowedKinds is the closed set of canonical event kinds.
var allowedKinds = map[string]bool{
	model.EventPageview: true,
	model.EventSignup:   true,
	model.EventPurchase: true,
}

// synonyms collapses known variant spellings into canonical forms,
// applied after the mechanical normalization below.
var synonyms = map[string]string{
	"page_view": model.EventPageview,
}

// CanonicalKind normalizes an event kind: trim, lower-case, hyphens and
// internal whitespace to underscores, then known synonyms collapsed.
// "page_view", "Page View", and "pageview" all yield "pageview".
func CanonicalKind(kind string) string {
	k := strings.ToLower(strings.TrimSpace(kind))
	k = strings.ReplaceAll(k, "-", "_")
	k = strings.Join(strings.Fields(k), "_")
	if canonical, ok := synonyms[k]; ok {
		return canonical
	}
	return k
}

// Allowed reports whether a canonical kind is in the allow-list.
func Allowed(kind string) bool {
	return allowedKinds[kind]
}
