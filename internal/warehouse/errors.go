package warehouse

import (
	"errors"
	"fmt"
)

// ErrUnresolvedEventType means a fact row referenced an event kind with no
// dimension row. The dimension upsert runs first, so this is a
// coordination bug, not bad input; the load aborts rather than skipping.
var ErrUnresolvedEventType = errors.New("unresolved event type")

// LoadError wraps a persistence failure. Loads are batch-atomic: when one
// surfaces, the failing batch has been rolled back and the run should
// abort.
type LoadError struct {
	Op    string
	Cause error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Op, e.Cause)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

func newLoadError(op string, cause error) *LoadError {
	return &LoadError{Op: op, Cause: cause}
}

// LoadResult counts what a primary-stream load wrote per step.
type LoadResult struct {
	EventTypesInserted int
	DatesInserted      int
	UsersUpserted      int
	FactsUpserted      int
}

// IntlLoadResult counts the secondary-stream outcome. Dropped rows are
// the best-effort feed's incomplete rows; they are not quarantined.
type IntlLoadResult struct {
	CustomersInserted int
	ProductsInserted  int
	SalesUpserted     int
	Dropped           int
}
