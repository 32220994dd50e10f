package pipeline

import (
	"fmt"
	"strings"
)

// ValidationError is the refiner-internal failure kind: the artifact did
// not satisfy the structural contract. It carries the request description
// and attempt count so callers can log without re-deriving state.
type ValidationError struct {
	Request  string
	Attempts int
	Reasons  []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed after %d attempt(s) for %q: %s",
		e.Attempts, e.Request, strings.Join(e.Reasons, "; "))
}

// InvalidReferenceError reports a revert with a sequence number that is
// not (or no longer) in the history log. No mutation happens.
type InvalidReferenceError struct {
	Seq    uint64
	Oldest uint64
	Newest uint64
}

func (e *InvalidReferenceError) Error() string {
	if e.Newest == 0 {
		return fmt.Sprintf("invalid history reference %d: history is empty", e.Seq)
	}
	return fmt.Sprintf("invalid history reference %d: available range [%d, %d]", e.Seq, e.Oldest, e.Newest)
}

// FallbackInvariantError means the fallback generator itself failed
// validation. That is a contract bug in this codebase, never a runtime
// condition to recover from, so it is surfaced as a fatal error.
type FallbackInvariantError struct {
	Request string
	Reasons []string
}

func (e *FallbackInvariantError) Error() string {
	return fmt.Sprintf("fallback artifact failed validation for %q: %s",
		e.Request, strings.Join(e.Reasons, "; "))
}
