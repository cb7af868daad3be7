package quest

import (
	"errors"
	"fmt"
)

// ErrorKind classifies engine failures for the caller. The UI layer maps
// KindGeneration to a retry affordance and everything else to a generic
// failure notice, so the kind must survive propagation end to end.
type ErrorKind string

const (
	// KindGeneration: the LLM output failed schema or business
	// validation after the retry budget was spent.
	KindGeneration ErrorKind = "generation"

	// KindValidation: malformed input profile or history.
	KindValidation ErrorKind = "validation"

	// KindStorage: a read or write against the history store failed.
	// Propagated as-is, never retried by the engine.
	KindStorage ErrorKind = "storage"

	// KindNetwork: transient failure reaching the completion capability.
	KindNetwork ErrorKind = "network"

	// KindUnknown: catch-all. Always carries the original message.
	KindUnknown ErrorKind = "unknown"
)

// Error is the structured error surfaced to callers.
type Error struct {
	Kind    ErrorKind
	Message string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError builds an Error of the given kind wrapping cause (may be nil).
func NewError(kind ErrorKind, cause error, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Err:     cause,
	}
}

// WithDetail attaches a key/value to the error's details and returns it.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// KindOf extracts the ErrorKind from any error. Errors that are not
// *quest.Error classify as KindUnknown.
func KindOf(err error) ErrorKind {
	var qe *Error
	if errors.As(err, &qe) {
		return qe.Kind
	}
	return KindUnknown
}
