package models

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownDirection   = errors.New("unknown direction")
	ErrNegativeFare       = errors.New("fare amount cannot be negative")
	ErrLegNotConfirmed    = errors.New("no fare confirmed for this leg")
	ErrSubmissionInFlight = errors.New("a submission is already in progress for this session")
)

// ValidationError reports a draft invariant violation. It is surfaced before
// any network call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}
