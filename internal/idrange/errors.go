package idrange

import (
	"errors"
	"fmt"
)

var (
	// ErrNoIdentifiers is returned when a specification contains no tokens at
	// all, e.g. an empty or all-whitespace string.
	ErrNoIdentifiers = errors.New("no job identifiers specified")
)

// MalformedRangeError is returned for a token that is neither a non-negative
// integer nor a well-formed ascending range.
type MalformedRangeError struct {
	Token  string
	Reason string
}

func (e *MalformedRangeError) Error() string {
	return fmt.Sprintf("malformed job range %q: %s", e.Token, e.Reason)
}

func newMalformedRangeError(token, reason string) *MalformedRangeError {
	return &MalformedRangeError{Token: token, Reason: reason}
}
