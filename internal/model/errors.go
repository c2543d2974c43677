package model

import (
	"errors"

	"github.com/rotisserie/eris"
)

// ErrValidation marks malformed or out-of-range caller input. It is always
// surfaced, never silently corrected. Lookup misses (unknown damage tuples,
// unmodeled seasonal categories) are not errors at all; they recover to a
// neutral multiplier with a logged warning.
var ErrValidation = eris.New("validation error")

// ErrorKind classifies an error for batch result slots.
func ErrorKind(err error) string {
	if errors.Is(err, ErrValidation) {
		return ErrorKindValidation
	}
	return ErrorKindInternal
}
