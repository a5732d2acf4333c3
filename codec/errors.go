package codec

import (
	"errors"
	"fmt"
)

// DecodeError indicates that a stored value could not be interpreted as a nodes
// configuration record. It signals a store-integrity problem and must be
// surfaced to the caller rather than skipped.
type DecodeError struct {
	error
}

func NewDecodeErrorf(msg string, args ...interface{}) error {
	return DecodeError{
		error: fmt.Errorf(msg, args...),
	}
}

func (e DecodeError) Unwrap() error {
	return e.error
}

// IsDecodeError returns whether the given error is a DecodeError.
func IsDecodeError(err error) bool {
	var errDecode DecodeError
	return errors.As(err, &errDecode)
}
