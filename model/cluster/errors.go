package cluster

import (
	"errors"
	"fmt"
)

// InvalidUpdateError indicates that an update cannot be applied to the base
// configuration it was given, e.g. because it references a node that already
// exists or one that is unknown. The update is structurally in conflict with the
// base; retrying against the same base will fail again.
type InvalidUpdateError struct {
	error
}

func NewInvalidUpdateErrorf(msg string, args ...interface{}) error {
	return InvalidUpdateError{
		error: fmt.Errorf(msg, args...),
	}
}

func (e InvalidUpdateError) Unwrap() error {
	return e.error
}

// IsInvalidUpdateError returns whether the given error is an InvalidUpdateError.
func IsInvalidUpdateError(err error) bool {
	var errInvalidUpdate InvalidUpdateError
	return errors.As(err, &errInvalidUpdate)
}
