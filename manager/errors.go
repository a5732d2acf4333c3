package manager

import "errors"

var (
	// ErrNotAuthorized is returned by Update and Overwrite when the manager has
	// not been upgraded to a proposer.
	ErrNotAuthorized = errors.New("manager is not authorized to propose configuration changes")

	// ErrInitTimeout is thrown as an irrecoverable error when the startup fetch
	// does not complete within the configured init timeout.
	ErrInitTimeout = errors.New("initial configuration fetch timed out")
)
