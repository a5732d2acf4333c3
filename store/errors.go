package store

import (
	"errors"
	"fmt"

	"github.com/flowmesh/nodeconf/model/cluster"
)

var (
	// ErrNotFound is returned by reads when the store holds no configuration
	// record yet. This is distinct from an explicitly provisioned empty record,
	// which is a valid record at cluster.EmptyVersion.
	ErrNotFound = errors.New("no configuration record in store")

	// ErrUnavailable indicates a transient store failure. The watch loop retries
	// these on its own schedule; direct callers decide for themselves.
	ErrUnavailable = errors.New("store unavailable")
)

// VersionMismatchError indicates that a conditional write's precondition failed.
// It carries the store's current winning record so the caller can retry against
// a fresh base, or report the winner, without a second round trip.
type VersionMismatchError struct {
	// Condition is the precondition that failed.
	Condition VersionCondition
	// CurrentVersion is the version of the record currently in the store.
	CurrentVersion cluster.Version
	// CurrentValue is the serialized record currently in the store. May be nil
	// if the store holds no record.
	CurrentValue []byte
}

func NewVersionMismatchError(cond VersionCondition, currentVersion cluster.Version, currentValue []byte) error {
	return VersionMismatchError{
		Condition:      cond,
		CurrentVersion: currentVersion,
		CurrentValue:   currentValue,
	}
}

func (e VersionMismatchError) Error() string {
	return fmt.Sprintf("conditional write failed: require %s, store holds version %s", e.Condition, e.CurrentVersion)
}

// IsVersionMismatchError returns whether the given error is a VersionMismatchError.
func IsVersionMismatchError(err error) bool {
	var errVersionMismatch VersionMismatchError
	return errors.As(err, &errVersionMismatch)
}

// AsVersionMismatchError unwraps the error as a VersionMismatchError, if it is one.
func AsVersionMismatchError(err error) (VersionMismatchError, bool) {
	var errVersionMismatch VersionMismatchError
	ok := errors.As(err, &errVersionMismatch)
	return errVersionMismatch, ok
}
