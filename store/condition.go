package store

import (
	"fmt"

	"github.com/flowmesh/nodeconf/model/cluster"
)

type conditionKind uint8

const (
	conditionEquals conditionKind = iota
	conditionLessThan
)

// VersionCondition is the precondition of a conditional write. It is evaluated
// by the store against the version of the currently stored record.
type VersionCondition struct {
	kind   conditionKind
	target cluster.Version
}

// IfVersionIs requires the stored version to equal the given base version. This
// is the precondition of a base-relative delta: the write loses if anyone else
// has written since the base was read.
func IfVersionIs(base cluster.Version) VersionCondition {
	return VersionCondition{kind: conditionEquals, target: base}
}

// IfVersionLessThan requires the stored version to be strictly smaller than the
// given version. This is the precondition of an overwrite: it enforces that
// versions never roll back while allowing any roll-forward.
func IfVersionLessThan(candidate cluster.Version) VersionCondition {
	return VersionCondition{kind: conditionLessThan, target: candidate}
}

// Evaluate reports whether the condition holds for the given stored version.
func (c VersionCondition) Evaluate(current cluster.Version) bool {
	switch c.kind {
	case conditionEquals:
		return current == c.target
	case conditionLessThan:
		return current < c.target
	default:
		return false
	}
}

func (c VersionCondition) String() string {
	switch c.kind {
	case conditionEquals:
		return fmt.Sprintf("version == %s", c.target)
	case conditionLessThan:
		return fmt.Sprintf("version < %s", c.target)
	default:
		return "invalid condition"
	}
}
