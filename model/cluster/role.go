package cluster

import (
	"fmt"
	"strings"
)

// Role is a functional role a node fulfills within the cluster.
type Role uint8

const (
	// RoleStorage marks a node that persists data and therefore must never act
	// on a stale view of the cluster membership.
	RoleStorage Role = 1 << iota
	// RoleSequencer marks a node that orders writes; it tolerates a slightly
	// stale membership view at startup.
	RoleSequencer
)

// ParseRole parses the string representation of a role.
func ParseRole(role string) (Role, error) {
	switch role {
	case "storage":
		return RoleStorage, nil
	case "sequencer":
		return RoleSequencer, nil
	default:
		return 0, fmt.Errorf("invalid role string (%s)", role)
	}
}

func (r Role) String() string {
	switch r {
	case RoleStorage:
		return "storage"
	case RoleSequencer:
		return "sequencer"
	default:
		return "unknown"
	}
}

// RoleSet is a set of roles, represented as a bitmask.
type RoleSet uint8

// NewRoleSet builds a set from the given roles.
func NewRoleSet(roles ...Role) RoleSet {
	var set RoleSet
	for _, role := range roles {
		set |= RoleSet(role)
	}
	return set
}

// ParseRoleSet parses a comma-separated list of role strings.
func ParseRoleSet(s string) (RoleSet, error) {
	var set RoleSet
	for _, part := range strings.Split(s, ",") {
		role, err := ParseRole(strings.TrimSpace(part))
		if err != nil {
			return 0, err
		}
		set |= RoleSet(role)
	}
	return set, nil
}

// Has reports whether the set contains the given role.
func (s RoleSet) Has(role Role) bool {
	return s&RoleSet(role) != 0
}

// IsEmpty reports whether the set contains no roles.
func (s RoleSet) IsEmpty() bool {
	return s == 0
}

func (s RoleSet) String() string {
	var roles []string
	for _, role := range []Role{RoleStorage, RoleSequencer} {
		if s.Has(role) {
			roles = append(roles, role.String())
		}
	}
	return strings.Join(roles, "|")
}
