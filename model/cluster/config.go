package cluster

import (
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"
)

// NodeID identifies a node within the cluster topology.
type NodeID uint64

// Node describes a single member of the cluster.
type Node struct {
	// Address is the host:port the node is reachable at.
	Address string
	// Roles are the functional roles the node fulfills.
	Roles RoleSet
}

// NodesConfiguration is the single logical record describing cluster membership
// and topology. It is immutable once constructed: every mutation produces a new
// value, and all holders (the manager's snapshot, subscriber copies) share it
// read-only. Mutating a NodesConfiguration in place after publishing it is a
// programming error.
type NodesConfiguration struct {
	// Version totally orders configurations; see Version for the ordering
	// guarantees.
	Version Version
	// Nodes maps node IDs to their descriptions.
	Nodes map[NodeID]Node
}

// EmptyConfiguration returns the configuration that precedes any published one.
// It is the implicit base for the initial provisioning update.
func EmptyConfiguration() *NodesConfiguration {
	return &NodesConfiguration{
		Version: EmptyVersion,
		Nodes:   map[NodeID]Node{},
	}
}

// Copy returns a deep copy of the configuration. Updates operate on copies so
// that published configurations stay immutable.
func (nc *NodesConfiguration) Copy() *NodesConfiguration {
	nodes := make(map[NodeID]Node, len(nc.Nodes))
	for id, node := range nc.Nodes {
		nodes[id] = node
	}
	return &NodesConfiguration{
		Version: nc.Version,
		Nodes:   nodes,
	}
}

// WithVersion returns a copy of the configuration stamped with the given version.
func (nc *NodesConfiguration) WithVersion(version Version) *NodesConfiguration {
	next := nc.Copy()
	next.Version = version
	return next
}

// NodeIDs returns the member IDs in ascending order.
func (nc *NodesConfiguration) NodeIDs() []NodeID {
	ids := make([]NodeID, 0, len(nc.Nodes))
	for id := range nc.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Validate checks the structural integrity of the configuration. All violations
// are aggregated so that a malformed record is diagnosable in one pass.
func (nc *NodesConfiguration) Validate() error {
	var result *multierror.Error
	for id, node := range nc.Nodes {
		if node.Address == "" {
			result = multierror.Append(result, fmt.Errorf("node %d has no address", id))
		}
		if node.Roles.IsEmpty() {
			result = multierror.Append(result, fmt.Errorf("node %d has no roles", id))
		}
	}
	return result.ErrorOrNil()
}

// EqualTo reports whether both configurations describe the same topology at the
// same version.
func (nc *NodesConfiguration) EqualTo(other *NodesConfiguration) bool {
	if nc.Version != other.Version {
		return false
	}
	if len(nc.Nodes) != len(other.Nodes) {
		return false
	}
	for id, node := range nc.Nodes {
		if other.Nodes[id] != node {
			return false
		}
	}
	return true
}
