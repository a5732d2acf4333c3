package unittest

import (
	"fmt"

	"github.com/flowmesh/nodeconf/model/cluster"
)

// NodeFixture returns a valid node description for the given index.
func NodeFixture(i int) cluster.Node {
	return cluster.Node{
		Address: fmt.Sprintf("10.0.0.%d:4600", i),
		Roles:   cluster.NewRoleSet(cluster.RoleStorage, cluster.RoleSequencer),
	}
}

// NodesConfigurationFixture returns a valid configuration at the given version
// with a small topology.
func NodesConfigurationFixture(version cluster.Version) *cluster.NodesConfiguration {
	nc := &cluster.NodesConfiguration{
		Version: version,
		Nodes:   map[cluster.NodeID]cluster.Node{},
	}
	for i := 1; i <= 3; i++ {
		nc.Nodes[cluster.NodeID(i)] = NodeFixture(i)
	}
	return nc
}
