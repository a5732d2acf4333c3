package cluster_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowmesh/nodeconf/model/cluster"
)

func baseConfiguration() *cluster.NodesConfiguration {
	return &cluster.NodesConfiguration{
		Version: 7,
		Nodes: map[cluster.NodeID]cluster.Node{
			1: {Address: "10.0.0.1:4600", Roles: cluster.NewRoleSet(cluster.RoleStorage)},
			2: {Address: "10.0.0.2:4600", Roles: cluster.NewRoleSet(cluster.RoleSequencer)},
		},
	}
}

func TestAddNode(t *testing.T) {
	base := baseConfiguration()

	next, err := cluster.AddNode{
		ID:   3,
		Node: cluster.Node{Address: "10.0.0.3:4600", Roles: cluster.NewRoleSet(cluster.RoleStorage)},
	}.Apply(base)
	require.NoError(t, err)

	assert.Len(t, next.Nodes, 3)
	assert.Equal(t, "10.0.0.3:4600", next.Nodes[3].Address)
	// the base must be untouched
	assert.Len(t, base.Nodes, 2)
}

func TestAddNode_AlreadyExists(t *testing.T) {
	base := baseConfiguration()

	_, err := cluster.AddNode{
		ID:   1,
		Node: cluster.Node{Address: "10.0.0.9:4600", Roles: cluster.NewRoleSet(cluster.RoleStorage)},
	}.Apply(base)
	require.Error(t, err)
	assert.True(t, cluster.IsInvalidUpdateError(err))
}

func TestRemoveNode(t *testing.T) {
	base := baseConfiguration()

	next, err := cluster.RemoveNode{ID: 2}.Apply(base)
	require.NoError(t, err)
	assert.Len(t, next.Nodes, 1)
	assert.Len(t, base.Nodes, 2)

	_, err = cluster.RemoveNode{ID: 42}.Apply(base)
	require.Error(t, err)
	assert.True(t, cluster.IsInvalidUpdateError(err))
}

func TestSetRoles(t *testing.T) {
	base := baseConfiguration()

	next, err := cluster.SetRoles{
		ID:    2,
		Roles: cluster.NewRoleSet(cluster.RoleStorage, cluster.RoleSequencer),
	}.Apply(base)
	require.NoError(t, err)
	assert.True(t, next.Nodes[2].Roles.Has(cluster.RoleStorage))
	// the base keeps the old role set
	assert.False(t, base.Nodes[2].Roles.Has(cluster.RoleStorage))
}

func TestSetRoles_Invalid(t *testing.T) {
	base := baseConfiguration()

	_, err := cluster.SetRoles{ID: 42, Roles: cluster.NewRoleSet(cluster.RoleStorage)}.Apply(base)
	assert.True(t, cluster.IsInvalidUpdateError(err))

	_, err = cluster.SetRoles{ID: 1}.Apply(base)
	assert.True(t, cluster.IsInvalidUpdateError(err))
}

// TestUpdateDeterminism applies the same delta to the same base twice and
// requires identical results.
func TestUpdateDeterminism(t *testing.T) {
	base := baseConfiguration()
	update := cluster.AddNode{
		ID:   3,
		Node: cluster.Node{Address: "10.0.0.3:4600", Roles: cluster.NewRoleSet(cluster.RoleSequencer)},
	}

	first, err := update.Apply(base)
	require.NoError(t, err)
	second, err := update.Apply(base)
	require.NoError(t, err)
	assert.True(t, first.EqualTo(second))
}
