package cluster

// Update describes a transformation of the nodes configuration payload. Updates
// are pure and deterministic: Apply never mutates the base and always produces
// the same result for the same base. The version of the produced configuration is
// assigned by the caller (the update engine), not by the update itself.
type Update interface {
	// Apply returns a new configuration derived from base, or an
	// InvalidUpdateError if the delta is not applicable to this base.
	Apply(base *NodesConfiguration) (*NodesConfiguration, error)
}

// AddNode adds a new member to the topology.
type AddNode struct {
	ID   NodeID
	Node Node
}

var _ Update = (*AddNode)(nil)

func (u AddNode) Apply(base *NodesConfiguration) (*NodesConfiguration, error) {
	if _, exists := base.Nodes[u.ID]; exists {
		return nil, NewInvalidUpdateErrorf("node %d already exists", u.ID)
	}
	next := base.Copy()
	next.Nodes[u.ID] = u.Node
	return next, nil
}

// RemoveNode removes a member from the topology.
type RemoveNode struct {
	ID NodeID
}

var _ Update = (*RemoveNode)(nil)

func (u RemoveNode) Apply(base *NodesConfiguration) (*NodesConfiguration, error) {
	if _, exists := base.Nodes[u.ID]; !exists {
		return nil, NewInvalidUpdateErrorf("node %d does not exist", u.ID)
	}
	next := base.Copy()
	delete(next.Nodes, u.ID)
	return next, nil
}

// SetRoles replaces the role set of an existing member.
type SetRoles struct {
	ID    NodeID
	Roles RoleSet
}

var _ Update = (*SetRoles)(nil)

func (u SetRoles) Apply(base *NodesConfiguration) (*NodesConfiguration, error) {
	node, exists := base.Nodes[u.ID]
	if !exists {
		return nil, NewInvalidUpdateErrorf("node %d does not exist", u.ID)
	}
	if u.Roles.IsEmpty() {
		return nil, NewInvalidUpdateErrorf("node %d would be left without roles", u.ID)
	}
	next := base.Copy()
	node.Roles = u.Roles
	next.Nodes[u.ID] = node
	return next, nil
}
