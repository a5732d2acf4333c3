package manager

import (
	"fmt"

	"github.com/flowmesh/nodeconf/model/cluster"
)

// OperationMode captures why a process runs a configuration manager, which in
// turn decides the consistency of the startup read. The decision is made once
// at startup and never re-evaluated per request.
type OperationMode struct {
	tooling bool
	roles   cluster.RoleSet
}

// ForTooling returns the mode of administrative tooling: no linearizability
// requirement at startup.
func ForTooling() OperationMode {
	return OperationMode{tooling: true}
}

// ForNodeRoles returns the mode of a cluster node fulfilling the given roles.
func ForNodeRoles(roles cluster.RoleSet) OperationMode {
	return OperationMode{roles: roles}
}

// RequiresLinearizableStartupRead reports whether the initial fetch must observe
// the latest committed write. Storage nodes must never begin serving on a stale
// membership view; everyone else tolerates the cheaper cached read.
func (m OperationMode) RequiresLinearizableStartupRead() bool {
	return !m.tooling && m.roles.Has(cluster.RoleStorage)
}

func (m OperationMode) String() string {
	if m.tooling {
		return "tooling"
	}
	return fmt.Sprintf("node[%s]", m.roles)
}
