package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flowmesh/nodeconf/manager"
	"github.com/flowmesh/nodeconf/model/cluster"
	"github.com/flowmesh/nodeconf/module/metrics"
	"github.com/flowmesh/nodeconf/store"
)

var (
	flagVersion uint64
	flagNodes   []string
)

var overwriteCmd = &cobra.Command{
	Use:   "overwrite",
	Short: "Replace the entire configuration with the given topology",
	Long: `Replace the entire nodes configuration wholesale. The write succeeds only if
the given version is strictly greater than the version currently stored, so a
concurrent newer record is never clobbered. An empty store accepts any version
above zero, which makes overwrite suitable for initial provisioning.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		candidate := &cluster.NodesConfiguration{
			Version: cluster.Version(flagVersion),
			Nodes:   map[cluster.NodeID]cluster.Node{},
		}
		for _, spec := range flagNodes {
			id, node, err := parseNodeSpec(spec)
			if err != nil {
				return err
			}
			candidate.Nodes[id] = node
		}
		if err := candidate.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		return withManager(true, metrics.NewNoopCollector(), func(ctx context.Context, m *manager.Manager) error {
			result, err := m.Overwrite(ctx, candidate)
			if store.IsVersionMismatchError(err) {
				fmt.Printf("overwrite lost to a newer record:\n")
				printConfiguration(result)
				return err
			}
			if err != nil {
				return err
			}
			printConfiguration(result)
			return nil
		})
	},
}

// parseNodeSpec parses "id=address=roles", e.g. "1=10.0.0.1:4600=storage,sequencer".
func parseNodeSpec(spec string) (cluster.NodeID, cluster.Node, error) {
	parts := strings.SplitN(spec, "=", 3)
	if len(parts) != 3 {
		return 0, cluster.Node{}, fmt.Errorf("invalid node spec (%s), expected id=address=roles", spec)
	}
	id, err := parseNodeID(parts[0])
	if err != nil {
		return 0, cluster.Node{}, fmt.Errorf("invalid node id in spec (%s): %w", spec, err)
	}
	roles, err := cluster.ParseRoleSet(parts[2])
	if err != nil {
		return 0, cluster.Node{}, fmt.Errorf("invalid roles in spec (%s): %w", spec, err)
	}
	return id, cluster.Node{Address: parts[1], Roles: roles}, nil
}

func init() {
	overwriteCmd.Flags().Uint64Var(&flagVersion, "version", 1, "version of the new configuration")
	overwriteCmd.Flags().StringArrayVar(&flagNodes, "node", nil, "node spec id=address=roles, repeatable")

	rootCmd.AddCommand(overwriteCmd)
}
