package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flowmesh/nodeconf/manager"
	"github.com/flowmesh/nodeconf/model/cluster"
	"github.com/flowmesh/nodeconf/module/metrics"
)

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the current nodes configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(false, metrics.NewNoopCollector(), func(ctx context.Context, m *manager.Manager) error {
			printConfiguration(m.Config())
			return nil
		})
	},
}

func printConfiguration(nc *cluster.NodesConfiguration) {
	if nc == nil {
		fmt.Println("store is not provisioned")
		return
	}
	fmt.Printf("version: %s\n", nc.Version)
	for _, id := range nc.NodeIDs() {
		node := nc.Nodes[id]
		fmt.Printf("  node %d: %s roles=%s\n", id, node.Address, node.Roles)
	}
}

func init() {
	rootCmd.AddCommand(getCmd)
}
