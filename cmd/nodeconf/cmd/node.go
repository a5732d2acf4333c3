package cmd

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/flowmesh/nodeconf/manager"
	"github.com/flowmesh/nodeconf/model/cluster"
	"github.com/flowmesh/nodeconf/module/metrics"
)

var (
	flagAddress string
	flagRoles   string
)

var addNodeCmd = &cobra.Command{
	Use:   "add-node <id>",
	Short: "Add a node to the configuration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseNodeID(args[0])
		if err != nil {
			return err
		}
		roles, err := cluster.ParseRoleSet(flagRoles)
		if err != nil {
			return err
		}
		return applyUpdate(cluster.AddNode{
			ID:   id,
			Node: cluster.Node{Address: flagAddress, Roles: roles},
		})
	},
}

var removeNodeCmd = &cobra.Command{
	Use:   "remove-node <id>",
	Short: "Remove a node from the configuration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseNodeID(args[0])
		if err != nil {
			return err
		}
		return applyUpdate(cluster.RemoveNode{ID: id})
	},
}

var setRolesCmd = &cobra.Command{
	Use:   "set-roles <id>",
	Short: "Replace the role set of a node",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseNodeID(args[0])
		if err != nil {
			return err
		}
		roles, err := cluster.ParseRoleSet(flagRoles)
		if err != nil {
			return err
		}
		return applyUpdate(cluster.SetRoles{ID: id, Roles: roles})
	},
}

func parseNodeID(arg string) (cluster.NodeID, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	return cluster.NodeID(id), err
}

func applyUpdate(update cluster.Update) error {
	return withManager(true, metrics.NewNoopCollector(), func(ctx context.Context, m *manager.Manager) error {
		result, err := m.Update(ctx, update)
		if err != nil {
			return err
		}
		printConfiguration(result)
		return nil
	})
}

func init() {
	addNodeCmd.Flags().StringVar(&flagAddress, "address", "", "node address (host:port)")
	addNodeCmd.Flags().StringVar(&flagRoles, "roles", "storage,sequencer", "comma-separated roles")
	_ = addNodeCmd.MarkFlagRequired("address")

	setRolesCmd.Flags().StringVar(&flagRoles, "roles", "", "comma-separated roles")
	_ = setRolesCmd.MarkFlagRequired("roles")

	rootCmd.AddCommand(addNodeCmd)
	rootCmd.AddCommand(removeNodeCmd)
	rootCmd.AddCommand(setRolesCmd)
}
