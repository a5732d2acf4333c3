package cmd

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/flowmesh/nodeconf/manager"
	"github.com/flowmesh/nodeconf/model/cluster"
	"github.com/flowmesh/nodeconf/module"
	"github.com/flowmesh/nodeconf/module/metrics"
)

var flagMetricsAddr string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the configuration and print every new version until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		var collector module.ConfigManagerMetrics = metrics.NewNoopCollector()
		if flagMetricsAddr != "" {
			collector = metrics.NewConfigManagerCollector()
			go func() {
				// the metrics endpoint lives and dies with the process
				server := &http.Server{Addr: flagMetricsAddr, Handler: promhttp.Handler()}
				if err := server.ListenAndServe(); err != http.ErrServerClosed {
					log.Error().Err(err).Msg("metrics server failed")
				}
			}()
		}

		return withManager(false, collector, func(ctx context.Context, m *manager.Manager) error {
			m.Subscribe(func(nc *cluster.NodesConfiguration) {
				printConfiguration(nc)
			})
			<-ctx.Done()
			return nil
		})
	},
}

func init() {
	watchCmd.Flags().StringVar(&flagMetricsAddr, "metrics-addr", "",
		"serve prometheus metrics on this address (disabled when empty)")

	rootCmd.AddCommand(watchCmd)
}
