package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/flowmesh/nodeconf/module"
)

var _ module.ConfigManagerMetrics = (*ConfigManagerCollector)(nil)

// ConfigManagerCollector instruments the nodes configuration manager.
type ConfigManagerCollector struct {
	snapshotVersion    prometheus.Gauge
	snapshotsInstalled prometheus.Counter
	staleSnapshots     prometheus.Counter
	updateConflicts    prometheus.Counter
	updatesCommitted   prometheus.Counter
	pollFailures       prometheus.Counter
}

func NewConfigManagerCollector() module.ConfigManagerMetrics {
	return &ConfigManagerCollector{
		snapshotVersion: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespaceNodeconf,
			Subsystem: subsystemConfigManager,
			Name:      "snapshot_version",
			Help:      "version of the locally installed configuration snapshot",
		}),
		snapshotsInstalled: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceNodeconf,
			Subsystem: subsystemConfigManager,
			Name:      "snapshots_installed_total",
			Help:      "number of configuration snapshots installed locally",
		}),
		staleSnapshots: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceNodeconf,
			Subsystem: subsystemConfigManager,
			Name:      "stale_snapshots_total",
			Help:      "number of fetched configurations dropped for carrying a stale version",
		}),
		updateConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceNodeconf,
			Subsystem: subsystemConfigManager,
			Name:      "update_conflicts_total",
			Help:      "number of conditional writes that failed their version precondition",
		}),
		updatesCommitted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceNodeconf,
			Subsystem: subsystemConfigManager,
			Name:      "updates_committed_total",
			Help:      "number of updates and overwrites accepted by the external store",
		}),
		pollFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceNodeconf,
			Subsystem: subsystemConfigManager,
			Name:      "poll_failures_total",
			Help:      "number of refresh attempts that failed with a transient store error",
		}),
	}
}

func (c *ConfigManagerCollector) SnapshotInstalled(version uint64) {
	c.snapshotVersion.Set(float64(version))
	c.snapshotsInstalled.Inc()
}

func (c *ConfigManagerCollector) StaleSnapshotIgnored() {
	c.staleSnapshots.Inc()
}

func (c *ConfigManagerCollector) UpdateConflict() {
	c.updateConflicts.Inc()
}

func (c *ConfigManagerCollector) UpdateCommitted(version uint64) {
	c.updatesCommitted.Inc()
}

func (c *ConfigManagerCollector) PollFailure() {
	c.pollFailures.Inc()
}
