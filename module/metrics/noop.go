package metrics

import "github.com/flowmesh/nodeconf/module"

// NoopCollector discards all metrics.
type NoopCollector struct{}

var _ module.ConfigManagerMetrics = (*NoopCollector)(nil)

func NewNoopCollector() *NoopCollector {
	return &NoopCollector{}
}

func (nc *NoopCollector) SnapshotInstalled(version uint64) {}
func (nc *NoopCollector) StaleSnapshotIgnored()            {}
func (nc *NoopCollector) UpdateConflict()                  {}
func (nc *NoopCollector) UpdateCommitted(version uint64)   {}
func (nc *NoopCollector) PollFailure()                     {}
