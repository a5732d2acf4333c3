package manager

import (
	"sync"

	"github.com/gammazero/workerpool"
	"go.uber.org/atomic"

	"github.com/flowmesh/nodeconf/model/cluster"
	"github.com/flowmesh/nodeconf/module/counters"
)

// Consumer receives newly installed configuration snapshots. The delivered
// value is shared and immutable; consumers must treat it as read-only.
// Consumers are invoked from the fan-out pool, never from the installer's
// goroutine, so a slow consumer delays other consumers at most and never the
// manager itself.
type Consumer func(config *cluster.NodesConfiguration)

type subscription struct {
	fn Consumer
	// delivered tracks the highest version handed to this consumer, so each
	// consumer observes a strictly increasing version sequence even when
	// deliveries race.
	delivered counters.StrictMonotonicCounter
}

// distributor fans newly installed snapshots out to subscribers. Delivery is
// fire-and-forget: every task re-reads the latest snapshot at execution time,
// so intermediate versions may be skipped, and distinct subscribers may
// transiently observe different versions. Each subscriber eventually observes
// the latest version.
type distributor struct {
	mu            sync.RWMutex
	subscriptions []*subscription
	pool          *workerpool.WorkerPool
	latest        func() *cluster.NodesConfiguration
	stopped       *atomic.Bool
}

func newDistributor(latest func() *cluster.NodesConfiguration, workers int) *distributor {
	return &distributor{
		pool:    workerpool.New(workers),
		latest:  latest,
		stopped: atomic.NewBool(false),
	}
}

// Add registers a consumer and schedules delivery of the current snapshot, if
// one exists.
func (d *distributor) Add(fn Consumer) {
	sub := &subscription{fn: fn}
	d.mu.Lock()
	d.subscriptions = append(d.subscriptions, sub)
	d.mu.Unlock()
	d.deliver(sub)
}

// Publish schedules delivery of the latest snapshot to all subscribers.
func (d *distributor) Publish() {
	d.mu.RLock()
	subs := make([]*subscription, len(d.subscriptions))
	copy(subs, d.subscriptions)
	d.mu.RUnlock()

	for _, sub := range subs {
		d.deliver(sub)
	}
}

func (d *distributor) deliver(sub *subscription) {
	// the pool does not accept tasks once stopped
	if d.stopped.Load() {
		return
	}
	d.pool.Submit(func() {
		config := d.latest()
		if config == nil {
			return
		}
		if sub.delivered.Set(uint64(config.Version)) {
			sub.fn(config)
		}
	})
}

// Stop drains pending deliveries and shuts the pool down. Deliveries requested
// after Stop are dropped.
func (d *distributor) Stop() {
	if d.stopped.CompareAndSwap(false, true) {
		d.pool.StopWait()
	}
}
