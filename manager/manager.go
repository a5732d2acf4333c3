// Package manager implements the nodes configuration manager: the component
// owning a process's authoritative snapshot of the cluster-wide nodes
// configuration. The snapshot is replicated from an external version-stamped
// store, refreshed by a background watch loop, updated through optimistic
// conditional writes, and fanned out to local subscribers.
package manager

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"

	"github.com/flowmesh/nodeconf/codec"
	"github.com/flowmesh/nodeconf/engine"
	"github.com/flowmesh/nodeconf/model/cluster"
	"github.com/flowmesh/nodeconf/module"
	"github.com/flowmesh/nodeconf/module/component"
	"github.com/flowmesh/nodeconf/module/irrecoverable"
	"github.com/flowmesh/nodeconf/store"
)

// Manager maintains the local snapshot of the nodes configuration.
//
// Lifecycle: construct with New, then Start. The Ready channel closes once the
// initial fetch has completed; from then on Config never regresses to an older
// version. Cancelling the start context stops the watch loop and drains the
// subscriber fan-out.
//
// The manager is created without proposer capability: Update and Overwrite fail
// with ErrNotAuthorized until UpgradeToProposer has been called.
type Manager struct {
	component.Component

	log     zerolog.Logger
	metrics module.ConfigManagerMetrics
	mode    OperationMode
	store   store.Store
	engine  *updateEngine

	// current is the authoritative local snapshot, atomically swapped. The
	// installer additionally serializes read-modify-write through install's
	// mutex; plain readers go through the atomic load only.
	current    atomic.Pointer[cluster.NodesConfiguration]
	installMu  sync.Mutex
	canPropose *atomic.Bool

	distributor     *distributor
	refreshNotifier engine.Notifier

	initTimeout  time.Duration
	pollInterval time.Duration
}

var _ component.Component = (*Manager)(nil)

// New creates a manager reading from the given store. The mode fixes the
// consistency of the startup read once and for all: a role set containing the
// storage role forces the linearizable read path, everything else uses the
// cheaper cached read.
func New(
	log zerolog.Logger,
	metrics module.ConfigManagerMetrics,
	mode OperationMode,
	st store.Store,
	opts ...Opt,
) (*Manager, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.retryAttempts == 0 {
		return nil, fmt.Errorf("retry attempts must be positive")
	}
	if cfg.fanoutWorkers <= 0 {
		return nil, fmt.Errorf("fan-out workers must be positive")
	}

	m := &Manager{
		log: log.With().
			Str("component", "config_manager").
			Str("mode", mode.String()).
			Logger(),
		metrics:         metrics,
		mode:            mode,
		store:           st,
		canPropose:      atomic.NewBool(false),
		refreshNotifier: engine.NewNotifier(),
		initTimeout:     cfg.initTimeout,
		pollInterval:    cfg.pollInterval,
	}
	m.engine = newUpdateEngine(m.log, metrics, st, cfg)
	m.distributor = newDistributor(m.Config, cfg.fanoutWorkers)

	cm := component.NewComponentManagerBuilder()
	cm.AddWorker(m.fetchInitialSnapshot)
	cm.AddWorker(m.processConfigUpdates)
	m.Component = cm.Build()

	return m, nil
}

// Config returns the last known configuration snapshot without touching the
// store. It returns nil only before the first successful fetch; once a snapshot
// exists, there is always some last-known snapshot. The returned value is
// shared and must be treated as read-only.
func (m *Manager) Config() *cluster.NodesConfiguration {
	return m.current.Load()
}

// Subscribe registers a consumer for newly installed snapshots; the current
// snapshot, if any, is delivered right away. See Consumer for the delivery
// guarantees.
func (m *Manager) Subscribe(consumer Consumer) {
	m.distributor.Add(consumer)
}

// UpgradeToProposer grants the manager permission to originate writes. It is a
// one-way transition, idempotent, and performs no I/O.
func (m *Manager) UpgradeToProposer() {
	if m.canPropose.CompareAndSwap(false, true) {
		m.log.Info().Msg("upgraded to proposer")
	}
}

// CanPropose reports whether UpgradeToProposer has been called.
func (m *Manager) CanPropose() bool {
	return m.canPropose.Load()
}

// Update applies a delta on top of the manager's current snapshot and publishes
// the result through a conditional write, retrying on lost races up to the
// configured bound. Exactly one result is returned per call. On success the new
// configuration is installed locally and broadcast immediately, without waiting
// for the watch loop to observe the write.
//
// Expected errors during normal operation:
//   - ErrNotAuthorized before UpgradeToProposer
//   - cluster.InvalidUpdateError if the delta conflicts with the current base
//   - store.VersionMismatchError if the retry budget is exhausted; the returned
//     configuration is then the latest winning record
//
// A call that fails on the network may still have committed; the watch loop
// converges on the committed version, so callers must treat Update as not
// idempotent by call but convergent via Config.
func (m *Manager) Update(ctx context.Context, update cluster.Update) (*cluster.NodesConfiguration, error) {
	if !m.canPropose.Load() {
		return nil, ErrNotAuthorized
	}

	result, err := m.engine.ApplyUpdate(ctx, m.Config(), update)
	if result != nil {
		// on success this is our own write; on a lost race it is the winning
		// record, which is just as valid a newer snapshot
		m.install(result)
	}
	return result, err
}

// Overwrite publishes the candidate wholesale under the monotonic precondition
// that it is newer than whatever the store holds. It never retries; see
// updateEngine.Overwrite. On success the candidate is installed and broadcast
// immediately.
//
// Expected errors during normal operation:
//   - ErrNotAuthorized before UpgradeToProposer
//   - store.VersionMismatchError if a record at an equal or higher version won;
//     the returned configuration is then the winning record and the local state
//     is unchanged (or advanced to the winner)
func (m *Manager) Overwrite(ctx context.Context, candidate *cluster.NodesConfiguration) (*cluster.NodesConfiguration, error) {
	if !m.canPropose.Load() {
		return nil, ErrNotAuthorized
	}

	result, err := m.engine.Overwrite(ctx, candidate)
	if result != nil {
		m.install(result)
	}
	return result, err
}

// Refresh asks the watch loop for an immediate poll, without waiting for the
// next tick.
func (m *Manager) Refresh() {
	m.refreshNotifier.Notify()
}

// fetchInitialSnapshot performs the one-time startup fetch. The component does
// not become ready before the fetch completed; a store without a record is a
// valid ready state with a nil snapshot. Fetch errors and timeouts are fatal
// startup errors: the caller may retry by recreating the manager.
func (m *Manager) fetchInitialSnapshot(ctx irrecoverable.SignalerContext, ready component.ReadyFunc) {
	fetchCtx, cancel := context.WithTimeout(ctx, m.initTimeout)
	defer cancel()

	var value []byte
	var err error
	if m.mode.RequiresLinearizableStartupRead() {
		value, err = m.store.GetLatestConfig(fetchCtx)
	} else {
		value, err = m.store.GetConfig(fetchCtx)
	}

	if errors.Is(err, store.ErrNotFound) {
		m.log.Info().Msg("store holds no configuration yet, starting unprovisioned")
		ready()
		return
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			ctx.Throw(fmt.Errorf("%w: %w", ErrInitTimeout, err))
			return
		}
		ctx.Throw(fmt.Errorf("initial configuration fetch failed: %w", err))
		return
	}

	config, err := codec.Deserialize(value)
	if err != nil {
		ctx.Throw(fmt.Errorf("initial configuration is corrupt: %w", err))
		return
	}

	m.install(config)
	m.log.Info().
		Uint64("version", uint64(config.Version)).
		Bool("linearizable_read", m.mode.RequiresLinearizableStartupRead()).
		Msg("initial configuration fetched")
	ready()
}

// processConfigUpdates is the watch loop. It refreshes the snapshot on the poll
// ticker, on explicit Refresh requests and on native store change hints, and
// shuts the fan-out pool down when the component stops. Transient store errors
// are logged and retried on the next tick; they are nobody's to report to.
func (m *Manager) processConfigUpdates(ctx irrecoverable.SignalerContext, ready component.ReadyFunc) {
	defer m.distributor.Stop()

	var hints <-chan struct{}
	if watcher, ok := m.store.(store.Watcher); ok {
		var err error
		hints, err = watcher.Watch(ctx)
		if err != nil {
			// polling still converges without hints
			m.log.Warn().Err(err).Msg("could not establish store watch, relying on polling")
			hints = nil
		}
	}

	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	ready()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-hints:
			if !ok {
				// watch terminated, polling keeps the loop converging
				hints = nil
				continue
			}
			m.refresh(ctx)
		case <-m.refreshNotifier.Channel():
			m.refresh(ctx)
		case <-ticker.C:
			m.refresh(ctx)
		}
	}
}

// refresh performs one poll of the store: a cheap version probe first, then a
// full deserialize only if the store moved past the local snapshot.
func (m *Manager) refresh(ctx context.Context) {
	value, err := m.store.GetConfig(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		m.metrics.PollFailure()
		m.log.Warn().Err(err).Msg("configuration poll failed, retrying on next tick")
		return
	}

	version, err := codec.ExtractVersion(value)
	if err != nil {
		// a corrupt record is a store-integrity problem, not a transient glitch;
		// it is surfaced loudly but the loop keeps serving the last good snapshot
		m.metrics.PollFailure()
		m.log.Error().Err(err).Msg("store holds undecodable configuration record")
		return
	}

	current := m.Config()
	if current != nil && version <= current.Version {
		return
	}

	config, err := codec.Deserialize(value)
	if err != nil {
		m.metrics.PollFailure()
		m.log.Error().Err(err).Msg("store holds undecodable configuration record")
		return
	}
	m.install(config)
}

// install makes config the local snapshot iff it is strictly newer than the
// current one, and broadcasts it to subscribers. Stale or duplicate versions
// are dropped, which makes install idempotent under replayed notifications.
func (m *Manager) install(config *cluster.NodesConfiguration) bool {
	m.installMu.Lock()
	current := m.current.Load()
	if current != nil && config.Version <= current.Version {
		m.installMu.Unlock()
		m.metrics.StaleSnapshotIgnored()
		return false
	}
	m.current.Store(config)
	m.installMu.Unlock()

	m.metrics.SnapshotInstalled(uint64(config.Version))
	m.log.Info().
		Uint64("version", uint64(config.Version)).
		Int("nodes", len(config.Nodes)).
		Msg("configuration snapshot installed")
	m.distributor.Publish()
	return true
}
