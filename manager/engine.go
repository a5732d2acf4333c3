package manager

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/flowmesh/nodeconf/codec"
	"github.com/flowmesh/nodeconf/model/cluster"
	"github.com/flowmesh/nodeconf/module"
	"github.com/flowmesh/nodeconf/store"
)

// updateEngine turns a logical delta or an overwrite request into a successful,
// globally visible configuration record. The external store's conditional write
// is the true serialization point between concurrent writers: the engine never
// takes a local write lock, it races optimistically and reacts to losing.
type updateEngine struct {
	log      zerolog.Logger
	metrics  module.ConfigManagerMetrics
	store    store.Store
	attempts uint64
	base     time.Duration
	cap      time.Duration
}

func newUpdateEngine(
	log zerolog.Logger,
	metrics module.ConfigManagerMetrics,
	st store.Store,
	cfg config,
) *updateEngine {
	return &updateEngine{
		log:      log.With().Str("component", "update_engine").Logger(),
		metrics:  metrics,
		store:    st,
		attempts: cfg.retryAttempts,
		base:     cfg.retryBase,
		cap:      cfg.retryCap,
	}
}

// ApplyUpdate computes the update against base, stamps the result with the next
// version and writes it under the precondition that the store still holds the
// base version. On a lost race it refreshes the base from the winning record
// carried by the mismatch error and retries, up to the configured attempt bound.
//
// A nil base stands for "not provisioned yet" and is treated as the empty
// configuration at EmptyVersion, so the first delta publishes EmptyVersion+1.
//
// On success the new configuration is returned. Expected errors during normal
// operation:
//   - cluster.InvalidUpdateError if the delta does not apply to the (possibly
//     refreshed) base; never retried
//   - store.VersionMismatchError if the retry budget is exhausted; the returned
//     configuration is then the latest known winning record, so the caller's
//     intent is never silently dropped
//
// All other errors are store failures, surfaced after a single attempt.
func (e *updateEngine) ApplyUpdate(
	ctx context.Context,
	base *cluster.NodesConfiguration,
	update cluster.Update,
) (*cluster.NodesConfiguration, error) {
	if base == nil {
		base = cluster.EmptyConfiguration()
	}

	backoff, err := retry.NewExponential(e.base)
	if err != nil {
		return nil, fmt.Errorf("could not create retry backoff: %w", err)
	}
	backoff = retry.WithCappedDuration(e.cap, backoff)
	backoff = retry.WithJitterPercent(retryJitterPercent, backoff)
	backoff = retry.WithMaxRetries(e.attempts-1, backoff)

	var result *cluster.NodesConfiguration
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		next, err := update.Apply(base)
		if err != nil {
			return err // InvalidUpdateError, structurally conflicting with this base
		}
		next = next.WithVersion(base.Version.Next())

		value, err := codec.Serialize(next)
		if err != nil {
			return fmt.Errorf("could not serialize updated configuration: %w", err)
		}

		written, err := e.store.UpdateConfig(ctx, value, store.IfVersionIs(base.Version))
		if mismatch, ok := store.AsVersionMismatchError(err); ok {
			e.metrics.UpdateConflict()
			refreshed, rerr := e.refreshBase(mismatch)
			if rerr != nil {
				return rerr
			}
			e.log.Debug().
				Uint64("base_version", uint64(base.Version)).
				Uint64("store_version", uint64(refreshed.Version)).
				Msg("lost write race, retrying against fresh base")
			base = refreshed
			return retry.RetryableError(err)
		}
		if err != nil {
			return fmt.Errorf("conditional write failed: %w", err)
		}

		e.metrics.UpdateCommitted(uint64(written))
		result = next
		return nil
	})
	if err != nil {
		if store.IsVersionMismatchError(err) {
			// retry budget exhausted; hand the caller the freshest winner we saw
			return base, err
		}
		return nil, err
	}
	return result, nil
}

// Overwrite writes the candidate under the monotonic precondition that the
// store's version is strictly smaller than the candidate's. It never retries:
// the caller supplied a specific version and intends it to win or fail
// explicitly. Overwrite exists for bulk replacement and initial provisioning;
// an empty store counts as EmptyVersion and accepts any candidate above it.
//
// Expected errors during normal operation:
//   - store.VersionMismatchError if a record at an equal or higher version won;
//     the returned configuration is then the winning record
func (e *updateEngine) Overwrite(
	ctx context.Context,
	candidate *cluster.NodesConfiguration,
) (*cluster.NodesConfiguration, error) {
	value, err := codec.Serialize(candidate)
	if err != nil {
		return nil, fmt.Errorf("could not serialize candidate configuration: %w", err)
	}

	written, err := e.store.UpdateConfig(ctx, value, store.IfVersionLessThan(candidate.Version))
	if mismatch, ok := store.AsVersionMismatchError(err); ok {
		e.metrics.UpdateConflict()
		winner, rerr := e.refreshBase(mismatch)
		if rerr != nil {
			return nil, rerr
		}
		return winner, err
	}
	if err != nil {
		return nil, fmt.Errorf("conditional write failed: %w", err)
	}

	e.metrics.UpdateCommitted(uint64(written))
	return candidate, nil
}

// refreshBase decodes the winning record carried by a version mismatch. An
// absent record decodes to the empty configuration.
func (e *updateEngine) refreshBase(mismatch store.VersionMismatchError) (*cluster.NodesConfiguration, error) {
	if len(mismatch.CurrentValue) == 0 {
		return cluster.EmptyConfiguration(), nil
	}
	current, err := codec.Deserialize(mismatch.CurrentValue)
	if err != nil {
		return nil, fmt.Errorf("could not decode winning record: %w", err)
	}
	return current, nil
}
