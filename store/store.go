// Package store defines the external-store contract the configuration manager
// is built against. Any backend providing the three operations with the stated
// consistency semantics is pluggable: the in-memory double, the embedded badger
// backend, or a coordination-service client.
package store

import (
	"context"

	"github.com/flowmesh/nodeconf/model/cluster"
)

// VersionExtractor reads the configuration version out of a serialized record
// without fully decoding it. Backends evaluate write preconditions with it; the
// version inside the value is authoritative, never the backend's own revision
// counter.
type VersionExtractor func(value []byte) (cluster.Version, error)

// Store is a key/value store holding the single serialized nodes configuration
// record.
//
// Implementations must be safe for concurrent use. All operations respect
// context cancellation.
type Store interface {
	// GetConfig returns the store's best-effort view of the current record. It
	// may be served from a local follower replica and is not guaranteed to be
	// linearizable.
	// Expected errors during normal operation:
	//   - ErrNotFound if no record has been written yet
	GetConfig(ctx context.Context) ([]byte, error)

	// GetLatestConfig returns the strongly-consistent current record. It is more
	// expensive than GetConfig and required only when the read must observe the
	// latest committed write.
	// Expected errors during normal operation:
	//   - ErrNotFound if no record has been written yet
	GetLatestConfig(ctx context.Context) ([]byte, error)

	// UpdateConfig writes value if and only if the version of the currently
	// stored record satisfies the condition. A store without a record (or with
	// an empty value) is evaluated at cluster.EmptyVersion. On success it
	// returns the version actually written.
	// Expected errors during normal operation:
	//   - VersionMismatchError if the precondition failed; it carries the
	//     store's current winning record so the caller can react without a
	//     second round trip
	UpdateConfig(ctx context.Context, value []byte, cond VersionCondition) (cluster.Version, error)
}

// Watcher is an optional capability of a Store. Backends with native change
// notification deliver hints on the returned channel; a hint means "the record
// may have changed", not a guaranteed delivery per write. Consumers poll as a
// fallback regardless.
type Watcher interface {
	// Watch returns a channel receiving change hints until the context is
	// cancelled. The channel is closed when the watch terminates.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
