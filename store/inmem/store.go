// Package inmem provides an in-memory Store backend mimicking a
// coordination-service key: a single value with a native revision counter and
// watch support. It is used by tests and tooling; semantics match the contract
// in the store package exactly.
package inmem

import (
	"context"
	"fmt"
	"sync"

	"github.com/flowmesh/nodeconf/model/cluster"
	"github.com/flowmesh/nodeconf/store"
)

// Store is an in-memory store.Store with watch support.
type Store struct {
	mu       sync.Mutex
	value    []byte
	revision uint64 // native revision counter, not the authoritative version
	extract  store.VersionExtractor
	watchers []chan struct{}
}

var _ store.Store = (*Store)(nil)
var _ store.Watcher = (*Store)(nil)

// Opt is a functional option for the store.
type Opt func(*Store)

// WithValue seeds the store with an existing value, as if a previous writer had
// provisioned it. An empty non-nil value models a present-but-unprovisioned
// record.
func WithValue(value []byte) Opt {
	return func(s *Store) {
		s.value = append([]byte(nil), value...)
		s.revision++
	}
}

// New creates an empty in-memory store evaluating write preconditions with the
// given extractor.
func New(extract store.VersionExtractor, opts ...Opt) *Store {
	s := &Store{
		extract: extract,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetConfig returns the current value. The in-memory store has no replication
// lag, so the cached read and the linearizable read coincide.
func (s *Store) GetConfig(ctx context.Context) ([]byte, error) {
	return s.read(ctx)
}

// GetLatestConfig returns the current value.
func (s *Store) GetLatestConfig(ctx context.Context) ([]byte, error) {
	return s.read(ctx)
}

func (s *Store) read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.value) == 0 {
		return nil, store.ErrNotFound
	}
	return append([]byte(nil), s.value...), nil
}

// UpdateConfig conditionally replaces the stored value; see store.Store.
func (s *Store) UpdateConfig(ctx context.Context, value []byte, cond store.VersionCondition) (cluster.Version, error) {
	if err := ctx.Err(); err != nil {
		return cluster.EmptyVersion, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.currentVersion()
	if err != nil {
		return cluster.EmptyVersion, fmt.Errorf("could not extract current version: %w", err)
	}
	if !cond.Evaluate(current) {
		return cluster.EmptyVersion, store.NewVersionMismatchError(cond, current, append([]byte(nil), s.value...))
	}

	written, err := s.extract(value)
	if err != nil {
		return cluster.EmptyVersion, fmt.Errorf("could not extract version of new value: %w", err)
	}

	s.value = append([]byte(nil), value...)
	s.revision++
	s.notifyAll()
	return written, nil
}

// Watch returns a channel receiving a hint for every committed write until the
// context is cancelled.
func (s *Store) Watch(ctx context.Context) (<-chan struct{}, error) {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.watchers = append(s.watchers, ch)
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		for i, w := range s.watchers {
			if w == ch {
				s.watchers = append(s.watchers[:i], s.watchers[i+1:]...)
				break
			}
		}
		s.mu.Unlock()
		close(ch)
	}()

	return ch, nil
}

// SetValue installs a value unconditionally, bypassing any version check. It
// models an external actor writing directly to the store and notifies watchers
// like any committed write.
func (s *Store) SetValue(value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = append([]byte(nil), value...)
	s.revision++
	s.notifyAll()
}

// Revision returns the store-native revision counter. It only ever serves as an
// implementation detail of write conditions in real backends and is exposed here
// for test assertions.
func (s *Store) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// currentVersion evaluates the version of the stored value; an absent or empty
// value counts as EmptyVersion. Callers must hold s.mu.
func (s *Store) currentVersion() (cluster.Version, error) {
	if len(s.value) == 0 {
		return cluster.EmptyVersion, nil
	}
	return s.extract(s.value)
}

// notifyAll delivers a change hint to all watchers without blocking. Callers
// must hold s.mu.
func (s *Store) notifyAll() {
	for _, ch := range s.watchers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
