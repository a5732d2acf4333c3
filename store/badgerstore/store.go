// Package badgerstore implements the store contract on top of an embedded
// badger database. It serves single-process deployments and local tooling; the
// database is local, so cached and linearizable reads coincide and the
// conditional write is serialized by badger's transactions.
package badgerstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"
	"github.com/rs/zerolog"

	"github.com/flowmesh/nodeconf/model/cluster"
	"github.com/flowmesh/nodeconf/store"
)

// configKey is the single key holding the serialized nodes configuration.
var configKey = []byte("nodes_configuration")

// Store is a badger-backed store.Store.
type Store struct {
	log     zerolog.Logger
	db      *badger.DB
	extract store.VersionExtractor
}

var _ store.Store = (*Store)(nil)
var _ store.Watcher = (*Store)(nil)

// New creates a store on top of the given database handle. The caller retains
// ownership of the database and is responsible for closing it.
func New(log zerolog.Logger, db *badger.DB, extract store.VersionExtractor) *Store {
	return &Store{
		log:     log.With().Str("component", "badger_config_store").Logger(),
		db:      db,
		extract: extract,
	}
}

// GetConfig returns the stored record.
// Expected errors during normal operation:
//   - store.ErrNotFound if no record has been written yet
func (s *Store) GetConfig(ctx context.Context) ([]byte, error) {
	return s.read(ctx)
}

// GetLatestConfig returns the stored record. The database is embedded, so this
// read is linearizable by construction.
func (s *Store) GetLatestConfig(ctx context.Context) ([]byte, error) {
	return s.read(ctx)
}

func (s *Store) read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(configKey)
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("could not read configuration record: %w", err)
	}
	if len(value) == 0 {
		return nil, store.ErrNotFound
	}
	return value, nil
}

// UpdateConfig writes value if the stored record's version satisfies cond. The
// check and the write happen inside a single read-write transaction.
func (s *Store) UpdateConfig(ctx context.Context, value []byte, cond store.VersionCondition) (cluster.Version, error) {
	if err := ctx.Err(); err != nil {
		return cluster.EmptyVersion, err
	}

	written, err := s.extract(value)
	if err != nil {
		return cluster.EmptyVersion, fmt.Errorf("could not extract version of new value: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		current := cluster.EmptyVersion
		var currentValue []byte

		item, err := txn.Get(configKey)
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("could not read current record: %w", err)
		}
		if err == nil {
			currentValue, err = item.ValueCopy(nil)
			if err != nil {
				return fmt.Errorf("could not copy current record: %w", err)
			}
			if len(currentValue) > 0 {
				current, err = s.extract(currentValue)
				if err != nil {
					return fmt.Errorf("could not extract current version: %w", err)
				}
			}
		}

		if !cond.Evaluate(current) {
			return store.NewVersionMismatchError(cond, current, currentValue)
		}
		return txn.Set(configKey, value)
	})
	if err != nil {
		return cluster.EmptyVersion, err
	}

	s.log.Debug().Uint64("version", uint64(written)).Msg("configuration record written")
	return written, nil
}

// Watch forwards badger's change notifications for the configuration key as
// change hints. The returned channel is closed when the context is cancelled.
func (s *Store) Watch(ctx context.Context) (<-chan struct{}, error) {
	hints := make(chan struct{}, 1)
	go func() {
		defer close(hints)
		err := s.db.Subscribe(ctx, func(kv *badger.KVList) error {
			select {
			case hints <- struct{}{}:
			default:
			}
			return nil
		}, configKey)
		if err != nil && !errors.Is(err, context.Canceled) {
			s.log.Warn().Err(err).Msg("configuration watch terminated")
		}
	}()
	return hints, nil
}
