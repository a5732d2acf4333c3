package badgerstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowmesh/nodeconf/codec"
	"github.com/flowmesh/nodeconf/model/cluster"
	"github.com/flowmesh/nodeconf/store"
	"github.com/flowmesh/nodeconf/store/badgerstore"
	"github.com/flowmesh/nodeconf/utils/unittest"
)

func withStore(t *testing.T, f func(*testing.T, *badgerstore.Store)) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	require.NoError(t, err)
	defer db.Close()

	f(t, badgerstore.New(unittest.Logger(), db, codec.ExtractVersion))
}

func serialized(t *testing.T, version cluster.Version) []byte {
	data, err := codec.Serialize(cluster.EmptyConfiguration().WithVersion(version))
	require.NoError(t, err)
	return data
}

func TestReadEmpty(t *testing.T) {
	withStore(t, func(t *testing.T, s *badgerstore.Store) {
		_, err := s.GetConfig(context.Background())
		assert.ErrorIs(t, err, store.ErrNotFound)
		_, err = s.GetLatestConfig(context.Background())
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestConditionalWriteRoundtrip(t *testing.T) {
	withStore(t, func(t *testing.T, s *badgerstore.Store) {
		ctx := context.Background()

		written, err := s.UpdateConfig(ctx, serialized(t, 1), store.IfVersionIs(cluster.EmptyVersion))
		require.NoError(t, err)
		assert.Equal(t, cluster.Version(1), written)

		value, err := s.GetConfig(ctx)
		require.NoError(t, err)
		version, err := codec.ExtractVersion(value)
		require.NoError(t, err)
		assert.Equal(t, cluster.Version(1), version)

		// stale base is rejected with the winner attached
		_, err = s.UpdateConfig(ctx, serialized(t, 1), store.IfVersionIs(cluster.EmptyVersion))
		mismatch, ok := store.AsVersionMismatchError(err)
		require.True(t, ok)
		assert.Equal(t, cluster.Version(1), mismatch.CurrentVersion)

		// overwrite semantics: rollback rejected, roll-forward accepted
		_, err = s.UpdateConfig(ctx, serialized(t, 0), store.IfVersionLessThan(0))
		assert.True(t, store.IsVersionMismatchError(err))
		written, err = s.UpdateConfig(ctx, serialized(t, 9000), store.IfVersionLessThan(9000))
		require.NoError(t, err)
		assert.Equal(t, cluster.Version(9000), written)
	})
}

func TestWatchDeliversHints(t *testing.T) {
	withStore(t, func(t *testing.T, s *badgerstore.Store) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		hints, err := s.Watch(ctx)
		require.NoError(t, err)

		_, err = s.UpdateConfig(ctx, serialized(t, 1), store.IfVersionIs(cluster.EmptyVersion))
		require.NoError(t, err)

		select {
		case <-hints:
		case <-time.After(5 * time.Second):
			t.Fatal("no watch hint after write")
		}

		cancel()
		select {
		case _, open := <-hints:
			assert.False(t, open)
		case <-time.After(5 * time.Second):
			t.Fatal("watch channel not closed on cancellation")
		}
	})
}
