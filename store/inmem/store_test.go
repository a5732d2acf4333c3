package inmem_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowmesh/nodeconf/codec"
	"github.com/flowmesh/nodeconf/model/cluster"
	"github.com/flowmesh/nodeconf/store"
	"github.com/flowmesh/nodeconf/store/inmem"
)

func serialized(t *testing.T, version cluster.Version) []byte {
	data, err := codec.Serialize(cluster.EmptyConfiguration().WithVersion(version))
	require.NoError(t, err)
	return data
}

func TestReadEmptyStore(t *testing.T) {
	s := inmem.New(codec.ExtractVersion)

	_, err := s.GetConfig(context.Background())
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.GetLatestConfig(context.Background())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestConditionalWrite(t *testing.T) {
	s := inmem.New(codec.ExtractVersion)
	ctx := context.Background()

	// initial provision against the empty store: current version is EmptyVersion
	written, err := s.UpdateConfig(ctx, serialized(t, 1), store.IfVersionIs(cluster.EmptyVersion))
	require.NoError(t, err)
	assert.Equal(t, cluster.Version(1), written)

	// delta against the correct base
	written, err = s.UpdateConfig(ctx, serialized(t, 2), store.IfVersionIs(1))
	require.NoError(t, err)
	assert.Equal(t, cluster.Version(2), written)

	// delta against a stale base loses and reports the winner
	_, err = s.UpdateConfig(ctx, serialized(t, 2), store.IfVersionIs(1))
	require.Error(t, err)
	mismatch, ok := store.AsVersionMismatchError(err)
	require.True(t, ok)
	assert.Equal(t, cluster.Version(2), mismatch.CurrentVersion)
	current, err := codec.ExtractVersion(mismatch.CurrentValue)
	require.NoError(t, err)
	assert.Equal(t, cluster.Version(2), current)
}

func TestOverwriteCondition(t *testing.T) {
	s := inmem.New(codec.ExtractVersion, inmem.WithValue(serialized(t, 103)))
	ctx := context.Background()

	// rollback is rejected
	_, err := s.UpdateConfig(ctx, serialized(t, 98), store.IfVersionLessThan(98))
	assert.True(t, store.IsVersionMismatchError(err))

	// roll-forward is accepted
	written, err := s.UpdateConfig(ctx, serialized(t, 10101), store.IfVersionLessThan(10101))
	require.NoError(t, err)
	assert.Equal(t, cluster.Version(10101), written)
}

func TestWatch(t *testing.T) {
	s := inmem.New(codec.ExtractVersion)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hints, err := s.Watch(ctx)
	require.NoError(t, err)

	// a committed conditional write produces a hint
	_, err = s.UpdateConfig(ctx, serialized(t, 1), store.IfVersionIs(cluster.EmptyVersion))
	require.NoError(t, err)
	select {
	case <-hints:
	case <-time.After(time.Second):
		t.Fatal("no watch hint after conditional write")
	}

	// a direct external write produces a hint as well
	s.SetValue(serialized(t, 50))
	select {
	case <-hints:
	case <-time.After(time.Second):
		t.Fatal("no watch hint after external write")
	}

	// cancelling the context closes the channel
	cancel()
	select {
	case _, open := <-hints:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("watch channel not closed on cancellation")
	}
}

func TestFailedWriteKeepsState(t *testing.T) {
	s := inmem.New(codec.ExtractVersion, inmem.WithValue(serialized(t, 5)))
	ctx := context.Background()
	before := s.Revision()

	_, err := s.UpdateConfig(ctx, serialized(t, 9), store.IfVersionIs(4))
	require.Error(t, err)
	assert.Equal(t, before, s.Revision())

	value, err := s.GetConfig(ctx)
	require.NoError(t, err)
	version, err := codec.ExtractVersion(value)
	require.NoError(t, err)
	assert.Equal(t, cluster.Version(5), version)
}
