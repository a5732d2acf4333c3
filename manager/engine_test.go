package manager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/flowmesh/nodeconf/codec"
	"github.com/flowmesh/nodeconf/model/cluster"
	"github.com/flowmesh/nodeconf/module/metrics"
	"github.com/flowmesh/nodeconf/store"
	storemock "github.com/flowmesh/nodeconf/store/mock"
	"github.com/flowmesh/nodeconf/utils/unittest"
)

func testEngine(t *testing.T, st store.Store, attempts uint64) *updateEngine {
	cfg := defaultConfig()
	cfg.retryAttempts = attempts
	cfg.retryBase = time.Millisecond
	cfg.retryCap = 2 * time.Millisecond
	return newUpdateEngine(unittest.Logger(), metrics.NewNoopCollector(), st, cfg)
}

// TestApplyUpdateCommitsFirstAttempt verifies the happy path performs exactly
// one conditional write against the base version and stamps the next version.
func TestApplyUpdateCommitsFirstAttempt(t *testing.T) {
	base := unittest.NodesConfigurationFixture(7)

	st := storemock.NewStore(t)
	st.On("UpdateConfig", mock.Anything, mock.Anything, store.IfVersionIs(7)).
		Return(cluster.Version(8), nil).Once()

	engine := testEngine(t, st, 5)
	result, err := engine.ApplyUpdate(context.Background(), base, cluster.AddNode{ID: 9, Node: unittest.NodeFixture(9)})
	require.NoError(t, err)
	require.Equal(t, cluster.Version(8), result.Version)
	require.Contains(t, result.Nodes, cluster.NodeID(9))
}

// TestApplyUpdateExhaustsRetries verifies a persistently contended write stops
// after exactly the configured number of attempts and reports the latest
// winning record alongside the mismatch.
func TestApplyUpdateExhaustsRetries(t *testing.T) {
	const attempts = 4

	winner := unittest.NodesConfigurationFixture(50)
	winnerValue, err := codec.Serialize(winner)
	require.NoError(t, err)

	st := storemock.NewStore(t)
	st.On("UpdateConfig", mock.Anything, mock.Anything, mock.Anything).
		Return(cluster.EmptyVersion, store.NewVersionMismatchError(store.IfVersionIs(50), 50, winnerValue)).
		Times(attempts)

	engine := testEngine(t, st, attempts)
	result, err := engine.ApplyUpdate(context.Background(), unittest.NodesConfigurationFixture(7),
		cluster.AddNode{ID: 9, Node: unittest.NodeFixture(9)})
	require.True(t, store.IsVersionMismatchError(err))
	require.NotNil(t, result)
	require.Equal(t, cluster.Version(50), result.Version)
}

// TestApplyUpdateRefreshedBaseConflict verifies a delta that stops applying
// after a base refresh fails without further retries.
func TestApplyUpdateRefreshedBaseConflict(t *testing.T) {
	// the winning record already contains the node the delta wants to add
	winner := unittest.NodesConfigurationFixture(8)
	winnerValue, err := codec.Serialize(winner)
	require.NoError(t, err)

	st := storemock.NewStore(t)
	st.On("UpdateConfig", mock.Anything, mock.Anything, store.IfVersionIs(7)).
		Return(cluster.EmptyVersion, store.NewVersionMismatchError(store.IfVersionIs(7), 8, winnerValue)).
		Once()

	engine := testEngine(t, st, 5)
	_, err = engine.ApplyUpdate(context.Background(), unittest.NodesConfigurationFixture(7),
		cluster.AddNode{ID: 1, Node: unittest.NodeFixture(1)})
	require.True(t, cluster.IsInvalidUpdateError(err))
}

// TestApplyUpdateNilBase verifies a nil base is treated as the empty
// configuration, producing the first version.
func TestApplyUpdateNilBase(t *testing.T) {
	st := storemock.NewStore(t)
	st.On("UpdateConfig", mock.Anything, mock.Anything, store.IfVersionIs(cluster.EmptyVersion)).
		Return(cluster.EmptyVersion.Next(), nil).Once()

	engine := testEngine(t, st, 5)
	result, err := engine.ApplyUpdate(context.Background(), nil, cluster.AddNode{ID: 1, Node: unittest.NodeFixture(1)})
	require.NoError(t, err)
	require.Equal(t, cluster.EmptyVersion.Next(), result.Version)
}

// TestApplyUpdateStoreFailure verifies a non-conditional store failure is
// surfaced after a single attempt.
func TestApplyUpdateStoreFailure(t *testing.T) {
	st := storemock.NewStore(t)
	st.On("UpdateConfig", mock.Anything, mock.Anything, mock.Anything).
		Return(cluster.EmptyVersion, store.ErrUnavailable).Once()

	engine := testEngine(t, st, 5)
	_, err := engine.ApplyUpdate(context.Background(), unittest.NodesConfigurationFixture(7),
		cluster.AddNode{ID: 9, Node: unittest.NodeFixture(9)})
	require.ErrorIs(t, err, store.ErrUnavailable)
}

// TestOverwriteLosesWithoutRetry verifies an overwrite that loses to a newer
// record performs exactly one write and returns the winner.
func TestOverwriteLosesWithoutRetry(t *testing.T) {
	winner := unittest.NodesConfigurationFixture(103)
	winnerValue, err := codec.Serialize(winner)
	require.NoError(t, err)

	st := storemock.NewStore(t)
	st.On("UpdateConfig", mock.Anything, mock.Anything, store.IfVersionLessThan(98)).
		Return(cluster.EmptyVersion, store.NewVersionMismatchError(store.IfVersionLessThan(98), 103, winnerValue)).
		Once()

	engine := testEngine(t, st, 5)
	result, err := engine.Overwrite(context.Background(), unittest.NodesConfigurationFixture(98))
	require.True(t, store.IsVersionMismatchError(err))
	require.Equal(t, cluster.Version(103), result.Version)
}
