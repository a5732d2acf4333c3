package module

// ConfigManagerMetrics exposes the instrumentation points of the nodes
// configuration manager.
type ConfigManagerMetrics interface {
	// SnapshotInstalled is called every time a newer configuration snapshot
	// becomes the manager's authoritative local snapshot.
	SnapshotInstalled(version uint64)

	// StaleSnapshotIgnored is called when a fetched or pushed configuration
	// carries a version no newer than the local snapshot and is dropped.
	StaleSnapshotIgnored()

	// UpdateConflict is called when a conditional write fails its version
	// precondition.
	UpdateConflict()

	// UpdateCommitted is called when an update or overwrite has been accepted
	// by the external store.
	UpdateCommitted(version uint64)

	// PollFailure is called when a refresh attempt against the external store
	// fails with a transient error.
	PollFailure()
}
