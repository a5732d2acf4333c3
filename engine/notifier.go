package engine

// Notifier is a concurrency primitive for informing worker routines about the
// arrival of new work unit(s). Notifiers essentially behave like channels in that
// they can be passed by value and still allow concurrent updates of the same
// internal state.
type Notifier struct {
	// Intuitively, the Notifier behaves like a gate:
	// * when the gate is activated, it lets a _single_ worker step through;
	//   stepping through deactivates the gate (atomically) until it is
	//   activated again
	// * the gate has memory: it can be activated while no-one is waiting, and a
	//   worker arriving later still passes through
	// * activating an already-activated gate is a no-op
	//
	// Activating the gate corresponds to calling Notify(), which pushes an element
	// to the buffered channel. Passing through the gate corresponds to receiving
	// from Channel(). As the notifying routine must not wait until a worker reads
	// from the channel, the channel needs a capacity of 1.

	notifier chan struct{} // buffered channel with capacity 1
}

// NewNotifier instantiates a Notifier.
func NewNotifier() Notifier {
	return Notifier{make(chan struct{}, 1)}
}

// Notify sends a notification. Non-blocking: if no worker is draining the channel
// and a notification is already pending, the notification is merged into the
// pending one.
func (n Notifier) Notify() {
	select {
	case n.notifier <- struct{}{}:
	default:
	}
}

// Channel returns a channel for receiving notifications.
func (n Notifier) Channel() <-chan struct{} {
	return n.notifier
}
