package util

import (
	"context"
	"sync"
)

// AllClosed returns a channel that is closed when all input channels are closed.
func AllClosed(channels ...<-chan struct{}) <-chan struct{} {
	done := make(chan struct{})
	var wg sync.WaitGroup

	for _, ch := range channels {
		wg.Add(1)
		go func(ch <-chan struct{}) {
			<-ch
			wg.Done()
		}(ch)
	}

	go func() {
		wg.Wait()
		close(done)
	}()

	return done
}

// WaitClosed waits for either a signal/close on the channel or for the context to
// be cancelled. Returns nil if the channel was signalled/closed before returning,
// otherwise returns the context error.
func WaitClosed(ctx context.Context, ch <-chan struct{}) error {
	select {
	case <-ctx.Done():
		select {
		case <-ch:
			return nil
		default:
		}
		return ctx.Err()
	case <-ch:
		return nil
	}
}

// WaitError waits for either an error on the error channel or for the done channel
// to be closed. Returns an error if one is received on the error channel, otherwise
// returns nil.
//
// This handles a race condition where the done channel could have been closed as a
// result of an irrecoverable error being thrown, so that when the scheduler yields
// control back to this goroutine, both channels are available to read from. If the
// done case happens to be chosen at random to proceed instead of the error case,
// then we would return without error, which is a loss of information that could
// result in a failure to restart the component.
func WaitError(errChan <-chan error, done <-chan struct{}) error {
	select {
	case err := <-errChan:
		return err
	case <-done:
		select {
		case err := <-errChan:
			return err
		default:
		}
		return nil
	}
}
