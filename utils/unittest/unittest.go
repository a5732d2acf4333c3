package unittest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// RequireReturnsBefore requires that the given function returns before the
// duration expires.
func RequireReturnsBefore(t testing.TB, f func(), duration time.Duration) {
	done := make(chan struct{})

	go func() {
		f()
		close(done)
	}()

	select {
	case <-time.After(duration):
		require.Fail(t, "function did not return in time")
	case <-done:
	}
}

// RequireCloseBefore requires that the given channel closes before the duration
// expires.
func RequireCloseBefore(t testing.TB, c <-chan struct{}, duration time.Duration, message string) {
	select {
	case <-time.After(duration):
		require.Fail(t, "could not close done channel on time: "+message)
	case <-c:
	}
}

// RequireEventually polls the condition until it holds, failing the test if the
// deadline expires first.
func RequireEventually(t testing.TB, condition func() bool, deadline time.Duration, message string) {
	start := time.Now()
	for !condition() {
		if time.Since(start) > deadline {
			require.Fail(t, "condition never satisfied: "+message)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
