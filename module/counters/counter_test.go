package counters

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMonotonicConsumer(t *testing.T) {
	counter := NewMonotonicCounter(3)
	require.Equal(t, uint64(3), counter.Value())

	// updates to lower or equal values are rejected
	require.False(t, counter.Set(2))
	require.Equal(t, uint64(3), counter.Value())
	require.False(t, counter.Set(3))
	require.Equal(t, uint64(3), counter.Value())

	require.True(t, counter.Set(4))
	require.Equal(t, uint64(4), counter.Value())
}

func TestMonotonicConsumer_Concurrent(t *testing.T) {
	counter := NewMonotonicCounter(0)

	var wg sync.WaitGroup
	for i := 1; i <= 100; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			counter.Set(uint64(i))
		}()
	}
	wg.Wait()

	// the highest proposed value always wins
	require.Equal(t, uint64(100), counter.Value())
}
