package pulse

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCounterTakeAndReset(t *testing.T) {
	var c Counter
	require.Equal(t, uint32(0), c.TakeAndReset())
	c.OnEdge()
	c.OnEdge()
	c.OnEdge()
	require.Equal(t, uint32(3), c.Peek())
	require.Equal(t, uint32(3), c.TakeAndReset())
	require.Equal(t, uint32(0), c.TakeAndReset())
}

// No edge may be lost or double counted across reset points, no
// matter how reads interleave with increments.
func TestCounterConcurrentEdges(t *testing.T) {
	const (
		writers        = 8
		edgesPerWriter = 10000
	)

	var c Counter
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < edgesPerWriter; j++ {
				c.OnEdge()
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	var total uint32
	for {
		select {
		case <-done:
			total += c.TakeAndReset()
			require.Equal(t, uint32(writers*edgesPerWriter), total)
			return
		default:
			total += c.TakeAndReset()
		}
	}
}

func TestHandlerFunc(t *testing.T) {
	var n int
	h := HandlerFunc(func() { n++ })
	h.OnEdge()
	h.OnEdge()
	require.Equal(t, 2, n)
}
