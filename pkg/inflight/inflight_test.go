package inflight

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuard_RejectsSameKey(t *testing.T) {
	g := New()

	release, ok := g.TryAcquire("photo:ip:1.2.3.4")
	require.True(t, ok)
	assert.True(t, g.Busy("photo:ip:1.2.3.4"))

	_, ok = g.TryAcquire("photo:ip:1.2.3.4")
	assert.False(t, ok)

	other, ok := g.TryAcquire("chat:abc")
	require.True(t, ok, "a different action must not be blocked")
	other()

	release()
	release()
	assert.False(t, g.Busy("photo:ip:1.2.3.4"))

	again, ok := g.TryAcquire("photo:ip:1.2.3.4")
	require.True(t, ok)
	again()
}

func TestGuard_ConcurrentSubmissions(t *testing.T) {
	g := New()

	var winners, attempts atomic.Int32
	start := make(chan struct{})
	hold := make(chan struct{})
	var wg sync.WaitGroup

	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			release, ok := g.TryAcquire("same")
			attempts.Add(1)
			if ok {
				winners.Add(1)
				<-hold
				release()
			}
		}()
	}

	close(start)
	require.Eventually(t, func() bool { return attempts.Load() == 32 }, time.Second, time.Millisecond)
	close(hold)
	wg.Wait()

	assert.Equal(t, int32(1), winners.Load())
}
