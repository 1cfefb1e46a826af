package agent

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTurnLocksSerializePerKey(t *testing.T) {
	locks := newTurnLocks()

	var inside int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := locks.acquire("lead-1")
			defer release()
			cur := atomic.AddInt32(&inside, 1)
			assert.EqualValues(t, 1, cur)
			atomic.AddInt32(&inside, -1)
		}()
	}
	wg.Wait()

	locks.mu.Lock()
	defer locks.mu.Unlock()
	assert.Empty(t, locks.entries, "released entries must be reclaimed")
}

func TestTurnLocksIndependentKeys(t *testing.T) {
	locks := newTurnLocks()

	releaseA := locks.acquire("a")
	done := make(chan struct{})
	go func() {
		releaseB := locks.acquire("b")
		releaseB()
		close(done)
	}()

	// A held lock on "a" must not block "b".
	<-done
	releaseA()
}
