package lockscenarios

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestGoroutineIDUniqueness verifies that:
// 1. Each goroutine gets a unique ID
// 2. IDs remain consistent within the same goroutine
// 3. Released IDs are not handed out again
func TestGoroutineIDUniqueness(t *testing.T) {
	const numGoroutines = 1000

	var (
		wg         sync.WaitGroup
		idMap      sync.Map
		duplicates atomic.Int32
		failures   atomic.Int32
	)

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(routineNum int) {
			defer func() {
				ReleaseGoroutineID()
				wg.Done()
			}()

			id1 := GetGoroutineID()
			id2 := GetGoroutineID()
			if id1 != id2 {
				failures.Add(1)
				return
			}
			if _, loaded := idMap.LoadOrStore(id1, routineNum); loaded {
				duplicates.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Zero(t, failures.Load(), "ID changed within a goroutine")
	assert.Zero(t, duplicates.Load(), "duplicate IDs handed out")
}

func TestGoroutineIDNonZero(t *testing.T) {
	assert.NotZero(t, GetGoroutineID())
}

func TestReleaseGoroutineID(t *testing.T) {
	var before, after uint64
	done := make(chan struct{})
	go func() {
		defer close(done)
		before = GetGoroutineID()
		ReleaseGoroutineID()
		after = GetGoroutineID()
		ReleaseGoroutineID()
	}()
	<-done

	assert.NotEqual(t, before, after, "a released goroutine should get a fresh ID")
	assert.Greater(t, after, before)
}

func TestGoroutineIDStableWhileHoldingMutex(t *testing.T) {
	mutex := NewReentrantMutex("stable-id")

	th := Spawn("holder", func() {
		mutex.Lock()
		id := GetGoroutineID()
		assert.Equal(t, id, mutex.Owner())
		assert.NotPanics(t, mutex.Unlock)
	})
	waitDone(t, th, time.Second)

	assert.Zero(t, mutex.HoldCount())
}
