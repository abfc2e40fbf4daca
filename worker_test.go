package lockscenarios

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var workerMessages = []string{
	"Called method acquiring lock...",
	"Called method acquired lock, sleeping...",
	"Called method awake.",
	"Called method completed okay.",
}

func TestLockedWorkerRun(t *testing.T) {
	buf := &syncBuffer{}
	mutex := NewReentrantMutex("worker")
	worker := NewLockedWorker(mutex, NewLogger(buf), 20*time.Millisecond)

	start := time.Now()
	worker.Run()

	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	es := entries(t, buf)
	assert.Equal(t, workerMessages, messages(es))
	for _, e := range es {
		assert.Equal(t, GetGoroutineID(), e.thread)
	}
	assert.Zero(t, mutex.HoldCount())
}

func TestLockedWorkerRunReentersHeldLock(t *testing.T) {
	buf := &syncBuffer{}
	mutex := NewReentrantMutex("worker")
	worker := NewLockedWorker(mutex, NewLogger(buf), time.Millisecond)

	mutex.LockWithPurpose("outer")
	worker.Run()

	assert.Equal(t, 1, mutex.HoldCount(), "worker must give back only its own hold")
	assert.EqualValues(t, 1, mutex.Stats().Reentries)
	mutex.Unlock()
	assert.Zero(t, mutex.HoldCount())
}

func TestLockedWorkerWaitsForHolder(t *testing.T) {
	buf := &syncBuffer{}
	mutex := NewReentrantMutex("worker")
	worker := NewLockedWorker(mutex, NewLogger(buf), time.Millisecond)

	mutex.Lock()
	th := Spawn("worker", worker.Run)

	time.Sleep(30 * time.Millisecond)
	require.Equal(t, []string{"Called method acquiring lock..."}, messages(entries(t, buf)))

	mutex.Unlock()
	waitDone(t, th, time.Second)
	assert.Equal(t, workerMessages, messages(entries(t, buf)))
}
