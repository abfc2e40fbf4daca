package lockscenarios

import (
	"sync"
	"sync/atomic"

	"github.com/petermattis/goid"
)

var (
	// Hands out display IDs in order of first use, so the main goroutine is normally 1
	goroutineCounter atomic.Uint64

	// Maps runtime goroutine IDs to display IDs
	idStore struct {
		sync.RWMutex
		ids map[int64]uint64
	}
)

func init() {
	idStore.ids = make(map[int64]uint64, 64)
}

// GetGoroutineID returns the display ID of the current goroutine.
// The first call from a goroutine assigns the next free ID; later calls
// from the same goroutine return the same value until ReleaseGoroutineID.
func GetGoroutineID() uint64 {
	key := goid.Get()

	// Fast path: ID already assigned
	idStore.RLock()
	id, exists := idStore.ids[key]
	idStore.RUnlock()
	if exists {
		return id
	}

	idStore.Lock()
	defer idStore.Unlock()

	// Double-check after acquiring write lock
	if id, exists := idStore.ids[key]; exists {
		return id
	}

	id = goroutineCounter.Add(1)
	idStore.ids[key] = id
	return id
}

// ReleaseGoroutineID forgets the current goroutine's display ID.
// Call it as the last thing a goroutine does.
func ReleaseGoroutineID() {
	key := goid.Get()
	idStore.Lock()
	delete(idStore.ids, key)
	idStore.Unlock()
}

// GetStoredGoroutineCount returns number of stored IDs for monitoring
func GetStoredGoroutineCount() int {
	idStore.RLock()
	defer idStore.RUnlock()
	return len(idStore.ids)
}
