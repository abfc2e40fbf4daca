//go:build !deadlock

package lockscenarios

import "sync"

// DeadlockDetection is true when built with -tags deadlock.
const DeadlockDetection = false

// exclusive is the non-reentrant lock underneath ReentrantMutex.
// Build with -tags deadlock to swap in github.com/sasha-s/go-deadlock.
type exclusive struct {
	sync.Mutex
}
