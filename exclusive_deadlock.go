//go:build deadlock

package lockscenarios

import (
	"time"

	deadlock "github.com/sasha-s/go-deadlock"
)

// DeadlockDetection is true when built with -tags deadlock.
const DeadlockDetection = true

func init() {
	deadlock.Opts.DeadlockTimeout = 30 * time.Second
}

// exclusive is the non-reentrant lock underneath ReentrantMutex.
// This build reports goroutines stuck on it for longer than
// deadlock.Opts.DeadlockTimeout.
type exclusive struct {
	deadlock.Mutex
}
