package lockscenarios

import (
	"fmt"
	"strings"
	"time"
)

// LockRequest tracks a goroutine waiting to acquire a ReentrantMutex
type LockRequest struct {
	purpose     string
	startTime   time.Time
	goroutineID uint64
	callerInfo  string
}

// ActiveLock tracks the current holder of a ReentrantMutex
type ActiveLock struct {
	purpose         string
	acquireWaitTime time.Duration
	acquiredAt      time.Time
	goroutineID     uint64
	callerInfo      string
}

// HolderInfo is a snapshot of the goroutine holding the mutex.
type HolderInfo struct {
	GoroutineID uint64
	HoldCount   int
	Purpose     string
	CallerInfo  string
	WaitedFor   time.Duration
	HeldFor     time.Duration
}

// WaiterInfo is a snapshot of a pending lock request.
type WaiterInfo struct {
	GoroutineID uint64
	Purpose     string
	CallerInfo  string
	WaitingFor  time.Duration
}

// LockState is a point-in-time view of a ReentrantMutex.
// Holder is nil when the mutex is free. Waiters are in arrival order.
type LockState struct {
	Name    string
	Holder  *HolderInfo
	Waiters []WaiterInfo
}

// Held reports whether some goroutine held the mutex when the snapshot was taken.
func (s LockState) Held() bool {
	return s.Holder != nil
}

// IsWaiting reports whether the given goroutine was queued for the mutex.
func (s LockState) IsWaiting(goroutineID uint64) bool {
	for _, w := range s.Waiters {
		if w.GoroutineID == goroutineID {
			return true
		}
	}
	return false
}

// stringer for LockState
func (s LockState) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== %s ===\n", s.Name)
	if s.Holder == nil {
		b.WriteString("Holder: none\n")
	} else {
		h := s.Holder
		fmt.Fprintf(&b, "Holder: goroutine %d for '%s' (holds %d, held %v, waited %v)\n",
			h.GoroutineID, h.Purpose, h.HoldCount, h.HeldFor.Round(time.Millisecond), h.WaitedFor.Round(time.Millisecond))
		if h.CallerInfo != "" {
			fmt.Fprintf(&b, "  at %s\n", h.CallerInfo)
		}
	}
	fmt.Fprintf(&b, "Waiters: %d\n", len(s.Waiters))
	for _, w := range s.Waiters {
		fmt.Fprintf(&b, "  - goroutine %d for '%s' waiting %v at %s\n",
			w.GoroutineID, w.Purpose, w.WaitingFor.Round(time.Millisecond), w.CallerInfo)
	}
	return b.String()
}

// LockStats is a snapshot of the counters a ReentrantMutex keeps.
type LockStats struct {
	Acquired    int64
	Contentions int64
	Reentries   int64
	MaxWaitTime time.Duration
	MaxHoldTime time.Duration
}
