// Copyright (c) 2024 Christoph C. Cemper
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package lockscenarios

import (
	"fmt"
	"log"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// ReentrantMutex is a mutual exclusion lock that the holding goroutine may
// acquire again without blocking. Each Lock must be matched by an Unlock;
// the mutex is freed when the hold count drops back to zero.
//
// Ownership is tracked by goroutine display ID (see GetGoroutineID).
type ReentrantMutex struct {
	name   string
	logger *log.Logger

	held exclusive

	// Protected by internal mutex
	internal  sync.Mutex
	owner     uint64
	holdCount int
	active    *ActiveLock
	pending   []*LockRequest

	// Atomic counters
	acquired    atomic.Int64
	contentions atomic.Int64
	reentries   atomic.Int64
	maxWaitTime atomic.Int64 // in nanoseconds
	maxHoldTime atomic.Int64 // in nanoseconds
}

// NewReentrantMutex creates a free mutex. The name shows up in State and in
// misuse reports.
func NewReentrantMutex(name string) *ReentrantMutex {
	return &ReentrantMutex{
		name:   name,
		logger: log.Default(),
	}
}

// WithLogger sets the logger used for misuse reports and returns the mutex for chaining
func (m *ReentrantMutex) WithLogger(logger *log.Logger) *ReentrantMutex {
	if logger == nil {
		logger = log.Default()
	}
	m.logger = logger
	return m
}

// Name returns the name given at construction.
func (m *ReentrantMutex) Name() string {
	return m.name
}

// Lock acquires the mutex, blocking until no other goroutine holds it.
func (m *ReentrantMutex) Lock() {
	m.LockWithPurpose("unspecified")
}

// LockWithPurpose acquires the mutex and labels the acquisition for State.
// If the calling goroutine already holds the mutex the hold count is
// incremented and the call returns immediately; the purpose of the
// outermost acquisition is kept.
func (m *ReentrantMutex) LockWithPurpose(purpose string) {
	goroutineID := GetGoroutineID()
	callerInfo := getCallerInfo()

	m.internal.Lock()
	if m.holdCount > 0 && m.owner == goroutineID {
		m.holdCount++
		m.internal.Unlock()
		m.reentries.Add(1)
		return
	}

	request := &LockRequest{
		purpose:     purpose,
		startTime:   time.Now(),
		goroutineID: goroutineID,
		callerInfo:  callerInfo,
	}
	m.pending = append(m.pending, request)
	contended := m.holdCount > 0
	m.internal.Unlock()

	m.held.Lock()

	waitTime := time.Since(request.startTime)
	m.internal.Lock()
	m.removePending(request)
	m.owner = goroutineID
	m.holdCount = 1
	m.active = &ActiveLock{
		purpose:         purpose,
		acquireWaitTime: waitTime,
		acquiredAt:      time.Now(),
		goroutineID:     goroutineID,
		callerInfo:      request.callerInfo,
	}
	m.internal.Unlock()

	m.acquired.Add(1)
	if contended {
		m.contentions.Add(1)
	}
	storeMax(&m.maxWaitTime, int64(waitTime))
}

// Unlock releases one hold. The mutex becomes free, and one blocked
// goroutine may proceed, once every Lock by the holder has been matched.
// Unlocking a mutex the calling goroutine does not hold panics.
func (m *ReentrantMutex) Unlock() {
	goroutineID := GetGoroutineID()

	m.internal.Lock()
	if m.holdCount == 0 || m.owner != goroutineID {
		owner, count := m.owner, m.holdCount
		m.internal.Unlock()
		m.logger.Printf("[%s] WARNING: goroutine %d does not hold the mutex (owner %d, hold count %d)",
			m.name, goroutineID, owner, count)
		panic(fmt.Sprintf("[%s] attempting to unlock a mutex not held by goroutine %d",
			m.name, goroutineID))
	}

	m.holdCount--
	if m.holdCount > 0 {
		m.internal.Unlock()
		return
	}

	holdDuration := time.Since(m.active.acquiredAt)
	m.owner = 0
	m.active = nil
	m.internal.Unlock()

	storeMax(&m.maxHoldTime, int64(holdDuration))

	m.held.Unlock()
}

// With runs fn while holding the mutex. The mutex is released however fn
// exits: normal return, returned error, or panic. fn's error is returned
// unchanged.
func (m *ReentrantMutex) With(purpose string, fn func() error) error {
	m.LockWithPurpose(purpose)
	defer m.Unlock()
	return fn()
}

// HoldCount returns how many unmatched Locks the current holder has made.
// Zero means the mutex is free.
func (m *ReentrantMutex) HoldCount() int {
	m.internal.Lock()
	defer m.internal.Unlock()
	return m.holdCount
}

// Owner returns the display ID of the holding goroutine, or 0 when free.
func (m *ReentrantMutex) Owner() uint64 {
	m.internal.Lock()
	defer m.internal.Unlock()
	if m.holdCount == 0 {
		return 0
	}
	return m.owner
}

// HeldByCurrentGoroutine reports whether the caller holds the mutex.
func (m *ReentrantMutex) HeldByCurrentGoroutine() bool {
	id := GetGoroutineID()
	return m.Owner() == id
}

// State returns a snapshot of the holder and the pending requests.
func (m *ReentrantMutex) State() LockState {
	m.internal.Lock()
	defer m.internal.Unlock()

	state := LockState{Name: m.name}
	if m.holdCount > 0 && m.active != nil {
		state.Holder = &HolderInfo{
			GoroutineID: m.active.goroutineID,
			HoldCount:   m.holdCount,
			Purpose:     m.active.purpose,
			CallerInfo:  m.active.callerInfo,
			WaitedFor:   m.active.acquireWaitTime,
			HeldFor:     time.Since(m.active.acquiredAt),
		}
	}
	state.Waiters = make([]WaiterInfo, 0, len(m.pending))
	for _, req := range m.pending {
		state.Waiters = append(state.Waiters, WaiterInfo{
			GoroutineID: req.goroutineID,
			Purpose:     req.purpose,
			CallerInfo:  req.callerInfo,
			WaitingFor:  time.Since(req.startTime),
		})
	}
	return state
}

// Stats returns the counters collected since construction.
func (m *ReentrantMutex) Stats() LockStats {
	return LockStats{
		Acquired:    m.acquired.Load(),
		Contentions: m.contentions.Load(),
		Reentries:   m.reentries.Load(),
		MaxWaitTime: time.Duration(m.maxWaitTime.Load()),
		MaxHoldTime: time.Duration(m.maxHoldTime.Load()),
	}
}

// removePending drops req from the pending list. Caller holds internal.
func (m *ReentrantMutex) removePending(req *LockRequest) {
	for i, r := range m.pending {
		if r == req {
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			return
		}
	}
}

func storeMax(v *atomic.Int64, candidate int64) {
	for {
		current := v.Load()
		if candidate <= current {
			return
		}
		if v.CompareAndSwap(current, candidate) {
			return
		}
	}
}

// shouldIncludeFrame returns true if the frame belongs to the code that
// called into the mutex rather than to the runtime or the mutex itself.
func shouldIncludeFrame(frame runtime.Frame) bool {
	return !strings.HasPrefix(frame.Function, "runtime.") &&
		!strings.Contains(frame.Function, "(*ReentrantMutex)") &&
		!strings.HasSuffix(frame.Function, ".getCallerInfo")
}

// getCallerInfo returns "function file:line" of the first frame outside the mutex.
func getCallerInfo() string {
	var pcs [16]uintptr
	n := runtime.Callers(1, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	for {
		frame, more := frames.Next()
		if shouldIncludeFrame(frame) {
			// keep the part of the function name after the last /
			parts := strings.Split(frame.Function, "/")
			return fmt.Sprintf("%s %s:%d", parts[len(parts)-1], frame.File, frame.Line)
		}
		if !more {
			break
		}
	}
	return "unknown"
}
