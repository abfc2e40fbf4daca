package lockscenarios

import "time"

// LockedWorker is a unit of simulated work done under the shared lock.
type LockedWorker struct {
	lock     *ReentrantMutex
	logger   *Logger
	duration time.Duration
}

// NewLockedWorker returns a worker that holds lock for duration on each Run.
func NewLockedWorker(lock *ReentrantMutex, logger *Logger, duration time.Duration) *LockedWorker {
	return &LockedWorker{
		lock:     lock,
		logger:   logger,
		duration: duration,
	}
}

// Run acquires the lock, sleeps, and releases it. Called from a goroutine
// that already holds the lock, the acquisition re-enters without blocking.
func (w *LockedWorker) Run() {
	w.logger.Log("Called method acquiring lock...")
	_ = w.lock.With("worker", func() error {
		w.logger.Log("Called method acquired lock, sleeping...")
		time.Sleep(w.duration)
		w.logger.Log("Called method awake.")
		return nil
	})
	w.logger.Log("Called method completed okay.")
}
