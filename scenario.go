package lockscenarios

import (
	"errors"
	"fmt"
	"time"
)

// ErrSimulatedFailure is raised on purpose inside the lock block of
// MultiNoJoinWithError.
var ErrSimulatedFailure = errors.New("simulated failure inside lock block")

// Scenario is one named demonstration.
type Scenario struct {
	Name string
	Run  func()
}

// Runner executes the lock scenarios against one shared mutex.
type Runner struct {
	lock   *ReentrantMutex
	logger *Logger
	worker *LockedWorker
	config Config
}

// NewRunner wires a Runner around lock. Both the main goroutine and every
// worker it spawns contend for that same mutex.
func NewRunner(lock *ReentrantMutex, logger *Logger, config Config) *Runner {
	return &Runner{
		lock:   lock,
		logger: logger,
		worker: NewLockedWorker(lock, logger, config.WorkDuration),
		config: config,
	}
}

// Lock returns the shared mutex.
func (r *Runner) Lock() *ReentrantMutex {
	return r.lock
}

// Scenarios lists the demonstrations in the order RunAll executes them.
// The last one never returns.
func (r *Runner) Scenarios() []Scenario {
	return []Scenario{
		{Name: "single thread", Run: r.SingleThread},
		{Name: "multiple threads without join", Run: func() { r.MultiNoJoin() }},
		{Name: "multiple threads with error", Run: func() { r.MultiNoJoinWithError() }},
		{Name: "multiple threads with join", Run: r.MultiWithJoin},
	}
}

// RunAll runs every scenario in order, pausing after each one.
func (r *Runner) RunAll(pause Pauser) error {
	for _, s := range r.Scenarios() {
		s.Run()
		if err := pause.Pause(); err != nil {
			return fmt.Errorf("pause after %s: %w", s.Name, err)
		}
	}
	return nil
}

// SingleThread holds the lock and calls the worker on the same goroutine.
// The worker's acquisition re-enters and never blocks.
func (r *Runner) SingleThread() {
	r.logger.Log("Test 1: Single thread ---")
	r.logger.Log("Acquiring lock from main method...")
	_ = r.lock.With("main", func() error {
		r.worker.Run()
		return nil
	})
	r.logger.Log("Main method released lock.")
}

// MultiNoJoin holds the lock while a worker goroutine waits for it, then
// releases it without waiting for the worker. The returned thread is
// usually still running.
func (r *Runner) MultiNoJoin() *Thread {
	r.logger.Log("Test 2: Multiple threads, don't wait for thread to finish ---")
	r.logger.Log("Acquiring lock from main method...")

	var worker *Thread
	_ = r.lock.With("main", func() error {
		// Runs before With's Unlock, so the worker cannot log ahead of it
		defer r.logger.Log("Main method released lock.")

		worker = r.spawnWorker()
		r.sleepMain()
		return nil
	})
	return worker
}

// MultiNoJoinWithError is MultiNoJoin with an error returned from inside
// the lock block. The error is caught and logged here, and the lock is
// released on the way out regardless.
func (r *Runner) MultiNoJoinWithError() *Thread {
	r.logger.Log("Test 3: Multiple threads, but return an error in main thread's lock ---")

	var worker *Thread
	r.logger.Log("Acquiring lock from main method...")
	err := r.lock.With("main", func() error {
		worker = r.spawnWorker()
		r.sleepMain()
		r.logger.Log("Simulating an error from within lock block in main method...")
		return fmt.Errorf("main method: %w", ErrSimulatedFailure)
	})
	if err != nil {
		r.logger.Logf("Main method caught error here: %v", err)
	}

	r.logger.Log("Main method released lock.")
	return worker
}

// MultiWithJoin holds the lock and joins a worker that needs the same lock.
// Neither goroutine can make progress and the call never returns.
func (r *Runner) MultiWithJoin() {
	r.logger.Log("Test 4: Multiple threads, wait for thread to finish via join ---")
	r.logger.Log("Acquiring lock from main method...")

	_ = r.lock.With("main", func() error {
		defer r.logger.Log("Main method released lock.")

		worker := r.spawnWorker()
		r.sleepMain()

		r.logger.Log("Main thread is now attempting to join with the method call thread, it can't.")
		r.logger.Log("Deadlock achieved.")
		worker.Join()
		r.logger.Log("You will never see this. :(")
		return nil
	})
}

func (r *Runner) spawnWorker() *Thread {
	return Spawn("worker", r.worker.Run)
}

func (r *Runner) sleepMain() {
	r.logger.Logf("Sleeping for: %d ms. in main method call.", r.config.WorkDuration/time.Millisecond)
	time.Sleep(r.config.WorkDuration)
}
