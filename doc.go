/*
Package lockscenarios demonstrates how a reentrant mutual exclusion lock
behaves when shared between goroutines, including the classic way to
deadlock with a single lock.

Key Features:
  - ReentrantMutex: the holding goroutine may lock again without blocking
  - Scoped acquisition with With, which releases on every exit path
  - Goroutine display IDs so log lines show which goroutine did what
  - Lock introspection (holder, waiters, counters) through State and Stats

Basic Usage:

	lock := lockscenarios.NewReentrantMutex("shared")
	logger := lockscenarios.NewLogger(os.Stdout)
	runner := lockscenarios.NewRunner(lock, logger, lockscenarios.DefaultConfig())

	runner.SingleThread()         // reentrant acquisition on one goroutine
	runner.MultiNoJoin()          // worker waits until main releases
	runner.MultiNoJoinWithError() // an error still releases the lock
	runner.MultiWithJoin()        // main joins the worker while holding the lock: never returns

Output Format:

	15:04:05.000 [Thread: 01] - Acquiring lock from main method...

The last scenario hangs on purpose. Nothing inside the package detects or
breaks the deadlock; the process has to be killed from outside.

Building with -tags deadlock swaps the lock's core for
github.com/sasha-s/go-deadlock and sets DeadlockDetection. In that build the
waiting worker is reported after deadlock.Opts.DeadlockTimeout (30s) and the
detector's default handler exits the process, so the last scenario no longer
hangs forever.
*/
package lockscenarios
