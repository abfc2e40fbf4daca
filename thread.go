package lockscenarios

import (
	"golang.org/x/sync/errgroup"
)

// Thread is a goroutine started by Spawn. It may be joined or simply left
// to run; nothing stops it early.
type Thread struct {
	name  string
	group errgroup.Group
	done  chan struct{}
}

// Spawn starts fn on a new goroutine and returns immediately.
func Spawn(name string, fn func()) *Thread {
	t := &Thread{
		name: name,
		done: make(chan struct{}),
	}
	t.group.Go(func() error {
		defer close(t.done)
		defer ReleaseGoroutineID()
		fn()
		return nil
	})
	return t
}

// Name returns the name given to Spawn.
func (t *Thread) Name() string {
	return t.name
}

// Join blocks until the goroutine has returned. There is no timeout.
// The body never returns an error, so Wait's result is always nil.
func (t *Thread) Join() {
	_ = t.group.Wait()
}

// Done is closed once the goroutine has returned.
func (t *Thread) Done() <-chan struct{} {
	return t.done
}
