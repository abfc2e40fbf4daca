package lockscenarios

import "time"

// Config holds the fixed durations the scenarios sleep for.
type Config struct {
	// WorkDuration is how long LockedWorker and the main goroutine sleep
	// while holding the shared lock.
	WorkDuration time.Duration
	// SettleDelay is how long to wait after a scenario before prompting,
	// giving detached workers time to finish logging.
	SettleDelay time.Duration
}

// DefaultConfig returns one second of work and two seconds of settling.
func DefaultConfig() Config {
	return Config{
		WorkDuration: time.Second,
		SettleDelay:  2 * time.Second,
	}
}
