package lockscenarios

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for reading while goroutines write.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

var lineRE = regexp.MustCompile(`^(\d{2}:\d{2}:\d{2}\.\d{3}) \[Thread: (\d{2,})\] - (.*)$`)

type entry struct {
	thread  uint64
	message string
}

// entries parses every log line written so far.
func entries(t *testing.T, b *syncBuffer) []entry {
	t.Helper()
	var out []entry
	for _, line := range strings.Split(strings.TrimRight(b.String(), "\n"), "\n") {
		if line == "" {
			continue
		}
		m := lineRE.FindStringSubmatch(line)
		if m == nil {
			t.Fatalf("malformed log line %q", line)
		}
		id, err := strconv.ParseUint(m[2], 10, 64)
		if err != nil {
			t.Fatalf("bad thread id in %q: %v", line, err)
		}
		out = append(out, entry{thread: id, message: m[3]})
	}
	return out
}

func messages(es []entry) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.message
	}
	return out
}

// indexOf returns the position of the first entry whose message starts with prefix, or -1.
func indexOf(es []entry, prefix string) int {
	for i, e := range es {
		if strings.HasPrefix(e.message, prefix) {
			return i
		}
	}
	return -1
}

func testConfig() Config {
	return Config{
		WorkDuration: 30 * time.Millisecond,
		SettleDelay:  0,
	}
}

func newTestRunner(t *testing.T) (*Runner, *syncBuffer) {
	t.Helper()
	buf := &syncBuffer{}
	lock := NewReentrantMutex(t.Name())
	return NewRunner(lock, NewLogger(buf), testConfig()), buf
}

func waitDone(t *testing.T, th *Thread, timeout time.Duration) {
	t.Helper()
	select {
	case <-th.Done():
	case <-time.After(timeout):
		t.Fatalf("thread %s did not finish within %v", th.Name(), timeout)
	}
}
