package lockscenarios

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// ErrInterrupted is returned by KeyPressPause when Ctrl-C is pressed while
// the terminal is in raw mode.
var ErrInterrupted = errors.New("interrupted")

const ctrlC = 0x03

// Pauser gates progress between scenarios.
type Pauser interface {
	Pause() error
}

// NoPause returns immediately.
type NoPause struct{}

// Pause implements Pauser.
func (NoPause) Pause() error { return nil }

// KeyPressPause waits, prints a prompt and blocks until a single key is read.
type KeyPressPause struct {
	in     io.Reader
	out    io.Writer
	delay  time.Duration
	prompt lipgloss.Style
}

// NewKeyPressPause returns a pause that sleeps for delay before prompting
// on out and reading one key from in.
func NewKeyPressPause(in io.Reader, out io.Writer, delay time.Duration) *KeyPressPause {
	renderer := lipgloss.NewRenderer(out)
	return &KeyPressPause{
		in:     in,
		out:    out,
		delay:  delay,
		prompt: renderer.NewStyle().Bold(true),
	}
}

// Pause implements Pauser. End of input counts as a key press.
func (p *KeyPressPause) Pause() error {
	time.Sleep(p.delay)
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, p.prompt.Render("Press a key to continue..."))
	if err := p.readKey(); err != nil {
		return err
	}
	fmt.Fprintln(p.out)
	return nil
}

// readKey reads one byte, switching a terminal to raw mode first so the
// key does not need to be followed by Enter.
func (p *KeyPressPause) readKey() error {
	if f, ok := p.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		state, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("enter raw mode: %w", err)
		}
		defer term.Restore(fd, state)
	}

	var key [1]byte
	if _, err := io.ReadFull(p.in, key[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("read key: %w", err)
	}
	if key[0] == ctrlC {
		return ErrInterrupted
	}
	return nil
}
