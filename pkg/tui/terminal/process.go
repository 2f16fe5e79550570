// ABOUTME: ProcessTerminal implements Terminal on a tty file using golang.org/x/term.
// ABOUTME: Owns the raw-mode state for the caller; the event workers never touch it.

package terminal

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/term"
)

// ProcessTerminal is a real terminal backed by a tty file (usually the one
// returned by OpenTTY) and x/term.
type ProcessTerminal struct {
	mu       sync.Mutex
	tty      *os.File
	oldState *term.State
}

// NewProcessTerminal returns a ProcessTerminal on the given tty file.
func NewProcessTerminal(tty *os.File) *ProcessTerminal {
	return &ProcessTerminal{tty: tty}
}

// EnterRawMode switches the tty to raw mode, saving the previous state.
// Calling it while already raw is a no-op.
func (t *ProcessTerminal) EnterRawMode() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.oldState != nil {
		return nil
	}
	state, err := term.MakeRaw(int(t.tty.Fd()))
	if err != nil {
		return fmt.Errorf("entering raw mode: %w", err)
	}
	t.oldState = state
	return nil
}

// ExitRawMode restores the tty to the state saved by EnterRawMode.
func (t *ProcessTerminal) ExitRawMode() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.oldState == nil {
		return nil
	}
	if err := term.Restore(int(t.tty.Fd()), t.oldState); err != nil {
		return fmt.Errorf("exiting raw mode: %w", err)
	}
	t.oldState = nil
	return nil
}

// IsRaw reports whether EnterRawMode is in effect.
func (t *ProcessTerminal) IsRaw() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.oldState != nil
}

// Size returns the current terminal dimensions.
func (t *ProcessTerminal) Size() (width, height int, err error) {
	w, h, err := term.GetSize(int(t.tty.Fd()))
	if err != nil {
		return 0, 0, fmt.Errorf("getting terminal size: %w", err)
	}
	return w, h, nil
}

// Write sends bytes to the tty.
func (t *ProcessTerminal) Write(p []byte) (int, error) {
	n, err := t.tty.Write(p)
	if err != nil {
		return n, fmt.Errorf("writing to tty: %w", err)
	}
	return n, nil
}
