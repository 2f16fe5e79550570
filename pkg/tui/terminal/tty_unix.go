// ABOUTME: Unix controlling-terminal opener backed by /dev/tty.
// ABOUTME: Reading /dev/tty keeps key input working when stdin is redirected.

//go:build unix

package terminal

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

const ttyPath = "/dev/tty"

// OpenTTY opens the process's controlling terminal for reading and writing.
func OpenTTY() (*os.File, error) {
	f, err := os.OpenFile(ttyPath, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w: %w", ttyPath, ErrNoTTY, err)
	}
	if !term.IsTerminal(int(f.Fd())) {
		_ = f.Close()
		return nil, fmt.Errorf("%s is not a terminal: %w", ttyPath, ErrNoTTY)
	}
	return f, nil
}
