// ABOUTME: Windows controlling-terminal opener backed by the CONIN$ console device.
// ABOUTME: Mirrors the unix /dev/tty behaviour so redirected stdin does not matter.

//go:build windows

package terminal

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

const ttyPath = "CONIN$"

// OpenTTY opens the console input device.
func OpenTTY() (*os.File, error) {
	f, err := os.OpenFile(ttyPath, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w: %w", ttyPath, ErrNoTTY, err)
	}
	if !term.IsTerminal(int(f.Fd())) {
		_ = f.Close()
		return nil, fmt.Errorf("%s is not a console: %w", ttyPath, ErrNoTTY)
	}
	return f, nil
}
