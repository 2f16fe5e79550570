// ABOUTME: Defines the Terminal interface for raw mode, size queries, and output.
// ABOUTME: Abstracts the caller-owned terminal lifecycle so it can target a real tty or a virtual one.

package terminal

import "errors"

// ErrNoTTY is returned (wrapped) by OpenTTY when the process has no
// controlling terminal.
var ErrNoTTY = errors.New("no controlling terminal")

// Terminal abstracts the terminal operations owned by the caller's main
// loop: entering and leaving raw mode, size queries and output.
type Terminal interface {
	EnterRawMode() error
	ExitRawMode() error
	Size() (width, height int, err error)
	Write(p []byte) (n int, err error)
}
