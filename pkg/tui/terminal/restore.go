// ABOUTME: RestoreOnPanic recovers from panics, restores the terminal, and prints the stack trace.
// ABOUTME: RecoverGoroutine does the same for background goroutines without exiting the process.

package terminal

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
)

const showCursor = "\033[?25h"

// panicOutput receives panic reports; tests swap it.
var panicOutput io.Writer = os.Stderr

// RestoreOnPanic should be deferred at the top of the main loop that owns
// the terminal. On panic it shows the cursor, leaves raw mode, prints the
// panic value and stack, and exits with code 1.
func RestoreOnPanic(t Terminal) {
	r := recover()
	if r == nil {
		return
	}

	restore(t)
	fmt.Fprintf(panicOutput, "\npanic: %v\n\n%s\n", r, debug.Stack())
	os.Exit(1)
}

// RecoverGoroutine should be deferred at the top of goroutines that run
// while the terminal is raw. It does NOT exit, so the main loop keeps
// control of shutdown.
func RecoverGoroutine(t Terminal) {
	r := recover()
	if r == nil {
		return
	}

	restore(t)
	fmt.Fprintf(panicOutput, "\ngoroutine panic: %v\n\n%s\n", r, debug.Stack())
}

// restore is best effort: the terminal may already be gone.
func restore(t Terminal) {
	_, _ = t.Write([]byte(showCursor))
	_ = t.ExitRawMode()
}
