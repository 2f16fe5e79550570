// ABOUTME: Config holds the dispatcher's exit key and tick interval.
// ABOUTME: Captured by value at construction and never mutated afterwards.

package events

import (
	"time"

	"github.com/mauromedda/ttyevents/pkg/tui/key"
)

// DefaultTickRate is the heartbeat interval used by New.
const DefaultTickRate = 250 * time.Millisecond

// Config is passed by value to the dispatcher and its tick worker.
// The dispatcher never compares keys against ExitKey; it is carried so
// the caller's main loop has one place to read it from.
type Config[T any] struct {
	ExitKey  T
	TickRate time.Duration
}

// DefaultConfig returns ExitKey 'q' and a 250ms tick.
func DefaultConfig() Config[key.Key] {
	return Config[key.Key]{
		ExitKey:  key.Rune('q'),
		TickRate: DefaultTickRate,
	}
}
