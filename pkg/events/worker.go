// ABOUTME: The two producers feeding the dispatcher: terminal input and the tick heartbeat.
// ABOUTME: Each owns one sender handle and exits on its first failed send.

package events

import (
	"errors"
	"time"

	"github.com/mauromedda/ttyevents/internal/log"
	"github.com/mauromedda/ttyevents/internal/mpsc"
	"github.com/mauromedda/ttyevents/pkg/tui/input"
)

// runInput forwards decoded keys until the source ends or the receiver is
// gone. With no key pressed it stays blocked in Read even after the
// dispatcher is closed; it exits on the next key.
func runInput[T any](src Source[T], tx *mpsc.Sender[Event[T]]) {
	defer tx.Close()

	r, err := src.Open()
	if err != nil {
		log.Error("input worker: opening terminal: %v", err)
		return
	}
	defer r.Close()

	for k, err := range src.Keys(r) {
		if err != nil {
			if errors.Is(err, input.ErrMalformed) {
				continue
			}
			log.Debug("input worker: stream ended: %v", err)
			return
		}
		if err := tx.Send(Input(k)); err != nil {
			log.Debug("input worker: %v, stopping", err)
			return
		}
	}
	log.Debug("input worker: terminal closed")
}

// runTick sends a Tick every rate until the receiver is gone. The period
// drifts by however long each send takes.
func runTick[T any](rate time.Duration, tx *mpsc.Sender[Event[T]]) {
	defer tx.Close()

	rate = max(rate, 0)
	for {
		if err := tx.Send(Tick[T]()); err != nil {
			return
		}
		time.Sleep(rate)
	}
}
