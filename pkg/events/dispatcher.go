// ABOUTME: Dispatcher merges terminal input and ticks into one blocking Next stream.
// ABOUTME: Constructors spawn both workers; Close drops the consumer end.

package events

import (
	"runtime"
	"sync"

	"github.com/mauromedda/ttyevents/internal/log"
	"github.com/mauromedda/ttyevents/internal/mpsc"
	"github.com/mauromedda/ttyevents/pkg/tui/key"
)

// ErrDisconnected is returned by Next once no producer remains and the
// queue is drained, or after Close.
var ErrDisconnected = mpsc.ErrDisconnected

// Dispatcher is the consumer side of the event stream. Next must only be
// called from one goroutine at a time.
type Dispatcher[T any] struct {
	cfg       Config[T]
	rx        *mpsc.Receiver[Event[T]]
	closeOnce sync.Once
}

// New returns a dispatcher on the controlling terminal with DefaultConfig.
func New() *Dispatcher[key.Key] {
	return WithConfig(DefaultConfig())
}

// WithConfig returns a dispatcher on the controlling terminal using cfg.
func WithConfig(cfg Config[key.Key]) *Dispatcher[key.Key] {
	return WithSource(cfg, TTYSource{})
}

// WithSource returns a dispatcher reading keys from src. Both workers are
// started before it returns; neither is ever joined.
//
// A dispatcher that becomes unreachable without Close is closed by the
// garbage collector, so its workers still stop on their next send.
func WithSource[T any](cfg Config[T], src Source[T]) *Dispatcher[T] {
	tx, rx := mpsc.New[Event[T]]()
	tickTx := tx.Clone()

	go runInput(src, tx)
	go runTick(cfg.TickRate, tickTx)

	d := &Dispatcher[T]{cfg: cfg, rx: rx}
	// The cleanup must not reference d or it would never run.
	runtime.AddCleanup(d, closeReceiver[T], rx)
	return d
}

func closeReceiver[T any](rx *mpsc.Receiver[Event[T]]) {
	log.Debug("dispatcher dropped without Close, %d producers live", rx.Senders())
	rx.Close()
}

// Next blocks until an event is available. The caller should treat
// ErrDisconnected as the end of the stream.
func (d *Dispatcher[T]) Next() (Event[T], error) {
	return d.rx.Recv()
}

// Close releases the consumer end. Buffered events are discarded and each
// worker stops on its next send. Close does not wait for them.
func (d *Dispatcher[T]) Close() {
	d.closeOnce.Do(func() {
		log.Debug("dispatcher closed, %d producers live", d.rx.Senders())
		d.rx.Close()
	})
}

// Config returns the configuration the dispatcher was built with.
func (d *Dispatcher[T]) Config() Config[T] {
	return d.cfg
}

// Pending returns the number of buffered events.
func (d *Dispatcher[T]) Pending() int {
	return d.rx.Len()
}
