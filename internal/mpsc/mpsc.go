// ABOUTME: Unbounded multi-producer/single-consumer queue with disconnect semantics
// ABOUTME: Send never blocks; Recv blocks until an item arrives or every sender is closed

package mpsc

import (
	"errors"
	"sync"
)

// ErrDisconnected is returned by Send once the receiver is closed, and by
// Recv once every sender is closed and the queue has been drained.
var ErrDisconnected = errors.New("channel disconnected")

// ErrSenderClosed is returned by Send on a handle that was already closed.
var ErrSenderClosed = errors.New("send on closed sender")

// shared is the state behind one sender/receiver family.
type shared[T any] struct {
	mu           sync.Mutex
	ready        *sync.Cond
	items        []T
	senders      int
	receiverGone bool
}

// Sender is one producer handle. Clone it for every additional producer and
// Close each handle when its producer is done.
type Sender[T any] struct {
	s      *shared[T]
	once   sync.Once
	closed bool
}

// Receiver is the single consumer handle.
type Receiver[T any] struct {
	s *shared[T]
}

// New creates a queue and returns its first sender and the receiver.
// The queue has no capacity limit: memory grows if the receiver stops
// polling while senders keep producing.
func New[T any]() (*Sender[T], *Receiver[T]) {
	s := &shared[T]{senders: 1}
	s.ready = sync.NewCond(&s.mu)
	return &Sender[T]{s: s}, &Receiver[T]{s: s}
}

// Clone returns a new sender handle on the same queue.
// Cloning a closed handle still yields a live one.
func (tx *Sender[T]) Clone() *Sender[T] {
	tx.s.mu.Lock()
	tx.s.senders++
	tx.s.mu.Unlock()
	return &Sender[T]{s: tx.s}
}

// Send appends v to the queue. It never blocks and only fails with
// ErrDisconnected when the receiver has been closed.
func (tx *Sender[T]) Send(v T) error {
	tx.s.mu.Lock()
	defer tx.s.mu.Unlock()

	if tx.s.receiverGone {
		return ErrDisconnected
	}
	if tx.closed {
		return ErrSenderClosed
	}
	tx.s.items = append(tx.s.items, v)
	tx.s.ready.Signal()
	return nil
}

// Close drops this sender handle. Further calls are no-ops.
func (tx *Sender[T]) Close() {
	tx.once.Do(func() {
		tx.s.mu.Lock()
		tx.closed = true
		tx.s.senders--
		if tx.s.senders == 0 {
			tx.s.ready.Broadcast()
		}
		tx.s.mu.Unlock()
	})
}

// Recv removes and returns the oldest item, blocking until one is available.
// Buffered items are still delivered after the last sender closes.
func (rx *Receiver[T]) Recv() (T, error) {
	rx.s.mu.Lock()
	defer rx.s.mu.Unlock()

	for len(rx.s.items) == 0 && rx.s.senders > 0 && !rx.s.receiverGone {
		rx.s.ready.Wait()
	}

	var zero T
	if rx.s.receiverGone || len(rx.s.items) == 0 {
		return zero, ErrDisconnected
	}

	v := rx.s.items[0]
	rx.s.items[0] = zero
	rx.s.items = rx.s.items[1:]
	if len(rx.s.items) == 0 {
		// Release the backing array once drained.
		rx.s.items = nil
	}
	return v, nil
}

// Close drops the receiver. Pending items are discarded, later sends fail
// with ErrDisconnected, and blocked or later Recv calls return it too.
func (rx *Receiver[T]) Close() {
	rx.s.mu.Lock()
	defer rx.s.mu.Unlock()

	rx.s.receiverGone = true
	rx.s.items = nil
	rx.s.ready.Broadcast()
}

// Len returns the number of buffered items.
func (rx *Receiver[T]) Len() int {
	rx.s.mu.Lock()
	defer rx.s.mu.Unlock()
	return len(rx.s.items)
}

// Senders returns the number of live sender handles.
func (rx *Receiver[T]) Senders() int {
	rx.s.mu.Lock()
	defer rx.s.mu.Unlock()
	return rx.s.senders
}
