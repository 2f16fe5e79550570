// ABOUTME: Tests for the unbounded MPSC queue
// ABOUTME: Covers FIFO order, disconnect in both directions, and concurrent producers

package mpsc

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
)

func TestQueue_FIFO(t *testing.T) {
	t.Parallel()

	tx, rx := New[int]()
	defer tx.Close()

	for i := range 5 {
		if err := tx.Send(i); err != nil {
			t.Fatalf("Send(%d) error: %v", i, err)
		}
	}
	if rx.Len() != 5 {
		t.Errorf("Len() = %d, want 5", rx.Len())
	}

	for want := range 5 {
		got, err := rx.Recv()
		if err != nil {
			t.Fatalf("Recv() error: %v", err)
		}
		if got != want {
			t.Errorf("Recv() = %d, want %d", got, want)
		}
	}
}

func TestQueue_SendNeverBlocks(t *testing.T) {
	t.Parallel()

	tx, rx := New[int]()
	defer tx.Close()

	// Far more than any buffered channel default; nobody is receiving.
	for i := range 100_000 {
		if err := tx.Send(i); err != nil {
			t.Fatalf("Send(%d) error: %v", i, err)
		}
	}
	if rx.Len() != 100_000 {
		t.Errorf("Len() = %d, want 100000", rx.Len())
	}
}

func TestQueue_RecvBlocksUntilSend(t *testing.T) {
	t.Parallel()

	tx, rx := New[string]()
	defer tx.Close()

	got := make(chan string, 1)
	go func() {
		v, err := rx.Recv()
		if err != nil {
			got <- "error: " + err.Error()
			return
		}
		got <- v
	}()

	select {
	case v := <-got:
		t.Fatalf("Recv returned %q before any send", v)
	case <-time.After(20 * time.Millisecond):
	}

	if err := tx.Send("hello"); err != nil {
		t.Fatalf("Send() error: %v", err)
	}

	select {
	case v := <-got:
		if v != "hello" {
			t.Errorf("Recv() = %q, want %q", v, "hello")
		}
	case <-time.After(time.Second):
		t.Fatal("Recv did not wake up after Send")
	}
}

func TestQueue_RecvAfterAllSendersClosed(t *testing.T) {
	t.Parallel()

	tx, rx := New[int]()
	tx2 := tx.Clone()

	if err := tx.Send(1); err != nil {
		t.Fatal(err)
	}
	tx.Close()
	if err := tx2.Send(2); err != nil {
		t.Fatal(err)
	}
	tx2.Close()

	// Buffered items survive sender shutdown.
	for _, want := range []int{1, 2} {
		got, err := rx.Recv()
		if err != nil {
			t.Fatalf("Recv() error: %v", err)
		}
		if got != want {
			t.Errorf("Recv() = %d, want %d", got, want)
		}
	}

	if _, err := rx.Recv(); !errors.Is(err, ErrDisconnected) {
		t.Errorf("Recv() on drained queue = %v, want ErrDisconnected", err)
	}
}

func TestQueue_BlockedRecvWakesOnLastClose(t *testing.T) {
	t.Parallel()

	tx, rx := New[int]()
	tx2 := tx.Clone()

	errCh := make(chan error, 1)
	go func() {
		_, err := rx.Recv()
		errCh <- err
	}()

	tx.Close()
	select {
	case err := <-errCh:
		t.Fatalf("Recv returned %v while a sender is still live", err)
	case <-time.After(20 * time.Millisecond):
	}

	tx2.Close()
	select {
	case err := <-errCh:
		if !errors.Is(err, ErrDisconnected) {
			t.Errorf("Recv() = %v, want ErrDisconnected", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Recv did not wake up after last sender closed")
	}
}

func TestQueue_SendAfterReceiverClosed(t *testing.T) {
	t.Parallel()

	tx, rx := New[int]()
	defer tx.Close()

	if err := tx.Send(1); err != nil {
		t.Fatal(err)
	}
	rx.Close()

	if err := tx.Send(2); !errors.Is(err, ErrDisconnected) {
		t.Errorf("Send() after receiver close = %v, want ErrDisconnected", err)
	}
	if rx.Len() != 0 {
		t.Errorf("Len() after receiver close = %d, want 0", rx.Len())
	}
	if _, err := rx.Recv(); !errors.Is(err, ErrDisconnected) {
		t.Errorf("Recv() after receiver close = %v, want ErrDisconnected", err)
	}
}

func TestQueue_SenderCloseIdempotent(t *testing.T) {
	t.Parallel()

	tx, rx := New[int]()
	tx2 := tx.Clone()
	defer tx2.Close()

	tx.Close()
	tx.Close()

	if rx.Senders() != 1 {
		t.Errorf("Senders() = %d, want 1", rx.Senders())
	}
	if err := tx.Send(1); !errors.Is(err, ErrSenderClosed) {
		t.Errorf("Send() on closed handle = %v, want ErrSenderClosed", err)
	}
}

func TestQueue_ConcurrentProducersKeepPerProducerOrder(t *testing.T) {
	t.Parallel()

	const producers = 4
	const perProducer = 500

	type item struct {
		producer int
		seq      int
	}

	tx, rx := New[item]()

	var g errgroup.Group
	for p := range producers {
		ptx := tx.Clone()
		g.Go(func() error {
			defer ptx.Close()
			for i := range perProducer {
				if err := ptx.Send(item{producer: p, seq: i}); err != nil {
					return err
				}
			}
			return nil
		})
	}
	tx.Close()

	last := make(map[int]int, producers)
	for p := range producers {
		last[p] = -1
	}

	received := 0
	for {
		it, err := rx.Recv()
		if errors.Is(err, ErrDisconnected) {
			break
		}
		if err != nil {
			t.Fatalf("Recv() error: %v", err)
		}
		if it.seq != last[it.producer]+1 {
			t.Errorf("producer %d: got seq %d after %d", it.producer, it.seq, last[it.producer])
		}
		last[it.producer] = it.seq
		received++
	}

	if err := g.Wait(); err != nil {
		t.Fatalf("producer error: %v", err)
	}
	if received != producers*perProducer {
		t.Errorf("received %d items, want %d", received, producers*perProducer)
	}
}
