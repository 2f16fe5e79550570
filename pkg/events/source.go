// ABOUTME: Source abstracts the terminal input collaborator used by the input worker.
// ABOUTME: TTYSource is the default: the controlling terminal decoded by pkg/tui/input.

package events

import (
	"io"
	"iter"
	"os"

	"github.com/mauromedda/ttyevents/pkg/tui/input"
	"github.com/mauromedda/ttyevents/pkg/tui/key"
	"github.com/mauromedda/ttyevents/pkg/tui/terminal"
)

// Source opens the terminal and turns its byte stream into keys.
//
// Keys must return a lazy sequence that ends when r is exhausted or fails.
// Errors matching input.ErrMalformed mark a single undecodable unit and are
// skipped by the worker; any other error ends the input stream.
type Source[T any] interface {
	Open() (io.ReadCloser, error)
	Keys(r io.Reader) iter.Seq2[T, error]
}

// TTYSource reads the controlling terminal, not standard input, so it keeps
// working when stdin is redirected.
type TTYSource struct {
	// Opener replaces terminal.OpenTTY when set.
	Opener func() (*os.File, error)

	// DecoderOptions are passed to every decoder built by Keys.
	DecoderOptions []input.Option
}

var _ Source[key.Key] = TTYSource{}

// Open returns the controlling terminal.
func (s TTYSource) Open() (io.ReadCloser, error) {
	open := s.Opener
	if open == nil {
		open = terminal.OpenTTY
	}
	f, err := open()
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Keys decodes r into key presses.
func (s TTYSource) Keys(r io.Reader) iter.Seq2[key.Key, error] {
	return input.NewDecoder(r, s.DecoderOptions...).Keys()
}
