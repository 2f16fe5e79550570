// ABOUTME: Decoder turns a raw terminal byte stream into a lazy sequence of key-or-error units.
// ABOUTME: Buffers partial escape sequences, resolves lone ESC after a short timeout, flags malformed units.

package input

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/mauromedda/ttyevents/pkg/tui/key"
)

const (
	defaultReadBufSize = 256
	defaultEscTimeout  = 50 * time.Millisecond
	maxSequenceLen     = 32

	// A paste whose end marker never arrives is cut into chunks of at
	// most defaultMaxPaste bytes and abandoned after defaultPasteTimeout
	// without new input.
	defaultMaxPaste     = 64 << 10
	defaultPasteTimeout = 250 * time.Millisecond
	bracketStart       = "\x1b[200~"
	bracketEnd         = "\x1b[201~"
)

// ErrMalformed marks an input unit that could not be decoded into a key.
// Decoding continues with the next unit.
var ErrMalformed = errors.New("malformed input")

// ErrConsumed is yielded when Keys is ranged over a second time.
var ErrConsumed = errors.New("key sequence already consumed")

// DecodeError carries the raw bytes of a malformed unit.
type DecodeError struct {
	Bytes []byte
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed input %q", e.Bytes)
}

// Unwrap lets errors.Is match ErrMalformed.
func (e *DecodeError) Unwrap() error { return ErrMalformed }

// Decoder reads a terminal byte stream and decodes it into keys.
type Decoder struct {
	reader       io.Reader
	escTimeout   time.Duration
	pasteTimeout time.Duration
	maxPaste     int
	bufSize      int
	started      atomic.Bool
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithEscTimeout sets how long an incomplete escape sequence may wait for
// more bytes before it is resolved (a lone ESC becomes KeyEscape).
func WithEscTimeout(d time.Duration) Option {
	return func(dec *Decoder) {
		if d > 0 {
			dec.escTimeout = d
		}
	}
}

// WithPasteTimeout sets how long an unterminated bracketed paste may sit
// idle before it is dropped as malformed and decoding resumes.
func WithPasteTimeout(d time.Duration) Option {
	return func(dec *Decoder) {
		if d > 0 {
			dec.pasteTimeout = d
		}
	}
}

// WithMaxPaste caps how many bytes of a single paste are buffered. Larger
// pastes are reported as several malformed units.
func WithMaxPaste(n int) Option {
	return func(dec *Decoder) {
		if n > len(bracketStart)+len(bracketEnd) {
			dec.maxPaste = n
		}
	}
}

// WithBufferSize sets the size of each Read call.
func WithBufferSize(n int) Option {
	return func(dec *Decoder) {
		if n > 0 {
			dec.bufSize = n
		}
	}
}

// NewDecoder creates a Decoder over r.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	d := &Decoder{
		reader:       r,
		escTimeout:   defaultEscTimeout,
		pasteTimeout: defaultPasteTimeout,
		maxPaste:     defaultMaxPaste,
		bufSize:      defaultReadBufSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// readResult holds the outcome of a single Read call.
type readResult struct {
	data []byte
	err  error
}

// Keys returns the decoded key stream. Each element is either a key with a
// nil error, a *DecodeError (errors.Is ErrMalformed) for a unit that was
// skipped, or a final read error after which the sequence ends. io.EOF ends
// the sequence without an error. The sequence can only be ranged over once.
//
// Stopping the range early leaves the internal reader goroutine blocked in
// Read until the next byte arrives or the reader is closed.
func (d *Decoder) Keys() iter.Seq2[key.Key, error] {
	return func(yield func(key.Key, error) bool) {
		if !d.started.CompareAndSwap(false, true) {
			yield(key.Key{}, ErrConsumed)
			return
		}

		readCh := make(chan readResult)
		done := make(chan struct{})
		defer close(done)
		go d.readLoop(readCh, done)

		var buf []byte
		for {
			var ok bool
			if buf, ok = drain(buf, yield); !ok {
				return
			}

			if inPaste(buf) && len(buf) > d.maxPaste {
				var chunk []byte
				chunk, buf = splitPaste(buf)
				if !yield(key.Key{}, malformed(chunk)) {
					return
				}
			}

			var timeout <-chan time.Time
			var timer *time.Timer
			if len(buf) > 0 {
				wait := d.escTimeout
				if inPaste(buf) {
					wait = d.pasteTimeout
				}
				timer = time.NewTimer(wait)
				timeout = timer.C
			}

			select {
			case res, open := <-readCh:
				if timer != nil {
					timer.Stop()
				}
				if !open || res.err != nil {
					if !flush(buf, yield) {
						return
					}
					if open && !errors.Is(res.err, io.EOF) {
						yield(key.Key{}, fmt.Errorf("reading terminal input: %w", res.err))
					}
					return
				}
				buf = append(buf, res.data...)
			case <-timeout:
				k, err := force(buf)
				buf = nil
				if !yield(k, err) {
					return
				}
			}
		}
	}
}

// readLoop continuously reads from the reader and sends data on ch.
// It stops when done is closed or the reader fails.
func (d *Decoder) readLoop(ch chan<- readResult, done <-chan struct{}) {
	defer close(ch)
	tmp := make([]byte, d.bufSize)
	for {
		n, err := d.reader.Read(tmp)
		if n > 0 {
			data := make([]byte, n)
			copy(data, tmp[:n])
			select {
			case ch <- readResult{data: data}:
			case <-done:
				return
			}
		}
		if err != nil {
			select {
			case ch <- readResult{err: err}:
			case <-done:
			}
			return
		}
	}
}

// drain yields every complete unit at the front of buf and returns the
// incomplete remainder. ok is false when the consumer stopped.
func drain(buf []byte, yield func(key.Key, error) bool) ([]byte, bool) {
	for len(buf) > 0 {
		n, k, err := nextUnit(buf)
		if n == 0 {
			break
		}
		buf = buf[n:]
		if !yield(k, err) {
			return nil, false
		}
	}
	if len(buf) == 0 {
		return nil, true
	}
	return buf, true
}

// flush yields everything left in buf once no more input will arrive.
func flush(buf []byte, yield func(key.Key, error) bool) bool {
	buf, ok := drain(buf, yield)
	if !ok {
		return false
	}
	if len(buf) == 0 {
		return true
	}
	k, err := force(buf)
	return yield(k, err)
}

func inPaste(buf []byte) bool {
	return bytes.HasPrefix(buf, []byte(bracketStart))
}

// splitPaste cuts an oversized unterminated paste. It returns the chunk to
// report and a new buffer that still starts with the paste marker, keeping
// the trailing bytes that may begin the end marker.
func splitPaste(buf []byte) (chunk, rest []byte) {
	keep := len(bracketEnd) - 1
	cut := len(buf) - keep
	rest = append([]byte(bracketStart), buf[cut:]...)
	return buf[:cut], rest
}

// force resolves an incomplete unit once waiting is over: a lone ESC
// becomes KeyEscape, a parseable prefix becomes its key, anything else
// (including an abandoned paste) is malformed.
func force(buf []byte) (key.Key, error) {
	if k, ok := key.ParseKey(string(buf)); ok {
		return k, nil
	}
	return key.Key{}, malformed(buf)
}

// nextUnit decodes one unit from the front of buf. It returns n == 0 when
// the unit is incomplete and more bytes are needed.
func nextUnit(buf []byte) (n int, k key.Key, err error) {
	if inPaste(buf) {
		end := bytes.Index(buf[len(bracketStart):], []byte(bracketEnd))
		if end < 0 {
			return 0, key.Key{}, nil
		}
		n = len(bracketStart) + end + len(bracketEnd)
		return n, key.Key{}, malformed(buf[:n])
	}

	if buf[0] == 0x1b {
		return nextEscapeUnit(buf)
	}

	if !utf8.FullRune(buf) {
		return 0, key.Key{}, nil
	}
	r, size := utf8.DecodeRune(buf)
	if r == utf8.RuneError && size <= 1 {
		return 1, key.Key{}, malformed(buf[:1])
	}
	return decodeUnit(buf[:size])
}

// nextEscapeUnit decodes an ESC-prefixed unit: CSI, SS3 or Alt+<unit>.
func nextEscapeUnit(buf []byte) (int, key.Key, error) {
	if len(buf) == 1 {
		return 0, key.Key{}, nil
	}

	switch buf[1] {
	case '[':
		return nextCSI(buf)
	case 'O':
		if len(buf) < 3 {
			return 0, key.Key{}, nil
		}
		return decodeUnit(buf[:3])
	case 0x1b:
		// ESC ESC: the first one stands alone.
		return 1, key.Key{Type: key.KeyEscape}, nil
	}

	rest := buf[1:]
	if !utf8.FullRune(rest) {
		return 0, key.Key{}, nil
	}
	_, size := utf8.DecodeRune(rest)
	return decodeUnit(buf[:1+size])
}

// nextCSI scans ESC [ <params/intermediates> <final>.
func nextCSI(buf []byte) (int, key.Key, error) {
	if len(buf) < 3 {
		return 0, key.Key{}, nil
	}
	// Linux console function keys: ESC [ [ <letter>.
	if buf[2] == '[' {
		if len(buf) < 4 {
			return 0, key.Key{}, nil
		}
		return decodeUnit(buf[:4])
	}

	for i := 2; i < len(buf); i++ {
		b := buf[i]
		switch {
		case b >= 0x20 && b <= 0x3f:
			if i+1 >= maxSequenceLen {
				return i + 1, key.Key{}, malformed(buf[:i+1])
			}
		case b >= 0x40 && b <= 0x7e:
			return decodeUnit(buf[:i+1])
		default:
			// Not a CSI byte: the sequence is broken before its final byte.
			return i, key.Key{}, malformed(buf[:i])
		}
	}
	return 0, key.Key{}, nil
}

// decodeUnit parses a complete unit and reports its length.
func decodeUnit(unit []byte) (int, key.Key, error) {
	k, ok := key.ParseKey(string(unit))
	if !ok {
		return len(unit), key.Key{}, malformed(unit)
	}
	return len(unit), k, nil
}

func malformed(b []byte) error {
	return &DecodeError{Bytes: bytes.Clone(b)}
}
