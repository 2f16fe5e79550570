// ABOUTME: Tests for Decoder: scripted byte streams, malformed units, ESC timeout, paste, and read errors.
// ABOUTME: Uses strings.Reader for EOF-terminated input and io.Pipe for timing-sensitive cases.

package input

import (
	"errors"
	"io"
	"iter"
	"strings"
	"testing"
	"time"

	"github.com/mauromedda/ttyevents/pkg/tui/key"
)

// unit is one element of a decoded sequence.
type unit struct {
	key key.Key
	err error
}

func collect(t *testing.T, d *Decoder) []unit {
	t.Helper()
	var got []unit
	for k, err := range d.Keys() {
		got = append(got, unit{key: k, err: err})
	}
	return got
}

func keysOnly(units []unit) []key.Key {
	var out []key.Key
	for _, u := range units {
		if u.err == nil {
			out = append(out, u.key)
		}
	}
	return out
}

func TestDecoder_ScriptedKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []key.Key
	}{
		{name: "single rune", input: "a", want: []key.Key{key.Rune('a')}},
		{name: "several runes", input: "abc", want: []key.Key{key.Rune('a'), key.Rune('b'), key.Rune('c')}},
		{name: "utf8 runes", input: "é世", want: []key.Key{key.Rune('é'), key.Rune('世')}},
		{name: "ctrl+c", input: "\x03", want: []key.Key{key.Ctrl('c')}},
		{
			name:  "arrows between runes",
			input: "a\x1b[Ab\x1bOBc",
			want: []key.Key{
				key.Rune('a'), {Type: key.KeyUp}, key.Rune('b'), {Type: key.KeyDown}, key.Rune('c'),
			},
		},
		{
			name:  "modified csi and function key",
			input: "\x1b[1;5C\x1b[15~",
			want:  []key.Key{{Type: key.KeyRight, Ctrl: true}, {Type: key.KeyF, F: 5}},
		},
		{name: "alt combo", input: "\x1bq", want: []key.Key{{Type: key.KeyRune, Rune: 'q', Alt: true}}},
		{name: "trailing lone escape flushed at EOF", input: "x\x1b", want: []key.Key{key.Rune('x'), {Type: key.KeyEscape}}},
		{name: "double escape", input: "\x1b\x1b[A", want: []key.Key{{Type: key.KeyEscape}, {Type: key.KeyUp}}},
		{name: "enter and backspace", input: "\r\x7f", want: []key.Key{{Type: key.KeyEnter}, {Type: key.KeyBackspace}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := collect(t, NewDecoder(strings.NewReader(tt.input)))
			for _, u := range got {
				if u.err != nil {
					t.Fatalf("unexpected error unit: %v", u.err)
				}
			}
			keys := keysOnly(got)
			if len(keys) != len(tt.want) {
				t.Fatalf("got %d keys %v, want %d %v", len(keys), keys, len(tt.want), tt.want)
			}
			for i := range keys {
				if keys[i] != tt.want[i] {
					t.Errorf("key[%d] = %+v, want %+v", i, keys[i], tt.want[i])
				}
			}
		})
	}
}

func TestDecoder_MalformedUnitsAreFlaggedAndSkipped(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		bad   string
	}{
		{name: "invalid utf8 byte", input: "a\xffb", bad: "\xff"},
		{name: "unknown csi", input: "a\x1b[99Zb", bad: "\x1b[99Z"},
		{name: "broken csi", input: "a\x1b[1\x01b", bad: "\x1b[1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := collect(t, NewDecoder(strings.NewReader(tt.input)))

			var malformed []*DecodeError
			for _, u := range got {
				if u.err == nil {
					continue
				}
				if !errors.Is(u.err, ErrMalformed) {
					t.Fatalf("error %v does not wrap ErrMalformed", u.err)
				}
				var de *DecodeError
				if !errors.As(u.err, &de) {
					t.Fatalf("error %v is not a *DecodeError", u.err)
				}
				malformed = append(malformed, de)
			}
			if len(malformed) != 1 {
				t.Fatalf("got %d malformed units, want 1", len(malformed))
			}
			if string(malformed[0].Bytes) != tt.bad {
				t.Errorf("malformed bytes = %q, want %q", malformed[0].Bytes, tt.bad)
			}

			keys := keysOnly(got)
			if len(keys) < 2 || keys[0] != key.Rune('a') || keys[len(keys)-1] != key.Rune('b') {
				t.Errorf("surrounding keys = %v, want a ... b", keys)
			}
		})
	}
}

func TestDecoder_BracketedPasteIsOneMalformedUnit(t *testing.T) {
	t.Parallel()

	got := collect(t, NewDecoder(strings.NewReader("a"+bracketStart+"pasted text"+bracketEnd+"b")))

	if len(got) != 3 {
		t.Fatalf("got %d units, want 3: %+v", len(got), got)
	}
	if got[0].key != key.Rune('a') || got[2].key != key.Rune('b') {
		t.Errorf("keys around paste = %v, %v", got[0].key, got[2].key)
	}
	if !errors.Is(got[1].err, ErrMalformed) {
		t.Errorf("paste unit error = %v, want ErrMalformed", got[1].err)
	}
}

func TestDecoder_OversizedPasteIsChunked(t *testing.T) {
	t.Parallel()

	const limit = 1024
	input := bracketStart + "abc" + strings.Repeat("x", 100000) + "q"
	got := collect(t, NewDecoder(strings.NewReader(input), WithMaxPaste(limit)))

	if len(got) < 2 {
		t.Fatalf("got %d units, want the paste split into several", len(got))
	}
	total := 0
	for i, u := range got {
		var de *DecodeError
		if !errors.As(u.err, &de) {
			t.Fatalf("unit %d = (%v, %v), want a malformed paste chunk", i, u.key, u.err)
		}
		if len(de.Bytes) > limit+defaultReadBufSize+len(bracketStart) {
			t.Errorf("unit %d holds %d bytes, buffer not bounded", i, len(de.Bytes))
		}
		total += len(de.Bytes)
	}
	if total < len(input) {
		t.Errorf("chunks cover %d bytes, want at least %d", total, len(input))
	}
}

func TestDecoder_UnterminatedPasteReleasedAfterIdle(t *testing.T) {
	t.Parallel()

	r, w := io.Pipe()
	defer w.Close()

	d := NewDecoder(r, WithPasteTimeout(30*time.Millisecond))
	next, stop := iter.Pull2(d.Keys())
	defer stop()

	go func() {
		_, _ = w.Write([]byte(bracketStart + "abc" + strings.Repeat("x", 500)))
		time.Sleep(100 * time.Millisecond)
		_, _ = w.Write([]byte("q"))
	}()

	_, err, ok := next()
	if !ok {
		t.Fatal("sequence ended early")
	}
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("first unit error = %v, want the abandoned paste as ErrMalformed", err)
	}

	k, err, ok := next()
	if !ok || err != nil {
		t.Fatalf("next() = (%v, %v, %v), want the key after the paste", k, err, ok)
	}
	if k != key.Rune('q') {
		t.Errorf("key = %v, want q", k)
	}
}

func TestDecoder_LoneEscapeResolvedAfterTimeout(t *testing.T) {
	t.Parallel()

	r, w := io.Pipe()
	defer w.Close()

	d := NewDecoder(r, WithEscTimeout(20*time.Millisecond))
	next, stop := iter.Pull2(d.Keys())
	defer stop()

	go func() { _, _ = w.Write([]byte("\x1b")) }()

	start := time.Now()
	k, err, ok := next()
	if !ok {
		t.Fatal("sequence ended early")
	}
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if k.Type != key.KeyEscape {
		t.Errorf("key = %+v, want Escape", k)
	}
	if elapsed := time.Since(start); elapsed < 15*time.Millisecond {
		t.Errorf("escape resolved after %v, expected to wait for the timeout", elapsed)
	}
}

func TestDecoder_SplitSequenceJoinedAcrossReads(t *testing.T) {
	t.Parallel()

	r, w := io.Pipe()
	defer w.Close()

	d := NewDecoder(r, WithEscTimeout(time.Second))
	next, stop := iter.Pull2(d.Keys())
	defer stop()

	go func() {
		_, _ = w.Write([]byte("\x1b["))
		time.Sleep(10 * time.Millisecond)
		_, _ = w.Write([]byte("A"))
	}()

	k, err, ok := next()
	if !ok || err != nil {
		t.Fatalf("next() = (%v, %v, %v)", k, err, ok)
	}
	if k.Type != key.KeyUp {
		t.Errorf("key = %+v, want Up", k)
	}
}

// failingReader yields some bytes, then a non-EOF error.
type failingReader struct {
	data string
	err  error
	done bool
}

func (f *failingReader) Read(p []byte) (int, error) {
	if f.done {
		return 0, f.err
	}
	f.done = true
	return copy(p, f.data), nil
}

func TestDecoder_ReadErrorEndsSequence(t *testing.T) {
	t.Parallel()

	ioErr := errors.New("input/output error")
	got := collect(t, NewDecoder(&failingReader{data: "ab", err: ioErr}))

	if len(got) != 3 {
		t.Fatalf("got %d units, want 3: %+v", len(got), got)
	}
	last := got[2].err
	if !errors.Is(last, ioErr) {
		t.Errorf("final error = %v, want wrapped %v", last, ioErr)
	}
	if errors.Is(last, ErrMalformed) {
		t.Error("read error must not be reported as malformed input")
	}
}

func TestDecoder_EOFEndsWithoutError(t *testing.T) {
	t.Parallel()

	got := collect(t, NewDecoder(strings.NewReader("")))
	if len(got) != 0 {
		t.Errorf("got %d units from empty input, want 0", len(got))
	}
}

func TestDecoder_NotRestartable(t *testing.T) {
	t.Parallel()

	d := NewDecoder(strings.NewReader("a"))
	_ = collect(t, d)

	got := collect(t, d)
	if len(got) != 1 || !errors.Is(got[0].err, ErrConsumed) {
		t.Errorf("second range = %+v, want single ErrConsumed", got)
	}
}

func TestDecoder_StopEarly(t *testing.T) {
	t.Parallel()

	d := NewDecoder(strings.NewReader("abcdef"))
	var got []key.Key
	for k, err := range d.Keys() {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got = append(got, k)
		if len(got) == 2 {
			break
		}
	}
	if len(got) != 2 {
		t.Errorf("got %d keys, want 2", len(got))
	}
}
