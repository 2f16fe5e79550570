// ABOUTME: VirtualTerminal implements Terminal for testing without a real TTY.
// ABOUTME: Captures output, tracks raw-mode calls, and serves scripted key input as an event source.

package terminal

import (
	"bytes"
	"fmt"
	"io"
	"iter"
	"sync"

	"github.com/mauromedda/ttyevents/pkg/tui/input"
	"github.com/mauromedda/ttyevents/pkg/tui/key"
)

// VirtualTerminal is a fake Terminal for unit tests. Besides recording
// output and raw-mode transitions it has a scripted input side: bytes
// passed to Feed are returned by the reader from Open and decoded by Keys,
// which makes it usable wherever a terminal input source is expected.
type VirtualTerminal struct {
	mu         sync.Mutex
	buf        bytes.Buffer
	width      int
	height     int
	rawMode    bool
	enterCount int
	exitCount  int
	openErr    error
	opens      int
	in         *scriptedInput
}

// NewVirtualTerminal returns a VirtualTerminal with the given dimensions.
func NewVirtualTerminal(width, height int) *VirtualTerminal {
	in := &scriptedInput{}
	in.ready = sync.NewCond(&in.mu)
	return &VirtualTerminal{
		width:  width,
		height: height,
		in:     in,
	}
}

// EnterRawMode records a raw-mode entry.
func (v *VirtualTerminal) EnterRawMode() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.rawMode = true
	v.enterCount++
	return nil
}

// ExitRawMode records a raw-mode exit.
func (v *VirtualTerminal) ExitRawMode() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.rawMode = false
	v.exitCount++
	return nil
}

// Size returns the configured terminal dimensions.
func (v *VirtualTerminal) Size() (width, height int, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.width, v.height, nil
}

// Write appends data to the output buffer.
func (v *VirtualTerminal) Write(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	n, err := v.buf.Write(p)
	if err != nil {
		return n, fmt.Errorf("writing to virtual buffer: %w", err)
	}
	return n, nil
}

// Open returns the scripted input stream, or the error set by FailOpen.
func (v *VirtualTerminal) Open() (io.ReadCloser, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.opens++
	if v.openErr != nil {
		return nil, v.openErr
	}
	return v.in, nil
}

// Keys decodes r with the standard input decoder.
func (v *VirtualTerminal) Keys(r io.Reader) iter.Seq2[key.Key, error] {
	return input.NewDecoder(r).Keys()
}

// --- Test helpers (not part of Terminal interface) ---

// Feed queues raw input bytes. It never blocks.
func (v *VirtualTerminal) Feed(data string) {
	v.in.feed([]byte(data))
}

// CloseInput makes the input stream report io.EOF once drained.
func (v *VirtualTerminal) CloseInput() {
	_ = v.in.Close()
}

// FailOpen makes subsequent Open calls fail with err, simulating a
// process without a controlling terminal.
func (v *VirtualTerminal) FailOpen(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.openErr = err
}

// OpenCount returns how many times Open was called.
func (v *VirtualTerminal) OpenCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.opens
}

// InputClosed reports whether the input stream has been closed.
func (v *VirtualTerminal) InputClosed() bool {
	v.in.mu.Lock()
	defer v.in.mu.Unlock()

	return v.in.closed
}

// Output returns everything written so far.
func (v *VirtualTerminal) Output() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.buf.String()
}

// Reset clears the output buffer.
func (v *VirtualTerminal) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.buf.Reset()
}

// IsRawMode reports whether raw mode is currently active.
func (v *VirtualTerminal) IsRawMode() bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.rawMode
}

// EnterCount returns how many times EnterRawMode was called.
func (v *VirtualTerminal) EnterCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.enterCount
}

// ExitCount returns how many times ExitRawMode was called.
func (v *VirtualTerminal) ExitCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.exitCount
}

// SetSize updates the terminal dimensions.
func (v *VirtualTerminal) SetSize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.width = width
	v.height = height
}

// scriptedInput is a blocking reader fed by Feed; Read waits for data
// like a real tty would.
type scriptedInput struct {
	mu     sync.Mutex
	ready  *sync.Cond
	data   []byte
	closed bool
}

func (s *scriptedInput) feed(p []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = append(s.data, p...)
	s.ready.Broadcast()
}

func (s *scriptedInput) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.data) == 0 && !s.closed {
		s.ready.Wait()
	}
	if len(s.data) == 0 {
		return 0, io.EOF
	}
	n := copy(p, s.data)
	s.data = s.data[n:]
	return n, nil
}

func (s *scriptedInput) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.ready.Broadcast()
	return nil
}
