// ABOUTME: Integration test of TTYSource on a real pseudo-terminal from creack/pty.
// ABOUTME: The slave is put in raw mode the way a caller would before starting the dispatcher.

//go:build unix

package events

import (
	"errors"
	"os"
	"testing"

	"github.com/creack/pty"
	"golang.org/x/term"

	"github.com/mauromedda/ttyevents/pkg/tui/key"
	"github.com/mauromedda/ttyevents/pkg/tui/terminal"
)

func TestTTYSource_ReadsPTY(t *testing.T) {
	t.Parallel()

	master, slave, err := pty.Open()
	if err != nil {
		t.Skipf("pty not available: %v", err)
	}
	defer master.Close()

	state, err := term.MakeRaw(int(slave.Fd()))
	if err != nil {
		t.Fatalf("MakeRaw() error: %v", err)
	}
	defer term.Restore(int(slave.Fd()), state)

	src := TTYSource{Opener: func() (*os.File, error) { return slave, nil }}
	d := WithSource[key.Key](Config[key.Key]{ExitKey: key.Rune('q'), TickRate: slowTick}, src)
	ch := collect(t, d)

	if _, err := master.Write([]byte("x\x1b[1;5C\x1bOPq")); err != nil {
		t.Fatalf("writing to pty master: %v", err)
	}

	got := nextKeys(t, ch, 4)
	want := []key.Key{
		key.Rune('x'),
		{Type: key.KeyRight, Ctrl: true},
		{Type: key.KeyF, F: 1},
		d.Config().ExitKey,
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("key[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTTYSource_OpenerError(t *testing.T) {
	t.Parallel()

	src := TTYSource{Opener: func() (*os.File, error) { return nil, terminal.ErrNoTTY }}
	if _, err := src.Open(); !errors.Is(err, terminal.ErrNoTTY) {
		t.Errorf("Open() error = %v, want ErrNoTTY", err)
	}
}
