// ABOUTME: Line rendering for the demo: one styled line per key, one status line for ticks
// ABOUTME: Labels are padded by cell width so wide runes keep the columns aligned

package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/mauromedda/ttyevents/internal/termfix"
	"github.com/mauromedda/ttyevents/pkg/tui/key"
	"github.com/mauromedda/ttyevents/pkg/tui/width"
)

const (
	labelCols = 14
	nameCols  = 16

	clearLine = "\r\x1b[2K"
	crlf      = "\r\n"
)

type styles struct {
	label  lipgloss.Style
	name   lipgloss.Style
	status lipgloss.Style
	exit   lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := termfix.Renderer(w)
	return styles{
		label:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		name:   r.NewStyle().Foreground(lipgloss.Color("245")),
		status: r.NewStyle().Foreground(lipgloss.Color("240")).Italic(true),
		exit:   r.NewStyle().Foreground(lipgloss.Color("203")),
	}
}

// screen writes to a raw-mode terminal, so every newline is CRLF.
type screen struct {
	w       io.Writer
	st      styles
	exitKey key.Key
	cols    int
	ticks   int
	keys    int
}

func newScreen(w io.Writer, exitKey key.Key, cols int) *screen {
	return &screen{w: w, st: newStyles(w), exitKey: exitKey, cols: cols}
}

// keyLine formats a key press. The exit key is highlighted.
func (s *screen) keyLine(k key.Key) string {
	label := s.st.label.Render(width.Fit(k.String(), labelCols))
	name := s.st.name.Render(width.Fit(k.Name(), nameCols))
	line := label + " " + name
	if k == s.exitKey {
		line += " " + s.st.exit.Render("exit")
	}
	return line
}

func (s *screen) statusLine() string {
	text := fmt.Sprintf("ticks %d  keys %d  press %s to quit", s.ticks, s.keys, s.exitKey)
	if s.cols > 0 {
		text = width.Fit(text, s.cols)
	}
	return s.st.status.Render(text)
}

// Key prints k above the status line.
func (s *screen) Key(k key.Key) error {
	s.keys++
	_, err := io.WriteString(s.w, clearLine+s.keyLine(k)+crlf+s.statusLine())
	return err
}

// Tick redraws the status line in place.
func (s *screen) Tick() error {
	s.ticks++
	_, err := io.WriteString(s.w, clearLine+s.statusLine())
	return err
}

// Close leaves the cursor on a fresh line.
func (s *screen) Close() error {
	_, err := io.WriteString(s.w, crlf)
	return err
}
