// ABOUTME: Builds lipgloss renderers that never query the terminal's background color
// ABOUTME: OSC 10/11 replies would otherwise land in the tty input stream as stray bytes

package termfix

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Renderer returns a lipgloss renderer on w with the background preset to
// dark. Presetting it skips the OSC 10/11 query, whose reply the input
// worker would read and drop as a malformed unit while the user types.
func Renderer(w io.Writer) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	r.SetHasDarkBackground(true)
	return r
}
