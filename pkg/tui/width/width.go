// ABOUTME: Cell-width helpers for laying out key labels in fixed terminal columns
// ABOUTME: Grapheme-aware via uniseg, cell widths from go-runewidth; fast path for ASCII

package width

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

const ellipsis = "…"

// Cells returns the number of terminal columns s occupies. s must not
// contain escape sequences; pad before styling.
func Cells(s string) int {
	if isPlainASCII(s) {
		return len(s)
	}
	w := 0
	state := -1
	for len(s) > 0 {
		var cluster string
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		w += clusterWidth(cluster)
	}
	return w
}

// PadRight appends spaces until s is n columns wide. Wider strings are
// returned unchanged.
func PadRight(s string, n int) string {
	if pad := n - Cells(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}

// Fit truncates s to at most n columns, marking the cut with an ellipsis,
// then pads it to exactly n columns.
func Fit(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if Cells(s) <= n {
		return PadRight(s, n)
	}

	var b strings.Builder
	col := 0
	state := -1
	for len(s) > 0 {
		var cluster string
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		cw := clusterWidth(cluster)
		if col+cw > n-1 {
			break
		}
		b.WriteString(cluster)
		col += cw
	}
	b.WriteString(ellipsis)
	return PadRight(b.String(), n)
}

func isPlainASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7e {
			return false
		}
	}
	return true
}

// clusterWidth takes the width of the first rune; combining marks and
// variation selectors that follow it add nothing.
func clusterWidth(cluster string) int {
	r, _ := utf8.DecodeRuneInString(cluster)
	return runewidth.RuneWidth(r)
}
