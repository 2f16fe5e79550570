// ABOUTME: Defines the Key type and ParseKey for decoding one unit of raw terminal input.
// ABOUTME: Covers printable runes, Ctrl/Alt combos, control bytes, and delegates escapes to legacy tables.

package key

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Key represents a decoded keyboard input event. Key values are comparable,
// so callers can match them directly against a configured exit key.
type Key struct {
	Type  KeyType
	Rune  rune // For KeyRune; lowercase letter for Ctrl combos
	F     int  // Function key number for KeyF (1..12)
	Alt   bool
	Ctrl  bool
	Shift bool
}

// KeyType enumerates the kinds of key events the decoder can produce.
type KeyType int

const (
	KeyRune      KeyType = iota // Printable character (or Ctrl/Alt + character)
	KeyEnter                    // Enter / Return
	KeyTab                      // Tab
	KeyBackTab                  // Shift+Tab
	KeyBackspace                // Backspace / DEL (0x7F)
	KeyDelete                   // Delete key
	KeyInsert                   // Insert key
	KeyUp                       // Arrow up
	KeyDown                     // Arrow down
	KeyLeft                     // Arrow left
	KeyRight                    // Arrow right
	KeyHome                     // Home
	KeyEnd                      // End
	KeyPageUp                   // Page Up
	KeyPageDown                 // Page Down
	KeyEscape                   // Escape
	KeyF                        // Function key, number in Key.F
	KeyNull                     // NUL byte (Ctrl+Space on most terminals)
	KeyUnknown                  // Unrecognized input
)

// Rune returns the Key for a plain printable character.
func Rune(r rune) Key {
	return Key{Type: KeyRune, Rune: r}
}

// Ctrl returns the Key for Ctrl plus the given letter.
func Ctrl(r rune) Key {
	return Key{Type: KeyRune, Rune: r, Ctrl: true}
}

// ParseKey decodes a single complete input unit into a Key.
// The boolean is false when data is empty, not valid UTF-8, or an
// escape sequence no table recognizes.
func ParseKey(data string) (Key, bool) {
	if len(data) == 0 {
		return Key{Type: KeyUnknown}, false
	}

	if len(data) == 1 {
		return parseSingleByte(data[0])
	}

	if data[0] == 0x1b {
		return parseEscapeSequence(data)
	}

	r, size := utf8.DecodeRuneInString(data)
	if r == utf8.RuneError || size != len(data) {
		return Key{Type: KeyUnknown}, false
	}
	return Rune(r), true
}

// parseSingleByte handles ASCII and C0 control bytes.
func parseSingleByte(b byte) (Key, bool) {
	switch {
	case b == 0x00:
		return Key{Type: KeyNull}, true
	case b == 0x0d, b == 0x0a:
		return Key{Type: KeyEnter}, true
	case b == 0x09:
		return Key{Type: KeyTab}, true
	case b == 0x7f, b == 0x08:
		return Key{Type: KeyBackspace}, true
	case b == 0x1b:
		return Key{Type: KeyEscape}, true
	case b >= 0x20 && b <= 0x7e:
		return Rune(rune(b)), true
	case b >= 0x01 && b <= 0x1a:
		// 0x01..0x1a map to Ctrl+A..Ctrl+Z; tab/enter/backspace handled above.
		return Ctrl(rune('a' + b - 1)), true
	case b >= 0x1c && b <= 0x1f:
		return Ctrl(rune('4' + b - 0x1c)), true
	}
	return Key{Type: KeyUnknown}, false
}

// parseEscapeSequence resolves ESC-prefixed data against the legacy tables.
func parseEscapeSequence(data string) (Key, bool) {
	if k, ok := legacySequences[data]; ok {
		return k, true
	}
	if k, ok := parseModifiedCSI(data); ok {
		return k, true
	}

	// Alt+<unit>: ESC followed by one complete non-escape unit.
	if rest := data[1:]; rest[0] != 0x1b {
		k, ok := ParseKey(rest)
		if ok && !k.Alt {
			k.Alt = true
			return k, true
		}
	}

	return Key{Type: KeyUnknown}, false
}

// keyTypeNames provides labels and config names for each non-rune KeyType.
var keyTypeNames = map[KeyType]string{
	KeyEnter:     "Enter",
	KeyTab:       "Tab",
	KeyBackTab:   "BackTab",
	KeyBackspace: "Backspace",
	KeyDelete:    "Delete",
	KeyInsert:    "Insert",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyLeft:      "Left",
	KeyRight:     "Right",
	KeyHome:      "Home",
	KeyEnd:       "End",
	KeyPageUp:    "PageUp",
	KeyPageDown:  "PageDown",
	KeyEscape:    "Esc",
	KeyNull:      "Null",
	KeyUnknown:   "Unknown",
}

// String returns a human-readable label such as "q", "Ctrl+C" or "F5".
func (k Key) String() string {
	var base string
	switch k.Type {
	case KeyRune:
		base = string(k.Rune)
		if k.Ctrl {
			base = strings.ToUpper(base)
		}
	case KeyF:
		base = fmt.Sprintf("F%d", k.F)
	default:
		name, ok := keyTypeNames[k.Type]
		if !ok {
			return "Unknown"
		}
		base = name
	}

	var b strings.Builder
	if k.Ctrl {
		b.WriteString("Ctrl+")
	}
	if k.Alt {
		b.WriteString("Alt+")
	}
	if k.Shift && k.Type != KeyBackTab {
		b.WriteString("Shift+")
	}
	b.WriteString(base)
	return b.String()
}
