// ABOUTME: Config-file names for keys ("q", "ctrl+c", "alt+x", "esc", "f5") and their parser.
// ABOUTME: Key implements encoding.TextMarshaler/TextUnmarshaler so YAML configs can name keys.

package key

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// typeConfigNames maps config names to non-rune key types.
var typeConfigNames = map[string]KeyType{
	"enter":     KeyEnter,
	"return":    KeyEnter,
	"tab":       KeyTab,
	"backtab":   KeyBackTab,
	"backspace": KeyBackspace,
	"delete":    KeyDelete,
	"insert":    KeyInsert,
	"up":        KeyUp,
	"down":      KeyDown,
	"left":      KeyLeft,
	"right":     KeyRight,
	"home":      KeyHome,
	"end":       KeyEnd,
	"pageup":    KeyPageUp,
	"pagedown":  KeyPageDown,
	"esc":       KeyEscape,
	"escape":    KeyEscape,
	"null":      KeyNull,
	"space":     KeyRune,
}

// Name returns the config-file name of k, the inverse of ParseName.
func (k Key) Name() string {
	var parts []string
	if k.Ctrl {
		parts = append(parts, "ctrl")
	}
	if k.Alt {
		parts = append(parts, "alt")
	}

	switch k.Type {
	case KeyRune:
		if k.Rune == ' ' {
			parts = append(parts, "space")
		} else {
			parts = append(parts, string(k.Rune))
		}
	case KeyBackTab:
		return strings.Join(append(parts, "shift", "tab"), "+")
	case KeyF:
		if k.Shift {
			parts = append(parts, "shift")
		}
		parts = append(parts, "f"+strconv.Itoa(k.F))
	default:
		if k.Shift {
			parts = append(parts, "shift")
		}
		parts = append(parts, strings.ToLower(keyTypeNames[k.Type]))
	}
	return strings.Join(parts, "+")
}

// ParseName parses a config-file key name. Modifiers are joined with '+'
// and are case-insensitive; a single-rune base keeps its case.
func ParseName(name string) (Key, error) {
	if name == "" {
		return Key{}, fmt.Errorf("empty key name")
	}
	// A literal "+" is a valid rune key.
	if name == "+" {
		return Rune('+'), nil
	}

	parts := strings.Split(name, "+")
	base := parts[len(parts)-1]
	if base == "" {
		// "ctrl++": modifier applied to the plus key itself.
		if len(parts) < 3 || parts[len(parts)-2] != "" {
			return Key{}, fmt.Errorf("malformed key name %q", name)
		}
		base = "+"
		parts = parts[:len(parts)-2]
	} else {
		parts = parts[:len(parts)-1]
	}

	var k Key
	for _, mod := range parts {
		switch strings.ToLower(mod) {
		case "ctrl":
			k.Ctrl = true
		case "alt":
			k.Alt = true
		case "shift":
			k.Shift = true
		default:
			return Key{}, fmt.Errorf("unknown modifier %q in key %q", mod, name)
		}
	}

	if utf8.RuneCountInString(base) == 1 {
		r, _ := utf8.DecodeRuneInString(base)
		k.Type = KeyRune
		k.Rune = r
		if k.Ctrl {
			k.Rune = []rune(strings.ToLower(base))[0]
		}
		return k, nil
	}

	lower := strings.ToLower(base)
	if kt, ok := typeConfigNames[lower]; ok {
		k.Type = kt
		if lower == "space" {
			k.Rune = ' '
		}
		if kt == KeyTab && k.Shift {
			k.Type = KeyBackTab
		}
		if k.Type == KeyBackTab {
			k.Shift = true
		}
		return k, nil
	}

	if n, ok := strings.CutPrefix(lower, "f"); ok {
		num, err := strconv.Atoi(n)
		if err == nil && num >= 1 && num <= 12 {
			k.Type = KeyF
			k.F = num
			return k, nil
		}
	}

	return Key{}, fmt.Errorf("unknown key name %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (k Key) MarshalText() ([]byte, error) {
	if k.Type == KeyUnknown {
		return nil, fmt.Errorf("cannot name unknown key")
	}
	return []byte(k.Name()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Key) UnmarshalText(text []byte) error {
	parsed, err := ParseName(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
