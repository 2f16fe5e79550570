// ABOUTME: Legacy escape sequence tables for CSI, SS3 and Linux-console key codes.
// ABOUTME: Also decodes xterm-style modified CSI sequences like ESC [1;5A.

package key

import "strconv"

// legacySequences maps standard CSI and SS3 escape sequences to Key values.
var legacySequences = map[string]Key{
	// CSI sequences
	"\x1b[A":  {Type: KeyUp},
	"\x1b[B":  {Type: KeyDown},
	"\x1b[C":  {Type: KeyRight},
	"\x1b[D":  {Type: KeyLeft},
	"\x1b[H":  {Type: KeyHome},
	"\x1b[F":  {Type: KeyEnd},
	"\x1b[1~": {Type: KeyHome},
	"\x1b[2~": {Type: KeyInsert},
	"\x1b[3~": {Type: KeyDelete},
	"\x1b[4~": {Type: KeyEnd},
	"\x1b[5~": {Type: KeyPageUp},
	"\x1b[6~": {Type: KeyPageDown},
	"\x1b[7~": {Type: KeyHome},
	"\x1b[8~": {Type: KeyEnd},
	"\x1b[Z":  {Type: KeyBackTab, Shift: true},

	// Function keys
	"\x1b[11~": {Type: KeyF, F: 1},
	"\x1b[12~": {Type: KeyF, F: 2},
	"\x1b[13~": {Type: KeyF, F: 3},
	"\x1b[14~": {Type: KeyF, F: 4},
	"\x1b[15~": {Type: KeyF, F: 5},
	"\x1b[17~": {Type: KeyF, F: 6},
	"\x1b[18~": {Type: KeyF, F: 7},
	"\x1b[19~": {Type: KeyF, F: 8},
	"\x1b[20~": {Type: KeyF, F: 9},
	"\x1b[21~": {Type: KeyF, F: 10},
	"\x1b[23~": {Type: KeyF, F: 11},
	"\x1b[24~": {Type: KeyF, F: 12},

	// Linux console function keys
	"\x1b[[A": {Type: KeyF, F: 1},
	"\x1b[[B": {Type: KeyF, F: 2},
	"\x1b[[C": {Type: KeyF, F: 3},
	"\x1b[[D": {Type: KeyF, F: 4},
	"\x1b[[E": {Type: KeyF, F: 5},

	// SS3 variants (application cursor mode)
	"\x1bOA": {Type: KeyUp},
	"\x1bOB": {Type: KeyDown},
	"\x1bOC": {Type: KeyRight},
	"\x1bOD": {Type: KeyLeft},
	"\x1bOH": {Type: KeyHome},
	"\x1bOF": {Type: KeyEnd},
	"\x1bOP": {Type: KeyF, F: 1},
	"\x1bOQ": {Type: KeyF, F: 2},
	"\x1bOR": {Type: KeyF, F: 3},
	"\x1bOS": {Type: KeyF, F: 4},
}

// csiLetterTypes maps the final byte of ESC [1;<mod><letter> to a key type.
var csiLetterTypes = map[byte]KeyType{
	'A': KeyUp,
	'B': KeyDown,
	'C': KeyRight,
	'D': KeyLeft,
	'H': KeyHome,
	'F': KeyEnd,
}

// xterm modifier parameter, encoded on the wire as 1 + bitmask.
const (
	modShift = 1 << iota
	modAlt
	modCtrl
)

// parseModifiedCSI decodes ESC [1;<mod><letter> and ESC [<n>;<mod>~.
func parseModifiedCSI(data string) (Key, bool) {
	if len(data) < 6 || data[1] != '[' {
		return Key{}, false
	}

	body := data[2 : len(data)-1]
	final := data[len(data)-1]

	param, modStr, ok := cutSemicolon(body)
	if !ok {
		return Key{}, false
	}
	mod, err := strconv.Atoi(modStr)
	if err != nil || mod < 1 {
		return Key{}, false
	}

	var k Key
	switch final {
	case '~':
		base, found := legacySequences["\x1b["+param+"~"]
		if !found {
			return Key{}, false
		}
		k = base
	default:
		kt, found := csiLetterTypes[final]
		if !found || param != "1" {
			return Key{}, false
		}
		k = Key{Type: kt}
	}

	bits := mod - 1
	k.Shift = bits&modShift != 0
	k.Alt = bits&modAlt != 0
	k.Ctrl = bits&modCtrl != 0
	return k, true
}

// cutSemicolon splits s on its first ';'.
func cutSemicolon(s string) (string, string, bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == ';' {
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}
