package keymap

import (
	"log/slog"
	"strconv"
	"strings"
)

// Scancode bits reserved by the keystroke-injection protocol.
const (
	UnicodeTag uint32 = 0x100000
	ShiftMask  uint32 = 0x10000
	AltGrMask  uint32 = 0x20000
)

// Modifier is the set of modifier keys held while pressing a record's base
// scancode.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModAltGr
)

// Mask returns the scancode bits for the modifier set.
func (m Modifier) Mask() uint32 {
	var mask uint32

	if m&ModShift != 0 {
		mask |= ShiftMask
	}

	if m&ModAltGr != 0 {
		mask |= AltGrMask
	}

	return mask
}

// Directive is the set of non-modifier keywords found on a definition line.
type Directive uint8

const (
	DirLocalState Directive = 1 << iota
	DirNumLock
	DirAddUpper
	DirInhibit
)

// Has reports whether all directives in d2 are set in d.
func (d Directive) Has(d2 Directive) bool { return d&d2 == d2 }

// keywords maps the case-sensitive definition keywords to their effect.
var keywords = map[string]struct {
	mod Modifier
	dir Directive
}{
	"shift":      {mod: ModShift},
	"altgr":      {mod: ModAltGr},
	"localstate": {dir: DirLocalState},
	"numlock":    {dir: DirNumLock},
	"addupper":   {dir: DirAddUpper},
	"inhibit":    {dir: DirInhibit},
}

// Record is one parsed key definition line.
type Record struct {
	Name string
	// Raw is the base scancode as written, without modifier bits.
	Raw uint32
	// Scancodes is the key-press sequence. The first element is Raw with the
	// modifier bits applied; any further elements are extra scancodes listed
	// on the line.
	Scancodes  []uint32
	Modifiers  Modifier
	Directives Directive
}

// ParseRecord parses one key definition line of the form
//
//	<name> <hexScancode> [directive|extraHexScancode]...
//
// Blank lines, comments and include/map lines yield [ErrNotRecord].
// A record tagged numlock is returned together with [ErrNumLock] and must not
// be added to a [Map].
func ParseRecord(line string) (Record, error) {
	fields := strings.Fields(line)

	if len(fields) < 2 ||
		strings.HasPrefix(fields[0], "#") ||
		fields[0] == "include" ||
		fields[0] == "map" {
		return Record{}, ErrNotRecord
	}

	raw, err := parseHex(fields[1])
	if err != nil {
		return Record{}, ErrMalformedLine.Wrap(err).
			With(slog.String("name", fields[0]), slog.String("field", fields[1]))
	}

	rec := Record{Name: fields[0], Raw: raw}

	var extra []uint32

	for _, tok := range fields[2:] {
		if kw, ok := keywords[tok]; ok {
			rec.Modifiers |= kw.mod
			rec.Directives |= kw.dir

			continue
		}

		sc, err := parseHex(tok)
		if err != nil {
			return Record{}, ErrMalformedLine.Wrap(err).
				With(slog.String("name", rec.Name), slog.String("field", tok))
		}

		extra = append(extra, sc)
	}

	rec.Scancodes = make([]uint32, 0, 1+len(extra))
	rec.Scancodes = append(rec.Scancodes, rec.Raw|rec.Modifiers.Mask())
	rec.Scancodes = append(rec.Scancodes, extra...)

	if rec.Directives.Has(DirNumLock) {
		return rec, ErrNumLock
	}

	return rec, nil
}

// parseHex parses a hexadecimal scancode with or without a 0x prefix.
func parseHex(s string) (uint32, error) {
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}

	n, err := strconv.ParseUint(s, 16, 32)

	return uint32(n), err
}
