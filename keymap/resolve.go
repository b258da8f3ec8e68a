package keymap

import (
	"iter"
	"regexp"
	"strconv"
)

// NameTable maps symbolic key names to Unicode code points.
//
// Iteration order is the order in which names were first added; setting an
// existing name replaces its code point but keeps its position.
type NameTable struct {
	index  map[string]int
	names  []string
	points []uint32
}

// NewNameTable returns an empty table.
func NewNameTable() *NameTable {
	return &NameTable{index: make(map[string]int)}
}

// Set maps name to codePoint.
func (t *NameTable) Set(name string, codePoint uint32) {
	if i, ok := t.index[name]; ok {
		t.points[i] = codePoint

		return
	}

	t.index[name] = len(t.names)
	t.names = append(t.names, name)
	t.points = append(t.points, codePoint)
}

// Lookup returns the code point mapped to name.
func (t *NameTable) Lookup(name string) (uint32, bool) {
	if t == nil {
		return 0, false
	}

	i, ok := t.index[name]
	if !ok {
		return 0, false
	}

	return t.points[i], true
}

// Len returns the number of names in the table.
func (t *NameTable) Len() int {
	if t == nil {
		return 0
	}

	return len(t.names)
}

// All returns an iterator over the table in insertion order.
func (t *NameTable) All() iter.Seq2[string, uint32] {
	return func(yield func(string, uint32) bool) {
		if t == nil {
			return
		}

		for i, name := range t.names {
			if !yield(name, t.points[i]) {
				return
			}
		}
	}
}

// IgnoreSet holds names whose missing Unicode mapping is expected.
type IgnoreSet map[string]struct{}

// NewIgnoreSet returns a set containing names.
func NewIgnoreSet(names ...string) IgnoreSet {
	s := make(IgnoreSet, len(names))
	for _, name := range names {
		s[name] = struct{}{}
	}

	return s
}

// Contains reports whether name is in the set.
func (s IgnoreSet) Contains(name string) bool {
	_, ok := s[name]

	return ok
}

// ResolutionKind tags the outcome of resolving a key name.
type ResolutionKind uint8

const (
	Unresolved       ResolutionKind = iota // unresolved
	Resolved                               // resolved
	RawUnicodeEscape                       // escape
	Ignored                                // ignored
)

func (k ResolutionKind) String() string {
	switch k {
	case Resolved:
		return "resolved"
	case RawUnicodeEscape:
		return "escape"
	case Ignored:
		return "ignored"
	default:
		return "unresolved"
	}
}

// Resolution is the result of [Resolver.Resolve]. CodePoint is only
// meaningful when [Resolution.OK] is true.
type Resolution struct {
	Kind      ResolutionKind
	CodePoint uint32
}

// OK reports whether the resolution produced a code point.
func (r Resolution) OK() bool {
	return r.Kind == Resolved || r.Kind == RawUnicodeEscape
}

// rawEscape matches vendor names that spell out their code point in
// upper-case hex, e.g. U20AC. U20ac is an ordinary (unknown) name.
var rawEscape = regexp.MustCompile(`^U[0-9A-F]{4}$`)

// Resolver maps key names to code points using a shared [NameTable] and
// [IgnoreSet]. Both are only read.
type Resolver struct {
	Names  *NameTable
	Ignore IgnoreSet
}

// Resolve looks up name. A table hit wins; otherwise a UXXXX name resolves to
// its own hex digits, an ignored name reports [Ignored], and anything else
// reports [Unresolved].
func (r Resolver) Resolve(name string) Resolution {
	if cp, ok := r.Names.Lookup(name); ok {
		return Resolution{Kind: Resolved, CodePoint: cp}
	}

	if rawEscape.MatchString(name) {
		cp, err := strconv.ParseUint(name[1:], 16, 32)
		if err == nil {
			return Resolution{Kind: RawUnicodeEscape, CodePoint: uint32(cp)}
		}
	}

	if r.Ignore.Contains(name) {
		return Resolution{Kind: Ignored}
	}

	return Resolution{Kind: Unresolved}
}
