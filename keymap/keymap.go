package keymap

import (
	"iter"
	"maps"
	"slices"
	"strconv"

	"github.com/zeebo/xxh3"
)

// Tag returns the map key for a Unicode code point.
func Tag(codePoint uint32) uint32 { return codePoint | UnicodeTag }

// Entry is one row of a layout's keymap.
type Entry struct {
	Key       uint32
	Scancodes []uint32
	Name      string
	// Raw arbitrates between competing entries for the same key; it is not
	// part of the emitted table.
	Raw uint32
	// Composed marks entries synthesized from a dead key sequence.
	Composed bool
}

// IsUnicode reports whether the entry is keyed by a tagged code point.
func (e Entry) IsUnicode() bool { return e.Key&UnicodeTag != 0 }

// CodePoint returns the untagged code point of a Unicode entry.
func (e Entry) CodePoint() rune { return rune(e.Key &^ UnicodeTag) }

// AppendText appends the asset line for e, "<key> <sc1> [sc2 ...]\n", to b.
func (e Entry) AppendText(b []byte) []byte {
	b = strconv.AppendUint(b, uint64(e.Key), 10)

	for _, sc := range e.Scancodes {
		b = append(b, ' ')
		b = strconv.AppendUint(b, uint64(sc), 10)
	}

	return append(b, '\n')
}

// Map is a layout's keymap: at most one [Entry] per key.
// The zero value is not usable; call [NewMap].
type Map struct {
	entries map[uint32]Entry
}

// NewMap returns an empty keymap.
func NewMap() *Map {
	return &Map{entries: make(map[uint32]Entry)}
}

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.entries) }

// Get returns the entry stored at key.
func (m *Map) Get(key uint32) (Entry, bool) {
	e, ok := m.entries[key]

	return e, ok
}

// Set stores e unconditionally.
func (m *Map) Set(e Entry) { m.entries[e.Key] = e }

// Put stores e unless an entry with the same key is already present whose
// Raw scancode is smaller than or equal to e.Raw. A direct (non-composed)
// entry always replaces a composed one. Put reports whether e was stored.
func (m *Map) Put(e Entry) bool {
	if old, ok := m.entries[e.Key]; ok {
		if !(old.Composed && !e.Composed) && e.Raw >= old.Raw {
			return false
		}
	}

	m.entries[e.Key] = e

	return true
}

// PutIfAbsent stores e only if no entry exists at e.Key.
func (m *Map) PutIfAbsent(e Entry) bool {
	if _, ok := m.entries[e.Key]; ok {
		return false
	}

	m.entries[e.Key] = e

	return true
}

// Keys returns all keys in ascending order.
func (m *Map) Keys() []uint32 {
	return slices.Sorted(maps.Keys(m.entries))
}

// All returns an iterator over the entries in ascending key order.
func (m *Map) All() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, k := range m.Keys() {
			if !yield(m.entries[k]) {
				return
			}
		}
	}
}

// Fingerprint returns the xxh3 hash of the table's asset encoding. Two maps
// with equal fingerprints encode to the same bytes.
func (m *Map) Fingerprint() uint64 {
	h := xxh3.New()

	var line []byte

	for e := range m.All() {
		line = e.AppendText(line[:0])
		_, _ = h.Write(line)
	}

	return h.Sum64()
}
