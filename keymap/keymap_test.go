package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap_PutPrecedence(t *testing.T) {
	m := NewMap()
	key := Tag(0x22)

	require.True(t, m.Put(Entry{Key: key, Scancodes: []uint32{0x28 | ShiftMask}, Name: "first", Raw: 0x28}))

	// Equal raw scancode keeps the first entry.
	assert.False(t, m.Put(Entry{Key: key, Scancodes: []uint32{0x28}, Name: "tie", Raw: 0x28}))

	// Larger raw scancode loses.
	assert.False(t, m.Put(Entry{Key: key, Scancodes: []uint32{0x4e}, Name: "larger", Raw: 0x4e}))

	// Strictly smaller raw scancode wins.
	assert.True(t, m.Put(Entry{Key: key, Scancodes: []uint32{0x03 | ShiftMask}, Name: "smaller", Raw: 0x03}))

	e, ok := m.Get(key)
	require.True(t, ok)
	assert.Equal(t, "smaller", e.Name)
	assert.Equal(t, 1, m.Len())
}

func TestMap_DirectReplacesComposed(t *testing.T) {
	m := NewMap()
	key := Tag(0xe4)

	m.PutIfAbsent(Entry{Key: key, Scancodes: []uint32{0x1a, 0x1e}, Raw: 0x1a, Composed: true})

	assert.True(t, m.Put(Entry{Key: key, Scancodes: []uint32{0x28}, Raw: 0x28}))

	e, _ := m.Get(key)
	assert.False(t, e.Composed)
	assert.Equal(t, []uint32{0x28}, e.Scancodes)
}

func TestMap_PutIfAbsent(t *testing.T) {
	m := NewMap()
	key := Tag(0xe4)

	require.True(t, m.Put(Entry{Key: key, Scancodes: []uint32{0x28}, Raw: 0x28}))
	assert.False(t, m.PutIfAbsent(Entry{Key: key, Scancodes: []uint32{0x1a, 0x1e}, Raw: 0x1a, Composed: true}))

	e, _ := m.Get(key)
	assert.Equal(t, []uint32{0x28}, e.Scancodes)
}

func TestMap_AllAscending(t *testing.T) {
	m := NewMap()
	m.Set(Entry{Key: Tag(0x61), Scancodes: []uint32{0x1e}})
	m.Set(Entry{Key: 0xff08, Scancodes: []uint32{0x0e}})
	m.Set(Entry{Key: Tag(0x41), Scancodes: []uint32{0x1e | ShiftMask}})

	var keys []uint32
	for e := range m.All() {
		keys = append(keys, e.Key)
	}

	assert.Equal(t, []uint32{0xff08, Tag(0x41), Tag(0x61)}, keys)
	assert.Equal(t, keys, m.Keys())
}

func TestEntry_AppendText(t *testing.T) {
	e := Entry{Key: Tag(0xe4), Scancodes: []uint32{0x28, 0x1e}}

	assert.Equal(t, "1048804 40 30\n", string(e.AppendText(nil)))
	assert.True(t, e.IsUnicode())
	assert.Equal(t, 'ä', e.CodePoint())

	raw := Entry{Key: 65288, Scancodes: []uint32{14}}
	assert.Equal(t, "65288 14\n", string(raw.AppendText(nil)))
	assert.False(t, raw.IsUnicode())
}

func TestMap_Fingerprint(t *testing.T) {
	a := NewMap()
	b := NewMap()

	for _, m := range []*Map{a, b} {
		m.Set(Entry{Key: Tag(0x61), Scancodes: []uint32{0x1e}})
		m.Set(Entry{Key: Tag(0x62), Scancodes: []uint32{0x30}})
	}

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	// Raw and Name are not part of the encoding.
	b.Set(Entry{Key: Tag(0x62), Scancodes: []uint32{0x30}, Name: "b", Raw: 7})
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	b.Set(Entry{Key: Tag(0x62), Scancodes: []uint32{0x31}})
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}
