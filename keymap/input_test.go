package keymap

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_NameTable(t *testing.T) {
	var l Loader

	tbl, err := l.NameTable(context.Background(), strings.NewReader(
		"# keysym unicode\n"+
			"adiaeresis 0x00e4\n"+
			"\n"+
			"EuroSign 20ac\n"+
			"broken\n"+
			"bad zz\n"+
			"adiaeresis 0x00c4\n",
	))
	require.NoError(t, err)

	assert.Equal(t, 2, tbl.Len())

	cp, ok := tbl.Lookup("adiaeresis")
	assert.True(t, ok)
	assert.Equal(t, uint32(0xc4), cp)

	cp, ok = tbl.Lookup("EuroSign")
	assert.True(t, ok)
	assert.Equal(t, uint32(0x20ac), cp)
}

func TestLoader_CommonCodes(t *testing.T) {
	var l Loader

	codes, err := l.CommonCodes(context.Background(), strings.NewReader(
		"BackSpace 65288 14\n"+
			"Tab 65289\n"+
			"Return 0xff0d 28\n"+
			"Escape 65307 1\n",
	))
	require.NoError(t, err)

	assert.Equal(t, []CommonCode{
		{Name: "BackSpace", Key: 65288, Scancode: 14},
		{Name: "Escape", Key: 65307, Scancode: 1},
	}, codes)
}

func TestLoader_IgnoreSet(t *testing.T) {
	var l Loader

	set, err := l.IgnoreSet(context.Background(), strings.NewReader(
		"XF86AudioMute\n# comment\n  XF86Eject  \n",
	))
	require.NoError(t, err)

	assert.True(t, set.Contains("XF86AudioMute"))
	assert.True(t, set.Contains("XF86Eject"))
	assert.False(t, set.Contains("# comment"))
	assert.Len(t, set, 2)
}

func TestLoader_LongLines(t *testing.T) {
	var l Loader

	tbl, err := l.NameTable(context.Background(), strings.NewReader(
		"a 0061\n"+
			"# "+strings.Repeat("-", 70000)+"\n"+
			"b "+strings.Repeat("0", MaxLineLength)+"\n"+
			"c 0063",
	))
	require.NoError(t, err)

	assert.Equal(t, 2, tbl.Len())

	_, ok := tbl.Lookup("c")
	assert.True(t, ok, "lines after an overlong line are read")

	_, ok = tbl.Lookup("b")
	assert.False(t, ok)
}

func TestLineReader(t *testing.T) {
	lines := NewLineReader(strings.NewReader(
		"one\r\n\n" + strings.Repeat("x", MaxLineLength+1) + "\nlast",
	))

	var (
		got  []string
		long []int
	)

	for lines.Next() {
		got = append(got, lines.Text())
		if lines.TooLong() {
			long = append(long, lines.Line())
		}
	}

	require.NoError(t, lines.Err())
	assert.Equal(t, []string{"one", "", "", "last"}, got)
	assert.Equal(t, []int{3}, long)
	assert.Equal(t, 4, lines.Line())
}

func TestLoader_Cancelled(t *testing.T) {
	var l Loader

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.NameTable(ctx, strings.NewReader("a 61\n"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "common")
	require.NoError(t, os.WriteFile(path, []byte("a 0x1e\n"), 0o644))

	r, err := Open(path)
	require.NoError(t, err)

	b, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "a 0x1e\n", string(b))
	require.NoError(t, r.Close())

	_, err = Open(filepath.Join(dir, "missing"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingFile))
	assert.True(t, IsMissing(err))
	assert.False(t, IsMissing(ErrMissingFile))
}
