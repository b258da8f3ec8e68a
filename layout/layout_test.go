package layout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/kmap/keymap"
)

func layoutDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"common":    "shift_r 0x36\n",
		"modifiers": "shift 0x2a\n",
		".hidden":   "a 0x1e\n",
		"README.md": "not a layout\n",
		"de":        "include common\n",
		"fr":        "# keymap\ninclude common\n# name: \"French (AZERTY)\"\n",
		"fr-ch":     "include common\n",
		"xx":        "#\n# name: \"Klingon\"\n#\nmap 0x407\n",
		"yy":        "a 0x1e\n# no name here\n",
	}

	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	return dir
}

func TestDiscover(t *testing.T) {
	dir := layoutDir(t)

	cat, err := Discover(dir)
	require.NoError(t, err)

	assert.Equal(t, []Layout{
		{Code: "de", Label: "German (Germany)", Path: filepath.Join(dir, "de")},
		{Code: "fr", Label: "French (AZERTY)", Path: filepath.Join(dir, "fr")},
		{Code: "fr-ch", Label: "French (Switzerland)", Path: filepath.Join(dir, "fr-ch")},
		{Code: "xx", Label: "Klingon", Path: filepath.Join(dir, "xx")},
		{Code: "yy", Label: "yy", Path: filepath.Join(dir, "yy")},
	}, cat.Layouts())

	var known []string
	for _, l := range cat.Known() {
		known = append(known, l.Code)
	}

	assert.Equal(t, []string{"de", "fr", "fr-ch"}, known)
}

func TestDiscover_MissingDir(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "nope"))
	require.ErrorIs(t, err, ErrReadDir)
}

func TestLabels(t *testing.T) {
	assert.Len(t, Labels, 14)
	assert.Equal(t, "Spanish (Spain, Traditional Sort)", Labels["es"])
}

func TestCatalog_Select(t *testing.T) {
	cat, err := Discover(layoutDir(t))
	require.NoError(t, err)

	tests := []struct {
		name    string
		queries []string
		want    []string
		wantErr *keymap.Error
	}{
		{"code", []string{"de"}, []string{"de"}, nil},
		{"code any case", []string{"FR-CH"}, []string{"fr-ch"}, nil},
		{"label", []string{"klingon"}, []string{"xx"}, nil},
		{"fuzzy", []string{"switz"}, []string{"fr-ch"}, nil},
		{"query order without duplicates", []string{"xx", "de", "German (Germany)"}, []string{"xx", "de"}, nil},
		{"no match", []string{"qqq"}, nil, ErrNoMatch},
		{"empty", []string{" "}, nil, ErrNoMatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cat.Select(tt.queries...)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)

			var codes []string
			for _, l := range got {
				codes = append(codes, l.Code)
			}

			assert.Equal(t, tt.want, codes)
		})
	}
}

func TestCatalog_SelectAmbiguous(t *testing.T) {
	cat := NewCatalog(
		Layout{Code: "ab", Label: "Foo"},
		Layout{Code: "aa", Label: "Foo"},
	)

	_, err := cat.Select("fo")
	require.ErrorIs(t, err, ErrAmbiguous)
}

func TestNewCatalog_DuplicateCodes(t *testing.T) {
	cat := NewCatalog(
		Layout{Code: "de", Label: "first"},
		Layout{Code: "da", Label: "Danish"},
		Layout{Code: "de", Label: "second"},
	)

	require.Equal(t, 2, cat.Len())

	l, ok := cat.Lookup("de")
	require.True(t, ok)
	assert.Equal(t, "first", l.Label)
	assert.Equal(t, "da Danish", cat.String(0))
}
