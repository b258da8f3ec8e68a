package layout

import (
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/ardnew/kmap/keymap"
)

// DefaultDir is where QEMU installs its keyboard layout files.
const DefaultDir = "/usr/share/qemu/keymaps"

// CommonFile is the name of the key definition file shared by all layouts.
const CommonFile = "common"

// Labels maps the codes of the layouts converted by default to the labels
// used to name their output assets.
//
//nolint:gochecknoglobals
var Labels = map[string]string{
	"en-us": "English (US)",
	"en-gb": "English (UK)",
	"de":    "German (Germany)",
	"fr":    "French (France)",
	"es":    "Spanish (Spain, Traditional Sort)",
	"sv":    "Swedish (Sweden)",
	"pl":    "Polish (Programmers)",
	"it":    "Italian (Italy)",
	"hu":    "Hungarian (Hungary)",
	"da":    "Danish",
	"pt":    "Portuguese (Portugal)",
	"pt-br": "Portuguese (Brazil)",
	"de-ch": "German (Switzerland)",
	"fr-ch": "French (Switzerland)",
}

// excluded names files in a layout directory that are not layouts.
//
//nolint:gochecknoglobals
var excluded = []string{CommonFile, "modifiers"}

// Errors reported while discovering or selecting layouts.
var (
	ErrReadDir   = keymap.NewError("cannot read layout directory")
	ErrNoMatch   = keymap.NewError("no layout matches query")
	ErrAmbiguous = keymap.NewError("query matches several layouts")
)

// Layout is one locale's key definition file.
type Layout struct {
	Code  string `json:"code"  yaml:"code"`
	Label string `json:"label" yaml:"label"`
	Path  string `json:"path"  yaml:"path"`
}

// Known reports whether l is one of the layouts in [Labels].
func (l Layout) Known() bool {
	_, ok := Labels[l.Code]

	return ok
}

// LogValue implements [slog.LogValuer].
func (l Layout) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("code", l.Code),
		slog.String("label", l.Label),
	)
}

// Discover returns a catalog of every layout file in dir.
//
// Directories, dot-files, files with an extension and the shared files
// ([CommonFile], "modifiers") are skipped. The label of a layout is taken
// from the first "# name:" comment in the file, then from [Labels], and
// finally falls back to the file name.
func Discover(dir string) (*Catalog, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, ErrReadDir.Wrap(err).With(slog.String("dir", dir))
	}

	var layouts []Layout

	for _, ent := range ents {
		name := ent.Name()

		// Also covers dot-files.
		if strings.Contains(name, ".") || slices.Contains(excluded, name) {
			continue
		}

		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err != nil || !info.Mode().IsRegular() {
			continue
		}

		layouts = append(layouts, Layout{
			Code:  name,
			Label: label(name, path),
			Path:  path,
		})
	}

	return NewCatalog(layouts...), nil
}

// nameHeader matches the header comment naming a layout, for example
// `# name: "German (Germany)"`.
var nameHeader = regexp.MustCompile(`^#\s*name:\s*(.+?)\s*$`)

func label(code, path string) string {
	if l := headerName(path); l != "" {
		return l
	}

	if l, ok := Labels[code]; ok {
		return l
	}

	return code
}

// headerName returns the name declared by the first "# name:" comment of the
// file at path, or "" if there is none.
func headerName(path string) string {
	r, err := keymap.Open(path)
	if err != nil {
		return ""
	}
	defer r.Close()

	lines := keymap.NewLineReader(r)
	for lines.Next() {
		if m := nameHeader.FindStringSubmatch(strings.TrimSpace(lines.Text())); m != nil {
			return strings.Trim(m[1], `"'`)
		}
	}

	return ""
}
