package asset

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/kmap/keymap"
)

// ErrWrite is returned when an asset cannot be written.
var ErrWrite = keymap.NewError("cannot write asset")

// fileMode is the permission of written assets.
const fileMode fs.FileMode = 0o644

// Status is the outcome of [WriteFile].
type Status uint8

const (
	Written   Status = iota // written
	Unchanged               // unchanged
	Pending                 // pending
)

func (s Status) String() string {
	switch s {
	case Written:
		return "written"
	case Unchanged:
		return "unchanged"
	case Pending:
		return "pending"
	default:
		return "unknown"
	}
}

// Result describes one asset written by [WriteFile].
type Result struct {
	Path   string
	Status Status
	Size   int
	Hash   uint64
}

// LogValue implements [slog.LogValuer].
func (r Result) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("path", r.Path),
		slog.String("status", r.Status.String()),
		slog.Int("bytes", r.Size),
	)
}

// Encode writes the asset encoding of m to w: one line per entry in
// ascending key order, "<key> <sc1> [sc2 ...]" in decimal.
func Encode(w io.Writer, m *keymap.Map) error {
	bw := bufio.NewWriter(w)

	var line []byte

	for e := range m.All() {
		line = e.AppendText(line[:0])
		if _, err := bw.Write(line); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// Marshal returns the asset encoding of m.
func Marshal(m *keymap.Map) []byte {
	var buf bytes.Buffer

	_ = Encode(&buf, m)

	return buf.Bytes()
}

// FileName returns the asset file name for a layout label. Path separators
// are replaced so that every label names a single file.
func FileName(label string) string {
	name := strings.NewReplacer("/", "-", "\\", "-", "\x00", "").
		Replace(strings.TrimSpace(label))

	if name == "" || name == "." || name == ".." {
		return "_"
	}

	return name
}

// WriteFile writes the asset encoding of m to path unless the file already
// holds the same bytes. With dryRun, nothing is written and changed assets
// are reported as [Pending].
//
// New content replaces the old atomically through a temporary file in the
// same directory.
func WriteFile(path string, m *keymap.Map, dryRun bool) (Result, error) {
	data := Marshal(m)
	res := Result{Path: path, Size: len(data), Hash: xxh3.Hash(data)}

	if same, err := matches(path, res.Hash, len(data)); err != nil {
		return res, ErrWrite.Wrap(err).With(slog.String("path", path))
	} else if same {
		res.Status = Unchanged

		return res, nil
	}

	if dryRun {
		res.Status = Pending

		return res, nil
	}

	if err := writeAtomic(path, data); err != nil {
		return res, ErrWrite.Wrap(err).With(slog.String("path", path))
	}

	res.Status = Written

	return res, nil
}

// matches reports whether the file at path has the given size and hash.
// A missing file does not match.
func matches(path string, hash uint64, size int) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	if !info.Mode().IsRegular() || info.Size() != int64(size) {
		return false, nil
	}

	r, err := keymap.Open(path)
	if err != nil {
		return false, err
	}
	defer r.Close()

	h := xxh3.New()
	if _, err := io.Copy(h, r); err != nil {
		return false, err
	}

	return h.Sum64() == hash, nil
}

func writeAtomic(path string, data []byte) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".*")
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()

		return err
	}

	if err = tmp.Chmod(fileMode); err != nil {
		_ = tmp.Close()

		return err
	}

	if err = tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}
