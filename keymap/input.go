package keymap

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/readahead"

	"github.com/ardnew/kmap/log"
)

// CommonCode is one row of the shared raw keycode table.
type CommonCode struct {
	Name     string
	Key      uint32
	Scancode uint32
}

// Open opens a table or key definition file for sequential reading.
// A file that does not exist or cannot be read yields [ErrMissingFile].
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrMissingFile.Wrap(err).With(slog.String("path", path))
	}

	return readahead.NewReadCloser(f), nil
}

// IsMissing reports whether err means a file is absent, as opposed to
// present but unreadable.
func IsMissing(err error) bool {
	return errors.Is(err, ErrMissingFile) && errors.Is(err, fs.ErrNotExist)
}

// Loader reads the auxiliary tables shared by all layouts. Malformed lines
// are logged and skipped.
type Loader struct {
	Logger log.Logger
}

// NameTable reads "<name> <unicodeHex>" lines. Later duplicates replace
// earlier ones.
func (l Loader) NameTable(ctx context.Context, r io.Reader) (*NameTable, error) {
	t := NewNameTable()

	err := l.each(ctx, r, "names", func(line int, fields []string) bool {
		if len(fields) < 2 {
			return false
		}

		cp, err := parseHex(fields[1])
		if err != nil {
			return false
		}

		t.Set(fields[0], cp)

		return true
	})

	return t, err
}

// CommonCodes reads "<name> <decimalKey> <decimalScancode>" lines.
func (l Loader) CommonCodes(
	ctx context.Context,
	r io.Reader,
) ([]CommonCode, error) {
	var codes []CommonCode

	err := l.each(ctx, r, "common codes", func(line int, fields []string) bool {
		if len(fields) < 3 {
			return false
		}

		key, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return false
		}

		sc, err := strconv.ParseUint(fields[2], 10, 32)
		if err != nil {
			return false
		}

		codes = append(codes, CommonCode{
			Name:     fields[0],
			Key:      uint32(key),
			Scancode: uint32(sc),
		})

		return true
	})

	return codes, err
}

// IgnoreSet reads one name per line.
func (l Loader) IgnoreSet(ctx context.Context, r io.Reader) (IgnoreSet, error) {
	set := NewIgnoreSet()

	err := l.each(ctx, r, "ignore", func(_ int, fields []string) bool {
		set[fields[0]] = struct{}{}

		return true
	})

	return set, err
}

// each calls fn with the fields of every non-blank, non-comment line.
// Lines for which fn returns false are logged as malformed.
func (l Loader) each(
	ctx context.Context,
	r io.Reader,
	table string,
	fn func(line int, fields []string) bool,
) error {
	lines := NewLineReader(r)

	for lines.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := lines.Line()

		if lines.TooLong() {
			l.Logger.WarnContext(ctx, "skip line",
				slog.Any("error", ErrMalformedLine.With(
					slog.Int("max_length", MaxLineLength),
				)),
				slog.String("table", table),
				slog.Int("line", line),
			)

			continue
		}

		fields := strings.Fields(lines.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		if !fn(line, fields) {
			l.Logger.WarnContext(ctx, "skip line",
				slog.Any("error", ErrMalformedLine.With(
					slog.String("text", lines.Text()),
				)),
				slog.String("table", table),
				slog.Int("line", line),
			)
		}
	}

	if err := lines.Err(); err != nil {
		return ErrReadInput.Wrap(err).With(slog.String("table", table))
	}

	return nil
}
