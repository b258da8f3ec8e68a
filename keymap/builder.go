package keymap

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/kmap/log"
)

const (
	// deadKeyPrefix marks key names that compose with the next keystroke.
	deadKeyPrefix = "dead_"

	// upperCaseOffset is the distance from a lower-case Latin letter to its
	// upper-case form.
	upperCaseOffset = 0x20
)

// Stats counts what happened while merging one layout.
type Stats struct {
	Records    int // records added to the builder
	NumLock    int // records skipped for numlock
	Malformed  int // lines skipped as malformed
	Unresolved int // records without a code point
	Ignored    int // records in the ignore set
	Discarded  int // candidates that lost on precedence
	Composed   int // entries synthesized from dead keys
	NoBase     int // dead key candidates without a base letter entry
}

// LogValue implements [slog.LogValuer].
func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("records", s.Records),
		slog.Int("numlock", s.NumLock),
		slog.Int("malformed", s.Malformed),
		slog.Int("unresolved", s.Unresolved),
		slog.Int("ignored", s.Ignored),
		slog.Int("discarded", s.Discarded),
		slog.Int("composed", s.Composed),
		slog.Int("no_base", s.NoBase),
	)
}

// builder folds the records of one key definition file into a [Map] and
// then runs the dead key composer over the name table.
type builder struct {
	keys     *Map
	resolver Resolver
	dead     deadKeys
	logger   log.Logger
	stats    *Stats
	source   string
}

// scan reads every line of r, adds each record to the map and finally
// composes dead key sequences. A read error stops scanning but the records
// read so far are still composed before the error is returned.
func (b *builder) scan(ctx context.Context, r io.Reader) error {
	lines := NewLineReader(r)

	for lines.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := lines.Line()

		if lines.TooLong() {
			b.stats.Malformed++
			b.logger.WarnContext(ctx, "skip line",
				slog.Any("error", ErrMalformedLine.With(
					slog.Int("max_length", MaxLineLength),
				)),
				slog.String("source", b.source),
				slog.Int("line", line),
			)

			continue
		}

		rec, err := ParseRecord(lines.Text())

		switch {
		case errors.Is(err, ErrNotRecord):
			continue

		case errors.Is(err, ErrNumLock):
			b.stats.NumLock++
			b.logger.TraceContext(ctx, "skip numlock record",
				slog.String("name", rec.Name),
				slog.String("source", b.source),
				slog.Int("line", line),
			)

			continue

		case err != nil:
			b.stats.Malformed++
			b.logger.WarnContext(ctx, "skip line",
				slog.Any("error", err),
				slog.String("source", b.source),
				slog.Int("line", line),
			)

			continue
		}

		b.add(ctx, rec, line)
	}

	b.compose(ctx)

	if err := lines.Err(); err != nil {
		return ErrReadInput.Wrap(err).With(
			slog.String("source", b.source),
			slog.Int("line", lines.Line()+1),
		)
	}

	return nil
}

// add resolves rec and puts its entries into the map.
func (b *builder) add(ctx context.Context, rec Record, line int) {
	b.stats.Records++

	res := b.resolver.Resolve(rec.Name)

	switch res.Kind {
	case Resolved, RawUnicodeEscape:
		b.put(ctx, Entry{
			Key:       Tag(res.CodePoint),
			Scancodes: slices.Clone(rec.Scancodes),
			Name:      rec.Name,
			Raw:       rec.Raw,
		})

		if rec.Directives.Has(DirAddUpper) && res.CodePoint >= upperCaseOffset {
			upper := slices.Clone(rec.Scancodes)
			upper[0] |= ShiftMask

			b.put(ctx, Entry{
				Key:       Tag(res.CodePoint - upperCaseOffset),
				Scancodes: upper,
				Name:      b.upperName(rec.Name, res.CodePoint-upperCaseOffset),
				Raw:       rec.Raw,
			})
		}

	case Ignored:
		b.stats.Ignored++

	case Unresolved:
		// Dead keys produce nothing on their own and need no mapping.
		if !strings.HasPrefix(rec.Name, deadKeyPrefix) {
			b.stats.Unresolved++
			b.logger.WarnContext(ctx, "drop record",
				slog.Any("error", ErrUnresolvedName.With(
					slog.String("name", rec.Name),
				)),
				slog.String("source", b.source),
				slog.Int("line", line),
			)
		}
	}

	if frag, ok := strings.CutPrefix(rec.Name, deadKeyPrefix); ok && frag != "" {
		b.dead.register(frag, rec.Scancodes)
	}
}

// upperName names the entry an addupper directive derives from name. It is
// the capitalized name when the name table maps that to codePoint, and
// name+"+shift" otherwise.
func (b *builder) upperName(name string, codePoint uint32) string {
	if r, size := utf8.DecodeRuneInString(name); r != utf8.RuneError {
		upper := string(unicode.ToUpper(r)) + name[size:]
		if cp, ok := b.resolver.Names.Lookup(upper); ok && cp == codePoint {
			return upper
		}
	}

	return name + "+shift"
}

func (b *builder) put(ctx context.Context, e Entry) {
	if b.keys.Put(e) {
		return
	}

	b.stats.Discarded++

	old, _ := b.keys.Get(e.Key)
	b.logger.TraceContext(ctx, "keep existing entry",
		slog.String("name", e.Name),
		slog.String("kept", old.Name),
		slog.Uint64("raw", uint64(e.Raw)),
		slog.Uint64("kept_raw", uint64(old.Raw)),
	)
}
