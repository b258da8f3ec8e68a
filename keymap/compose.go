package keymap

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"unicode/utf8"
)

// deadKeys holds the dead keys of one key definition file, keyed by name
// without the "dead_" prefix, in the order they were first seen.
type deadKeys struct {
	order []string
	seq   map[string][]uint32
}

func (d *deadKeys) register(frag string, seq []uint32) {
	if d.seq == nil {
		d.seq = make(map[string][]uint32)
	}

	if _, ok := d.seq[frag]; !ok {
		d.order = append(d.order, frag)
	}

	d.seq[frag] = slices.Clone(seq)
}

func (d *deadKeys) len() int { return len(d.order) }

// decompose strips every dead key fragment contained in name, collecting the
// dead keys' sequences in registration order. It reports whether what is
// left names a base letter: either the remainder ended with the '_'
// separator, which is removed, or it is a single character.
func (d *deadKeys) decompose(name string) (base string, seq []uint32, ok bool) {
	base = name

	for _, frag := range d.order {
		if !strings.Contains(base, frag) {
			continue
		}

		seq = append(seq, d.seq[frag]...)
		base = strings.ReplaceAll(base, frag, "")

		if trimmed, cut := strings.CutSuffix(base, "_"); cut {
			base = trimmed
			ok = true
		} else if utf8.RuneCountInString(base) == 1 {
			ok = true
		}
	}

	return base, seq, ok
}

// compose synthesizes entries for every name in the name table that can be
// typed as dead key(s) followed by a base letter already present in the map.
// Existing entries are never replaced.
func (b *builder) compose(ctx context.Context) {
	if b.dead.len() == 0 {
		return
	}

	for name, codePoint := range b.resolver.Names.All() {
		baseName, prefix, ok := b.dead.decompose(name)
		if !ok {
			continue
		}

		var (
			base  Entry
			found bool
		)

		if res := b.resolver.Resolve(baseName); res.OK() {
			base, found = b.keys.Get(Tag(res.CodePoint))
		}

		if !found {
			b.stats.NoBase++
			b.logger.DebugContext(ctx, "skip dead key sequence",
				slog.Any("error", ErrUnresolvedDeadKeyBase.With(
					slog.String("name", name),
					slog.String("base", baseName),
				)),
				slog.String("source", b.source),
			)

			continue
		}

		seq := make([]uint32, 0, len(prefix)+len(base.Scancodes))
		seq = append(seq, prefix...)
		seq = append(seq, base.Scancodes...)

		composed := Entry{
			Key:       Tag(codePoint),
			Scancodes: seq,
			Name:      name,
			Raw:       seq[0] &^ (ShiftMask | AltGrMask),
			Composed:  true,
		}

		if b.keys.PutIfAbsent(composed) {
			b.stats.Composed++
			b.logger.TraceContext(ctx, "compose",
				slog.String("name", name),
				slog.String("base", baseName),
				slog.Int("length", len(seq)),
			)
		}
	}
}
