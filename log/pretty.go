package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used by the pretty handlers. Styles render as
// plain text when the output does not support color.
type palette struct {
	key, str, num, dur, when, null lipgloss.Style
	yes, no                        lipgloss.Style
	trace, debug, info, warn, err  lipgloss.Style
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return palette{
		key:   fg("8"),
		str:   fg("6"),
		num:   fg("3"),
		dur:   fg("5"),
		when:  fg("4"),
		null:  fg("8"),
		yes:   fg("2"),
		no:    fg("1"),
		trace: fg("8"),
		debug: fg("4"),
		info:  fg("2"),
		warn:  fg("3").Bold(true),
		err:   fg("1").Bold(true),
	}
}

func (p palette) level(l slog.Level) string {
	s := strings.ToUpper(Level(l).String())

	switch {
	case l >= slog.LevelError:
		return p.err.Render(s)
	case l >= slog.LevelWarn:
		return p.warn.Render(s)
	case l >= slog.LevelInfo:
		return p.info.Render(s)
	case l >= slog.LevelDebug:
		return p.debug.Render(s)
	default:
		return p.trace.Render(s)
	}
}

func (p palette) value(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return p.str.Render(v.String())

	case slog.KindInt64:
		return p.num.Render(strconv.FormatInt(v.Int64(), 10))

	case slog.KindUint64:
		return p.num.Render(strconv.FormatUint(v.Uint64(), 10))

	case slog.KindFloat64:
		return p.num.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))

	case slog.KindBool:
		if v.Bool() {
			return p.yes.Render("true")
		}

		return p.no.Render("false")

	case slog.KindDuration:
		return p.dur.Render(v.Duration().String())

	case slog.KindTime:
		return p.when.Render(v.Time().String())

	default:
		a := v.Any()
		if a == nil {
			return p.null.Render("null")
		}

		if err, ok := a.(error); ok {
			return p.str.Render(err.Error())
		}

		return p.str.Render(fmt.Sprint(a))
	}
}

// prettyHandler holds the state shared by both pretty handlers.
type prettyHandler struct {
	opts       slog.HandlerOptions
	formatTime FormatTime
	style      palette
	mu         *sync.Mutex
	w          io.Writer
	attrs      []slog.Attr
	group      string
}

func makePrettyHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) prettyHandler {
	if formatTime == nil {
		formatTime = makeFormatTimeFunc(DefaultTimeLayout)
	}

	return prettyHandler{
		opts:       *opts,
		formatTime: formatTime,
		style:      newPalette(w),
		mu:         &sync.Mutex{},
		w:          w,
	}
}

func (h prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}

	return level >= threshold
}

// withAttrs qualifies attrs by the open group and appends them.
func (h prettyHandler) withAttrs(attrs []slog.Attr) prettyHandler {
	if h.group != "" {
		attrs = []slog.Attr{{
			Key:   h.group,
			Value: slog.GroupValue(attrs...),
		}}
	}

	h.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...)

	return h
}

func (h prettyHandler) withGroup(name string) prettyHandler {
	if name == "" {
		return h
	}

	if h.group != "" {
		name = h.group + "." + name
	}

	h.group = name

	return h
}

// fields returns the attributes of r preceded by the handler's own.
func (h prettyHandler) fields(r slog.Record) []slog.Attr {
	own := make([]slog.Attr, 0, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		own = append(own, a)

		return true
	})

	if h.group != "" && len(own) > 0 {
		own = []slog.Attr{{Key: h.group, Value: slog.GroupValue(own...)}}
	}

	return append(h.attrs[:len(h.attrs):len(h.attrs)], own...)
}

func (h prettyHandler) source(r slog.Record) string {
	if !h.opts.AddSource || r.PC == 0 {
		return ""
	}

	src := r.Source()
	if src == nil {
		return ""
	}

	return src.File + ":" + strconv.Itoa(src.Line)
}

func (h prettyHandler) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

// prettyTextHandler writes one colorized line per record.
type prettyTextHandler struct {
	prettyHandler
}

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyTextHandler {
	return &prettyTextHandler{makePrettyHandler(w, opts, formatTime)}
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	if !r.Time.IsZero() {
		if ts := h.formatTime(r.Time); ts != "" {
			buf.WriteString(h.style.key.Render(ts))
			buf.WriteByte(' ')
		}
	}

	buf.WriteString(h.style.level(r.Level))

	if src := h.source(r); src != "" {
		buf.WriteByte(' ')
		buf.WriteString(h.style.key.Render(src))
	}

	buf.WriteByte(' ')
	buf.WriteString(r.Message)

	for _, a := range h.fields(r) {
		h.writeAttr(buf, "", a)
	}

	return h.write(buf)
}

func (h *prettyTextHandler) writeAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	key := a.Key
	if prefix != "" {
		key = prefix + "." + key
	}

	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			h.writeAttr(buf, key, ga)
		}

		return
	}

	buf.WriteByte(' ')
	buf.WriteString(h.style.key.Render(key + "="))
	buf.WriteString(h.style.value(a.Value))
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.withGroup(name)}
}

// prettyJSONHandler writes an indented, colorized JSON-like object per
// record. String values are left unquoted.
type prettyJSONHandler struct {
	prettyHandler
}

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyJSONHandler {
	return &prettyJSONHandler{makePrettyHandler(w, opts, formatTime)}
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make([]slog.Attr, 0, 4+r.NumAttrs())

	if !r.Time.IsZero() {
		if ts := h.formatTime(r.Time); ts != "" {
			attrs = append(attrs, slog.String(slog.TimeKey, ts))
		}
	}

	attrs = append(attrs, slog.Any(slog.LevelKey, r.Level))

	if src := h.source(r); src != "" {
		attrs = append(attrs, slog.String(slog.SourceKey, src))
	}

	attrs = append(attrs, slog.String(slog.MessageKey, r.Message))
	attrs = append(attrs, h.fields(r)...)

	buf := new(bytes.Buffer)
	h.writeObject(buf, attrs, 1)

	return h.write(buf)
}

func (h *prettyJSONHandler) writeObject(
	buf *bytes.Buffer,
	attrs []slog.Attr,
	depth int,
) {
	indent := strings.Repeat("  ", depth)
	first := true

	buf.WriteString("{\n")

	for _, a := range attrs {
		a.Value = a.Value.Resolve()
		if a.Equal(slog.Attr{}) {
			continue
		}

		if !first {
			buf.WriteString(",\n")
		}

		first = false

		buf.WriteString(indent)
		buf.WriteString(h.style.key.Render(a.Key))
		buf.WriteString(": ")

		switch {
		case a.Value.Kind() == slog.KindGroup:
			h.writeObject(buf, a.Value.Group(), depth+1)

		case a.Key == slog.LevelKey && a.Value.Kind() == slog.KindAny:
			if l, ok := a.Value.Any().(slog.Level); ok {
				buf.WriteString(h.style.level(l))

				continue
			}

			buf.WriteString(h.style.value(a.Value))

		default:
			buf.WriteString(h.style.value(a.Value))
		}
	}

	buf.WriteByte('\n')
	buf.WriteString(strings.Repeat("  ", depth-1))
	buf.WriteByte('}')
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.withGroup(name)}
}
