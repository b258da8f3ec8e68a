package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"text/tabwriter"
	"unicode"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/kmap/asset"
	"github.com/ardnew/kmap/keymap"
)

// Inspect prints the resolved keymap of one layout.
type Inspect struct {
	Layout string `arg:""         help:"Layout code or label."`
	Format string `default:"text" enum:"text,json,yaml,asset"                                        help:"Output format." short:"f"`
	Filter string `help:"Only print entries matching this boolean expression, e.g. 'composed && shift'." short:"F"`
}

// row is the printed form of a [keymap.Entry]. Its fields are also the
// variables available to --filter.
type row struct {
	Key       uint32   `json:"key"                 yaml:"key"`
	Unicode   bool     `json:"unicode"             yaml:"unicode"`
	CodePoint uint32   `json:"codepoint,omitempty" yaml:"codepoint,omitempty"`
	Char      string   `json:"char,omitempty"      yaml:"char,omitempty"`
	Name      string   `json:"name"                yaml:"name"`
	Scancodes []uint32 `json:"scancodes"           yaml:"scancodes"`
	Shift     bool     `json:"shift"               yaml:"shift"`
	AltGr     bool     `json:"altgr"               yaml:"altgr"`
	Composed  bool     `json:"composed"            yaml:"composed"`
}

func makeRow(e keymap.Entry) row {
	r := row{
		Key:       e.Key,
		Unicode:   e.IsUnicode(),
		Name:      e.Name,
		Scancodes: e.Scancodes,
		Composed:  e.Composed,
	}

	if r.Unicode {
		r.CodePoint = uint32(e.CodePoint())
		if unicode.IsPrint(e.CodePoint()) {
			r.Char = string(e.CodePoint())
		}
	}

	for _, sc := range e.Scancodes {
		r.Shift = r.Shift || sc&keymap.ShiftMask != 0
		r.AltGr = r.AltGr || sc&keymap.AltGrMask != 0
	}

	return r
}

// env returns the --filter variables of r.
func (r row) env() map[string]any {
	scancodes := make([]int, len(r.Scancodes))
	for i, sc := range r.Scancodes {
		scancodes[i] = int(sc)
	}

	return map[string]any{
		"key":       int(r.Key),
		"unicode":   r.Unicode,
		"codepoint": int(r.CodePoint),
		"char":      r.Char,
		"name":      r.Name,
		"scancodes": scancodes,
		"shift":     r.Shift,
		"altgr":     r.AltGr,
		"composed":  r.Composed,
	}
}

// Run executes the inspect command.
func (c *Inspect) Run(ctx context.Context, in *Input) error {
	filter, err := c.compile()
	if err != nil {
		return err
	}

	cat, err := in.catalog()
	if err != nil {
		return err
	}

	selected, err := cat.Select(c.Layout)
	if err != nil {
		return err
	}

	cfg, err := in.config(ctx)
	if err != nil {
		return err
	}

	res, err := keymap.NewMerger(cfg).Merge(ctx, selected[0].Path)
	if err != nil {
		return err
	}

	m := res.Map
	if filter != nil {
		if m, err = c.apply(filter, res.Map); err != nil {
			return err
		}
	}

	w := outputFrom(ctx)

	switch c.Format {
	case "asset":
		return asset.Encode(w, m)

	case formatText:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

		for e := range m.All() {
			r := makeRow(e)
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
				r.Key, r.label(), r.Char, r.Name, r.scancodes())
		}

		return tw.Flush()

	default:
		rows := make([]row, 0, m.Len())
		for e := range m.All() {
			rows = append(rows, makeRow(e))
		}

		return encode(w, c.Format, rows)
	}
}

// compile returns the compiled --filter expression, or nil without one.
func (c *Inspect) compile() (*vm.Program, error) {
	if strings.TrimSpace(c.Filter) == "" {
		return nil, nil
	}

	program, err := expr.Compile(c.Filter,
		expr.Env(row{}.env()),
		expr.AsBool(),
	)
	if err != nil {
		return nil, ErrFilter.Wrap(err).With(slog.String("filter", c.Filter))
	}

	return program, nil
}

// apply returns the entries of m for which filter holds.
func (c *Inspect) apply(filter *vm.Program, m *keymap.Map) (*keymap.Map, error) {
	out := keymap.NewMap()

	for e := range m.All() {
		v, err := expr.Run(filter, makeRow(e).env())
		if err != nil {
			return nil, ErrFilter.Wrap(err).With(
				slog.String("filter", c.Filter),
				slog.String("name", e.Name),
			)
		}

		if ok, _ := v.(bool); ok {
			out.Set(e)
		}
	}

	return out, nil
}

// label returns "U+XXXX" for Unicode entries and "raw" otherwise.
func (r row) label() string {
	if !r.Unicode {
		return "raw"
	}

	return fmt.Sprintf("U+%04X", r.CodePoint)
}

func (r row) scancodes() string {
	s := make([]string, len(r.Scancodes))
	for i, sc := range r.Scancodes {
		s[i] = "0x" + strconv.FormatUint(uint64(sc), 16)
	}

	return strings.Join(s, " ")
}
