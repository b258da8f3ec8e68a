package layout

import (
	"cmp"
	"log/slog"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Catalog is an ordered set of layouts, sorted by code. It implements
// [fuzzy.Source] over "<code> <label>".
type Catalog struct {
	layouts []Layout
	byCode  map[string]int
}

// NewCatalog returns a catalog of layouts. Later layouts with a duplicate
// code are dropped.
func NewCatalog(layouts ...Layout) *Catalog {
	c := &Catalog{byCode: make(map[string]int, len(layouts))}

	for _, l := range layouts {
		if _, dup := c.byCode[l.Code]; dup {
			continue
		}

		c.byCode[l.Code] = -1
		c.layouts = append(c.layouts, l)
	}

	slices.SortFunc(c.layouts, func(a, b Layout) int {
		return cmp.Compare(a.Code, b.Code)
	})

	for i, l := range c.layouts {
		c.byCode[l.Code] = i
	}

	return c
}

// Len implements [fuzzy.Source].
func (c *Catalog) Len() int { return len(c.layouts) }

// String implements [fuzzy.Source].
func (c *Catalog) String(i int) string {
	return c.layouts[i].Code + " " + c.layouts[i].Label
}

// Layouts returns all layouts in code order.
func (c *Catalog) Layouts() []Layout { return slices.Clone(c.layouts) }

// Known returns the layouts listed in [Labels], in code order.
func (c *Catalog) Known() []Layout {
	var known []Layout

	for _, l := range c.layouts {
		if l.Known() {
			known = append(known, l)
		}
	}

	return known
}

// Lookup returns the layout with the given code.
func (c *Catalog) Lookup(code string) (Layout, bool) {
	i, ok := c.byCode[code]
	if !ok {
		return Layout{}, false
	}

	return c.layouts[i], true
}

// Select resolves each query to one layout and returns them in query order
// without duplicates.
//
// A query selects the layout whose code or label equals it, ignoring case.
// Otherwise the query is fuzzy-matched against "<code> <label>" and must have
// a single best match.
func (c *Catalog) Select(queries ...string) ([]Layout, error) {
	var (
		selected []Layout
		seen     = make(map[string]bool)
	)

	for _, q := range queries {
		l, err := c.match(q)
		if err != nil {
			return nil, err
		}

		if !seen[l.Code] {
			seen[l.Code] = true
			selected = append(selected, l)
		}
	}

	return selected, nil
}

func (c *Catalog) match(query string) (Layout, error) {
	q := strings.TrimSpace(query)

	if l, ok := c.Lookup(q); ok {
		return l, nil
	}

	for _, l := range c.layouts {
		if strings.EqualFold(l.Code, q) || strings.EqualFold(l.Label, q) {
			return l, nil
		}
	}

	matches := fuzzy.FindFrom(q, c)
	if q == "" || len(matches) == 0 {
		return Layout{}, ErrNoMatch.With(slog.String("query", query))
	}

	best := matches[0]

	var tied []string

	for _, m := range matches[1:] {
		if m.Score == best.Score {
			tied = append(tied, c.layouts[m.Index].Code)
		}
	}

	if len(tied) > 0 {
		return Layout{}, ErrAmbiguous.With(
			slog.String("query", query),
			slog.String("candidates", strings.Join(
				append([]string{c.layouts[best.Index].Code}, tied...), ","),
			),
		)
	}

	return c.layouts[best.Index], nil
}
