package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/ardnew/kmap/layout"
)

// List prints the layouts found in the layout directory.
type List struct {
	Known  bool   `help:"Only list layouts with a known label."                      short:"k"`
	Format string `default:"text" enum:"text,json,yaml" help:"Output format."        short:"f"`
}

// Run executes the list command.
func (c *List) Run(ctx context.Context, in *Input) error {
	cat, err := in.catalog()
	if err != nil {
		return err
	}

	layouts := cat.Layouts()
	if c.Known {
		layouts = cat.Known()
	}

	w := outputFrom(ctx)

	if c.Format != formatText {
		if layouts == nil {
			layouts = []layout.Layout{}
		}

		return encode(w, c.Format, layouts)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	for _, l := range layouts {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", l.Code, l.Label, l.Path)
	}

	return tw.Flush()
}
