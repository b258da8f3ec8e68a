package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"

	"golang.org/x/sync/errgroup"

	"github.com/ardnew/kmap/asset"
	"github.com/ardnew/kmap/keymap"
	"github.com/ardnew/kmap/layout"
	"github.com/ardnew/kmap/log"
)

// Convert writes one keymap asset per selected layout.
type Convert struct {
	Queries []string `arg:""      help:"Layout codes or labels to convert (default: layouts with a known label)." name:"layout" optional:""`
	All     bool     `help:"Convert every layout in the layout directory."                                        short:"a"`
	Out     string   `default:"." help:"Asset output directory."                                                  short:"o" type:"path"`
	Jobs    int      `default:"1" help:"Number of layouts converted concurrently."                                short:"j"`
	DryRun  bool     `help:"Report which assets would change without writing them."                              short:"n"`
}

// outcome is the result of converting one layout.
type outcome struct {
	layout layout.Layout
	asset  asset.Result
	err    error
}

// Run executes the convert command.
func (c *Convert) Run(ctx context.Context, in *Input) error {
	cat, err := in.catalog()
	if err != nil {
		return err
	}

	selected, err := c.selected(cat)
	if err != nil {
		return err
	}

	if len(selected) == 0 {
		return ErrNoLayouts.With(slog.String("dir", in.Layouts))
	}

	if !c.DryRun {
		if err := os.MkdirAll(c.Out, 0o755); err != nil {
			return ErrOutputDir.Wrap(err).With(slog.String("dir", c.Out))
		}
	}

	cfg, err := in.config(ctx)
	if err != nil {
		return err
	}

	merger := keymap.NewMerger(cfg)
	results := make([]outcome, len(selected))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(c.Jobs, 1))

	for i, l := range selected {
		g.Go(func() error {
			results[i] = c.convert(gctx, merger, l)

			// Only cancellation stops the batch.
			return gctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	return c.report(ctx, results)
}

// selected returns the layouts named on the command line, every layout with
// --all, or the layouts with a known label.
func (c *Convert) selected(cat *layout.Catalog) ([]layout.Layout, error) {
	switch {
	case len(c.Queries) > 0:
		return cat.Select(c.Queries...)
	case c.All:
		return cat.Layouts(), nil
	default:
		return cat.Known(), nil
	}
}

func (c *Convert) convert(
	ctx context.Context,
	merger *keymap.Merger,
	l layout.Layout,
) outcome {
	out := outcome{layout: l}

	res, err := merger.Merge(ctx, l.Path)
	if err != nil {
		out.err = err

		return out
	}

	if res.State != keymap.StateLayoutLayerMerged {
		log.WarnContext(ctx, "layout file not merged",
			slog.Any("layout", l),
			slog.String("state", res.State.String()),
		)
	}

	path := filepath.Join(c.Out, asset.FileName(l.Label))

	out.asset, out.err = asset.WriteFile(path, res.Map, c.DryRun)
	if out.err == nil {
		log.DebugContext(ctx, "converted layout",
			slog.Any("layout", l),
			slog.Any("asset", out.asset),
			slog.Any("stats", res.Stats),
		)
	}

	return out
}

// report prints one line per layout and logs a summary. It returns
// [ErrConvert] if any layout failed.
func (c *Convert) report(ctx context.Context, results []outcome) error {
	tw := tabwriter.NewWriter(outputFrom(ctx), 0, 0, 2, ' ', 0)

	count := make(map[asset.Status]int)
	failed := 0

	for _, r := range results {
		if r.err != nil {
			failed++

			log.ErrorContext(ctx, "convert failed",
				slog.Any("layout", r.layout),
				slog.Any("error", r.err),
			)

			fmt.Fprintf(tw, "failed\t%s\t%s\n", r.layout.Code, r.layout.Label)

			continue
		}

		count[r.asset.Status]++

		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.asset.Status, r.layout.Code, r.asset.Path)
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	log.InfoContext(ctx, "conversion complete",
		slog.Int("layouts", len(results)),
		slog.Int(asset.Written.String(), count[asset.Written]),
		slog.Int(asset.Unchanged.String(), count[asset.Unchanged]),
		slog.Int(asset.Pending.String(), count[asset.Pending]),
		slog.Int("failed", failed),
		slog.Bool("dry_run", c.DryRun),
	)

	if failed > 0 {
		return ErrConvert.With(slog.Int("failed", failed))
	}

	return nil
}
