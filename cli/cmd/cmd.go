package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/ardnew/kmap/keymap"
	"github.com/ardnew/kmap/layout"
	"github.com/ardnew/kmap/log"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type outputKey struct{}

// WithOutput returns a new context.Context whose command output is written
// to w instead of standard output.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

// Input locates the layout directory and the tables shared by all layouts.
type Input struct {
	Layouts     string `default:"${layoutDir}"          help:"Directory of key definition files." short:"d" type:"path"`
	Names       string `default:"name_to_unicode.in"    help:"Key name to Unicode code point table."        type:"path"`
	CommonCodes string `default:"common_keycodes.in"    help:"Raw keycodes copied into every keymap."       type:"path"`
	Common      string `help:"Key definition file shared by all layouts (default: <layouts>/common)." type:"path"`
	Ignore      string `help:"Key names expected to have no Unicode mapping."                             type:"path"`
}

// catalog discovers the layouts in the layout directory.
func (in *Input) catalog() (*layout.Catalog, error) {
	return layout.Discover(in.Layouts)
}

// config loads the shared tables into a [keymap.Config].
//
// Missing tables are logged and replaced by empty ones, so a conversion still
// runs; only context cancellation and read errors are returned.
func (in *Input) config(ctx context.Context) (keymap.Config, error) {
	logger := log.Default()
	loader := keymap.Loader{Logger: logger}

	cfg := keymap.Config{
		CommonKeys: in.Common,
		Names:      keymap.NewNameTable(),
		Ignore:     keymap.NewIgnoreSet(),
		Logger:     logger,
	}

	if cfg.CommonKeys == "" {
		cfg.CommonKeys = filepath.Join(in.Layouts, layout.CommonFile)
	}

	err := readTable(ctx, in.Names, "names", func(r io.Reader) (err error) {
		cfg.Names, err = loader.NameTable(ctx, r)

		return err
	})
	if err != nil {
		return cfg, err
	}

	err = readTable(ctx, in.CommonCodes, "common codes", func(r io.Reader) (err error) {
		cfg.CommonCodes, err = loader.CommonCodes(ctx, r)

		return err
	})
	if err != nil {
		return cfg, err
	}

	if in.Ignore != "" {
		err = readTable(ctx, in.Ignore, "ignore", func(r io.Reader) (err error) {
			cfg.Ignore, err = loader.IgnoreSet(ctx, r)

			return err
		})
		if err != nil {
			return cfg, err
		}
	}

	log.DebugContext(ctx, "loaded tables",
		slog.Int("names", cfg.Names.Len()),
		slog.Int("common_codes", len(cfg.CommonCodes)),
		slog.Int("ignore", len(cfg.Ignore)),
		slog.String("common", cfg.CommonKeys),
	)

	return cfg, nil
}

// readTable opens path and passes it to read. A file that cannot be opened
// is logged and skipped.
func readTable(
	ctx context.Context,
	path, table string,
	read func(io.Reader) error,
) error {
	r, err := keymap.Open(path)
	if err != nil {
		log.WarnContext(ctx, "skip table",
			slog.String("table", table),
			slog.Any("error", err),
			slog.Bool("missing", keymap.IsMissing(err)),
		)

		return nil
	}
	defer r.Close()

	return read(r)
}
