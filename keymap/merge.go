package keymap

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/ardnew/kmap/log"
)

// State is the progress of a layout merge.
type State uint8

const (
	StateEmpty             State = iota // empty
	StateCommonCodesLoaded              // common-codes-loaded
	StateCommonLayerMerged              // common-layer-merged
	StateLayoutLayerMerged              // layout-layer-merged
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateCommonCodesLoaded:
		return "common-codes-loaded"
	case StateCommonLayerMerged:
		return "common-layer-merged"
	case StateLayoutLayerMerged:
		return "layout-layer-merged"
	default:
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
}

// Config holds everything a [Merger] needs. Names, Ignore and CommonCodes are
// shared between layouts and must not be modified while merges run.
type Config struct {
	// CommonCodes is loaded verbatim into every map before any key file.
	CommonCodes []CommonCode
	// CommonKeys is the path of the key definition file shared by all
	// layouts.
	CommonKeys string
	Names      *NameTable
	Ignore     IgnoreSet
	Logger     log.Logger
}

// Result is the outcome of merging one layout.
type Result struct {
	Map   *Map
	State State
	Stats Stats
}

// Merger builds layout keymaps from the shared tables in its [Config].
// A Merger holds no per-layout state and may be used concurrently.
type Merger struct {
	cfg      Config
	resolver Resolver
}

// NewMerger returns a Merger for cfg.
func NewMerger(cfg Config) *Merger {
	if cfg.Names == nil {
		cfg.Names = NewNameTable()
	}

	return &Merger{
		cfg:      cfg,
		resolver: Resolver{Names: cfg.Names, Ignore: cfg.Ignore},
	}
}

// Merge builds the keymap for the layout key file at layoutPath.
//
// The common codes are loaded first, then the common key file and finally
// the layout file are folded into the same map. A key file that cannot be
// opened is logged and its layer skipped; when the layout file is missing
// or cannot be read to the end the result stays at
// [StateCommonLayerMerged]. Only context cancellation is returned as an
// error.
func (m *Merger) Merge(ctx context.Context, layoutPath string) (Result, error) {
	res := Result{Map: NewMap(), State: StateEmpty}

	for _, cc := range m.cfg.CommonCodes {
		res.Map.Set(Entry{
			Key:       cc.Key,
			Scancodes: []uint32{cc.Scancode},
			Name:      cc.Name,
			Raw:       cc.Scancode,
		})
	}

	res.State = StateCommonCodesLoaded

	if _, err := m.layer(ctx, &res, m.cfg.CommonKeys); err != nil {
		return res, err
	}

	res.State = StateCommonLayerMerged

	ok, err := m.layer(ctx, &res, layoutPath)
	if err != nil {
		return res, err
	}

	if ok {
		res.State = StateLayoutLayerMerged
	}

	m.cfg.Logger.DebugContext(ctx, "merged layout",
		slog.String("layout", layoutPath),
		slog.String("state", res.State.String()),
		slog.Int("entries", res.Map.Len()),
		slog.Any("stats", res.Stats),
	)

	return res, nil
}

// layer folds one key definition file into res. It reports whether the file
// was read to the end; the lines read before a read error are still merged.
func (m *Merger) layer(ctx context.Context, res *Result, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r, err := Open(path)
	if err != nil {
		m.cfg.Logger.WarnContext(ctx, "skip layer",
			slog.Any("error", err),
			slog.Bool("missing", IsMissing(err)),
		)

		return false, nil
	}
	defer r.Close()

	b := builder{
		keys:     res.Map,
		resolver: m.resolver,
		logger:   m.cfg.Logger,
		stats:    &res.Stats,
		source:   path,
	}

	err = b.scan(ctx, r)
	if err != nil {
		if ctx.Err() != nil {
			return false, err
		}

		m.cfg.Logger.WarnContext(ctx, "incomplete layer",
			slog.Any("error", err),
		)

		return false, nil
	}

	return true, nil
}
