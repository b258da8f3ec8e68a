package cli

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/kmap/log"
)

// logLevel configures the package logger as a side effect of parsing, so
// that messages emitted while kong is still parsing already use it.
type logLevel string

// UnmarshalText implements [encoding.TextUnmarshaler].
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

// logFormat configures the package logger as a side effect of parsing.
type logFormat string

// UnmarshalText implements [encoding.TextUnmarshaler].
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"info"    enum:"${logLevelEnum}"  help:"Set log level."`
	Format     logFormat `default:"text"    enum:"${logFormatEnum}" help:"Set log format."`
	TimeLayout string    `default:"RFC3339"                         help:"Set timestamp format (Go layout, layout name or 'none')."`
	Caller     bool      `default:"false"                           help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"true"                            help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevelEnum":  strings.Join(slices.Collect(log.Levels()), ","),
		"logFormatEnum": strings.Join(slices.Collect(log.Formats()), ","),
	}
}

func (*logConfig) group() kong.Group {
	return kong.Group{Key: "log", Title: "Logging options"}
}

// start applies every parsed logger flag, including the ones without a
// TextUnmarshaler.
func (f *logConfig) start(ctx context.Context) (stop func()) {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)

	return func() { log.TraceContext(ctx, "logger stopped") }
}

// scan applies logger flags found in args before kong parses them, so the
// logger is configured no matter where the flags appear on the command line.
// Boolean flags never reach a TextUnmarshaler, which is why they are handled
// here as well.
func (f *logConfig) scan(args []string) {
	const (
		on  = "--log-"
		off = "--no-log-"
	)

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, on) && !strings.HasPrefix(arg, off) {
			continue
		}

		name, value, assigned := strings.Cut(arg, "=")

		// next consumes the following argument as the flag value.
		next := func() string {
			if !assigned && i+1 < len(args) && args[i+1] != "" &&
				args[i+1][0] != '-' {
				i++

				return args[i]
			}

			return value
		}

		switch name {
		case on + "level":
			_ = f.Level.UnmarshalText([]byte(next()))

		case on + "format":
			_ = f.Format.UnmarshalText([]byte(next()))

		case on + "pretty", off + "pretty":
			if v, ok := flagBool(name, value, assigned, off); ok {
				f.Pretty = v
				log.Config(log.WithPretty(v))
			}

		case on + "caller", off + "caller":
			if v, ok := flagBool(name, value, assigned, off); ok {
				f.Caller = v
				log.Config(log.WithCaller(v))
			}
		}
	}
}

// flagBool returns the value of a negatable boolean flag. A bare flag is
// true, or false when negated; an assigned value must parse as a bool.
func flagBool(name, value string, assigned bool, negPrefix string) (bool, bool) {
	neg := strings.HasPrefix(name, negPrefix)
	if !assigned {
		return !neg, true
	}

	v, err := strconv.ParseBool(value)
	if err != nil {
		return false, false
	}

	return v != neg, true
}
