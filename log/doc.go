// Package log provides a simplified, immutable logging interface based on
// [log/slog].
//
// Loggers are configured once at creation using functional options and
// are safe for concurrent use:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("Kitchen"),
//		log.WithCaller(true))
//
//	logger.Info("converted layout", slog.String("layout", "de"))
//
// Attributes are typed [slog.Attr] values. [Logger.With] returns a derived
// logger that includes them in every message.
//
// # Levels
//
// In addition to the [log/slog] levels, [LevelTrace] sits below
// [LevelDebug] and is printed as "TRACE".
//
// # Pretty Output
//
// With [WithPretty] enabled, text and JSON output is colorized using
// lipgloss styles. Styling degrades to plain text when the output is not a
// terminal.
//
// # Package Logger
//
// The package-level functions ([Info], [WarnContext], ...) use a default
// logger writing to standard error, reconfigured with [Config].
// The zero value of [Logger] discards all messages.
package log
