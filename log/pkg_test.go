package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestPackage_LogFunctions_UseDefaultLogger(t *testing.T) {
	original := defaultLog
	defer func() { defaultLog = original }()

	var buf bytes.Buffer
	Config(
		WithOutput(&buf),
		WithLevel(LevelTrace),
		WithFormat(FormatJSON),
		WithPretty(false),
	)

	ctx := context.Background()

	tests := []struct {
		name  string
		fn    func(string, ...slog.Attr)
		level string
	}{
		{"Trace", func(m string, a ...slog.Attr) { TraceContext(ctx, m, a...) }, "TRACE"},
		{"Debug", Debug, "DEBUG"},
		{"Info", Info, "INFO"},
		{"Warn", Warn, "WARN"},
		{"Error", Error, "ERROR"},
		{"WarnContext", func(m string, a ...slog.Attr) { WarnContext(ctx, m, a...) }, "WARN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn("package message", slog.String("key", "value"))

			output := buf.String()
			if !strings.Contains(output, "package message") {
				t.Errorf("expected message in output, got: %s", output)
			}
			if !strings.Contains(output, tt.level) {
				t.Errorf("expected level %q in output, got: %s", tt.level, output)
			}
			if !strings.Contains(output, `"key":"value"`) {
				t.Errorf("expected attribute in output, got: %s", output)
			}
		})
	}
}

func TestPackage_With(t *testing.T) {
	original := defaultLog
	defer func() { defaultLog = original }()

	var buf bytes.Buffer
	Config(WithOutput(&buf), WithFormat(FormatText), WithPretty(false))

	With(slog.String("layout", "de")).Info("converted")

	if !strings.Contains(buf.String(), "layout=de") {
		t.Errorf("unexpected output: %s", buf.String())
	}

	if Default().Format() != FormatText {
		t.Errorf("expected default logger to use text format")
	}
}
