package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func levelAttr(l Level) slog.Attr {
	return slog.Any(slog.LevelKey, slog.Level(l))
}

func TestLogger_Make_DefaultConfiguration(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf)

	if logger.Level() != DefaultLevel {
		t.Errorf("expected default level, got %v", logger.Level())
	}
	if logger.Format() != DefaultFormat {
		t.Errorf("expected default format, got %v", logger.Format())
	}
	if logger.caller {
		t.Error("expected caller disabled by default")
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name     string
		logFunc  func(Logger, string, ...slog.Attr)
		minLevel Level
		logged   bool
	}{
		{"trace at trace", Logger.Trace, LevelTrace, true},
		{"trace at debug", Logger.Trace, LevelDebug, false},
		{"debug at info", Logger.Debug, LevelInfo, false},
		{"info at info", Logger.Info, LevelInfo, true},
		{"warn at error", Logger.Warn, LevelError, false},
		{"error at debug", Logger.Error, LevelDebug, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := Make(&buf, WithLevel(tt.minLevel))
			tt.logFunc(logger, "test message")

			if (buf.Len() > 0) != tt.logged {
				t.Errorf("expected logged=%v, got %q", tt.logged, buf.String())
			}
		})
	}
}

func TestLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithFormat(FormatJSON), WithPretty(false), WithLevel(LevelTrace))
	logger.Trace("test message", slog.String("key", "value"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse JSON output: %v", err)
	}

	if entry["msg"] != "test message" {
		t.Errorf("expected msg=test message, got %v", entry["msg"])
	}
	if entry["key"] != "value" {
		t.Errorf("expected key=value, got %v", entry["key"])
	}
	if entry["level"] != "TRACE" {
		t.Errorf("expected level=TRACE, got %v", entry["level"])
	}
}

func TestLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithFormat(FormatText), WithPretty(false))
	logger.Info("test message", slog.String("key", "value"))

	output := buf.String()
	if !strings.Contains(output, "test message") {
		t.Error("message not found in text output")
	}
	if !strings.Contains(output, "key=value") {
		t.Errorf("key=value not found in text output: %s", output)
	}
}

func TestLogger_Caller(t *testing.T) {
	var buf bytes.Buffer
	Make(&buf, WithCaller(true), WithPretty(false)).Info("with caller")

	if !strings.Contains(buf.String(), "log_test.go") {
		t.Errorf("expected caller file in output, got: %s", buf.String())
	}

	buf.Reset()
	Make(&buf, WithCaller(false), WithPretty(false)).Info("without caller")

	if strings.Contains(buf.String(), "source") {
		t.Errorf("unexpected caller info: %s", buf.String())
	}
}

func TestLogger_NoTimestamp(t *testing.T) {
	var buf bytes.Buffer
	Make(&buf, WithTimeLayout("none"), WithFormat(FormatJSON), WithPretty(false)).Info("test")

	if strings.Contains(buf.String(), `"time"`) {
		t.Errorf("expected no time field, got: %s", buf.String())
	}
}

func TestLogger_Pretty(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		want   []string
	}{
		{"text", FormatText, []string{"WARN", "pretty message", "key=value", "n=3", "err.error=boom"}},
		{"json", FormatJSON, []string{"WARN", "pretty message", "key: value", "n: 3", "error: boom"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := Make(&buf, WithFormat(tt.format), WithPretty(true), WithTimeLayout("none"))

			logger.With(slog.String("key", "value")).Warn("pretty message",
				slog.Int("n", 3),
				slog.Group("err", slog.String("error", "boom")),
			)

			output := buf.String()
			for _, s := range tt.want {
				if !strings.Contains(output, s) {
					t.Errorf("expected %q in output:\n%s", s, output)
				}
			}
		})
	}
}

func TestLogger_Pretty_LogValuer(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithFormat(FormatText), WithTimeLayout("none"))

	logger.Error("failed", slog.Any("error", errors.New("plain error")))

	if !strings.Contains(buf.String(), "error=plain error") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestLogger_With_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithFormat(FormatJSON), WithPretty(false))

	logger.With(slog.String("key", "value")).Info("test message")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to unmarshal log entry: %v", err)
	}

	if val, ok := entry["key"]; !ok || val != "value" {
		t.Errorf("expected key=value in log entry, got %v", val)
	}
}

func TestLogger_Wrap_KeepsConfiguration(t *testing.T) {
	var buf bytes.Buffer
	base := Make(&buf, WithLevel(LevelDebug), WithFormat(FormatJSON))

	wrapped := base.Wrap(WithPretty(false))

	if wrapped.Level() != LevelDebug || wrapped.Format() != FormatJSON {
		t.Errorf("wrap lost configuration: level=%v format=%v",
			wrapped.Level(), wrapped.Format())
	}

	wrapped.Debug("wrapped")

	if !strings.Contains(buf.String(), `"msg":"wrapped"`) {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestLogger_ZeroValue(t *testing.T) {
	var l Logger

	l.Trace("test")
	l.Debug("test")
	l.InfoContext(context.Background(), "test")
	l.Warn("test")
	l.Error("test")

	if l.With(slog.String("key", "value")).Logger != nil {
		t.Error("expected nil logger from zero value With")
	}

	if l.Wrap().Logger == nil {
		t.Error("expected Wrap to produce a usable logger")
	}
}

func TestLogger_Concurrent(t *testing.T) {
	for _, pretty := range []bool{false, true} {
		var buf bytes.Buffer
		logger := Make(&buf, WithPretty(pretty))

		var wg sync.WaitGroup
		for i := range 100 {
			wg.Add(1)
			go func(id int) {
				defer wg.Done()
				logger.Info("concurrent message", slog.Int("id", id))
			}(i)
		}
		wg.Wait()

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 100 {
			t.Errorf("pretty=%v: expected 100 log lines, got %d", pretty, len(lines))
		}
	}
}

func BenchmarkLogger_Info(b *testing.B) {
	var buf bytes.Buffer
	logger := Make(&buf)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("benchmark message", slog.Int("iteration", i))
	}
}
