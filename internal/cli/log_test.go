package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/popper/pkg/errors"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("placed") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("placed") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("placed") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	c.Logger.Debug("hidden")
	c.SetLogLevel(LogDebug)
	c.Logger.Debug("shown")

	if out := buf.String(); strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("output = %q", out)
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("Placed tooltip")

	if !strings.Contains(buf.String(), "Placed tooltip (") {
		t.Errorf("progress output = %q", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)

	if got := loggerFromContext(withLogger(context.Background(), custom)); got != custom {
		t.Error("loggerFromContext should return the attached logger")
	}
	if got := loggerFromContext(context.Background()); got != log.Default() {
		t.Error("loggerFromContext should fall back to log.Default()")
	}
}

func TestSetLogFormat(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	if err := c.SetLogFormat(LogFormatJSON); err != nil {
		t.Fatalf("SetLogFormat(json): %v", err)
	}
	c.Logger.Info("placed", "placement", "bottom")
	if out := buf.String(); !strings.Contains(out, `"placement":"bottom"`) {
		t.Errorf("json output = %q", out)
	}

	buf.Reset()
	if err := c.SetLogFormat(LogFormatLogfmt); err != nil {
		t.Fatalf("SetLogFormat(logfmt): %v", err)
	}
	c.Logger.Info("placed", "placement", "top")
	if out := buf.String(); !strings.Contains(out, "placement=top") {
		t.Errorf("logfmt output = %q", out)
	}

	if err := c.SetLogFormat("xml"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("SetLogFormat(xml) = %v, want INVALID_INPUT", err)
	}
}
