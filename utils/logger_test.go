package utils

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerJSONLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithConfig(LogConfig{Level: "warn", Format: "json", Output: &buf})

	l.Info("hidden %d", 1)
	l.Warn("shown %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info entry leaked past warn level: %s", out)
	}
	if !strings.Contains(out, `"message":"shown 2"`) {
		t.Errorf("warn entry missing: %s", out)
	}
	if !strings.Contains(out, `"level":"warn"`) {
		t.Errorf("level field missing: %s", out)
	}
}

func TestLoggerWithField(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithConfig(LogConfig{Level: "debug", Format: "json", Output: &buf}).
		With("request_id", "abc")

	l.Debug("[proxy] hello")

	if !strings.Contains(buf.String(), `"request_id":"abc"`) {
		t.Errorf("child field missing: %s", buf.String())
	}
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	tests := map[string]string{
		"":        "info",
		"bogus":   "info",
		"DEBUG":   "debug",
		"warning": "warn",
		"error":   "error",
	}
	for in, want := range tests {
		if got := parseLevel(in).String(); got != want {
			t.Errorf("parseLevel(%q) = %s; want %s", in, got, want)
		}
	}
}
