package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]log.Level{
		"debug": log.DebugLevel,
		"info":  log.InfoLevel,
		"warn":  log.WarnLevel,
		"error": log.ErrorLevel,
		"":      log.InfoLevel,
		"loud":  log.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewLoggerWithWriter(t *testing.T) {
	t.Setenv("DIS6502_LOG_LEVEL", "warn")
	t.Setenv("DIS6502_LOG_PREFIX", "test ")

	var buf bytes.Buffer
	lg := NewLoggerWithWriter(&buf)
	defer lg.Close()

	lg.Info("hidden")
	lg.Warn("shown", "addr", "0x0004")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message logged at warn level: %q", out)
	}
	for _, want := range []string{"test", "shown", "addr=0x0004"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}
}

func TestIsDebug(t *testing.T) {
	t.Setenv("DIS6502_LOG_LEVEL", "debug")
	if !IsDebug() {
		t.Error("IsDebug() = false with DIS6502_LOG_LEVEL=debug")
	}
	t.Setenv("DIS6502_LOG_LEVEL", "info")
	if IsDebug() {
		t.Error("IsDebug() = true with DIS6502_LOG_LEVEL=info")
	}
}
