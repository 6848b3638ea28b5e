package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"readlog/internal/platform/logger"
)

func TestSetupJSONWritesStructuredRecords(t *testing.T) {
	t.Parallel()
	buf := &bytes.Buffer{}
	log := logger.Setup(buf, "info", "json")
	log.Info("streak rebuilt", "current", 3)

	record := map[string]any{}
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode log line: %v (%s)", err, buf.String())
	}
	if record["msg"] != "streak rebuilt" || record["current"] != float64(3) {
		t.Fatalf("unexpected record %v", record)
	}
}

func TestSetupFiltersBelowLevel(t *testing.T) {
	t.Parallel()
	buf := &bytes.Buffer{}
	log := logger.Setup(buf, "warn", "text")
	log.Info("hidden")
	log.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	cases := map[string]slog.Level{"debug": slog.LevelDebug, "WARNING": slog.LevelWarn, "error": slog.LevelError, "": slog.LevelInfo, "loud": slog.LevelInfo}
	for in, want := range cases {
		if got := logger.ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
