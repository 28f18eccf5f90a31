package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestNewWithWritersFansOut(t *testing.T) {
	var first, second bytes.Buffer
	logger := NewWithWriters("api", "info", &first, &second)

	logger.Info("capture_uploaded", "capture_id", "cap-1")

	for name, buf := range map[string]*bytes.Buffer{"first": &first, "second": &second} {
		var record map[string]any
		if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
			t.Fatalf("%s writer did not receive JSON: %v", name, err)
		}
		if record["service"] != "api" {
			t.Fatalf("%s writer missing service attr, got %v", name, record["service"])
		}
		if record["msg"] != "capture_uploaded" {
			t.Fatalf("%s writer missing message, got %v", name, record["msg"])
		}
	}
}

func TestNewWithWritersHonorsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriters("api", "warn", &buf)

	logger.Info("too_quiet")
	if buf.Len() != 0 {
		t.Fatalf("info should be suppressed at warn level, got %q", buf.String())
	}
	logger.Warn("loud_enough")
	if buf.Len() == 0 {
		t.Fatal("warn should pass at warn level")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
