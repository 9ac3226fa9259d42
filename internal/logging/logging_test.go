package logging_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/goliatone/go-formhost/internal/logging"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tc := range tests {
		if got := logging.ParseLevel(tc.in); got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(&buf, slog.LevelInfo)

	log.Info("form created", "name", "survey", "components", 4)

	line := buf.String()
	if !strings.Contains(line, "[INFO]") {
		t.Errorf("missing level tag: %q", line)
	}
	if !strings.Contains(line, "form created") {
		t.Errorf("missing message: %q", line)
	}
	if !strings.Contains(line, "name=survey") || !strings.Contains(line, "components=4") {
		t.Errorf("missing attrs: %q", line)
	}
}

func TestHandlerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(&buf, slog.LevelWarn)

	log.Info("quiet")
	log.Warn("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Errorf("info leaked through a warn-level handler: %q", out)
	}
	if !strings.Contains(out, "loud") {
		t.Errorf("warn suppressed: %q", out)
	}
}

func TestHandlerQuotesSpacedValues(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(&buf, slog.LevelInfo)

	log.Info("msg", "title", "Customer Survey")

	if !strings.Contains(buf.String(), `title="Customer Survey"`) {
		t.Errorf("spaced value not quoted: %q", buf.String())
	}
}

func TestHandlerWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(&buf, slog.LevelInfo).With("command", "import")

	log.Info("done")

	if !strings.Contains(buf.String(), "command=import") {
		t.Errorf("handler attrs dropped: %q", buf.String())
	}
}
