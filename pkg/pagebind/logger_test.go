package pagebind

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogger(t *testing.T) {
	tests := []struct {
		name           string
		level          LogLevel
		expectedOutput []string
		notExpected    []string
	}{
		{
			name:           "debug level shows all messages",
			level:          LogDebug,
			expectedOutput: []string{"[DEBUG] debug message", "[INFO] info message", "[WARN] warn message", "[ERROR] error message"},
		},
		{
			name:           "warn level hides debug and info",
			level:          LogWarn,
			expectedOutput: []string{"[WARN] warn message", "[ERROR] error message"},
			notExpected:    []string{"debug message", "info message"},
		},
		{
			name:        "off hides everything",
			level:       LogOff,
			notExpected: []string{"message"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := NewLogger(&buf, tt.level)
			l.Debug("debug message")
			l.Info("info message")
			l.Warn("warn message")
			l.Error("error message")

			output := buf.String()
			for _, want := range tt.expectedOutput {
				if !strings.Contains(output, want) {
					t.Errorf("expected output to contain %q, got %q", want, output)
				}
			}
			for _, unwanted := range tt.notExpected {
				if strings.Contains(output, unwanted) {
					t.Errorf("expected output not to contain %q, got %q", unwanted, output)
				}
			}
		})
	}
}

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	base := NewLogger(&buf, LogInfo)
	l := base.WithField("table", "lines").WithFields(Fields{"delta": 290, "actual": 380})
	l.Info("table measured")

	line := strings.TrimSpace(buf.String())
	if !strings.HasSuffix(line, "table measured actual=380 delta=290 table=lines") {
		t.Errorf("fields should be sorted by key, got %q", line)
	}

	buf.Reset()
	base.Info("plain")
	if strings.Contains(buf.String(), "table=") {
		t.Error("derived fields leaked into the parent logger")
	}
}

func TestLoggerSharedLevel(t *testing.T) {
	var buf bytes.Buffer
	base := NewLogger(&buf, LogInfo)
	child := base.WithField("k", "v")

	base.SetLevel(LogError)
	child.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("child should follow the parent level, got %q", buf.String())
	}
	if child.IsDebugMode() {
		t.Error("IsDebugMode should be false")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug": LogDebug,
		"INFO":  LogInfo,
		"warn":  LogWarn,
		"error": LogError,
		"off":   LogOff,
		"":      LogInfo,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
