package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestSupportsColor(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		isTTY bool
		want  bool
	}{
		{"NO_COLOR prevents color", map[string]string{"NO_COLOR": "1", "TERM": "xterm"}, true, false},
		{"TERM=dumb prevents color", map[string]string{"TERM": "dumb"}, true, false},
		{"non-TTY prevents color", map[string]string{"TERM": "xterm"}, false, false},
		{"TTY with normal TERM", map[string]string{"TERM": "xterm-256color"}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := tt.env["NO_COLOR"]; !ok {
				t.Setenv("NO_COLOR", "")
				unsetenv(t, "NO_COLOR")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if got := supportsColor(tt.isTTY); got != tt.want {
				t.Errorf("supportsColor(%v) = %v, want %v", tt.isTTY, got, tt.want)
			}
		})
	}
}

func TestIsTTY_NonFile(t *testing.T) {
	var buf bytes.Buffer
	if IsTTY(&buf) {
		t.Error("IsTTY should return false for a bytes.Buffer")
	}
	if IsInteractive(strings.NewReader("confirm\n")) {
		t.Error("IsInteractive should return false for a strings.Reader")
	}
}

// unsetenv removes key for the rest of the test; t.Setenv must run first so
// the original value is restored on cleanup.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("unsetenv %s: %v", key, err)
	}
}
