package debug

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestDisabledIsSilent(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetEnabled(false)
	defer SetEnabled(false)

	Log("hidden %d", 1)
	LogTiming("op", time.Millisecond)
	LogEnterExit("fn")()

	if buf.Len() != 0 {
		t.Errorf("expected no output when disabled, got %q", buf.String())
	}
}

func TestLogWritesWhenEnabled(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetEnabled(false)

	Log("processing %d items", 3)
	LogIf(false, "skipped")
	LogIf(true, "kept")
	LogEnterExit("work")()

	out := buf.String()
	for _, want := range []string{"processing 3 items", "kept", "-> work", "<- work"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "skipped") {
		t.Errorf("LogIf(false) should not log:\n%s", out)
	}
}
