package internal

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetLogOutput(&buf)
	t.Cleanup(func() {
		SetLogOutput(&buf) // keep test output quiet for the rest of the run
		SetLogLevel(LogLevelInfo)
	})

	SetLogLevel(LogLevelWarn)
	LogError("boom")
	LogWarn("careful")
	LogInfo("hello")
	LogDebug("details")

	out := buf.String()
	if !strings.Contains(out, "[ERROR] boom") {
		t.Error("error suppressed at warn level")
	}
	if !strings.Contains(out, "[WARN] careful") {
		t.Error("warning suppressed at warn level")
	}
	if strings.Contains(out, "hello") || strings.Contains(out, "details") {
		t.Errorf("info/debug leaked at warn level: %q", out)
	}
}

func TestSetVerbose(t *testing.T) {
	var buf bytes.Buffer
	SetLogOutput(&buf)
	t.Cleanup(func() { SetLogLevel(LogLevelInfo) })

	SetVerbose(true)
	LogDebug("visible")
	if !strings.Contains(buf.String(), "[DEBUG] visible") {
		t.Error("debug suppressed in verbose mode")
	}

	buf.Reset()
	SetVerbose(false)
	LogDebug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug leaked with verbose off: %q", buf.String())
	}
}
