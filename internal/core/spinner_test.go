package core

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
	"time"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stdout = w

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, r)
		outC <- buf.String()
	}()

	fn()

	w.Close()
	os.Stdout = oldStdout
	return <-outC
}

func TestSpinnerReportsUpdatedLabelAndStatus(t *testing.T) {
	output := captureStdout(t, func() {
		s := NewSpinner("building timeboard", false)
		s.Start()
		time.Sleep(150 * time.Millisecond)
		s.UpdateMessage("still building timeboard")
		time.Sleep(150 * time.Millisecond)
		s.Stop(true)
	})

	if !strings.Contains(output, "still building timeboard") {
		t.Errorf("expected output to contain the updated label, got %q", output)
	}
	if !strings.Contains(output, "done") {
		t.Errorf("expected a \"done\" status line on success, got %q", output)
	}
}

func TestSpinnerReportsFailureStatus(t *testing.T) {
	output := captureStdout(t, func() {
		s := NewSpinner("building timeboard", false)
		s.Start()
		time.Sleep(50 * time.Millisecond)
		s.Stop(false)
	})

	if !strings.Contains(output, "failed") {
		t.Errorf("expected a \"failed\" status line, got %q", output)
	}
}

func TestSpinnerSilentProducesNoOutput(t *testing.T) {
	output := captureStdout(t, func() {
		s := NewSpinner("quiet build", true)
		s.Start()
		time.Sleep(50 * time.Millisecond)
		s.Stop(true)
	})

	if output != "" {
		t.Errorf("expected no output for a silent spinner, got %q", output)
	}
}

func TestSpinnerStopBeforeStartIsNoop(t *testing.T) {
	s := NewSpinner("never started", false)
	// Must not panic or block: Stop on an inactive spinner is a no-op.
	s.Stop(true)
}

func TestSpinnerDoubleStartIsNoop(t *testing.T) {
	s := NewSpinner("double start", false)
	s.Start()
	s.Start() // second Start while active must not spawn a second goroutine
	s.Stop(true)
}
