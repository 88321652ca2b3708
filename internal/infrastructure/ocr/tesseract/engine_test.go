package tesseract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"testing"
)

func TestClassifyOCRError(t *testing.T) {
	cases := []struct {
		name          string
		err           error
		retryable     bool
		recordFailure bool
	}{
		{"exit error is permanent", fmt.Errorf("run: %w", &exec.ExitError{}), false, true},
		{"canceled context is not the engine's fault", fmt.Errorf("run: %w", context.Canceled), false, false},
		{"deadline is not the engine's fault", fmt.Errorf("run: %w", context.DeadlineExceeded), false, false},
		{"start failure is retryable", errors.New("fork/exec: resource temporarily unavailable"), true, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := classifyOCRError(c.err)
			if got.Retryable != c.retryable || got.RecordFailure != c.recordFailure {
				t.Fatalf("classifyOCRError() = %+v, want retryable=%v record=%v", got, c.retryable, c.recordFailure)
			}
		})
	}
}

func TestAvailableFalseForMissingBinary(t *testing.T) {
	e := New("definitely-not-a-real-ocr-binary", nil)
	if e.Available() {
		t.Fatal("nonexistent binary reported available")
	}
	// Probe result is cached.
	if e.Available() {
		t.Fatal("cached probe flipped")
	}
}

func TestNewDefaultsBinaryName(t *testing.T) {
	e := New("", nil)
	if e.binary != "tesseract" {
		t.Fatalf("binary = %q", e.binary)
	}
}
