// Package tesseract shells out to the tesseract binary for best-effort
// image OCR. The engine reports itself unavailable when the binary is not
// installed, and callers treat any recognition failure as "no text".
package tesseract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/kirillkom/deckdoc/internal/infrastructure/resilience"
)

type Engine struct {
	binary   string
	executor *resilience.Executor

	availOnce sync.Once
	available bool
}

func New(binary string, executor *resilience.Executor) *Engine {
	if binary == "" {
		binary = "tesseract"
	}
	return &Engine{binary: binary, executor: executor}
}

// Available probes for the binary once per process.
func (e *Engine) Available() bool {
	e.availOnce.Do(func() {
		_, err := exec.LookPath(e.binary)
		e.available = err == nil
	})
	return e.available
}

func (e *Engine) Recognize(ctx context.Context, imagePath string) (string, error) {
	var out string
	call := func(callCtx context.Context) error {
		text, err := e.recognizeOnce(callCtx, imagePath)
		if err != nil {
			return err
		}
		out = text
		return nil
	}

	var err error
	if e.executor != nil {
		err = e.executor.Execute(ctx, "ocr.recognize", call, classifyOCRError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return "", err
	}
	return out, nil
}

func (e *Engine) recognizeOnce(ctx context.Context, imagePath string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.binary, imagePath, "stdout")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract %s: %w (%s)", imagePath, err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}

func classifyOCRError(err error) resilience.ErrorClassification {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// The binary ran and rejected the image; retrying won't help.
		return resilience.ErrorClassification{Retryable: false, RecordFailure: true}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}
	// Failed to start at all (fork/exec pressure): worth one more try.
	return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
}
