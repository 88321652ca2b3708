// Package localfs lays out per-job working directories on the local
// filesystem: the uploaded source, an images/ subdirectory of extracted
// assets, and the rendered report under fixed filenames.
package localfs

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kirillkom/deckdoc/internal/core/domain"
)

const (
	ReportFilename = "knowledge.md"
	DocFilename    = "knowledge.json"
)

type Workspace struct {
	basePath string
}

func New(basePath string) (*Workspace, error) {
	if basePath == "" {
		basePath = "./data/jobs"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace dir: %w", err)
	}
	return &Workspace{basePath: basePath}, nil
}

func (w *Workspace) JobDir(jobID string) string {
	return filepath.Join(w.basePath, jobID)
}

func (w *Workspace) SaveUpload(jobID, filename string, data io.Reader) (string, error) {
	jobDir := w.JobDir(jobID)
	if err := os.MkdirAll(jobDir, 0o755); err != nil {
		return "", fmt.Errorf("create job dir: %w", err)
	}

	path := filepath.Join(jobDir, sanitizeFilename(filename))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, data); err != nil {
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return path, nil
}

func (w *Workspace) ReportPath(jobID string) string {
	return filepath.Join(w.JobDir(jobID), ReportFilename)
}

func (w *Workspace) WriteReport(jobID, markdown string) (string, error) {
	path := w.ReportPath(jobID)
	if err := os.WriteFile(path, []byte(markdown), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

func (w *Workspace) WriteDoc(jobID string, doc *domain.KnowledgeDoc) (string, error) {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode knowledge doc: %w", err)
	}
	path := filepath.Join(w.JobDir(jobID), DocFilename)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("write knowledge doc: %w", err)
	}
	return path, nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." {
		return "presentation.pptx"
	}
	return base
}
