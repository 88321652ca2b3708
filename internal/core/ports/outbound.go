package ports

import (
	"context"
	"io"

	"github.com/kirillkom/deckdoc/internal/core/domain"
)

// JobStore is the concurrency-safe registry of job records. Operations are
// atomic with respect to each other and never perform I/O; callers always
// receive snapshots, never references into the store.
type JobStore interface {
	// Create inserts a new record; it fails if the identifier is taken.
	Create(job domain.Job) error
	// Get returns a snapshot of the current record, if known.
	Get(id string) (domain.Job, bool)
	// Update atomically merges the patch copy-on-write and returns the
	// resulting snapshot. Unknown identifiers report ok=false.
	Update(id string, patch domain.JobUpdate) (domain.Job, bool)
	// Set unconditionally replaces the record under its identifier.
	Set(job domain.Job)
}

// ProgressFunc is invoked after each completed slide with the document-so-far,
// the 1-based index just finished, and the total slide count.
type ProgressFunc func(slides []domain.Slide, slideIndex, totalSlides int)

// SlideExtractor turns a presentation file into a knowledge document,
// writing extracted image assets under jobDir.
type SlideExtractor interface {
	Extract(ctx context.Context, sourcePath, jobDir string, onSlide ProgressFunc) (*domain.KnowledgeDoc, error)
}

// ReportRenderer serializes a completed document deterministically.
type ReportRenderer interface {
	Render(doc *domain.KnowledgeDoc) string
}

// ImageOCR recognizes text in an extracted image. Failures are per-image
// and recovered by callers; absence of OCR text is a valid outcome.
type ImageOCR interface {
	Available() bool
	Recognize(ctx context.Context, imagePath string) (string, error)
}

// JobWorkspace owns the per-job directory layout on disk.
type JobWorkspace interface {
	JobDir(jobID string) string
	SaveUpload(jobID, filename string, data io.Reader) (string, error)
	ReportPath(jobID string) string
	WriteReport(jobID, markdown string) (string, error)
	WriteDoc(jobID string, doc *domain.KnowledgeDoc) (string, error)
}

// Dispatcher schedules a background task without blocking the caller.
type Dispatcher interface {
	Dispatch(task func())
}
