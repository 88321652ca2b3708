package ports

import (
	"context"
	"io"

	"github.com/kirillkom/deckdoc/internal/core/domain"
)

// JobSubmitter is the inbound contract for upload orchestration: validate,
// register a queued job, persist the upload, and dispatch background work.
type JobSubmitter interface {
	Submit(ctx context.Context, filename string, body io.Reader) (domain.Job, error)
}

// JobRunner drives one job end-to-end. The outcome is observable only
// through the job store; Run never returns an error and never blocks the
// dispatcher beyond the pipeline itself.
type JobRunner interface {
	Run(ctx context.Context, jobID, sourcePath string)
}
