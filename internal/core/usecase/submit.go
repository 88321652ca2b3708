package usecase

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/kirillkom/deckdoc/internal/core/domain"
	"github.com/kirillkom/deckdoc/internal/core/ports"
)

const presentationExt = ".pptx"

// SubmitJobUseCase accepts an upload, registers a queued job, persists the
// source file into the job workspace, and fires the runner in the background.
// The HTTP request path never waits on the pipeline.
type SubmitJobUseCase struct {
	store      ports.JobStore
	workspace  ports.JobWorkspace
	dispatcher ports.Dispatcher
	runner     ports.JobRunner
}

func NewSubmitJobUseCase(
	store ports.JobStore,
	workspace ports.JobWorkspace,
	dispatcher ports.Dispatcher,
	runner ports.JobRunner,
) *SubmitJobUseCase {
	return &SubmitJobUseCase{
		store:      store,
		workspace:  workspace,
		dispatcher: dispatcher,
		runner:     runner,
	}
}

func (uc *SubmitJobUseCase) Submit(_ context.Context, filename string, body io.Reader) (domain.Job, error) {
	if !strings.EqualFold(filepath.Ext(filename), presentationExt) {
		return domain.Job{}, domain.WrapError(
			domain.ErrInvalidInput,
			"submit job",
			fmt.Errorf("unsupported file type %q, expected %s", filepath.Ext(filename), presentationExt),
		)
	}

	job := domain.NewQueuedJob(uuid.NewString())
	if err := uc.store.Create(job); err != nil {
		return domain.Job{}, fmt.Errorf("register job: %w", err)
	}

	sourcePath, err := uc.workspace.SaveUpload(job.ID, filename, body)
	if err != nil {
		uc.markFailed(job.ID, err)
		return domain.Job{}, fmt.Errorf("persist upload: %w", err)
	}

	jobID := job.ID
	uc.dispatcher.Dispatch(func() {
		// Detached from the request context: background work runs to
		// completion regardless of whether the client keeps polling.
		uc.runner.Run(context.Background(), jobID, sourcePath)
	})

	return job, nil
}

func (uc *SubmitJobUseCase) markFailed(jobID string, cause error) {
	errText := cause.Error()
	uc.store.Update(jobID, domain.JobUpdate{
		Status:   statusPtr(domain.StatusFailed),
		Message:  strPtr("failed"),
		Progress: floatPtr(1.0),
		Error:    &errText,
	})
}

func statusPtr(s domain.JobStatus) *domain.JobStatus { return &s }
func strPtr(s string) *string                        { return &s }
func floatPtr(f float64) *float64                    { return &f }
