package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"

	"github.com/kirillkom/deckdoc/internal/core/domain"
	"github.com/kirillkom/deckdoc/internal/core/ports"
)

// Progress is split between stages: extraction owns [0.1, 0.85] regardless
// of deck size, rendering takes the remaining headroom up to 1.0.
const (
	progressExtracting = 0.1
	progressExtractCap = 0.85
	progressRendering  = 0.9
	progressDone       = 1.0
)

// RunJobUseCase drives one job through extraction and rendering, publishing
// incremental progress through the job store. Every code path ends with the
// job in a terminal state; failures are never retried.
type RunJobUseCase struct {
	store     ports.JobStore
	workspace ports.JobWorkspace
	extractor ports.SlideExtractor
	renderer  ports.ReportRenderer
}

func NewRunJobUseCase(
	store ports.JobStore,
	workspace ports.JobWorkspace,
	extractor ports.SlideExtractor,
	renderer ports.ReportRenderer,
) *RunJobUseCase {
	return &RunJobUseCase{
		store:     store,
		workspace: workspace,
		extractor: extractor,
		renderer:  renderer,
	}
}

func (uc *RunJobUseCase) Run(ctx context.Context, jobID, sourcePath string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("job panicked", "job_id", jobID, "panic", r)
			uc.markFailed(jobID, fmt.Errorf("panic: %v", r))
		}
	}()

	slog.Info("processing job", "job_id", jobID, "source", sourcePath)
	uc.store.Update(jobID, domain.ProgressUpdate(domain.StatusRunning, "extracting slides", progressExtracting))

	sourceName := filepath.Base(sourcePath)
	onSlide := func(slides []domain.Slide, slideIndex, totalSlides int) {
		progress := math.Min(
			progressExtractCap,
			progressExtracting+float64(slideIndex)/float64(max(totalSlides, 1))*(progressExtractCap-progressExtracting),
		)
		partial := &domain.KnowledgeDoc{
			SourceFilename: sourceName,
			SlideCount:     totalSlides,
			Slides:         slides,
		}
		patch := domain.ProgressUpdate(
			domain.StatusRunning,
			fmt.Sprintf("processed slide %d of %d", slideIndex, totalSlides),
			progress,
		)
		patch.Result = partial
		uc.store.Update(jobID, patch)
	}

	doc, err := uc.extractor.Extract(ctx, sourcePath, uc.workspace.JobDir(jobID), onSlide)
	if err != nil {
		uc.markFailed(jobID, fmt.Errorf("extract presentation: %w", err))
		return
	}
	doc.Summary = Summarize(doc)

	uc.store.Update(jobID, domain.ProgressUpdate(domain.StatusRunning, "generating report", progressRendering))

	report := uc.renderer.Render(doc)
	if _, err := uc.workspace.WriteReport(jobID, report); err != nil {
		uc.markFailed(jobID, fmt.Errorf("write report: %w", err))
		return
	}
	if _, err := uc.workspace.WriteDoc(jobID, doc); err != nil {
		uc.markFailed(jobID, fmt.Errorf("write knowledge doc: %w", err))
		return
	}

	done := domain.ProgressUpdate(domain.StatusCompleted, "done", progressDone)
	done.Result = doc
	uc.store.Update(jobID, done)
	slog.Info("job completed", "job_id", jobID, "slides", doc.SlideCount)
}

func (uc *RunJobUseCase) markFailed(jobID string, cause error) {
	slog.Error("job failed", "job_id", jobID, "error", cause)
	errText := cause.Error()
	patch := domain.ProgressUpdate(domain.StatusFailed, "failed", progressDone)
	patch.Error = &errText
	uc.store.Update(jobID, patch)
}
