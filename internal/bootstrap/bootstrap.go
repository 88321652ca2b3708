package bootstrap

import (
	"fmt"

	"github.com/kirillkom/deckdoc/internal/config"
	"github.com/kirillkom/deckdoc/internal/core/ports"
	"github.com/kirillkom/deckdoc/internal/core/usecase"
	"github.com/kirillkom/deckdoc/internal/infrastructure/dispatch"
	"github.com/kirillkom/deckdoc/internal/infrastructure/extractor/pptx"
	"github.com/kirillkom/deckdoc/internal/infrastructure/jobstore/memory"
	"github.com/kirillkom/deckdoc/internal/infrastructure/ocr/tesseract"
	"github.com/kirillkom/deckdoc/internal/infrastructure/renderer/markdown"
	"github.com/kirillkom/deckdoc/internal/infrastructure/resilience"
	"github.com/kirillkom/deckdoc/internal/infrastructure/storage/localfs"
	"github.com/kirillkom/deckdoc/internal/observability/metrics"
)

// App wires the explicitly constructed dependency graph. The job store and
// the dispatch pool live for the process lifetime; there is no hidden
// global state.
type App struct {
	Config config.Config

	Store     ports.JobStore
	Workspace ports.JobWorkspace
	SubmitUC  ports.JobSubmitter
	Runner    ports.JobRunner

	HTTPMetrics *metrics.HTTPServerMetrics

	closeFn func()
}

func New(cfg config.Config) (*App, error) {
	workspace, err := localfs.New(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("init job workspace: %w", err)
	}

	var ocr ports.ImageOCR
	if cfg.OCREnabled {
		ocr = tesseract.New(cfg.OCRBinary, resilience.NewExecutor(resilience.DefaultConfig()))
	}

	store := memory.New()
	extractor := pptx.NewExtractor(ocr)
	renderer := markdown.NewRenderer()

	httpMetrics := metrics.NewHTTPServerMetrics("api")
	jobMetrics := metrics.NewJobMetrics("api", httpMetrics.Registry())

	runner := jobMetrics.InstrumentRunner(
		"api",
		store,
		usecase.NewRunJobUseCase(store, workspace, extractor, renderer),
	)

	pool := dispatch.NewPool(cfg.WorkerCount, cfg.QueueDepth)
	submitUC := usecase.NewSubmitJobUseCase(store, workspace, pool, runner)

	return &App{
		Config: cfg,

		Store:     store,
		Workspace: workspace,
		SubmitUC:  submitUC,
		Runner:    runner,

		HTTPMetrics: httpMetrics,

		closeFn: pool.Close,
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
