package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/kirillkom/deckdoc/internal/core/domain"
)

type submitStoreFake struct {
	created   *domain.Job
	createErr error
	updates   []domain.JobUpdate
}

func (s *submitStoreFake) Create(job domain.Job) error {
	if s.createErr != nil {
		return s.createErr
	}
	copyJob := job
	s.created = &copyJob
	return nil
}

func (s *submitStoreFake) Get(string) (domain.Job, bool) { return domain.Job{}, false }

func (s *submitStoreFake) Update(_ string, patch domain.JobUpdate) (domain.Job, bool) {
	s.updates = append(s.updates, patch)
	return domain.Job{}, true
}

func (s *submitStoreFake) Set(domain.Job) {}

type submitWorkspaceFake struct {
	savedID   string
	savedName string
	savedBody string
	err       error
}

func (w *submitWorkspaceFake) JobDir(jobID string) string { return "/tmp/" + jobID }

func (w *submitWorkspaceFake) SaveUpload(jobID, filename string, data io.Reader) (string, error) {
	if w.err != nil {
		return "", w.err
	}
	raw, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	w.savedID = jobID
	w.savedName = filename
	w.savedBody = string(raw)
	return "/tmp/" + jobID + "/" + filename, nil
}

func (w *submitWorkspaceFake) ReportPath(jobID string) string { return "/tmp/" + jobID + "/knowledge.md" }

func (w *submitWorkspaceFake) WriteReport(string, string) (string, error) { return "", nil }

func (w *submitWorkspaceFake) WriteDoc(string, *domain.KnowledgeDoc) (string, error) {
	return "", nil
}

// syncDispatcher runs tasks inline so tests observe their effects directly.
type syncDispatcher struct{ dispatched int }

func (d *syncDispatcher) Dispatch(task func()) {
	d.dispatched++
	task()
}

type runnerSpy struct {
	jobID      string
	sourcePath string
	calls      int
}

func (r *runnerSpy) Run(_ context.Context, jobID, sourcePath string) {
	r.calls++
	r.jobID = jobID
	r.sourcePath = sourcePath
}

func TestSubmitRejectsUnsupportedExtension(t *testing.T) {
	store := &submitStoreFake{}
	dispatcher := &syncDispatcher{}
	uc := NewSubmitJobUseCase(store, &submitWorkspaceFake{}, dispatcher, &runnerSpy{})

	_, err := uc.Submit(context.Background(), "notes.pdf", strings.NewReader("x"))
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if store.created != nil {
		t.Fatalf("no job must be created for a rejected upload")
	}
	if dispatcher.dispatched != 0 {
		t.Fatalf("no work must be dispatched for a rejected upload")
	}
}

func TestSubmitCreatesQueuedJobAndDispatches(t *testing.T) {
	store := &submitStoreFake{}
	workspace := &submitWorkspaceFake{}
	runner := &runnerSpy{}
	uc := NewSubmitJobUseCase(store, workspace, &syncDispatcher{}, runner)

	job, err := uc.Submit(context.Background(), "deck.pptx", strings.NewReader("pptx-bytes"))
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if job.Status != domain.StatusQueued || job.Progress != 0.0 {
		t.Fatalf("returned job not queued at 0.0: %+v", job)
	}
	if store.created == nil || store.created.ID != job.ID {
		t.Fatalf("queued record not stored")
	}
	if workspace.savedID != job.ID || workspace.savedBody != "pptx-bytes" {
		t.Fatalf("upload not persisted into the job workspace: %+v", workspace)
	}
	if runner.calls != 1 || runner.jobID != job.ID {
		t.Fatalf("runner not dispatched for the job: %+v", runner)
	}
	if runner.sourcePath == "" {
		t.Fatalf("runner missing source path")
	}
}

func TestSubmitAcceptsUppercaseExtension(t *testing.T) {
	uc := NewSubmitJobUseCase(&submitStoreFake{}, &submitWorkspaceFake{}, &syncDispatcher{}, &runnerSpy{})

	if _, err := uc.Submit(context.Background(), "DECK.PPTX", strings.NewReader("x")); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
}

func TestSubmitMarksJobFailedWhenUploadCannotBePersisted(t *testing.T) {
	store := &submitStoreFake{}
	workspace := &submitWorkspaceFake{err: errors.New("disk full")}
	runner := &runnerSpy{}
	uc := NewSubmitJobUseCase(store, workspace, &syncDispatcher{}, runner)

	_, err := uc.Submit(context.Background(), "deck.pptx", strings.NewReader("x"))
	if err == nil {
		t.Fatalf("expected error")
	}
	if runner.calls != 0 {
		t.Fatalf("runner must not start without a persisted upload")
	}
	if len(store.updates) != 1 || store.updates[0].Status == nil || *store.updates[0].Status != domain.StatusFailed {
		t.Fatalf("expected job marked failed, got %+v", store.updates)
	}
}
