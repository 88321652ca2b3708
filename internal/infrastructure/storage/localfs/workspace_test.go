package localfs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kirillkom/deckdoc/internal/core/domain"
)

func newWorkspace(t *testing.T) *Workspace {
	t.Helper()
	w, err := New(filepath.Join(t.TempDir(), "jobs"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return w
}

func TestSaveUploadLaysOutJobDir(t *testing.T) {
	w := newWorkspace(t)

	path, err := w.SaveUpload("job-1", "Quarterly Deck.pptx", strings.NewReader("bytes"))
	if err != nil {
		t.Fatalf("SaveUpload() error = %v", err)
	}
	if filepath.Dir(path) != w.JobDir("job-1") {
		t.Fatalf("upload stored at %q, want inside %q", path, w.JobDir("job-1"))
	}
	if base := filepath.Base(path); base != "Quarterly_Deck.pptx" {
		t.Fatalf("sanitized name = %q", base)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "bytes" {
		t.Fatalf("upload content = %q", raw)
	}
}

func TestSaveUploadStripsPathComponents(t *testing.T) {
	w := newWorkspace(t)

	path, err := w.SaveUpload("job-2", "../../etc/passwd.pptx", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("SaveUpload() error = %v", err)
	}
	if filepath.Dir(path) != w.JobDir("job-2") {
		t.Fatalf("upload escaped the job dir: %q", path)
	}
	if strings.Contains(filepath.Base(path), "..") {
		t.Fatalf("path components survived sanitization: %q", path)
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct{ in, want string }{
		{"deck.pptx", "deck.pptx"},
		{"my deck (final).pptx", "my_deck__final_.pptx"},
		{"", "presentation.pptx"},
		{".", "presentation.pptx"},
		{"раздел.pptx", "______.pptx"},
	}
	for _, c := range cases {
		if got := sanitizeFilename(c.in); got != c.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestWriteReportMatchesReportPath(t *testing.T) {
	w := newWorkspace(t)
	if _, err := w.SaveUpload("job-3", "deck.pptx", strings.NewReader("x")); err != nil {
		t.Fatal(err)
	}

	path, err := w.WriteReport("job-3", "# Report\n")
	if err != nil {
		t.Fatalf("WriteReport() error = %v", err)
	}
	if path != w.ReportPath("job-3") {
		t.Fatalf("report at %q, ReportPath says %q", path, w.ReportPath("job-3"))
	}
	if filepath.Base(path) != ReportFilename {
		t.Fatalf("report filename = %q", filepath.Base(path))
	}
}

func TestWriteDocRoundTrips(t *testing.T) {
	w := newWorkspace(t)
	if _, err := w.SaveUpload("job-4", "deck.pptx", strings.NewReader("x")); err != nil {
		t.Fatal(err)
	}

	doc := &domain.KnowledgeDoc{
		SourceFilename: "deck.pptx",
		SlideCount:     1,
		Slides:         []domain.Slide{{Index: 1, TextItems: []string{"hi"}}},
	}
	path, err := w.WriteDoc("job-4", doc)
	if err != nil {
		t.Fatalf("WriteDoc() error = %v", err)
	}
	if filepath.Base(path) != DocFilename {
		t.Fatalf("doc filename = %q", filepath.Base(path))
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var decoded domain.KnowledgeDoc
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("doc is not valid JSON: %v", err)
	}
	if decoded.SourceFilename != "deck.pptx" || len(decoded.Slides) != 1 {
		t.Fatalf("decoded doc = %+v", decoded)
	}
}
