package usecase

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/kirillkom/deckdoc/internal/core/domain"
)

func TestSummarizeReturnsNilWithoutText(t *testing.T) {
	doc := &domain.KnowledgeDoc{
		SourceFilename: "deck.pptx",
		SlideCount:     2,
		Slides: []domain.Slide{
			{Index: 1, TextItems: []string{}},
			{Index: 2, TextItems: []string{}},
		},
	}
	if got := Summarize(doc); got != nil {
		t.Fatalf("expected no summary for an empty deck, got %+v", got)
	}
}

func TestSummarizeCollectsSlideNotesAndOCRText(t *testing.T) {
	doc := &domain.KnowledgeDoc{
		Slides: []domain.Slide{
			{
				Index:     1,
				TextItems: []string{"Quarterly review"},
				Notes:     "mention the hiring freeze",
				Images: []domain.SlideImage{
					{ID: "slide1_image1", OCRText: "revenue chart"},
					{ID: "slide1_image2"},
				},
			},
		},
	}

	summary := Summarize(doc)
	if summary == nil {
		t.Fatal("expected a summary")
	}
	for _, want := range []string{"Quarterly review", "mention the hiring freeze", "revenue chart"} {
		if !strings.Contains(summary.ExecutiveSummary, want) {
			t.Fatalf("executive summary missing %q: %q", want, summary.ExecutiveSummary)
		}
	}
}

func TestSummarizeTruncatesLongText(t *testing.T) {
	doc := &domain.KnowledgeDoc{
		Slides: []domain.Slide{
			{Index: 1, TextItems: []string{strings.Repeat("wörd ", 400)}},
		},
	}

	summary := Summarize(doc)
	if summary == nil {
		t.Fatal("expected a summary")
	}
	if !strings.HasSuffix(summary.ExecutiveSummary, "…") {
		t.Fatalf("truncated summary must end with ellipsis: %q", summary.ExecutiveSummary)
	}
	if n := utf8.RuneCountInString(summary.ExecutiveSummary); n != 801 {
		t.Fatalf("truncated summary rune count = %d, want 801", n)
	}
	if !utf8.ValidString(summary.ExecutiveSummary) {
		t.Fatal("truncation must not split multibyte runes")
	}
}

func TestSummarizeKeyPointsDedupedAndCapped(t *testing.T) {
	var items []string
	for i := 0; i < 20; i++ {
		items = append(items, fmt.Sprintf("- point %d", i))
	}
	items = append(items, "- point 0", "• point 0", "not a bullet", "* third style", "-   ")

	doc := &domain.KnowledgeDoc{
		Slides: []domain.Slide{{Index: 1, TextItems: items}},
	}

	summary := Summarize(doc)
	if summary == nil {
		t.Fatal("expected a summary")
	}
	if len(summary.KeyPoints) != 12 {
		t.Fatalf("key points = %d, want 12", len(summary.KeyPoints))
	}
	seen := make(map[string]struct{})
	for _, p := range summary.KeyPoints {
		if _, dup := seen[p]; dup {
			t.Fatalf("duplicate key point %q", p)
		}
		seen[p] = struct{}{}
		if strings.HasPrefix(p, "-") || strings.HasPrefix(p, "•") || strings.HasPrefix(p, "*") {
			t.Fatalf("bullet marker not stripped: %q", p)
		}
	}
	if summary.KeyPoints[0] != "point 0" {
		t.Fatalf("key points must preserve first-seen order, got %q first", summary.KeyPoints[0])
	}
}
