package usecase

import (
	"strings"

	"github.com/kirillkom/deckdoc/internal/core/domain"
)

const (
	summaryMaxChars = 800
	maxKeyPoints    = 12
)

// Summarize derives a naive summary from all extracted text: a truncated
// executive summary plus deduplicated bullet lines. No language model is
// involved; this mirrors what a first-pass knowledge doc needs.
func Summarize(doc *domain.KnowledgeDoc) *domain.DocSummary {
	text := collectText(doc)
	if text == "" {
		return nil
	}
	return &domain.DocSummary{
		ExecutiveSummary: executiveSummary(text),
		KeyPoints:        keyPoints(text),
	}
}

func collectText(doc *domain.KnowledgeDoc) string {
	var parts []string
	for _, slide := range doc.Slides {
		var lines []string
		lines = append(lines, slide.TextItems...)
		if slide.Notes != "" {
			lines = append(lines, slide.Notes)
		}
		for _, image := range slide.Images {
			if image.OCRText != "" {
				lines = append(lines, image.OCRText)
			}
		}
		if len(lines) > 0 {
			parts = append(parts, strings.Join(lines, "\n"))
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n\n"))
}

func executiveSummary(text string) string {
	normalized := strings.Join(strings.Fields(text), " ")
	runes := []rune(normalized)
	if len(runes) <= summaryMaxChars {
		return normalized
	}
	return string(runes[:summaryMaxChars]) + "…"
}

func keyPoints(text string) []string {
	seen := make(map[string]struct{})
	var points []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "•") && !strings.HasPrefix(line, "*") {
			continue
		}
		cleaned := strings.TrimSpace(strings.TrimLeft(line, "-*• "))
		if cleaned == "" {
			continue
		}
		if _, ok := seen[cleaned]; ok {
			continue
		}
		seen[cleaned] = struct{}{}
		points = append(points, cleaned)
		if len(points) >= maxKeyPoints {
			break
		}
	}
	return points
}
