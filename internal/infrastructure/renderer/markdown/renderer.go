// Package markdown renders a knowledge document as a human-readable report.
// Output is deterministic for a given document: section order mirrors the
// document tree, and absent optional fields are omitted entirely.
package markdown

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kirillkom/deckdoc/internal/core/domain"
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Render(doc *domain.KnowledgeDoc) string {
	var lines []string
	lines = append(lines, fmt.Sprintf("# Knowledge Document: %s", doc.SourceFilename))
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("**Slides:** %d", doc.SlideCount))
	lines = append(lines, "")

	if doc.Summary != nil {
		if doc.Summary.ExecutiveSummary != "" {
			lines = append(lines, "## Executive Summary")
			lines = append(lines, "")
			lines = append(lines, doc.Summary.ExecutiveSummary)
			lines = append(lines, "")
		}
		if len(doc.Summary.KeyPoints) > 0 {
			lines = append(lines, "## Key Points")
			lines = append(lines, "")
			for _, point := range doc.Summary.KeyPoints {
				lines = append(lines, fmt.Sprintf("- %s", point))
			}
			lines = append(lines, "")
		}
	}

	for _, slide := range doc.Slides {
		lines = append(lines, fmt.Sprintf("## Slide %d", slide.Index))
		if slide.Title != "" {
			lines = append(lines, fmt.Sprintf("**Title:** %s", slide.Title))
		}
		if len(slide.TextItems) > 0 {
			lines = append(lines, "")
			lines = append(lines, "**Text:**")
			for _, item := range slide.TextItems {
				lines = append(lines, fmt.Sprintf("- %s", flattenItem(item)))
			}
		}
		if slide.Notes != "" {
			lines = append(lines, "")
			lines = append(lines, "**Speaker Notes:**")
			lines = append(lines, slide.Notes)
		}
		if len(slide.Images) > 0 {
			lines = append(lines, "")
			lines = append(lines, "**Images:**")
			for _, image := range slide.Images {
				lines = append(lines, fmt.Sprintf("- %s", filepath.Base(image.Filename)))
				if image.OCRText != "" {
					lines = append(lines, "  - OCR:")
					for _, ocrLine := range strings.Split(image.OCRText, "\n") {
						if trimmed := strings.TrimSpace(ocrLine); trimmed != "" {
							lines = append(lines, fmt.Sprintf("    - %s", trimmed))
						}
					}
				}
			}
		}
		lines = append(lines, "")
	}

	return strings.TrimSpace(strings.Join(lines, "\n")) + "\n"
}

// flattenItem keeps multi-paragraph shape text on one bullet line.
func flattenItem(item string) string {
	return strings.Join(strings.Fields(item), " ")
}
