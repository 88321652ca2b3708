// Package pptx extracts slide text, speaker notes, and embedded images from
// a .pptx presentation. The format is an OPC zip of DrawingML parts; slide
// order comes from presentation.xml, never from zip entry order.
package pptx

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/kirillkom/deckdoc/internal/core/domain"
	"github.com/kirillkom/deckdoc/internal/core/ports"
)

type Extractor struct {
	ocr ports.ImageOCR
}

// NewExtractor builds an extractor. ocr may be nil; OCR is best-effort and
// its absence never fails an extraction.
func NewExtractor(ocr ports.ImageOCR) *Extractor {
	return &Extractor{ocr: ocr}
}

func (e *Extractor) Extract(ctx context.Context, sourcePath, jobDir string, onSlide ports.ProgressFunc) (*domain.KnowledgeDoc, error) {
	zr, err := zip.OpenReader(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("open presentation: %w", err)
	}
	defer zr.Close()

	archive := openPackage(&zr.Reader)
	slideParts, err := archive.slidePaths()
	if err != nil {
		return nil, fmt.Errorf("resolve slide order: %w", err)
	}

	imagesDir := filepath.Join(jobDir, "images")
	if err := os.MkdirAll(imagesDir, 0o755); err != nil {
		return nil, fmt.Errorf("create images dir: %w", err)
	}

	ocrEnabled := e.ocr != nil && e.ocr.Available()
	if !ocrEnabled {
		slog.Info("ocr engine unavailable, image text will be skipped")
	}

	total := len(slideParts)
	slides := make([]domain.Slide, 0, total)
	for i, partPath := range slideParts {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("extraction interrupted: %w", err)
		}

		slide, err := e.extractSlide(ctx, archive, partPath, i+1, imagesDir, ocrEnabled)
		if err != nil {
			return nil, fmt.Errorf("slide %d: %w", i+1, err)
		}
		slides = append(slides, slide)

		if onSlide != nil {
			onSlide(domain.CloneSlides(slides), i+1, total)
		}
	}

	return &domain.KnowledgeDoc{
		SourceFilename: filepath.Base(sourcePath),
		SlideCount:     len(slides),
		Slides:         slides,
	}, nil
}

func (e *Extractor) extractSlide(ctx context.Context, archive *pkg, partPath string, slideIndex int, imagesDir string, ocrEnabled bool) (domain.Slide, error) {
	raw, err := archive.read(partPath)
	if err != nil {
		return domain.Slide{}, err
	}
	shapes, err := parseShapes(bytes.NewReader(raw))
	if err != nil {
		return domain.Slide{}, err
	}
	rels, err := archive.relationships(partPath)
	if err != nil {
		return domain.Slide{}, err
	}

	slide := domain.Slide{
		Index:     slideIndex,
		TextItems: []string{},
		Images:    []domain.SlideImage{},
	}

	for _, s := range shapes {
		if s.picture || s.text == "" {
			continue
		}
		if s.title && slide.Title == "" {
			slide.Title = s.text
		}
		slide.TextItems = append(slide.TextItems, s.text)
	}

	notes, err := e.extractNotes(archive, partPath, rels)
	if err != nil {
		return domain.Slide{}, err
	}
	slide.Notes = notes

	imageCounter := 0
	for _, s := range shapes {
		if !s.picture {
			continue
		}
		imageCounter++

		rel, ok := rels[s.embedID]
		if !ok {
			return domain.Slide{}, fmt.Errorf("image relationship %q not found", s.embedID)
		}
		blob, err := archive.read(resolveTarget(partPath, rel.Target))
		if err != nil {
			return domain.Slide{}, err
		}

		digest := sha1.Sum(blob)
		ext := strings.ToLower(path.Ext(rel.Target))
		if ext == "" {
			ext = ".img"
		}
		filename := fmt.Sprintf("slide-%03d-%s%s", slideIndex, hex.EncodeToString(digest[:])[:12], ext)
		imagePath := filepath.Join(imagesDir, filename)
		if err := os.WriteFile(imagePath, blob, 0o644); err != nil {
			return domain.Slide{}, fmt.Errorf("write image %s: %w", filename, err)
		}

		ocrText := ""
		if ocrEnabled {
			text, err := e.ocr.Recognize(ctx, imagePath)
			if err != nil {
				slog.Warn("ocr failed", "image", imagePath, "error", err)
			} else {
				ocrText = text
			}
		}

		slide.Images = append(slide.Images, domain.SlideImage{
			ID:         fmt.Sprintf("slide%d_image%d", slideIndex, imageCounter),
			Filename:   imagePath,
			SlideIndex: slideIndex,
			OCRText:    ocrText,
		})
	}

	return slide, nil
}

func (e *Extractor) extractNotes(archive *pkg, partPath string, rels map[string]relationship) (string, error) {
	for _, rel := range rels {
		if !strings.HasSuffix(rel.Type, "/notesSlide") {
			continue
		}
		raw, err := archive.read(resolveTarget(partPath, rel.Target))
		if err != nil {
			return "", err
		}
		shapes, err := parseShapes(bytes.NewReader(raw))
		if err != nil {
			return "", err
		}
		return shapeTexts(shapes), nil
	}
	return "", nil
}
