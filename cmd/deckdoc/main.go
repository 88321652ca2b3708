// deckdoc is the local CLI: it runs the same extraction pipeline as the API
// service against a file on disk, without a server round-trip.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kirillkom/deckdoc/internal/core/domain"
	"github.com/kirillkom/deckdoc/internal/core/ports"
	"github.com/kirillkom/deckdoc/internal/core/usecase"
	"github.com/kirillkom/deckdoc/internal/infrastructure/extractor/pptx"
	"github.com/kirillkom/deckdoc/internal/infrastructure/ocr/tesseract"
	"github.com/kirillkom/deckdoc/internal/infrastructure/renderer/markdown"
	"github.com/kirillkom/deckdoc/internal/infrastructure/resilience"
)

var (
	extractOutDir    string
	extractOCR       bool
	extractOCRBinary string
)

var rootCmd = &cobra.Command{
	Use:   "deckdoc",
	Short: "Extract knowledge documents from presentation files",
}

var extractCmd = &cobra.Command{
	Use:   "extract <presentation.pptx>",
	Short: "Extract slide text, notes, images, and OCR into a knowledge doc",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractOutDir, "out", "o", "", "output directory (required)")
	extractCmd.Flags().BoolVar(&extractOCR, "ocr", true, "run OCR on extracted images when tesseract is installed")
	extractCmd.Flags().StringVar(&extractOCRBinary, "ocr-binary", "tesseract", "OCR binary to invoke")
	_ = extractCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sourcePath, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	outDir, err := filepath.Abs(extractOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	var ocr ports.ImageOCR
	if extractOCR {
		ocr = tesseract.New(extractOCRBinary, resilience.NewExecutor(resilience.DefaultConfig()))
	}
	extractor := pptx.NewExtractor(ocr)

	var bar *progressbar.ProgressBar
	onSlide := func(_ []domain.Slide, slideIndex, totalSlides int) {
		if bar == nil {
			bar = progressbar.NewOptions(totalSlides,
				progressbar.OptionSetDescription("extracting slides"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
			)
		}
		_ = bar.Set(slideIndex)
	}

	doc, err := extractor.Extract(ctx, sourcePath, outDir, onSlide)
	if err != nil {
		return fmt.Errorf("extract presentation: %w", err)
	}
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)
	}
	doc.Summary = usecase.Summarize(doc)

	docPath := filepath.Join(outDir, "knowledge.json")
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode knowledge doc: %w", err)
	}
	if err := os.WriteFile(docPath, raw, 0o644); err != nil {
		return fmt.Errorf("write knowledge doc: %w", err)
	}

	reportPath := filepath.Join(outDir, "knowledge.md")
	report := markdown.NewRenderer().Render(doc)
	if err := os.WriteFile(reportPath, []byte(report), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	fmt.Printf("Wrote: %s\n", docPath)
	fmt.Printf("Wrote: %s\n", reportPath)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
