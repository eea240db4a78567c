// Package extraction pulls raw text out of uploaded report files so the
// classifier has something to work with. It never fails the caller: any
// unreadable file yields an empty string.
package extraction

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

const (
	// pdfTextMinChars is the minimum text-layer length for a PDF to be
	// considered digital; below it the file is treated as a scan.
	pdfTextMinChars = 50

	// ocrMinChars is the minimum salvaged-text length for the scan fallback
	// to be worth keeping.
	ocrMinChars = 20

	// ocrMaxPages caps how many pages the scan fallback walks
	ocrMaxPages = 3

	imageOCRTimeout = 15 * time.Second

	maxTextBytes = 100 * 1024
)

// VisionModel reads text out of image bytes via a multimodal LLM
type VisionModel interface {
	GenerateVision(ctx context.Context, prompt, mimeType string, data []byte) (string, error)
}

// Extractor extracts raw text from report files on disk
type Extractor struct {
	Vision VisionModel

	// overridable in tests
	pdfText  func(data []byte) (string, error)
	pageText func(data []byte, maxPages int) (string, error)
}

// NewExtractor creates an extractor backed by the given vision model
func NewExtractor(vision VisionModel) *Extractor {
	return &Extractor{
		Vision:   vision,
		pdfText:  pdfPlainText,
		pageText: pdfPageText,
	}
}

// ExtractText returns whatever text it can read from the file. PDFs use the
// embedded text layer first, then a per-page salvage pass for scans. Images
// go through the vision model. Anything else, or any failure, returns "".
func (e *Extractor) ExtractText(ctx context.Context, filePath, mimeType string) string {
	data, err := os.ReadFile(filePath)
	if err != nil {
		zap.S().Errorw("failed to read report file", "error", err, "filePath", filePath)
		return ""
	}

	switch {
	case mimeType == "application/pdf" || strings.HasSuffix(strings.ToLower(filePath), ".pdf"):
		return e.extractPDF(data, filePath)
	case strings.HasPrefix(mimeType, "image/"):
		return e.extractImage(ctx, data, mimeType, filePath)
	default:
		zap.S().Infow("unsupported report file type, skipping extraction", "mimeType", mimeType, "filePath", filePath)
		return ""
	}
}

func (e *Extractor) extractPDF(data []byte, filePath string) string {
	text, err := e.pdfText(data)
	if err != nil {
		zap.S().Errorw("pdf text layer extraction failed", "error", err, "filePath", filePath)
	}
	if len(strings.TrimSpace(text)) >= pdfTextMinChars {
		return text
	}

	// Thin or missing text layer, likely a scan. Walk the first few pages
	// individually since broken files often still yield something per page.
	salvaged, err := e.pageText(data, ocrMaxPages)
	if err != nil {
		zap.S().Errorw("pdf page salvage failed", "error", err, "filePath", filePath)
		return ""
	}
	if len(strings.TrimSpace(salvaged)) >= ocrMinChars {
		return salvaged
	}
	return ""
}

func (e *Extractor) extractImage(ctx context.Context, data []byte, mimeType, filePath string) string {
	if e.Vision == nil {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, imageOCRTimeout)
	defer cancel()

	out, err := e.Vision.GenerateVision(ctx, imageOCRPrompt, mimeType, data)
	if err != nil {
		zap.S().Errorw("image text extraction failed", "error", err, "filePath", filePath)
		return ""
	}
	return strings.TrimSpace(out)
}

const imageOCRPrompt = `Extract ALL text visible in this medical report image.
Return the raw text only, preserving line breaks. Do not summarize, do not add commentary.
If no text is readable, return an empty response.`

// pdfPlainText reads the PDF's whole text layer, capped at maxTextBytes.
// The pdf library panics on some malformed files, so this recovers.
func pdfPlainText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during pdf extraction: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf reader: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract plain text: %w", err)
	}

	b, err := io.ReadAll(io.LimitReader(plain, int64(maxTextBytes)))
	if err != nil {
		return "", fmt.Errorf("read plain text: %w", err)
	}
	return string(b), nil
}

// pdfPageText walks up to maxPages pages one at a time, keeping whatever each
// page yields. Per-page errors are skipped rather than failing the whole file.
func pdfPageText(data []byte, maxPages int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during pdf page extraction: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf reader: %w", err)
	}

	pages := reader.NumPage()
	if pages > maxPages {
		pages = maxPages
	}

	var b strings.Builder
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
		if b.Len() >= maxTextBytes {
			break
		}
	}
	return b.String(), nil
}
