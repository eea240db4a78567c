package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	classifyTimeout = 15 * time.Second

	// minAnalyzableChars is the minimum extracted-text length worth sending
	// to the model; anything shorter gets the scanned-document placeholder.
	minAnalyzableChars = 20
)

// TextModel is the minimal LLM surface the classifier and aggregator need
type TextModel interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Classification is the per-report annotation produced by one classify call
type Classification struct {
	ReportCategory string   `json:"reportCategory"`
	DetectedPanels []string `json:"detectedPanels"`
	KeyFindings    string   `json:"keyFindings"`
}

// UnknownClassification is the fixed fallback used when the model call or its
// output parsing fails. Classification is advisory, so every failure path
// converges here instead of surfacing an error.
func UnknownClassification() Classification {
	return Classification{
		ReportCategory: "Unknown",
		DetectedPanels: []string{},
		KeyFindings:    "",
	}
}

// ScannedPlaceholder is returned without calling the model when extraction
// produced too little text to analyze. The findings message names the likely
// cause so the UI can distinguish it from a generic model failure.
func ScannedPlaceholder() Classification {
	return Classification{
		ReportCategory: "Unknown",
		DetectedPanels: []string{},
		KeyFindings:    "Could not extract readable text from this file. It might be a scanned document without OCR text.",
	}
}

// Classifier asks the model to categorize a single report's extracted text
type Classifier struct {
	Model TextModel
}

// NewClassifier creates a classifier on top of the given model
func NewClassifier(model TextModel) *Classifier {
	return &Classifier{Model: model}
}

// Analyze classifies the extracted report text, using the filename as a hint
// when the text is sparse. It never returns an error: model failures,
// timeouts and malformed output all yield the Unknown defaults.
func (c *Classifier) Analyze(ctx context.Context, rawText, fileName string) Classification {
	if len(strings.TrimSpace(rawText)) < minAnalyzableChars {
		return ScannedPlaceholder()
	}

	ctx, cancel := context.WithTimeout(ctx, classifyTimeout)
	defer cancel()

	out, err := c.Model.GenerateText(ctx, classifyPrompt(rawText, fileName))
	if err != nil {
		zap.S().Errorw("report classification failed", "error", err, "fileName", fileName)
		return UnknownClassification()
	}

	obj, ok := extractJSONObject(out)
	if !ok {
		zap.S().Errorw("no JSON object in classification output", "fileName", fileName)
		return UnknownClassification()
	}

	var parsed Classification
	if err := json.Unmarshal([]byte(obj), &parsed); err != nil {
		zap.S().Errorw("failed to parse classification output", "error", err)
		return UnknownClassification()
	}

	// Per-field defaults: each missing field degrades on its own
	if parsed.ReportCategory == "" {
		parsed.ReportCategory = "Unknown"
	}
	if parsed.DetectedPanels == nil {
		parsed.DetectedPanels = []string{}
	}
	return parsed
}

func classifyPrompt(rawText, fileName string) string {
	return fmt.Sprintf(`You are a medical report analyzer.

You will receive the extracted text from a lab or diagnostic report.
Filename: %s

Identify:
1) Overall report category (e.g., "Blood Test", "Blood Sugar", "CBC", "Lipid Profile", "LFT", "KFT", "Urine Analysis", "ECG", "X-Ray", "CT", "MRI", etc.).
   - HINT: If the text is empty or unclear, use the Filename to infer the category.
2) A list of specific panels or test groups present (e.g., ["CBC", "Fasting Blood Sugar", "Post Prandial Sugar"]).
3) A very short, patient-friendly summary of important points (max 3 lines). Do NOT invent values.

Return ONLY valid JSON with this shape:

{
  "reportCategory": "string",
  "detectedPanels": ["string", "string"],
  "keyFindings": "string"
}

Now here is the report text to analyze:

---
%s
---
`, fileName, rawText)
}
