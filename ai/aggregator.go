package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/medibridge/medibridge-api/models"
)

const aggregateTimeout = 15 * time.Second

// AggregateResult is the combined patient-level narrative produced from all
// of a patient's report annotations.
type AggregateResult struct {
	OverallSummary       string   `json:"overallSummary"`
	CombinedSections     string   `json:"combinedSections"`
	FinalConclusionTable string   `json:"finalConclusionTable"`
	LifestyleAdvice      []string `json:"lifestyleAdvice"`
}

// Aggregator merges all report annotations for a patient into one narrative
type Aggregator struct {
	Model TextModel
}

// NewAggregator creates an aggregator on top of the given model
func NewAggregator(model TextModel) *Aggregator {
	return &Aggregator{Model: model}
}

// Aggregate asks the model for a combined summary over the given reports,
// which the caller supplies most-recent-first. It returns nil when there is
// nothing to aggregate or when the model call or output parsing fails; a nil
// result means the caller must leave any previous aggregate untouched rather
// than overwrite it with empty data.
func (a *Aggregator) Aggregate(ctx context.Context, reports []models.ReportAnnotation) *AggregateResult {
	if len(reports) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, aggregateTimeout)
	defer cancel()

	out, err := a.Model.GenerateText(ctx, aggregatePrompt(combineReportText(reports)))
	if err != nil {
		zap.S().Errorw("overall summary generation failed", "error", err, "reports", len(reports))
		return nil
	}

	obj, ok := extractJSONObject(out)
	if !ok {
		zap.S().Errorw("no JSON object in overall summary output", "reports", len(reports))
		return nil
	}

	var res AggregateResult
	if err := json.Unmarshal([]byte(obj), &res); err != nil {
		zap.S().Errorw("failed to parse overall summary output", "error", err)
		return nil
	}
	if res.OverallSummary == "" && res.CombinedSections == "" &&
		res.FinalConclusionTable == "" && len(res.LifestyleAdvice) == 0 {
		zap.S().Errorw("overall summary output missing all expected keys")
		return nil
	}
	return &res
}

// combineReportText renders the annotation set into one block, in the order
// given, so the same input always produces the same prompt.
func combineReportText(reports []models.ReportAnnotation) string {
	var b strings.Builder
	b.WriteString("Here are the patient's medical reports:\n\n")

	for i, r := range reports {
		fmt.Fprintf(&b, "--- REPORT %d ---\n", i+1)
		fmt.Fprintf(&b, "Title: %s\n", r.Title)
		fmt.Fprintf(&b, "Date: %s\n", r.ReportDate.Time().UTC().Format("Mon Jan 02 2006"))

		category := r.AICategory
		if category == "" {
			category = "Unknown"
		}
		fmt.Fprintf(&b, "Category: %s\n", category)

		summary := r.AISummary
		if summary == "" {
			summary = "N/A"
		}
		fmt.Fprintf(&b, "Summary: %s\n", summary)

		if len(r.AIHealthSuggestions) > 0 {
			fmt.Fprintf(&b, "Suggestions: %s\n", strings.Join(r.AIHealthSuggestions, ", "))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func aggregatePrompt(combinedText string) string {
	return fmt.Sprintf(`You are a medical analysis AI. Summarize all the patient's uploaded reports into a structured, human-friendly explanation. Use the following format:

### OVERALL SUMMARY
Short 4-6 line summary combining all test areas.
Say positive things first. Avoid panic language.

### SECTION: Test-by-Test Breakdown
Use this example formatting style and rewrite based on real values available:

CBC / BLOOD REPORT
✔ Hemoglobin — Normal
✔ Platelets — Normal
❗ PCV Slightly low: mild anemia indication, not dangerous.
Action: Iron rich foods.

Avoid medical jargon. No disease names unless clearly stated in reports. Use friendly supportive tone.

Return ONLY JSON in this format:
{
  "overallSummary": "...",
  "combinedSections": "... formatted detail for each report ...",
  "finalConclusionTable": "... formatted table string ...",
  "lifestyleAdvice": ["point1", "point2", "point3"]
}

Now here is the combined report data:
%s`, combinedText)
}
