package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medibridge/medibridge-api/models"
)

func sampleAnnotations() []models.ReportAnnotation {
	return []models.ReportAnnotation{
		{
			ID:                  primitive.NewObjectID(),
			Title:               "CBC Panel",
			ReportDate:          primitive.NewDateTimeFromTime(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)),
			AICategory:          "Blood Test",
			AISummary:           "All values normal.",
			AIHealthSuggestions: []string{"Stay hydrated"},
		},
		{
			ID:         primitive.NewObjectID(),
			Title:      "Chest X-Ray",
			ReportDate: primitive.NewDateTimeFromTime(time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)),
		},
	}
}

func TestAggregateZeroReportsReturnsNilWithoutModelCall(t *testing.T) {
	model := &fakeTextModel{response: "{}"}
	a := NewAggregator(model)

	got := a.Aggregate(context.Background(), nil)

	assert.Nil(t, got)
	assert.Equal(t, 0, model.calls)
}

func TestAggregateParsesModelOutput(t *testing.T) {
	model := &fakeTextModel{
		response: `{"overallSummary":"Overall healthy.","combinedSections":"CBC: normal","finalConclusionTable":"All clear","lifestyleAdvice":["Sleep well","Exercise","Eat greens"]}`,
	}
	a := NewAggregator(model)

	got := a.Aggregate(context.Background(), sampleAnnotations())

	assert.NotNil(t, got)
	assert.Equal(t, "Overall healthy.", got.OverallSummary)
	assert.Equal(t, "CBC: normal", got.CombinedSections)
	assert.Equal(t, "All clear", got.FinalConclusionTable)
	assert.Len(t, got.LifestyleAdvice, 3)
}

func TestAggregateModelErrorReturnsNil(t *testing.T) {
	model := &fakeTextModel{err: errors.New("timeout")}
	a := NewAggregator(model)

	assert.Nil(t, a.Aggregate(context.Background(), sampleAnnotations()))
}

func TestAggregateMalformedOutputReturnsNil(t *testing.T) {
	model := &fakeTextModel{response: "not json at all"}
	a := NewAggregator(model)

	assert.Nil(t, a.Aggregate(context.Background(), sampleAnnotations()))
}

func TestAggregateProseWithBracesReturnsNil(t *testing.T) {
	// a reply that contains braces but none of the expected keys must not
	// produce an empty aggregate that would clobber the stored one
	model := &fakeTextModel{response: "I cannot summarize this {sorry}."}
	a := NewAggregator(model)

	assert.Nil(t, a.Aggregate(context.Background(), sampleAnnotations()))
}

func TestAggregateEmptyObjectReturnsNil(t *testing.T) {
	model := &fakeTextModel{response: "{}"}
	a := NewAggregator(model)

	assert.Nil(t, a.Aggregate(context.Background(), sampleAnnotations()))
}

func TestCombineReportTextIsDeterministic(t *testing.T) {
	reports := sampleAnnotations()

	first := combineReportText(reports)
	second := combineReportText(reports)

	assert.Equal(t, first, second)
	assert.Contains(t, first, "--- REPORT 1 ---")
	assert.Contains(t, first, "--- REPORT 2 ---")
	assert.Contains(t, first, "Title: CBC Panel")
	assert.Contains(t, first, "Category: Blood Test")
	// missing annotations degrade to placeholders
	assert.Contains(t, first, "Category: Unknown")
	assert.Contains(t, first, "Summary: N/A")
	assert.Contains(t, first, "Suggestions: Stay hydrated")
}
