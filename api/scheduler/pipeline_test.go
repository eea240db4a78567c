package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medibridge/medibridge-api/ai"
	"github.com/medibridge/medibridge-api/databases/mocks"
	"github.com/medibridge/medibridge-api/models"
)

type fakeExtractor struct {
	text string
}

func (f *fakeExtractor) ExtractText(ctx context.Context, filePath, mimeType string) string {
	return f.text
}

type fakeClassifier struct {
	result ai.Classification
}

func (f *fakeClassifier) Analyze(ctx context.Context, rawText, fileName string) ai.Classification {
	return f.result
}

type fakeAggregator struct {
	mu      sync.Mutex
	calls   int
	result  *ai.AggregateResult
	release chan struct{} // when set, Aggregate blocks until it receives
}

func (f *fakeAggregator) Aggregate(ctx context.Context, reports []models.ReportAnnotation) *ai.AggregateResult {
	if f.release != nil {
		<-f.release
	}
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.result
}

func (f *fakeAggregator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func okAggregate() *ai.AggregateResult {
	return &ai.AggregateResult{
		OverallSummary:       "Overall healthy.",
		CombinedSections:     "CBC: normal",
		FinalConclusionTable: "All clear",
		LifestyleAdvice:      []string{"Sleep well"},
	}
}

func TestRunAggregationNoReportsIsANoOp(t *testing.T) {
	reportDB := &mocks.ReportDatabase{}
	patientDB := &mocks.PatientDatabase{}
	agg := &fakeAggregator{result: okAggregate()}

	patientID := primitive.NewObjectID().Hex()
	reportDB.On("GetReportAnnotationsByPatientID", mock.Anything, patientID).
		Return([]models.ReportAnnotation{}, nil)

	p := NewPipeline(reportDB, patientDB, nil, nil, agg, "./uploads")

	got, err := p.RunAggregation(context.Background(), patientID)

	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 0, agg.callCount())
	patientDB.AssertNotCalled(t, "UpdateAggregateFields", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunAggregationStoresAllFourFields(t *testing.T) {
	reportDB := &mocks.ReportDatabase{}
	patientDB := &mocks.PatientDatabase{}
	agg := &fakeAggregator{result: okAggregate()}

	patientID := primitive.NewObjectID().Hex()
	reportDB.On("GetReportAnnotationsByPatientID", mock.Anything, patientID).
		Return([]models.ReportAnnotation{{Title: "CBC Panel"}}, nil)

	var stored *models.PatientAggregate
	patientDB.On("UpdateAggregateFields", mock.Anything, patientID, mock.Anything).
		Return(nil).Run(func(args mock.Arguments) {
		stored = args.Get(2).(*models.PatientAggregate)
	})

	p := NewPipeline(reportDB, patientDB, nil, nil, agg, "./uploads")

	got, err := p.RunAggregation(context.Background(), patientID)

	assert.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, "Overall healthy.", stored.CombinedSummary)
	assert.Equal(t, "CBC: normal\n\nAll clear", stored.DetailedBreakdown)
	assert.Equal(t, []string{"Sleep well"}, stored.LifestyleAdvice)
	assert.NotZero(t, stored.LastUpdatedAt)
}

func TestRunAggregationModelFailureLeavesPatientUntouched(t *testing.T) {
	reportDB := &mocks.ReportDatabase{}
	patientDB := &mocks.PatientDatabase{}
	agg := &fakeAggregator{result: nil} // model run failed

	patientID := primitive.NewObjectID().Hex()
	reportDB.On("GetReportAnnotationsByPatientID", mock.Anything, patientID).
		Return([]models.ReportAnnotation{{Title: "CBC Panel"}}, nil)

	p := NewPipeline(reportDB, patientDB, nil, nil, agg, "./uploads")

	got, err := p.RunAggregation(context.Background(), patientID)

	assert.Error(t, err)
	assert.Nil(t, got)
	patientDB.AssertNotCalled(t, "UpdateAggregateFields", mock.Anything, mock.Anything, mock.Anything)
}

type proseOnlyModel struct{}

func (proseOnlyModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	return "Sorry, I am unable to summarize these reports.", nil
}

func TestRunAggregationProseModelReplyLeavesPatientUntouched(t *testing.T) {
	reportDB := &mocks.ReportDatabase{}
	patientDB := &mocks.PatientDatabase{}

	patientID := primitive.NewObjectID().Hex()
	reportDB.On("GetReportAnnotationsByPatientID", mock.Anything, patientID).
		Return([]models.ReportAnnotation{{Title: "CBC Panel"}}, nil)

	// real aggregator so a non-JSON reply exercises the whole parse path
	p := NewPipeline(reportDB, patientDB, nil, nil, ai.NewAggregator(proseOnlyModel{}), "./uploads")

	got, err := p.RunAggregation(context.Background(), patientID)

	assert.Error(t, err)
	assert.Nil(t, got)
	patientDB.AssertNotCalled(t, "UpdateAggregateFields", mock.Anything, mock.Anything, mock.Anything)
}

func TestAnnotateReportWritesAnnotationsThenSchedules(t *testing.T) {
	reportDB := &mocks.ReportDatabase{}
	patientDB := &mocks.PatientDatabase{}
	agg := &fakeAggregator{result: okAggregate()}

	reportID := primitive.NewObjectID()
	patientID := primitive.NewObjectID()

	annotated := make(chan struct{})
	reportDB.On("UpdateReportAnnotations", mock.Anything, reportID.Hex(), "Blood Test", []string{"CBC"}, "All normal.").
		Return(nil).Run(func(mock.Arguments) { close(annotated) })

	aggregated := make(chan struct{})
	reportDB.On("GetReportAnnotationsByPatientID", mock.Anything, patientID.Hex()).
		Return([]models.ReportAnnotation{{Title: "CBC Panel"}}, nil)
	patientDB.On("UpdateAggregateFields", mock.Anything, patientID.Hex(), mock.Anything).
		Return(nil).Run(func(mock.Arguments) { close(aggregated) })

	p := NewPipeline(reportDB, patientDB,
		&fakeExtractor{text: "Hemoglobin 13.5 g/dL and other values"},
		&fakeClassifier{result: ai.Classification{ReportCategory: "Blood Test", DetectedPanels: []string{"CBC"}, KeyFindings: "All normal."}},
		agg, t.TempDir())
	p.Start()
	defer p.Stop()

	p.AnnotateReport(reportID, patientID, "/uploads/cbc.pdf", "application/pdf")

	select {
	case <-annotated:
	case <-time.After(2 * time.Second):
		t.Fatal("annotations were never written")
	}
	select {
	case <-aggregated:
	case <-time.After(2 * time.Second):
		t.Fatal("aggregation never ran")
	}
}

func TestScheduleAggregationCoalescesWhileRunning(t *testing.T) {
	reportDB := &mocks.ReportDatabase{}
	patientDB := &mocks.PatientDatabase{}

	release := make(chan struct{})
	agg := &fakeAggregator{result: okAggregate(), release: release}

	patientID := primitive.NewObjectID().Hex()
	reportDB.On("GetReportAnnotationsByPatientID", mock.Anything, patientID).
		Return([]models.ReportAnnotation{{Title: "CBC Panel"}}, nil)

	updates := make(chan struct{}, 10)
	patientDB.On("UpdateAggregateFields", mock.Anything, patientID, mock.Anything).
		Return(nil).Run(func(mock.Arguments) { updates <- struct{}{} })

	p := NewPipeline(reportDB, patientDB, nil, nil, agg, "./uploads")
	p.Start()
	defer p.Stop()

	// first schedule starts a run, the next two land while it is in
	// flight and collapse into a single follow-up
	p.ScheduleAggregation(patientID)
	time.Sleep(100 * time.Millisecond)
	p.ScheduleAggregation(patientID)
	p.ScheduleAggregation(patientID)

	release <- struct{}{} // finish run 1
	release <- struct{}{} // finish the coalesced run 2

	for i := 0; i < 2; i++ {
		select {
		case <-updates:
		case <-time.After(2 * time.Second):
			t.Fatalf("expected 2 aggregate updates, got %d", i)
		}
	}

	// no third run
	select {
	case <-updates:
		t.Fatal("coalescing failed, a third run happened")
	case <-time.After(200 * time.Millisecond):
	}
	assert.Equal(t, 2, agg.callCount())
}

func TestEnqueueDropClearsBothFlags(t *testing.T) {
	p := NewPipeline(&mocks.ReportDatabase{}, &mocks.PatientDatabase{},
		&fakeExtractor{}, &fakeClassifier{}, &fakeAggregator{}, t.TempDir())
	// no worker running and no queue capacity, so every enqueue hits the
	// drop branch
	p.jobs = make(chan string)

	patientID := primitive.NewObjectID().Hex()
	p.states[patientID] = &patientJobState{running: true, pending: true}

	p.enqueue(patientID)

	p.mu.Lock()
	state := p.states[patientID]
	p.mu.Unlock()
	assert.False(t, state.running)
	assert.False(t, state.pending, "a dropped job must not leave a stale pending mark")
}

func TestLocalPathForURLUsesBaseNameOnly(t *testing.T) {
	p := NewPipeline(nil, nil, nil, nil, nil, "/var/uploads")

	assert.Equal(t, "/var/uploads/cbc.pdf", p.localPathForURL("https://host/files/cbc.pdf"))
	assert.Equal(t, "/var/uploads/passwd", p.localPathForURL("../../etc/passwd"))
}
