// Package scheduler runs the background AI jobs: the per-report annotation
// pipeline, the per-patient aggregation queue and the nightly summary
// backfill.
package scheduler

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/medibridge/medibridge-api/ai"
	"github.com/medibridge/medibridge-api/databases"
	"github.com/medibridge/medibridge-api/models"
)

const (
	jobQueueSize      = 256
	annotationTimeout = 2 * time.Minute
)

// Extractor pulls raw text out of a report file
type Extractor interface {
	ExtractText(ctx context.Context, filePath, mimeType string) string
}

// Classifier annotates one report's extracted text
type Classifier interface {
	Analyze(ctx context.Context, rawText, fileName string) ai.Classification
}

// Aggregator merges a patient's annotations into one narrative
type Aggregator interface {
	Aggregate(ctx context.Context, reports []models.ReportAnnotation) *ai.AggregateResult
}

type patientJobState struct {
	running bool
	pending bool
}

// Pipeline owns the background AI work. Aggregation runs are queued per
// patient with at most one in flight: a schedule that arrives while a run is
// active marks the patient pending and is coalesced into a single follow-up
// run.
type Pipeline struct {
	ReportDB  databases.ReportDatabase
	PatientDB databases.PatientDatabase

	Extractor  Extractor
	Classifier Classifier
	Aggregator Aggregator

	// UploadsDir is where report files referenced by reportFileUrl live
	UploadsDir string

	mu     sync.Mutex
	states map[string]*patientJobState
	jobs   chan string
	done   chan struct{}
}

// NewPipeline wires the AI pipeline over the given databases and models
func NewPipeline(reportDB databases.ReportDatabase, patientDB databases.PatientDatabase,
	extractor Extractor, classifier Classifier, aggregator Aggregator, uploadsDir string) *Pipeline {
	return &Pipeline{
		ReportDB:   reportDB,
		PatientDB:  patientDB,
		Extractor:  extractor,
		Classifier: classifier,
		Aggregator: aggregator,
		UploadsDir: uploadsDir,
		states:     map[string]*patientJobState{},
		jobs:       make(chan string, jobQueueSize),
		done:       make(chan struct{}),
	}
}

// Start launches the aggregation worker
func (p *Pipeline) Start() {
	go p.worker()
	zap.S().Info("AI pipeline started")
}

// Stop shuts the worker down after it finishes its current job
func (p *Pipeline) Stop() {
	close(p.done)
	zap.S().Info("AI pipeline stopped")
}

func (p *Pipeline) worker() {
	for {
		select {
		case <-p.done:
			return
		case patientID := <-p.jobs:
			p.runJob(patientID)
		}
	}
}

func (p *Pipeline) runJob(patientID string) {
	ctx, cancel := context.WithTimeout(context.Background(), annotationTimeout)
	if _, err := p.RunAggregation(ctx, patientID); err != nil {
		zap.S().Errorw("background aggregation failed", "error", err, "patientID", patientID)
	}
	cancel()

	p.mu.Lock()
	state := p.states[patientID]
	if state != nil && state.pending {
		// coalesced re-run: everything that arrived during this run is
		// covered by one more pass
		state.pending = false
		p.mu.Unlock()
		p.enqueue(patientID)
		return
	}
	if state != nil {
		state.running = false
	}
	p.mu.Unlock()
}

// ScheduleAggregation queues an aggregation run for the patient. Never
// blocks; if a run is already in flight the patient is marked pending and
// picked up again once the current run finishes.
func (p *Pipeline) ScheduleAggregation(patientID string) {
	p.mu.Lock()
	state := p.states[patientID]
	if state == nil {
		state = &patientJobState{}
		p.states[patientID] = state
	}
	if state.running {
		state.pending = true
		p.mu.Unlock()
		return
	}
	state.running = true
	p.mu.Unlock()

	p.enqueue(patientID)
}

func (p *Pipeline) enqueue(patientID string) {
	select {
	case p.jobs <- patientID:
	default:
		// queue full, drop and clear both flags so a later schedule starts
		// from a clean slate instead of inheriting a stale pending mark
		zap.S().Errorw("aggregation queue full, dropping job", "patientID", patientID)
		p.mu.Lock()
		if state := p.states[patientID]; state != nil {
			state.running = false
			state.pending = false
		}
		p.mu.Unlock()
	}
}

// AnnotateReport runs extraction and classification for one report in the
// background, writes the annotations, then schedules an aggregation run for
// the owning patient. Failures only log; the report stays valid without
// annotations.
func (p *Pipeline) AnnotateReport(reportID, patientID primitive.ObjectID, fileURL, mimeType string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), annotationTimeout)
		defer cancel()

		filePath := p.localPathForURL(fileURL)
		fileName := path.Base(fileURL)

		rawText := p.Extractor.ExtractText(ctx, filePath, mimeType)
		result := p.Classifier.Analyze(ctx, rawText, fileName)

		err := p.ReportDB.UpdateReportAnnotations(ctx, reportID.Hex(), result.ReportCategory, result.DetectedPanels, result.KeyFindings)
		if err != nil {
			zap.S().Errorw("failed to store report annotations", "error", err, "reportID", reportID.Hex())
			return
		}

		zap.S().Infow("report annotated", "reportID", reportID.Hex(), "category", result.ReportCategory)
		p.ScheduleAggregation(patientID.Hex())
	}()
}

// ClassifyFile runs extraction and classification synchronously without
// touching the database. Used by the pre-upload validation endpoint.
func (p *Pipeline) ClassifyFile(ctx context.Context, fileURL, mimeType string) ai.Classification {
	filePath := p.localPathForURL(fileURL)
	rawText := p.Extractor.ExtractText(ctx, filePath, mimeType)
	return p.Classifier.Analyze(ctx, rawText, path.Base(fileURL))
}

// RunAggregation regenerates the patient's combined summary synchronously.
// Returns (nil, nil) when the patient has no reports, and an error when the
// model run fails, leaving the previous aggregate untouched either way.
func (p *Pipeline) RunAggregation(ctx context.Context, patientID string) (*models.PatientAggregate, error) {
	annotations, err := p.ReportDB.GetReportAnnotationsByPatientID(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("load report annotations: %w", err)
	}
	if len(annotations) == 0 {
		return nil, nil
	}

	result := p.Aggregator.Aggregate(ctx, annotations)
	if result == nil {
		return nil, fmt.Errorf("aggregation produced no result for patient %s", patientID)
	}

	aggregate := &models.PatientAggregate{
		CombinedSummary:   result.OverallSummary,
		DetailedBreakdown: result.CombinedSections + "\n\n" + result.FinalConclusionTable,
		LifestyleAdvice:   result.LifestyleAdvice,
		LastUpdatedAt:     primitive.NewDateTimeFromTime(time.Now()),
	}

	if err := p.PatientDB.UpdateAggregateFields(ctx, patientID, aggregate); err != nil {
		return nil, fmt.Errorf("store patient aggregate: %w", err)
	}

	zap.S().Infow("patient aggregate updated", "patientID", patientID, "reports", len(annotations))
	return aggregate, nil
}

// localPathForURL maps a stored file URL onto the uploads directory. Only the
// base name is used so a crafted URL cannot escape the directory.
func (p *Pipeline) localPathForURL(fileURL string) string {
	return filepath.Join(p.UploadsDir, path.Base(fileURL))
}
