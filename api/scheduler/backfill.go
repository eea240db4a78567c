package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/medibridge/medibridge-api/databases"
	"github.com/medibridge/medibridge-api/models"
)

const backfillBatchSize = 50

// Summarizer produces the short emergency-card summary for one patient
type Summarizer interface {
	Summarize(ctx context.Context, patient *models.Patient) string
}

// Backfill fills in missing emergency summaries on a nightly schedule so
// patients created before the summarizer existed still get one.
type Backfill struct {
	cron       *cron.Cron
	PatientDB  databases.PatientDatabase
	Summarizer Summarizer
}

// NewBackfill creates the nightly backfill job
func NewBackfill(patientDB databases.PatientDatabase, summarizer Summarizer) *Backfill {
	return &Backfill{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		PatientDB:  patientDB,
		Summarizer: summarizer,
	}
}

// Start registers the job and begins the schedule
func (b *Backfill) Start() {
	_, err := b.cron.AddFunc("0 3 * * *", b.Run)
	if err != nil {
		zap.S().Errorw("failed to register summary backfill job", "error", err)
	}

	b.cron.Start()
	zap.S().Info("Emergency summary backfill scheduler started")
}

// Stop gracefully stops the scheduler
func (b *Backfill) Stop() {
	ctx := b.cron.Stop()
	<-ctx.Done()
	zap.S().Info("Emergency summary backfill scheduler stopped")
}

// Run processes one batch of patients without a summary. Exported so the
// batch can also be kicked off manually.
func (b *Backfill) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	patients, err := b.PatientDB.FindPatientsMissingSummary(ctx, backfillBatchSize)
	if err != nil {
		zap.S().Errorw("failed to find patients missing summary", "error", err)
		return
	}
	if len(patients) == 0 {
		return
	}

	zap.S().Infow("Running emergency summary backfill", "patients", len(patients))

	updated := 0
	for i := range patients {
		patient := &patients[i]

		summary := b.Summarizer.Summarize(ctx, patient)
		if summary == "" {
			continue
		}

		if err := b.PatientDB.UpdateEmergencySummary(ctx, patient.ID.Hex(), summary); err != nil {
			zap.S().Errorw("failed to store emergency summary", "error", err, "patientID", patient.ID.Hex())
			continue
		}
		updated++

		// pace the model calls
		time.Sleep(1 * time.Second)
	}

	zap.S().Infow("Emergency summary backfill finished", "updated", updated)
}
