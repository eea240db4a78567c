package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medibridge/medibridge-api/databases/mocks"
	"github.com/medibridge/medibridge-api/models"
)

type fakeSummarizer struct {
	summary string
}

func (f *fakeSummarizer) Summarize(ctx context.Context, patient *models.Patient) string {
	return f.summary
}

func TestBackfillRunUpdatesPatients(t *testing.T) {
	patientDB := &mocks.PatientDatabase{}
	patient := models.Patient{ID: primitive.NewObjectID(), FullName: "Jane Doe"}

	patientDB.On("FindPatientsMissingSummary", mock.Anything, int64(backfillBatchSize)).
		Return([]models.Patient{patient}, nil)
	patientDB.On("UpdateEmergencySummary", mock.Anything, patient.ID.Hex(), "Blood group O+.").
		Return(nil)

	b := NewBackfill(patientDB, &fakeSummarizer{summary: "Blood group O+."})
	b.Run()

	patientDB.AssertExpectations(t)
}

func TestBackfillRunSkipsEmptySummaries(t *testing.T) {
	patientDB := &mocks.PatientDatabase{}
	patient := models.Patient{ID: primitive.NewObjectID(), FullName: "Jane Doe"}

	patientDB.On("FindPatientsMissingSummary", mock.Anything, int64(backfillBatchSize)).
		Return([]models.Patient{patient}, nil)

	b := NewBackfill(patientDB, &fakeSummarizer{summary: ""})
	b.Run()

	patientDB.AssertNotCalled(t, "UpdateEmergencySummary", mock.Anything, mock.Anything, mock.Anything)
}

func TestBackfillRunNoPatients(t *testing.T) {
	patientDB := &mocks.PatientDatabase{}

	patientDB.On("FindPatientsMissingSummary", mock.Anything, int64(backfillBatchSize)).
		Return([]models.Patient{}, nil)

	b := NewBackfill(patientDB, &fakeSummarizer{summary: "unused"})
	b.Run()

	patientDB.AssertNotCalled(t, "UpdateEmergencySummary", mock.Anything, mock.Anything, mock.Anything)
}
