package databases

// go generate: mockery --name PatientDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medibridge/medibridge-api/models"
)

const patientCollection = "patients"

// PatientDatabase contains the methods to use with the patient database
type PatientDatabase interface {
	GetPatientByID(ctx context.Context, id string) (*models.Patient, error)
	UpdateAggregateFields(ctx context.Context, id string, aggregate *models.PatientAggregate) error
	UpdateEmergencySummary(ctx context.Context, id string, summary string) error
	FindPatientsMissingSummary(ctx context.Context, limit int64) ([]models.Patient, error)
}

type patientDatabase struct {
	db DatabaseHelper
}

// NewPatientDatabase initializes a new instance of patient database with the provided db connection
func NewPatientDatabase(db DatabaseHelper) PatientDatabase {
	return &patientDatabase{
		db: db,
	}
}

func (p *patientDatabase) GetPatientByID(ctx context.Context, id string) (*models.Patient, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var patient models.Patient
	err = p.db.Collection(patientCollection).FindOne(ctx, bson.M{"_id": objectID}).Decode(&patient)
	if err != nil {
		return nil, err
	}
	return &patient, nil
}

// UpdateAggregateFields writes all four derived fields in a single update so
// a reader never observes a half-applied aggregation run.
func (p *patientDatabase) UpdateAggregateFields(ctx context.Context, id string, aggregate *models.PatientAggregate) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	advice := aggregate.LifestyleAdvice
	if advice == nil {
		advice = []string{}
	}
	update := bson.M{
		"$set": bson.M{
			"aiCombinedSummary":   aggregate.CombinedSummary,
			"aiDetailedBreakdown": aggregate.DetailedBreakdown,
			"aiLifestyleAdvice":   advice,
			"aiLastUpdatedAt":     aggregate.LastUpdatedAt,
			"updatedAt":           primitive.NewDateTimeFromTime(time.Now()),
		},
	}

	_, err = p.db.Collection(patientCollection).UpdateOne(ctx, bson.M{"_id": objectID}, update)
	return err
}

func (p *patientDatabase) UpdateEmergencySummary(ctx context.Context, id string, summary string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	update := bson.M{
		"$set": bson.M{
			"aiSummary": summary,
			"updatedAt": primitive.NewDateTimeFromTime(time.Now()),
		},
	}

	_, err = p.db.Collection(patientCollection).UpdateOne(ctx, bson.M{"_id": objectID}, update)
	return err
}

// FindPatientsMissingSummary returns patients without an emergency summary,
// oldest first, for the nightly backfill job.
func (p *patientDatabase) FindPatientsMissingSummary(ctx context.Context, limit int64) ([]models.Patient, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"aiSummary": bson.M{"$exists": false}},
			{"aiSummary": ""},
		},
	}
	opts := options.Find().SetSort(bson.M{"createdAt": 1}).SetLimit(limit)

	cursor, err := p.db.Collection(patientCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	patients := []models.Patient{}
	if err := cursor.All(ctx, &patients); err != nil {
		return nil, err
	}
	return patients, nil
}
