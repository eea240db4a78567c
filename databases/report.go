package databases

// go generate: mockery --name ReportDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medibridge/medibridge-api/models"
)

const reportCollection = "reports"

// ReportDatabase contains the methods to use with the report database
type ReportDatabase interface {
	GetReportByID(ctx context.Context, id string) (*models.Report, error)
	GetReportsByPatientID(ctx context.Context, patientID string) ([]models.Report, error)
	GetReportAnnotationsByPatientID(ctx context.Context, patientID string) ([]models.ReportAnnotation, error)
	CreateReport(ctx context.Context, report *models.Report) error
	UpdateReportCore(ctx context.Context, id string, report *models.Report) error
	UpdateReportAnnotations(ctx context.Context, id string, category string, panels []string, findings string) error
	DeleteReport(ctx context.Context, id string) error
}

type reportDatabase struct {
	db DatabaseHelper
}

// NewReportDatabase initializes a new instance of report database with the provided db connection
func NewReportDatabase(db DatabaseHelper) ReportDatabase {
	return &reportDatabase{
		db: db,
	}
}

func (r *reportDatabase) GetReportByID(ctx context.Context, id string) (*models.Report, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var report models.Report
	err = r.db.Collection(reportCollection).FindOne(ctx, bson.M{"_id": objectID}).Decode(&report)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// GetReportsByPatientID returns all of a patient's reports, newest report
// date first.
func (r *reportDatabase) GetReportsByPatientID(ctx context.Context, patientID string) ([]models.Report, error) {
	objectID, err := primitive.ObjectIDFromHex(patientID)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.M{"reportDate": -1})
	cursor, err := r.db.Collection(reportCollection).Find(ctx, bson.M{"patient": objectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reports := []models.Report{}
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// GetReportAnnotationsByPatientID returns the trimmed annotation projection
// the aggregator consumes, newest report date first.
func (r *reportDatabase) GetReportAnnotationsByPatientID(ctx context.Context, patientID string) ([]models.ReportAnnotation, error) {
	objectID, err := primitive.ObjectIDFromHex(patientID)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.M{"reportDate": -1}).
		SetProjection(bson.M{
			"title":               1,
			"reportDate":          1,
			"reportType":          1,
			"aiCategory":          1,
			"aiPanels":            1,
			"aiSummary":           1,
			"aiHealthSuggestions": 1,
		})
	cursor, err := r.db.Collection(reportCollection).Find(ctx, bson.M{"patient": objectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	annotations := []models.ReportAnnotation{}
	if err := cursor.All(ctx, &annotations); err != nil {
		return nil, err
	}
	return annotations, nil
}

func (r *reportDatabase) CreateReport(ctx context.Context, report *models.Report) error {
	now := primitive.NewDateTimeFromTime(time.Now())
	report.CreatedAt = now
	report.UpdatedAt = now

	if report.ID.IsZero() {
		report.ID = primitive.NewObjectID()
	}
	if report.ReportDate == 0 {
		report.ReportDate = now
	}
	if report.ReportType == "" {
		report.ReportType = models.ReportTypeOther
	}

	_, err := r.db.Collection(reportCollection).InsertOne(ctx, report)
	return err
}

// UpdateReportCore updates the user-editable fields only, never the ai*
// annotations, so a concurrent pipeline write cannot be clobbered.
func (r *reportDatabase) UpdateReportCore(ctx context.Context, id string, report *models.Report) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	update := bson.M{
		"$set": bson.M{
			"title":         report.Title,
			"description":   report.Description,
			"reportType":    report.ReportType,
			"reportDate":    report.ReportDate,
			"reportFileUrl": report.ReportFileURL,
			"updatedAt":     primitive.NewDateTimeFromTime(time.Now()),
		},
	}

	_, err = r.db.Collection(reportCollection).UpdateOne(ctx, bson.M{"_id": objectID}, update)
	return err
}

// UpdateReportAnnotations writes the classification output in one update. The
// aiHealthSuggestions field belongs to a later enrichment pass and is left
// alone here.
func (r *reportDatabase) UpdateReportAnnotations(ctx context.Context, id string, category string, panels []string, findings string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	if panels == nil {
		panels = []string{}
	}
	update := bson.M{
		"$set": bson.M{
			"aiCategory": category,
			"aiPanels":   panels,
			"aiSummary":  findings,
			"updatedAt":  primitive.NewDateTimeFromTime(time.Now()),
		},
	}

	_, err = r.db.Collection(reportCollection).UpdateOne(ctx, bson.M{"_id": objectID}, update)
	return err
}

func (r *reportDatabase) DeleteReport(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	return r.db.Collection(reportCollection).DeleteOne(ctx, bson.M{"_id": objectID})
}
