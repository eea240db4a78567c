package databases_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medibridge/medibridge-api/config"
	"github.com/medibridge/medibridge-api/databases"
	"github.com/medibridge/medibridge-api/databases/mocks"
	"github.com/medibridge/medibridge-api/models"
)

func TestNewReportDatabase(t *testing.T) {
	os.Setenv("DB_URI", "mongodb://127.0.0.1:27017")
	os.Setenv("DB_NAME", "test")
	conf := config.New()

	dbClient, err := databases.NewClient(conf)
	assert.NoError(t, err)

	db := databases.NewDatabase(conf, dbClient)

	reportDB := databases.NewReportDatabase(db)

	assert.NotEmpty(t, reportDB)
}

func TestReportDatabase_GetReportByID(t *testing.T) {
	reportID := primitive.NewObjectID()

	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	srHelper := &mocks.SingleResultHelper{}

	srHelper.On("Decode", mock.Anything).
		Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*models.Report)
		arg.ID = reportID
		arg.Title = "CBC Panel"
	})

	collectionHelper.On("FindOne", mock.Anything, bson.M{"_id": reportID}).
		Return(srHelper)

	dbHelper.On("Collection", "reports").Return(collectionHelper)

	reportDba := databases.NewReportDatabase(dbHelper)

	report, err := reportDba.GetReportByID(context.Background(), reportID.Hex())

	assert.NoError(t, err)
	assert.Equal(t, "CBC Panel", report.Title)
}

func TestReportDatabase_GetReportByID_InvalidID(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	reportDba := databases.NewReportDatabase(dbHelper)

	report, err := reportDba.GetReportByID(context.Background(), "not-a-hex-id")

	assert.Nil(t, report)
	assert.Error(t, err)
}

func TestReportDatabase_GetReportsByPatientID(t *testing.T) {
	patientID := primitive.NewObjectID()

	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	cursorHelper := &mocks.CursorHelper{}

	cursorHelper.On("All", mock.Anything, mock.Anything).
		Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(1).(*[]models.Report)
		*arg = []models.Report{{Title: "CBC Panel"}, {Title: "X-Ray"}}
	})
	cursorHelper.On("Close", mock.Anything).Return(nil)

	collectionHelper.On("Find", mock.Anything, bson.M{"patient": patientID}, mock.Anything).
		Return(cursorHelper, nil)

	dbHelper.On("Collection", "reports").Return(collectionHelper)

	reportDba := databases.NewReportDatabase(dbHelper)

	reports, err := reportDba.GetReportsByPatientID(context.Background(), patientID.Hex())

	assert.NoError(t, err)
	assert.Len(t, reports, 2)
	assert.Equal(t, "CBC Panel", reports[0].Title)
}

func TestReportDatabase_GetReportsByPatientID_FindError(t *testing.T) {
	patientID := primitive.NewObjectID()

	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	collectionHelper.On("Find", mock.Anything, bson.M{"patient": patientID}, mock.Anything).
		Return(nil, errors.New("mocked-error"))

	dbHelper.On("Collection", "reports").Return(collectionHelper)

	reportDba := databases.NewReportDatabase(dbHelper)

	reports, err := reportDba.GetReportsByPatientID(context.Background(), patientID.Hex())

	assert.Nil(t, reports)
	assert.EqualError(t, err, "mocked-error")
}

func TestReportDatabase_CreateReport(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	collectionHelper.On("InsertOne", mock.Anything, mock.Anything).
		Return(primitive.NewObjectID(), nil)

	dbHelper.On("Collection", "reports").Return(collectionHelper)

	reportDba := databases.NewReportDatabase(dbHelper)

	report := &models.Report{Title: "CBC Panel"}
	err := reportDba.CreateReport(context.Background(), report)

	assert.NoError(t, err)
	assert.False(t, report.ID.IsZero())
	assert.NotZero(t, report.CreatedAt)
	assert.NotZero(t, report.ReportDate)
	assert.Equal(t, models.ReportTypeOther, report.ReportType)
}

func TestReportDatabase_CreateReportKeepsExplicitType(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	collectionHelper.On("InsertOne", mock.Anything, mock.Anything).
		Return(primitive.NewObjectID(), nil)

	dbHelper.On("Collection", "reports").Return(collectionHelper)

	reportDba := databases.NewReportDatabase(dbHelper)

	report := &models.Report{Title: "CBC Panel", ReportType: models.ReportTypeLab}
	err := reportDba.CreateReport(context.Background(), report)

	assert.NoError(t, err)
	assert.Equal(t, models.ReportTypeLab, report.ReportType)
}

func TestReportDatabase_UpdateReportAnnotations(t *testing.T) {
	reportID := primitive.NewObjectID()

	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	var gotUpdate bson.M
	collectionHelper.On("UpdateOne", mock.Anything, bson.M{"_id": reportID}, mock.Anything).
		Return(int64(1), nil).Run(func(args mock.Arguments) {
		gotUpdate = args.Get(2).(bson.M)
	})

	dbHelper.On("Collection", "reports").Return(collectionHelper)

	reportDba := databases.NewReportDatabase(dbHelper)

	err := reportDba.UpdateReportAnnotations(context.Background(), reportID.Hex(), "Blood Test", nil, "All normal.")

	assert.NoError(t, err)
	set := gotUpdate["$set"].(bson.M)
	assert.Equal(t, "Blood Test", set["aiCategory"])
	assert.Equal(t, []string{}, set["aiPanels"])
	assert.Equal(t, "All normal.", set["aiSummary"])
	// suggestions are not part of a classification write
	assert.NotContains(t, set, "aiHealthSuggestions")
}

func TestReportDatabase_DeleteReport(t *testing.T) {
	reportID := primitive.NewObjectID()

	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	collectionHelper.On("DeleteOne", mock.Anything, bson.M{"_id": reportID}).
		Return(nil)

	dbHelper.On("Collection", "reports").Return(collectionHelper)

	reportDba := databases.NewReportDatabase(dbHelper)

	assert.NoError(t, reportDba.DeleteReport(context.Background(), reportID.Hex()))
}
