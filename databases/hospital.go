package databases

// go generate: mockery --name HospitalDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medibridge/medibridge-api/models"
)

const hospitalCollection = "hospitals"

// HospitalDatabase contains the methods to use with the hospital database
type HospitalDatabase interface {
	GetHospitalByID(ctx context.Context, id string) (*models.Hospital, error)
	CreateHospital(ctx context.Context, hospital *models.Hospital) error
}

type hospitalDatabase struct {
	db DatabaseHelper
}

// NewHospitalDatabase initializes a new instance of hospital database with the provided db connection
func NewHospitalDatabase(db DatabaseHelper) HospitalDatabase {
	return &hospitalDatabase{
		db: db,
	}
}

func (h *hospitalDatabase) GetHospitalByID(ctx context.Context, id string) (*models.Hospital, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var hospital models.Hospital
	err = h.db.Collection(hospitalCollection).FindOne(ctx, bson.M{"_id": objectID}).Decode(&hospital)
	if err != nil {
		return nil, err
	}
	return &hospital, nil
}

func (h *hospitalDatabase) CreateHospital(ctx context.Context, hospital *models.Hospital) error {
	now := primitive.NewDateTimeFromTime(time.Now())
	hospital.CreatedAt = now
	hospital.UpdatedAt = now

	if hospital.ID.IsZero() {
		hospital.ID = primitive.NewObjectID()
	}

	_, err := h.db.Collection(hospitalCollection).InsertOne(ctx, hospital)
	return err
}
