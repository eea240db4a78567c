package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Patient holds the structure for the patients collection in mongo. The
// aiCombinedSummary, aiDetailedBreakdown, aiLifestyleAdvice and
// aiLastUpdatedAt fields are derived and are only ever written together, by
// one aggregation run.
type Patient struct {
	ID                primitive.ObjectID `json:"_id" bson:"_id"`
	Hospital          primitive.ObjectID `json:"hospital" bson:"hospital"`
	FullName          string             `json:"fullName" bson:"fullName"`
	Email             string             `json:"email,omitempty" bson:"email,omitempty"`
	Age               int                `json:"age" bson:"age"`
	Gender            string             `json:"gender" bson:"gender"`
	BloodGroup        string             `json:"bloodGroup" bson:"bloodGroup"`
	Allergies         []string           `json:"allergies,omitempty" bson:"allergies,omitempty"`
	MedicalConditions []string           `json:"medicalConditions,omitempty" bson:"medicalConditions,omitempty"`
	Medications       []string           `json:"medications,omitempty" bson:"medications,omitempty"`
	RiskLevel         string             `json:"riskLevel,omitempty" bson:"riskLevel,omitempty"`
	EmergencyContact  EmergencyContact   `json:"emergencyContact,omitempty" bson:"emergencyContact,omitempty"`

	AISummary           string             `json:"aiSummary,omitempty" bson:"aiSummary,omitempty"`
	AICombinedSummary   string             `json:"aiCombinedSummary,omitempty" bson:"aiCombinedSummary,omitempty"`
	AIDetailedBreakdown string             `json:"aiDetailedBreakdown,omitempty" bson:"aiDetailedBreakdown,omitempty"`
	AILifestyleAdvice   []string           `json:"aiLifestyleAdvice,omitempty" bson:"aiLifestyleAdvice,omitempty"`
	AILastUpdatedAt     primitive.DateTime `json:"aiLastUpdatedAt,omitempty" bson:"aiLastUpdatedAt,omitempty"`

	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// EmergencyContact contains the contact details shown on the emergency profile
type EmergencyContact struct {
	Name  string `json:"name,omitempty" bson:"name,omitempty"`
	Phone string `json:"phone,omitempty" bson:"phone,omitempty"`
}

// PatientAggregate carries the four derived patient fields produced by one
// aggregation run. They are written as a single update.
type PatientAggregate struct {
	CombinedSummary   string             `json:"combinedSummary" bson:"aiCombinedSummary"`
	DetailedBreakdown string             `json:"detailedBreakdown" bson:"aiDetailedBreakdown"`
	LifestyleAdvice   []string           `json:"lifestyleAdvice" bson:"aiLifestyleAdvice"`
	LastUpdatedAt     primitive.DateTime `json:"lastUpdatedAt" bson:"aiLastUpdatedAt"`
}

// EmergencyProfile is the public view of a patient resolved from a QR token
type EmergencyProfile struct {
	FullName          string           `json:"fullName"`
	Age               int              `json:"age"`
	Gender            string           `json:"gender"`
	BloodGroup        string           `json:"bloodGroup"`
	Allergies         []string         `json:"allergies"`
	MedicalConditions []string         `json:"medicalConditions"`
	Medications       []string         `json:"medications"`
	RiskLevel         string           `json:"riskLevel"`
	EmergencyContact  EmergencyContact `json:"emergencyContact"`
	AISummary         string           `json:"aiSummary"`
}
