package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Report type enum values accepted on create/update
const (
	ReportTypeLab          = "Lab"
	ReportTypeScan         = "Scan"
	ReportTypePrescription = "Prescription"
	ReportTypeConsultation = "Consultation"
	ReportTypeSurgery      = "Surgery"
	ReportTypeOther        = "Other"
)

// Report holds the structure for the reports collection in mongo. The ai*
// fields are populated asynchronously by the annotation pipeline and may be
// absent; a report is fully valid without them.
type Report struct {
	ID                  primitive.ObjectID `json:"_id" bson:"_id"`
	Patient             primitive.ObjectID `json:"patient" bson:"patient"`
	Hospital            primitive.ObjectID `json:"hospital" bson:"hospital"`
	Title               string             `json:"title" bson:"title"`
	Description         string             `json:"description" bson:"description"`
	ReportType          string             `json:"reportType" bson:"reportType"`
	ReportDate          primitive.DateTime `json:"reportDate" bson:"reportDate"`
	ReportFileURL       string             `json:"reportFileUrl" bson:"reportFileUrl"`
	CreatedBy           primitive.ObjectID `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	AICategory          string             `json:"aiCategory,omitempty" bson:"aiCategory,omitempty"`
	AIPanels            []string           `json:"aiPanels,omitempty" bson:"aiPanels,omitempty"`
	AISummary           string             `json:"aiSummary,omitempty" bson:"aiSummary,omitempty"`
	AIHealthSuggestions []string           `json:"aiHealthSuggestions,omitempty" bson:"aiHealthSuggestions,omitempty"`
	CreatedAt           primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt           primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// ReportAnnotation is the trimmed projection of a report that the summary
// aggregator consumes, selected most-recent-first.
type ReportAnnotation struct {
	ID                  primitive.ObjectID `json:"_id" bson:"_id"`
	Title               string             `json:"title" bson:"title"`
	ReportDate          primitive.DateTime `json:"reportDate" bson:"reportDate"`
	ReportType          string             `json:"reportType" bson:"reportType"`
	AICategory          string             `json:"aiCategory,omitempty" bson:"aiCategory,omitempty"`
	AIPanels            []string           `json:"aiPanels,omitempty" bson:"aiPanels,omitempty"`
	AISummary           string             `json:"aiSummary,omitempty" bson:"aiSummary,omitempty"`
	AIHealthSuggestions []string           `json:"aiHealthSuggestions,omitempty" bson:"aiHealthSuggestions,omitempty"`
}

// ReportListResponse represents the API response for report list endpoints
type ReportListResponse struct {
	Count   int      `json:"count"`
	Reports []Report `json:"reports"`
}

// ValidReportType reports whether t is one of the accepted report types
func ValidReportType(t string) bool {
	switch t {
	case ReportTypeLab, ReportTypeScan, ReportTypePrescription,
		ReportTypeConsultation, ReportTypeSurgery, ReportTypeOther:
		return true
	}
	return false
}
