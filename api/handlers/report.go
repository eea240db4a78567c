package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/medibridge/medibridge-api/ai"
	"github.com/medibridge/medibridge-api/api"
	"github.com/medibridge/medibridge-api/config"
	"github.com/medibridge/medibridge-api/databases"
	"github.com/medibridge/medibridge-api/models"
)

var (
	errMissingFields     = errors.New("missing required fields")
	errInvalidReportType = errors.New("reportType must be one of Lab, Scan, Prescription, Consultation, Surgery, Other")
	errWrongHospital     = errors.New("hospital mismatch")
)

// AIPipeline is the slice of the background pipeline the report handlers use
type AIPipeline interface {
	AnnotateReport(reportID, patientID primitive.ObjectID, fileURL, mimeType string)
	ScheduleAggregation(patientID string)
	ClassifyFile(ctx context.Context, fileURL, mimeType string) ai.Classification
	RunAggregation(ctx context.Context, patientID string) (*models.PatientAggregate, error)
}

// Report handles report-related requests
type Report struct {
	RDB      databases.ReportDatabase
	PDB      databases.PatientDatabase
	Pipeline AIPipeline
}

type createReportRequest struct {
	PatientID     string `json:"patientId"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	ReportType    string `json:"reportType"`
	ReportDate    string `json:"reportDate"`
	ReportFileURL string `json:"reportFileUrl"`
	FileMimeType  string `json:"fileMimeType"`
}

// CreateReportHandler creates a new report and kicks off annotation in the
// background. The response never waits on the AI.
func (re Report) CreateReportHandler(w http.ResponseWriter, r *http.Request) {
	var req createReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if req.Title == "" || req.PatientID == "" {
		config.ErrorStatus("title and patientId are required", http.StatusBadRequest, w, errMissingFields)
		return
	}
	if req.ReportType != "" && !models.ValidReportType(req.ReportType) {
		config.ErrorStatus("invalid reportType", http.StatusBadRequest, w, errInvalidReportType)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	patient, err := re.PDB.GetPatientByID(ctx, req.PatientID)
	if err != nil {
		config.ErrorStatus("patient not found", http.StatusNotFound, w, err)
		return
	}

	if !canAccessHospital(r.Context(), patient.Hospital) {
		config.ErrorStatus("report belongs to another hospital", http.StatusForbidden, w, errWrongHospital)
		return
	}

	report := &models.Report{
		Patient:       patient.ID,
		Hospital:      patient.Hospital,
		Title:         req.Title,
		Description:   req.Description,
		ReportType:    req.ReportType,
		ReportDate:    parseReportDate(req.ReportDate),
		ReportFileURL: req.ReportFileURL,
	}

	if err := re.RDB.CreateReport(ctx, report); err != nil {
		config.ErrorStatus("failed to create report", http.StatusInternalServerError, w, err)
		return
	}

	// annotation is best-effort and must not delay the response. File-less
	// reports still feed the combined summary, so they schedule aggregation
	// directly.
	if re.Pipeline != nil {
		if report.ReportFileURL != "" {
			re.Pipeline.AnnotateReport(report.ID, report.Patient, report.ReportFileURL, req.FileMimeType)
		} else {
			re.Pipeline.ScheduleAggregation(report.Patient.Hex())
		}
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(report); err != nil {
		zap.S().With(err).Error("failed to encode report response")
	}
}

// ReportByIDHandler returns a single report
func (re Report) ReportByIDHandler(w http.ResponseWriter, r *http.Request) {
	reportID := mux.Vars(r)["report_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	report, err := re.RDB.GetReportByID(ctx, reportID)
	if err != nil {
		config.ErrorStatus("report not found", http.StatusNotFound, w, err)
		return
	}

	if !canAccessHospital(r.Context(), report.Hospital) {
		config.ErrorStatus("report belongs to another hospital", http.StatusForbidden, w, errWrongHospital)
		return
	}

	if err := json.NewEncoder(w).Encode(report); err != nil {
		zap.S().With(err).Error("failed to encode report response")
	}
}

// UpdateReportHandler updates a report's user-editable fields. The ai*
// annotations are owned by the pipeline and cannot be changed here.
func (re Report) UpdateReportHandler(w http.ResponseWriter, r *http.Request) {
	reportID := mux.Vars(r)["report_id"]

	var req createReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.ReportType != "" && !models.ValidReportType(req.ReportType) {
		config.ErrorStatus("invalid reportType", http.StatusBadRequest, w, errInvalidReportType)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	existing, err := re.RDB.GetReportByID(ctx, reportID)
	if err != nil {
		config.ErrorStatus("report not found", http.StatusNotFound, w, err)
		return
	}
	if !canAccessHospital(r.Context(), existing.Hospital) {
		config.ErrorStatus("report belongs to another hospital", http.StatusForbidden, w, errWrongHospital)
		return
	}

	existing.Title = valueOr(req.Title, existing.Title)
	existing.Description = valueOr(req.Description, existing.Description)
	existing.ReportType = valueOr(req.ReportType, existing.ReportType)
	existing.ReportFileURL = valueOr(req.ReportFileURL, existing.ReportFileURL)
	if req.ReportDate != "" {
		existing.ReportDate = parseReportDate(req.ReportDate)
	}

	if err := re.RDB.UpdateReportCore(ctx, reportID, existing); err != nil {
		config.ErrorStatus("failed to update report", http.StatusInternalServerError, w, err)
		return
	}

	// edits feed the combined summary, so the aggregate is recomputed after
	// every update. Annotations are only recomputed when the caller passes a
	// fileMimeType, otherwise the existing ones stand.
	if re.Pipeline != nil {
		if existing.ReportFileURL != "" && req.FileMimeType != "" {
			re.Pipeline.AnnotateReport(existing.ID, existing.Patient, existing.ReportFileURL, req.FileMimeType)
		} else {
			re.Pipeline.ScheduleAggregation(existing.Patient.Hex())
		}
	}

	if err := json.NewEncoder(w).Encode(existing); err != nil {
		zap.S().With(err).Error("failed to encode report response")
	}
}

// DeleteReportHandler deletes a report
func (re Report) DeleteReportHandler(w http.ResponseWriter, r *http.Request) {
	reportID := mux.Vars(r)["report_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	existing, err := re.RDB.GetReportByID(ctx, reportID)
	if err != nil {
		config.ErrorStatus("report not found", http.StatusNotFound, w, err)
		return
	}
	if !canAccessHospital(r.Context(), existing.Hospital) {
		config.ErrorStatus("report belongs to another hospital", http.StatusForbidden, w, errWrongHospital)
		return
	}

	if err := re.RDB.DeleteReport(ctx, reportID); err != nil {
		config.ErrorStatus("failed to delete report", http.StatusInternalServerError, w, err)
		return
	}

	w.Write([]byte(`{"message": "Report deleted successfully"}`))
}

// ReportsByPatientIDHandler lists all of a patient's reports, newest first
func (re Report) ReportsByPatientIDHandler(w http.ResponseWriter, r *http.Request) {
	patientID := mux.Vars(r)["patient_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	patient, err := re.PDB.GetPatientByID(ctx, patientID)
	if err != nil {
		config.ErrorStatus("patient not found", http.StatusNotFound, w, err)
		return
	}
	if !canAccessHospital(r.Context(), patient.Hospital) {
		config.ErrorStatus("patient belongs to another hospital", http.StatusForbidden, w, errWrongHospital)
		return
	}

	reports, err := re.RDB.GetReportsByPatientID(ctx, patientID)
	if err != nil {
		config.ErrorStatus("failed to get reports", http.StatusInternalServerError, w, err)
		return
	}

	response := models.ReportListResponse{
		Count:   len(reports),
		Reports: reports,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		zap.S().With(err).Error("failed to encode reports response")
	}
}

type validateUploadRequest struct {
	FileURL      string `json:"fileUrl"`
	FileMimeType string `json:"fileMimeType"`
}

// ValidateUploadHandler classifies an already-uploaded file synchronously so
// the client can show the detected category before the report is created.
func (re Report) ValidateUploadHandler(w http.ResponseWriter, r *http.Request) {
	var req validateUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.FileURL == "" {
		config.ErrorStatus("fileUrl is required", http.StatusBadRequest, w, errMissingFields)
		return
	}

	result := re.Pipeline.ClassifyFile(r.Context(), req.FileURL, req.FileMimeType)

	if err := json.NewEncoder(w).Encode(result); err != nil {
		zap.S().With(err).Error("failed to encode classification response")
	}
}

type overallAnalysisRequest struct {
	PatientID string `json:"patientId"`
}

// OverallAnalysisHandler regenerates the patient's combined summary
// synchronously and returns it
func (re Report) OverallAnalysisHandler(w http.ResponseWriter, r *http.Request) {
	var req overallAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.PatientID == "" {
		config.ErrorStatus("patientId is required", http.StatusBadRequest, w, errMissingFields)
		return
	}

	aggregate, err := re.Pipeline.RunAggregation(r.Context(), req.PatientID)
	if err != nil {
		config.ErrorStatus("failed to generate overall analysis", http.StatusInternalServerError, w, err)
		return
	}
	if aggregate == nil {
		w.Write([]byte(`{"message": "no reports to analyze"}`))
		return
	}

	if err := json.NewEncoder(w).Encode(aggregate); err != nil {
		zap.S().With(err).Error("failed to encode analysis response")
	}
}

func parseReportDate(s string) primitive.DateTime {
	if s == "" {
		return 0
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0
	}
	return primitive.NewDateTimeFromTime(t)
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// canAccessHospital reports whether the authenticated user may touch data
// owned by the given hospital. Super admins may touch everything.
func canAccessHospital(ctx context.Context, hospital primitive.ObjectID) bool {
	if api.UserRole(ctx) == models.RoleSuperAdmin {
		return true
	}
	userHospital := api.UserHospitalID(ctx)
	// legacy users without a hospital binding are not restricted
	if userHospital == "" {
		return true
	}
	return userHospital == hospital.Hex()
}
