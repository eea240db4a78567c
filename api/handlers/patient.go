package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/medibridge/medibridge-api/api"
	"github.com/medibridge/medibridge-api/config"
	"github.com/medibridge/medibridge-api/databases"
	"github.com/medibridge/medibridge-api/models"
)

// qrTokenTTL is how long a printed emergency QR code stays valid
const qrTokenTTL = 90 * 24 * time.Hour

// Summarizer produces the short emergency-card summary for one patient
type Summarizer interface {
	Summarize(ctx context.Context, patient *models.Patient) string
}

// Patient handles patient-facing and emergency-profile requests
type Patient struct {
	PDB         databases.PatientDatabase
	Pipeline    AIPipeline
	Summarizer  Summarizer
	TokenSecret string
}

// EmergencyProfileHandler resolves a QR token into the public emergency view
// of a patient. No authentication: the token in the QR code is the only
// credential a first responder has.
func (p Patient) EmergencyProfileHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	tokenString := mux.Vars(r)["qr_token"]

	patientID, err := p.parseQRToken(tokenString)
	if err != nil {
		config.ErrorStatus("invalid or expired QR token", http.StatusUnauthorized, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	patient, err := p.PDB.GetPatientByID(ctx, patientID)
	if err != nil {
		config.ErrorStatus("patient not found", http.StatusNotFound, w, err)
		return
	}

	profile := models.EmergencyProfile{
		FullName:          patient.FullName,
		Age:               patient.Age,
		Gender:            patient.Gender,
		BloodGroup:        patient.BloodGroup,
		Allergies:         orEmpty(patient.Allergies),
		MedicalConditions: orEmpty(patient.MedicalConditions),
		Medications:       orEmpty(patient.Medications),
		RiskLevel:         patient.RiskLevel,
		EmergencyContact:  patient.EmergencyContact,
		AISummary:         patient.AISummary,
	}

	if err := json.NewEncoder(w).Encode(profile); err != nil {
		zap.S().With(err).Error("failed to encode emergency profile")
	}
}

// CreateQRTokenHandler mints a signed QR token for the patient's emergency
// profile. Restricted to staff of the patient's hospital.
func (p Patient) CreateQRTokenHandler(w http.ResponseWriter, r *http.Request) {
	patientID := mux.Vars(r)["patient_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	patient, err := p.PDB.GetPatientByID(ctx, patientID)
	if err != nil {
		config.ErrorStatus("patient not found", http.StatusNotFound, w, err)
		return
	}
	if !canAccessHospital(r.Context(), patient.Hospital) {
		config.ErrorStatus("patient belongs to another hospital", http.StatusForbidden, w, errWrongHospital)
		return
	}

	claims := jwt.RegisteredClaims{
		Subject:   patient.ID.Hex(),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(qrTokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(p.TokenSecret))
	if err != nil {
		config.ErrorStatus("failed to sign QR token", http.StatusInternalServerError, w, err)
		return
	}

	response := map[string]string{
		"qrToken": signed,
		"url":     fmt.Sprintf("/emergency/%s", signed),
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		zap.S().With(err).Error("failed to encode QR token response")
	}
}

// RegenerateSummaryHandler rebuilds the patient's emergency summary on demand
func (p Patient) RegenerateSummaryHandler(w http.ResponseWriter, r *http.Request) {
	patientID := mux.Vars(r)["patient_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	patient, err := p.PDB.GetPatientByID(ctx, patientID)
	if err != nil {
		config.ErrorStatus("patient not found", http.StatusNotFound, w, err)
		return
	}
	if !canAccessHospital(r.Context(), patient.Hospital) {
		config.ErrorStatus("patient belongs to another hospital", http.StatusForbidden, w, errWrongHospital)
		return
	}

	summary := p.Summarizer.Summarize(r.Context(), patient)
	if summary == "" {
		config.ErrorStatus("failed to generate emergency summary", http.StatusInternalServerError, w, errors.New("summarizer returned nothing"))
		return
	}

	if err := p.PDB.UpdateEmergencySummary(ctx, patientID, summary); err != nil {
		config.ErrorStatus("failed to store emergency summary", http.StatusInternalServerError, w, err)
		return
	}

	if err := json.NewEncoder(w).Encode(map[string]string{"aiSummary": summary}); err != nil {
		zap.S().With(err).Error("failed to encode summary response")
	}
}

func (p Patient) parseQRToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(p.TokenSecret), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}

func orEmpty(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
