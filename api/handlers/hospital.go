package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/medibridge/medibridge-api/api"
	"github.com/medibridge/medibridge-api/config"
	"github.com/medibridge/medibridge-api/databases"
	"github.com/medibridge/medibridge-api/models"
)

// Hospital handles hospital-related requests
type Hospital struct {
	HDB databases.HospitalDatabase
}

// HospitalByIDHandler returns a single hospital
func (h Hospital) HospitalByIDHandler(w http.ResponseWriter, r *http.Request) {
	hospitalID := mux.Vars(r)["hospital_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	hospital, err := h.HDB.GetHospitalByID(ctx, hospitalID)
	if err != nil {
		config.ErrorStatus("hospital not found", http.StatusNotFound, w, err)
		return
	}

	if err := json.NewEncoder(w).Encode(hospital); err != nil {
		zap.S().With(err).Error("failed to encode hospital response")
	}
}

// CreateHospitalHandler registers a new hospital
func (h Hospital) CreateHospitalHandler(w http.ResponseWriter, r *http.Request) {
	var hospital models.Hospital
	if err := json.NewDecoder(r.Body).Decode(&hospital); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if hospital.Name == "" || hospital.Email == "" {
		config.ErrorStatus("name and email are required", http.StatusBadRequest, w, errMissingFields)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := h.HDB.CreateHospital(ctx, &hospital); err != nil {
		config.ErrorStatus("failed to create hospital", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(hospital); err != nil {
		zap.S().With(err).Error("failed to encode hospital response")
	}
}
