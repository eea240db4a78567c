package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medibridge/medibridge-api/databases/mocks"
	"github.com/medibridge/medibridge-api/models"
)

func TestHospitalByIDHandlerNotFound(t *testing.T) {
	hdb := &mocks.HospitalDatabase{}
	hdb.On("GetHospitalByID", mock.Anything, mock.Anything).
		Return(nil, errors.New("mongo: no documents in result"))

	h := Hospital{HDB: hdb}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/hospital/abc", nil)
	req = mux.SetURLVars(req, map[string]string{"hospital_id": "abc"})
	rr := httptest.NewRecorder()

	h.HospitalByIDHandler(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHospitalByIDHandler(t *testing.T) {
	hospital := &models.Hospital{ID: primitive.NewObjectID(), Name: "City General", Email: "admin@citygeneral.org"}

	hdb := &mocks.HospitalDatabase{}
	hdb.On("GetHospitalByID", mock.Anything, hospital.ID.Hex()).Return(hospital, nil)

	h := Hospital{HDB: hdb}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/hospital/"+hospital.ID.Hex(), nil)
	req = mux.SetURLVars(req, map[string]string{"hospital_id": hospital.ID.Hex()})
	rr := httptest.NewRecorder()

	h.HospitalByIDHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "City General")
}

func TestCreateHospitalHandlerMissingFields(t *testing.T) {
	h := Hospital{HDB: &mocks.HospitalDatabase{}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/hospital", bytes.NewReader([]byte(`{"name": "City General"}`)))
	rr := httptest.NewRecorder()

	h.CreateHospitalHandler(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateHospitalHandler(t *testing.T) {
	hdb := &mocks.HospitalDatabase{}
	hdb.On("CreateHospital", mock.Anything, mock.Anything).Return(nil)

	h := Hospital{HDB: hdb}

	body := []byte(`{"name": "City General", "email": "admin@citygeneral.org"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/hospital", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	h.CreateHospitalHandler(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	hdb.AssertExpectations(t)
}
