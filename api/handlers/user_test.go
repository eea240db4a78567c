package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/medibridge/medibridge-api/databases/mocks"
	"github.com/medibridge/medibridge-api/models"
)

func TestRegisterUserHandlerMissingFields(t *testing.T) {
	u := User{UDB: &mocks.UserDatabase{}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/user", bytes.NewReader([]byte(`{"email": "a@b.org"}`)))
	rr := httptest.NewRecorder()

	u.RegisterUserHandler(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRegisterUserHandlerInvalidRole(t *testing.T) {
	u := User{UDB: &mocks.UserDatabase{}}

	body := []byte(`{"email": "a@b.org", "password": "hunter22", "role": "WIZARD"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/user", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	u.RegisterUserHandler(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid role")
}

func TestRegisterUserHandlerDuplicateEmail(t *testing.T) {
	udb := &mocks.UserDatabase{}
	udb.On("FindUserByEmail", mock.Anything, "a@b.org").Return(&models.User{ID: "existing"}, nil)

	u := User{UDB: udb}

	body := []byte(`{"email": "a@b.org", "password": "hunter22", "role": "PATIENT"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/user", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	u.RegisterUserHandler(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	udb.AssertNotCalled(t, "InsertUser", mock.Anything, mock.Anything)
}

func TestRegisterUserHandlerHashesPassword(t *testing.T) {
	udb := &mocks.UserDatabase{}
	udb.On("FindUserByEmail", mock.Anything, "admin@citygeneral.org").
		Return(nil, errors.New("mongo: no documents in result"))

	var stored models.UserDetails
	udb.On("InsertUser", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(models.UserDetails)
		}).
		Return("inserted-id", nil)

	u := User{UDB: udb}

	body := []byte(`{"name": "Admin", "email": "admin@citygeneral.org", "password": "hunter22", "role": "HOSPITAL_ADMIN"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/user", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	u.RegisterUserHandler(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, models.RoleHospitalAdmin, stored.Role)
	assert.NotEqual(t, "hunter22", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("hunter22")))
}
