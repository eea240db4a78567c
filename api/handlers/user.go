package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/medibridge/medibridge-api/api"
	"github.com/medibridge/medibridge-api/config"
	"github.com/medibridge/medibridge-api/databases"
	"github.com/medibridge/medibridge-api/models"
)

var (
	errInvalidRole    = errors.New("role must be one of HOSPITAL_ADMIN, PATIENT, SUPER_ADMIN")
	errDuplicateEmail = errors.New("email already registered")
)

// User handles account registration
type User struct {
	UDB databases.UserDatabase
}

type registerUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Hospital string `json:"hospital"`
	Patient  string `json:"patient"`
}

func validRole(role string) bool {
	switch role {
	case models.RoleHospitalAdmin, models.RolePatient, models.RoleSuperAdmin:
		return true
	}
	return false
}

// RegisterUserHandler creates a login account. The password is stored
// bcrypt-hashed, matching what the basic-auth strategy compares against.
func (u User) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	var req registerUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		config.ErrorStatus("email and password are required", http.StatusBadRequest, w, errMissingFields)
		return
	}
	if !validRole(req.Role) {
		config.ErrorStatus("invalid role", http.StatusBadRequest, w, errInvalidRole)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if _, err := u.UDB.FindUserByEmail(ctx, req.Email); err == nil {
		config.ErrorStatus("a user with this email already exists", http.StatusConflict, w, errDuplicateEmail)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		config.ErrorStatus("failed to hash password", http.StatusInternalServerError, w, err)
		return
	}

	details := models.UserDetails{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Role:     req.Role,
	}
	if req.Hospital != "" {
		hospitalID, err := primitive.ObjectIDFromHex(req.Hospital)
		if err != nil {
			config.ErrorStatus("invalid hospital id", http.StatusBadRequest, w, err)
			return
		}
		details.Hospital = hospitalID
	}
	if req.Patient != "" {
		patientID, err := primitive.ObjectIDFromHex(req.Patient)
		if err != nil {
			config.ErrorStatus("invalid patient id", http.StatusBadRequest, w, err)
			return
		}
		details.Patient = patientID
	}

	if _, err := u.UDB.InsertUser(ctx, details); err != nil {
		config.ErrorStatus("failed to create user", http.StatusInternalServerError, w, err)
		return
	}

	zap.S().Infow("user registered", "email", req.Email, "role", req.Role)
	w.WriteHeader(http.StatusCreated)
	w.Write([]byte(`{"message": "user created"}`))
}
