package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles recognized by the role middleware
const (
	RoleHospitalAdmin = "HOSPITAL_ADMIN"
	RolePatient       = "PATIENT"
	RoleSuperAdmin    = "SUPER_ADMIN"
)

// User holds the structure for the users collection in mongo
type User struct {
	ID      string      `json:"_id" bson:"_id"`
	Details UserDetails `json:"user" bson:"user"`
	Version int32       `json:"__v" bson:"__v"`
}

// UserDetails holds the inner structure for the user document
type UserDetails struct {
	Name     string             `json:"name" bson:"name"`
	Email    string             `json:"email" bson:"email"`
	Password string             `json:"password" bson:"password"`
	Role     string             `json:"role" bson:"role"`
	Hospital primitive.ObjectID `json:"hospital,omitempty" bson:"hospital,omitempty"`
	Patient  primitive.ObjectID `json:"patient,omitempty" bson:"patient,omitempty"`
}
