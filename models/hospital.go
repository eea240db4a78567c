package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Hospital holds the structure for the hospitals collection in mongo
type Hospital struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	Name      string             `json:"name" bson:"name"`
	Email     string             `json:"email" bson:"email"`
	Address   string             `json:"address,omitempty" bson:"address,omitempty"`
	Phone     string             `json:"phone,omitempty" bson:"phone,omitempty"`
	AdminUser primitive.ObjectID `json:"adminUser,omitempty" bson:"adminUser,omitempty"`
	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}
