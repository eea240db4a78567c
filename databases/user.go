package databases

// go generate: mockery --name UserDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/medibridge/medibridge-api/models"
)

const userCollection = "users"

// UserDatabase contains the methods to use with the user database
type UserDatabase interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	InsertUser(ctx context.Context, details models.UserDetails) (interface{}, error)
}

type userDatabase struct {
	db DatabaseHelper
}

// NewUserDatabase initializes a new instance of user database with the provided db connection
func NewUserDatabase(db DatabaseHelper) UserDatabase {
	return &userDatabase{
		db: db,
	}
}

func (u *userDatabase) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := u.db.Collection(userCollection).FindOne(ctx, bson.M{"user.email": email}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *userDatabase) InsertUser(ctx context.Context, details models.UserDetails) (interface{}, error) {
	type doc struct {
		User models.UserDetails `bson:"user"`
	}
	return u.db.Collection(userCollection).InsertOne(ctx, doc{User: details})
}
