package db

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the credit record of a user, keyed by email.
type User struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email        string             `json:"email" bson:"email"`
	Name         string             `json:"name" bson:"name"`
	Credits      int64              `json:"credits" bson:"credits"`
	LastPurchase time.Time          `json:"lastPurchase" bson:"lastPurchase,omitempty"`
	LastPackage  string             `json:"lastPackage" bson:"lastPackage,omitempty"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
}
