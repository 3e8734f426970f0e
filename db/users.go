package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// firstMatch sorts the matching documents so every query on a non unique
// email resolves to the same (oldest) record.
var firstMatch = bson.D{{Key: "_id", Value: 1}}

// UserByEmail method returns the first user with the given email. If the user
// doesn't exist, it returns ErrNotFound.
func (ms *MongoStorage) UserByEmail(ctx context.Context, email string) (*User, error) {
	result := ms.users.FindOne(ctx, bson.M{"email": email}, options.FindOne().SetSort(firstMatch))
	user := &User{}
	if err := result.Decode(user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// SetUser method creates the user if no record with its email exists, or
// updates the name and credits of the first record with that email.
func (ms *MongoStorage) SetUser(user *User) error {
	if user == nil || user.Email == "" || user.Credits < 0 {
		return ErrInvalidData
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	existing, err := ms.UserByEmail(ctx, user.Email)
	switch {
	case errors.Is(err, ErrNotFound):
		if user.CreatedAt.IsZero() {
			user.CreatedAt = time.Now()
		}
		if _, err := ms.users.InsertOne(ctx, user); err != nil {
			return fmt.Errorf("could not create user: %w", err)
		}
		return nil
	case err != nil:
		return err
	}
	update := bson.M{"$set": bson.M{"name": user.Name, "credits": user.Credits}}
	if _, err := ms.users.UpdateByID(ctx, existing.ID, update); err != nil {
		return fmt.Errorf("could not update user: %w", err)
	}
	return nil
}

// AddUserCredits atomically increments the credits of the first user with
// the given email and stamps the last purchase metadata. It returns the
// updated record, or ErrNotFound without writing anything if no user matches.
func (ms *MongoStorage) AddUserCredits(ctx context.Context, email string, amount int64,
	packageName string, at time.Time,
) (*User, error) {
	if email == "" || amount <= 0 {
		return nil, ErrInvalidData
	}
	update := bson.M{
		"$inc": bson.M{"credits": amount},
		"$set": bson.M{
			"lastPurchase": at,
			"lastPackage":  packageName,
		},
	}
	opts := options.FindOneAndUpdate().
		SetSort(firstMatch).
		SetReturnDocument(options.After)
	user := &User{}
	if err := ms.users.FindOneAndUpdate(ctx, bson.M{"email": email}, update, opts).Decode(user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}
