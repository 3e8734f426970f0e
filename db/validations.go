package db

import "go.mongodb.org/mongo-driver/bson"

var collectionsValidators = map[string]bson.M{
	"users": usersCollectionValidator,
}

var usersCollectionValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"_id", "email", "credits"},
		"properties": bson.M{
			"email": bson.M{
				"bsonType":    "string",
				"description": "must be an email and is required",
				"pattern":     `^[^@\s]+@[^@\s]+$`,
			},
			"credits": bson.M{
				"bsonType":    []string{"int", "long"},
				"description": "must be a non negative integer and is required",
				"minimum":     0,
			},
		},
	},
}
