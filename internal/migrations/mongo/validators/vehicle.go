package validators

import "go.mongodb.org/mongo-driver/bson"

var VehicleValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"_id", "userID", "brand", "name", "plate", "createdAt"},
		"additionalProperties": true,

		"properties": bson.M{
			"userID": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 128,
			},
			"brand": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 64,
			},
			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 64,
			},
			"type": bson.M{
				"enum": []string{"Sedan", "SUV", "MPV"},
			},
			"plate": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 16,
			},
			"image": bson.M{
				"bsonType": "string",
			},
			"createdAt": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var ReviewValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"_id", "userID", "parkingSpotID", "rating", "createdAt"},
		"additionalProperties": true,

		"properties": bson.M{
			"userID": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},
			"parkingSpotID": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},
			"rating": bson.M{
				"bsonType": []string{"double", "int", "long"},
				"minimum":  1,
				"maximum":  5,
			},
			"comment": bson.M{
				"bsonType":  "string",
				"maxLength": 1000,
			},
			"createdAt": bson.M{
				"bsonType": "date",
			},
		},
	},
}
