package validators

import "go.mongodb.org/mongo-driver/bson"

var SiteValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"_id",
			"name",
			"address",
			"pricePerHour",
			"location",
			"createdAt",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 64,
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 200,
			},

			"address": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 300,
			},

			"pricePerHour": bson.M{
				"bsonType": []string{"double", "int", "long"},
				"minimum":  0,
			},

			"spotsAvailable": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},

			"location": bson.M{
				"bsonType": "object",
				"required": []string{"lat", "lng"},
				"properties": bson.M{
					"lat": bson.M{"bsonType": "double", "minimum": -90, "maximum": 90},
					"lng": bson.M{"bsonType": "double", "minimum": -180, "maximum": 180},
				},
			},

			"features": bson.M{
				"bsonType": []string{"array", "null"},
				"items":    bson.M{"bsonType": "string"},
			},

			"rating": bson.M{
				"bsonType": "double",
				"minimum":  0,
				"maximum":  5,
			},

			"createdAt": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var SlotValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"_id",
			"parkingSpotID",
			"slotNumber",
			"floor",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"parkingSpotID": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 64,
			},

			"slotNumber": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 16,
			},

			"isAvailable": bson.M{
				"bsonType": "bool",
			},

			"type": bson.M{
				"bsonType": "string",
			},

			"floor": bson.M{
				"bsonType": []string{"int", "long"},
			},
		},
	},
}
