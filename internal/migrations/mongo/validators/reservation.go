package validators

import "go.mongodb.org/mongo-driver/bson"

var ReservationValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"_id",
			"userID",
			"parkingSpotID",
			"slotNumber",
			"startTime",
			"endTime",
			"status",
			"totalPrice",
			"createdAt",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
			},

			"userID": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 128,
			},

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

			"vehicleID": bson.M{
				"bsonType":  "string",
				"maxLength": 32,
			},

			"startTime": bson.M{
				"bsonType": "date",
			},

			"endTime": bson.M{
				"bsonType": "date",
			},

			"status": bson.M{
				"enum": []string{"active", "completed", "cancelled"},
			},

			"totalPrice": bson.M{
				"bsonType": []string{"double", "int", "long"},
				"minimum":  0,
			},

			"paymentID": bson.M{
				"bsonType": "string",
			},

			"extensionPaymentIDs": bson.M{
				"bsonType": "array",
				"items":    bson.M{"bsonType": "string"},
			},

			"cancellationReason": bson.M{
				"bsonType":  "string",
				"maxLength": 500,
			},

			"cancelledAt": bson.M{
				"bsonType": "date",
			},

			"completedAt": bson.M{
				"bsonType": "date",
			},

			"lastExtendedAt": bson.M{
				"bsonType": "date",
			},

			"createdAt": bson.M{
				"bsonType": "date",
			},
		},
	},
}
