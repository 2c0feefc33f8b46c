package validators

import "go.mongodb.org/mongo-driver/bson"

var PaymentValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"_id",
			"userID",
			"amount",
			"status",
			"paymentMethod",
			"type",
			"createdAt",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"userID": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 128,
			},

			"reservationID": bson.M{
				"bsonType": "string",
			},

			"amount": bson.M{
				"bsonType":         []string{"double", "int", "long"},
				"exclusiveMinimum": 0,
			},

			"status": bson.M{
				"bsonType": "string",
			},

			"paymentMethod": bson.M{
				"enum": []string{"wallet", "cash", "creditCard", "paypal", "applePay", "googlePay"},
			},

			"type": bson.M{
				"enum": []string{"booking", "extension"},
			},

			"transactionID": bson.M{
				"bsonType": "string",
			},

			"createdAt": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var FavoriteValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"_id", "userID", "parkingSpotID", "addedAt"},
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
			"addedAt": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var SlotLockValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"_id", "owner", "expires_at"},
		"properties": bson.M{
			"owner":      bson.M{"bsonType": "string"},
			"expires_at": bson.M{"bsonType": "date"},
			"created_at": bson.M{"bsonType": "date"},
		},
	},
}
