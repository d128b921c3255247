package validators

import "go.mongodb.org/mongo-driver/bson"

// The resource collections are owned by the catalog services. The validators
// here pin down only the fields this slice reads.

var ActivityValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"name", "date"},
		"additionalProperties": true,

		"properties": bson.M{
			"_id":  bson.M{"bsonType": "objectId"},
			"name": bson.M{"bsonType": "string", "minLength": 1},
			"date": bson.M{"bsonType": "date"},
			"price": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},
		},
	},
}

var ItineraryValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"name", "guide_id"},
		"additionalProperties": true,

		"properties": bson.M{
			"_id":      bson.M{"bsonType": "objectId"},
			"name":     bson.M{"bsonType": "string", "minLength": 1},
			"guide_id": bson.M{"bsonType": "string"},
			"available_dates": bson.M{
				"bsonType": "array",
				"items":    bson.M{"bsonType": "date"},
			},
			"price": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},
		},
	},
}

var HistoricalPlaceValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"name"},
		"additionalProperties": true,

		"properties": bson.M{
			"_id":  bson.M{"bsonType": "objectId"},
			"name": bson.M{"bsonType": "string", "minLength": 1},
		},
	},
}
