package validators

import "go.mongodb.org/mongo-driver/bson"

var PurchaseValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"user_id",
			"product_id",
			"quantity",
			"total_price",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"product_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"quantity": bson.M{
				"bsonType": "int",
				"minimum":  1,
			},

			"total_price": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"processing",
					"on_the_way",
					"delivered",
					"cancelled",
				},
			},

			"tracking_updates": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"status", "timestamp"},
					"properties": bson.M{
						"status":    bson.M{"bsonType": "string"},
						"message":   bson.M{"bsonType": "string"},
						"timestamp": bson.M{"bsonType": "date"},
					},
				},
			},

			"review": bson.M{
				"bsonType": "object",
				"required": []string{"rating"},
				"properties": bson.M{
					"rating":  bson.M{"bsonType": "int", "minimum": 1, "maximum": 5},
					"comment": bson.M{"bsonType": "string", "maxLength": 2000},
					"date":    bson.M{"bsonType": "date"},
				},
			},

			"promo_code": bson.M{
				"bsonType": "string",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var ProductValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"price",
			"quantity",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"price": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"quantity": bson.M{
				"bsonType": "int",
				"minimum":  0,
			},

			"total_sales": bson.M{
				"bsonType": "int",
				"minimum":  0,
			},

			"seller_id": bson.M{
				"bsonType": "string",
			},
		},
	},
}

var TouristValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"username",
			"wallet",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"username": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"email": bson.M{
				"bsonType": "string",
			},

			"wallet": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"date_of_birth": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var PromoCodeValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"code",
			"discount",
			"is_active",
			"usage_limit",
			"used_count",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"code": bson.M{
				"bsonType":  "string",
				"minLength": 3,
				"maxLength": 32,
			},

			"discount": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
				"maximum":  100,
			},

			"is_active": bson.M{
				"bsonType": "bool",
			},

			"expiry_date": bson.M{
				"bsonType": "date",
			},

			"usage_limit": bson.M{
				"bsonType": "int",
				"minimum":  1,
			},

			"used_count": bson.M{
				"bsonType": "int",
				"minimum":  0,
			},

			"type": bson.M{
				"bsonType": "string",
			},

			"user_id": bson.M{
				"bsonType": "string",
			},
		},
	},
}
