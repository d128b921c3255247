package model

import (
	"time"
)

// Bookable resources. These collections are owned by the catalog services;
// this slice reads them for existence and date constraints only.

type Activity struct {
	ID    string    `json:"id,omitempty" bson:"_id,omitempty"`
	Name  string    `json:"name" bson:"name"`
	Date  time.Time `json:"date" bson:"date"`
	Price float64   `json:"price" bson:"price"`
}

type Itinerary struct {
	ID             string      `json:"id,omitempty" bson:"_id,omitempty"`
	Name           string      `json:"name" bson:"name"`
	GuideID        string      `json:"guideId" bson:"guide_id"`
	AvailableDates []time.Time `json:"availableDates" bson:"available_dates"`
	Price          float64     `json:"price" bson:"price"`
}

type HistoricalPlace struct {
	ID   string `json:"id,omitempty" bson:"_id,omitempty"`
	Name string `json:"name" bson:"name"`
}

type Product struct {
	ID         string  `json:"id,omitempty" bson:"_id,omitempty"`
	Name       string  `json:"name" bson:"name"`
	Price      float64 `json:"price" bson:"price"`
	Quantity   int     `json:"quantity" bson:"quantity"`
	TotalSales int     `json:"totalSales" bson:"total_sales"`
	SellerID   string  `json:"sellerId,omitempty" bson:"seller_id,omitempty"`
}

// Tourist carries the wallet balance debited by purchases and credited by
// refunds, and the birth date consulted by birthday promo codes.
type Tourist struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty"`
	Username    string    `json:"username" bson:"username"`
	Email       string    `json:"email" bson:"email"`
	Wallet      float64   `json:"wallet" bson:"wallet"`
	DateOfBirth time.Time `json:"dateOfBirth" bson:"date_of_birth"`
}
