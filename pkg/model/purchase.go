package model

import (
	"time"
)

type PurchaseStatus string

const (
	PurchaseStatusProcessing PurchaseStatus = "processing"
	PurchaseStatusOnTheWay   PurchaseStatus = "on_the_way"
	PurchaseStatusDelivered  PurchaseStatus = "delivered"
	PurchaseStatusCancelled  PurchaseStatus = "cancelled"
)

// Terminal reports whether no further status transitions are allowed.
func (s PurchaseStatus) Terminal() bool {
	return s == PurchaseStatusDelivered || s == PurchaseStatusCancelled
}

// TrackingUpdate is one entry of the append-only status log on a purchase.
type TrackingUpdate struct {
	Status    string    `json:"status" bson:"status"`
	Message   string    `json:"message" bson:"message"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

type PurchaseReview struct {
	Rating  int       `json:"rating" bson:"rating" validate:"required,min=1,max=5"`
	Comment string    `json:"comment" bson:"comment" validate:"max=2000"`
	Date    time.Time `json:"date" bson:"date"`
}

type Purchase struct {
	ID              string           `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID          string           `json:"userId" bson:"user_id" validate:"required,mongodb"`
	ProductID       string           `json:"productId" bson:"product_id" validate:"required,mongodb"`
	Quantity        int              `json:"quantity" bson:"quantity" validate:"required,min=1"`
	TotalPrice      float64          `json:"totalPrice" bson:"total_price" validate:"min=0"`
	Status          PurchaseStatus   `json:"status" bson:"status" validate:"required,oneof=processing on_the_way delivered cancelled"`
	TrackingUpdates []TrackingUpdate `json:"trackingUpdates" bson:"tracking_updates"`
	Review          *PurchaseReview  `json:"review,omitempty" bson:"review,omitempty"`
	PromoCode       string           `json:"promoCode,omitempty" bson:"promo_code,omitempty"`
	CreatedAt       time.Time        `json:"createdAt" bson:"created_at"`
}

// NewTrackingUpdate stamps a log entry with the current time.
func NewTrackingUpdate(status, message string) TrackingUpdate {
	return TrackingUpdate{
		Status:    status,
		Message:   message,
		Timestamp: time.Now().UTC().Truncate(time.Millisecond),
	}
}
