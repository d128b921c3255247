package model

import (
	"time"
)

const PromoTypeBirthday = "BIRTHDAY"

type PromoCode struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty"`
	Code       string    `json:"code" bson:"code" validate:"required,min=3,max=32"`
	Discount   float64   `json:"discount" bson:"discount" validate:"required,gt=0,lte=100"`
	IsActive   bool      `json:"isActive" bson:"is_active"`
	ExpiryDate time.Time `json:"expiryDate" bson:"expiry_date"`
	UsageLimit int       `json:"usageLimit" bson:"usage_limit" validate:"min=1"`
	UsedCount  int       `json:"usedCount" bson:"used_count" validate:"min=0"`
	Type       string    `json:"type" bson:"type"`
	UserID     string    `json:"userId,omitempty" bson:"user_id,omitempty"`
}

// Usable reports whether the code can still discount a purchase: active, not
// expired and under its usage cap. Birthday ownership and month checks are
// caller concerns since they need the requesting user.
func (p *PromoCode) Usable(now time.Time) bool {
	if !p.IsActive {
		return false
	}
	if !p.ExpiryDate.IsZero() && p.ExpiryDate.Before(now) {
		return false
	}
	return p.UsedCount < p.UsageLimit
}

// DiscountAmount applies the percent discount to amount.
func (p *PromoCode) DiscountAmount(amount float64) float64 {
	return amount * p.Discount / 100
}
