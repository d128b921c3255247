package model

import (
	"time"
)

type BookingType string

const (
	BookingTypeActivity        BookingType = "Activity"
	BookingTypeItinerary       BookingType = "Itinerary"
	BookingTypeHistoricalPlace BookingType = "HistoricalPlace"
)

func (t BookingType) Valid() bool {
	switch t {
	case BookingTypeActivity, BookingTypeItinerary, BookingTypeHistoricalPlace:
		return true
	}
	return false
}

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusAttended  BookingStatus = "attended"
)

type Booking struct {
	ID          string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID      string        `json:"userId" bson:"user_id" validate:"required,mongodb"`
	BookingType BookingType   `json:"bookingType" bson:"booking_type" validate:"required,oneof=Activity Itinerary HistoricalPlace"`
	ItemID      string        `json:"itemId" bson:"item_id" validate:"required,mongodb"`
	BookingDate time.Time     `json:"bookingDate" bson:"booking_date" validate:"required"`
	Status      BookingStatus `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled attended"`
	Rating      int           `json:"rating" bson:"rating" validate:"min=0,max=5"`
	Review      string        `json:"review" bson:"review" validate:"max=2000"`
	CreatedAt   time.Time     `json:"createdAt" bson:"created_at" validate:"omitempty"`
}

// NormalizeToDay truncates a timestamp to UTC midnight. All booking date
// comparisons are calendar-day granular.
func NormalizeToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DayWindow returns the inclusive [00:00:00, 23:59:59.999] bounds of the
// calendar day containing t.
func DayWindow(t time.Time) (time.Time, time.Time) {
	start := NormalizeToDay(t)
	end := start.Add(24*time.Hour - time.Millisecond)
	return start, end
}

// EffectiveStatus derives the status a reader should observe at the given
// instant. A booking whose date has passed and that was never cancelled is
// reported as attended; the persisted status is not touched. Attendance is a
// query-time derivation, not a scheduled job.
func (b *Booking) EffectiveStatus(now time.Time) BookingStatus {
	if b.Status == BookingStatusCancelled || b.Status == BookingStatusAttended {
		return b.Status
	}
	if NormalizeToDay(b.BookingDate).Before(NormalizeToDay(now)) {
		return BookingStatusAttended
	}
	return b.Status
}

// BookingLock is an advisory lock row guarding a (type, item, date) slot
// during creation. The _id encodes the slot so InsertOne collides for
// concurrent attempts.
type BookingLock struct {
	ID        string    `bson:"_id"`
	ExpiresAt time.Time `bson:"expires_at"`
	CreatedAt time.Time `bson:"created_at"`
}
