package model

import (
	"testing"
	"time"
)

func TestNormalizeToDay(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	in := time.Date(2025, 9, 14, 1, 30, 0, 0, loc)

	got := NormalizeToDay(in)
	want := time.Date(2025, 9, 13, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("NormalizeToDay(%v) = %v, want %v", in, got, want)
	}
}

func TestDayWindow(t *testing.T) {
	start, end := DayWindow(time.Date(2025, 9, 14, 15, 4, 5, 0, time.UTC))

	wantStart := time.Date(2025, 9, 14, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2025, 9, 14, 23, 59, 59, 999000000, time.UTC)
	if !start.Equal(wantStart) {
		t.Errorf("window start = %v, want %v", start, wantStart)
	}
	if !end.Equal(wantEnd) {
		t.Errorf("window end = %v, want %v", end, wantEnd)
	}
}

func TestBooking_EffectiveStatus(t *testing.T) {
	now := time.Date(2025, 9, 14, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		booking Booking
		want    BookingStatus
	}{
		{
			name:    "upcoming confirmed stays confirmed",
			booking: Booking{Status: BookingStatusConfirmed, BookingDate: now.AddDate(0, 0, 2)},
			want:    BookingStatusConfirmed,
		},
		{
			name:    "past confirmed reads as attended",
			booking: Booking{Status: BookingStatusConfirmed, BookingDate: now.AddDate(0, 0, -2)},
			want:    BookingStatusAttended,
		},
		{
			name:    "past pending reads as attended",
			booking: Booking{Status: BookingStatusPending, BookingDate: now.AddDate(0, 0, -1)},
			want:    BookingStatusAttended,
		},
		{
			name:    "past cancelled stays cancelled",
			booking: Booking{Status: BookingStatusCancelled, BookingDate: now.AddDate(0, 0, -2)},
			want:    BookingStatusCancelled,
		},
		{
			name:    "same day is not attended yet",
			booking: Booking{Status: BookingStatusConfirmed, BookingDate: now.Add(-3 * time.Hour)},
			want:    BookingStatusConfirmed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.booking.EffectiveStatus(now); got != tt.want {
				t.Errorf("EffectiveStatus() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestBookingType_Valid(t *testing.T) {
	for _, valid := range []BookingType{BookingTypeActivity, BookingTypeItinerary, BookingTypeHistoricalPlace} {
		if !valid.Valid() {
			t.Errorf("expected %s to be valid", valid)
		}
	}
	if BookingType("Museum").Valid() {
		t.Error("expected Museum to be invalid")
	}
}
