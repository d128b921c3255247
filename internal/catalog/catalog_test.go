package catalog

import (
	"context"
	"testing"
	"time"

	"tripmarket/pkg/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDateConstraint_AllowsDay(t *testing.T) {
	tests := []struct {
		name       string
		constraint DateConstraint
		requested  time.Time
		want       bool
	}{
		{
			name:       "fixed date exact match",
			constraint: DateConstraint{Kind: ConstraintFixedDate, FixedDate: day(2024, 6, 1)},
			requested:  day(2024, 6, 1),
			want:       true,
		},
		{
			name:       "fixed date ignores time of day",
			constraint: DateConstraint{Kind: ConstraintFixedDate, FixedDate: time.Date(2024, 6, 1, 14, 30, 0, 0, time.UTC)},
			requested:  time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
			want:       true,
		},
		{
			name:       "fixed date mismatch",
			constraint: DateConstraint{Kind: ConstraintFixedDate, FixedDate: day(2024, 6, 1)},
			requested:  day(2024, 6, 2),
			want:       false,
		},
		{
			name: "date list member",
			constraint: DateConstraint{
				Kind:           ConstraintDateList,
				AvailableDates: []time.Time{day(2024, 7, 1), day(2024, 7, 8)},
			},
			requested: day(2024, 7, 8),
			want:      true,
		},
		{
			name: "date list non-member",
			constraint: DateConstraint{
				Kind:           ConstraintDateList,
				AvailableDates: []time.Time{day(2024, 7, 1), day(2024, 7, 8)},
			},
			requested: day(2024, 7, 2),
			want:      false,
		},
		{
			name:       "empty date list rejects everything",
			constraint: DateConstraint{Kind: ConstraintDateList},
			requested:  day(2024, 7, 1),
			want:       false,
		},
		{
			name:       "no constraint accepts any day",
			constraint: DateConstraint{Kind: ConstraintNone},
			requested:  day(2031, 1, 15),
			want:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.constraint.AllowsDay(tt.requested); got != tt.want {
				t.Errorf("AllowsDay(%v) = %v, want %v", tt.requested, got, tt.want)
			}
		})
	}
}

type stubAdapter struct {
	resource *Resource
	err      error
}

func (s *stubAdapter) Get(ctx context.Context, id string) (*Resource, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.resource, nil
}

func TestRegistry_Get(t *testing.T) {
	reg := New(map[model.BookingType]Adapter{
		model.BookingTypeActivity: &stubAdapter{resource: &Resource{ID: "a1", Name: "Snorkeling"}},
	})

	res, err := reg.Get(context.Background(), model.BookingTypeActivity, "a1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Name != "Snorkeling" {
		t.Errorf("expected Snorkeling, got %s", res.Name)
	}

	_, err = reg.Get(context.Background(), model.BookingType("Museum"), "a1")
	if err != ErrUnknownType {
		t.Errorf("expected ErrUnknownType for unregistered type, got %v", err)
	}
}
