// Package catalog is a read-only adapter over the bookable-resource
// collections. Each booking type maps to one adapter exposing existence and
// the resource's date constraint; ledger code never branches on type strings
// beyond this registry.
package catalog

import (
	"context"
	"errors"
	"time"

	"tripmarket/pkg/model"
)

var (
	ErrNotFound    = errors.New("resource not found")
	ErrInvalidID   = errors.New("invalid resource ID format")
	ErrUnknownType = errors.New("unknown booking type")
)

type ConstraintKind string

const (
	// ConstraintFixedDate: bookable only on one calendar day (Activity).
	ConstraintFixedDate ConstraintKind = "fixed_date"
	// ConstraintDateList: bookable on any day in a list (Itinerary).
	ConstraintDateList ConstraintKind = "date_list"
	// ConstraintNone: any day (HistoricalPlace).
	ConstraintNone ConstraintKind = "none"
)

type DateConstraint struct {
	Kind           ConstraintKind
	FixedDate      time.Time
	AvailableDates []time.Time
}

// AllowsDay reports whether the constraint permits the calendar day of the
// requested date.
func (c DateConstraint) AllowsDay(requested time.Time) bool {
	day := model.NormalizeToDay(requested)
	switch c.Kind {
	case ConstraintFixedDate:
		return model.NormalizeToDay(c.FixedDate).Equal(day)
	case ConstraintDateList:
		for _, d := range c.AvailableDates {
			if model.NormalizeToDay(d).Equal(day) {
				return true
			}
		}
		return false
	default:
		return true
	}
}

// Resource is the uniform view the booking ledger needs.
type Resource struct {
	ID         string
	Name       string
	GuideID    string
	Constraint DateConstraint
}

// Adapter fetches one resource kind. Implementations return ErrNotFound and
// ErrInvalidID sentinels.
type Adapter interface {
	Get(ctx context.Context, id string) (*Resource, error)
}

// Catalog dispatches to the adapter registered for a booking type.
type Catalog interface {
	Get(ctx context.Context, bookingType model.BookingType, itemID string) (*Resource, error)
}

type registry struct {
	adapters map[model.BookingType]Adapter
}

func New(adapters map[model.BookingType]Adapter) Catalog {
	return &registry{adapters: adapters}
}

func (r *registry) Get(ctx context.Context, bookingType model.BookingType, itemID string) (*Resource, error) {
	adapter, ok := r.adapters[bookingType]
	if !ok {
		return nil, ErrUnknownType
	}
	return adapter.Get(ctx, itemID)
}
