package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tripmarket/pkg/config"
	"tripmarket/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	ActivitiesCollection       = "Activities"
	ItinerariesCollection      = "Itineraries"
	HistoricalPlacesCollection = "Historical_places"
)

// NewMongoCatalog wires the per-type adapters over the resource collections.
func NewMongoCatalog(cfg *config.Config) Catalog {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return New(map[model.BookingType]Adapter{
		model.BookingTypeActivity:        &activityAdapter{collection: db.Collection(ActivitiesCollection), readTimeout: cfg.ReadTimeout},
		model.BookingTypeItinerary:       &itineraryAdapter{collection: db.Collection(ItinerariesCollection), readTimeout: cfg.ReadTimeout},
		model.BookingTypeHistoricalPlace: &historicalPlaceAdapter{collection: db.Collection(HistoricalPlacesCollection), readTimeout: cfg.ReadTimeout},
	})
}

func findByID(ctx context.Context, collection *mongo.Collection, timeout time.Duration, id string, out any) error {
	if _, ok := ctx.(mongo.SessionContext); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, id)
	}

	err = collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to find resource: %w", err)
	}
	return nil
}

type activityAdapter struct {
	collection  *mongo.Collection
	readTimeout time.Duration
}

func (a *activityAdapter) Get(ctx context.Context, id string) (*Resource, error) {
	var activity model.Activity
	if err := findByID(ctx, a.collection, a.readTimeout, id, &activity); err != nil {
		return nil, err
	}
	return &Resource{
		ID:   activity.ID,
		Name: activity.Name,
		Constraint: DateConstraint{
			Kind:      ConstraintFixedDate,
			FixedDate: activity.Date,
		},
	}, nil
}

type itineraryAdapter struct {
	collection  *mongo.Collection
	readTimeout time.Duration
}

func (a *itineraryAdapter) Get(ctx context.Context, id string) (*Resource, error) {
	var itinerary model.Itinerary
	if err := findByID(ctx, a.collection, a.readTimeout, id, &itinerary); err != nil {
		return nil, err
	}
	return &Resource{
		ID:      itinerary.ID,
		Name:    itinerary.Name,
		GuideID: itinerary.GuideID,
		Constraint: DateConstraint{
			Kind:           ConstraintDateList,
			AvailableDates: itinerary.AvailableDates,
		},
	}, nil
}

type historicalPlaceAdapter struct {
	collection  *mongo.Collection
	readTimeout time.Duration
}

func (a *historicalPlaceAdapter) Get(ctx context.Context, id string) (*Resource, error) {
	var place model.HistoricalPlace
	if err := findByID(ctx, a.collection, a.readTimeout, id, &place); err != nil {
		return nil, err
	}
	return &Resource{
		ID:         place.ID,
		Name:       place.Name,
		Constraint: DateConstraint{Kind: ConstraintNone},
	}, nil
}
