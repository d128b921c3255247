package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "tripmarket/internal/bookings/errors"
	"tripmarket/pkg/config"
	mongotx "tripmarket/pkg/db/mongo"
	"tripmarket/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName            = "Bookings"
	ItinerariesCollectionName = "Itineraries"
)

type mongoBookingRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindByUser(ctx context.Context, userID string, bookingType model.BookingType) ([]*model.Booking, error)
	CountActiveByItemAndDate(ctx context.Context, bookingType model.BookingType, itemID string, date time.Time) (int64, error)
	UpdateStatus(ctx context.Context, id string, status model.BookingStatus) error
	SetRating(ctx context.Context, id string, rating int, review string) error
	FindRatedByGuide(ctx context.Context, guideID string, limit int, offset int64) ([]*model.Booking, error)
	GuideRatingStats(ctx context.Context, guideID string) (int64, float64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// When inside a transaction (SessionContext), returns the original context unchanged
// with a no-op cancel function, as we cannot wrap SessionContext without breaking
// transaction semantics.
func (r *mongoBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	booking.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return bookingserrors.ErrAlreadyBooked
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var booking model.Booking
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) FindByUser(ctx context.Context, userID string, bookingType model.BookingType) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"user_id": userID}
	if bookingType != "" {
		filter["booking_type"] = bookingType
	}

	opts := options.Find().SetSort(bson.D{{Key: "booking_date", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings by user: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

// CountActiveByItemAndDate counts non-cancelled bookings for the item within
// the calendar day containing date. The day window is inclusive on both ends.
func (r *mongoBookingRepository) CountActiveByItemAndDate(ctx context.Context, bookingType model.BookingType, itemID string, date time.Time) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	dayStart, dayEnd := model.DayWindow(date)
	filter := bson.M{
		"booking_type": bookingType,
		"item_id":      itemID,
		"booking_date": bson.M{"$gte": dayStart, "$lte": dayEnd},
		"status":       bson.M{"$ne": model.BookingStatusCancelled},
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings for item and date: %w", err)
	}
	return count, nil
}

func (r *mongoBookingRepository) UpdateStatus(ctx context.Context, id string, status model.BookingStatus) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	if result.MatchedCount == 0 {
		return bookingserrors.ErrNotFound
	}

	return nil
}

// SetRating writes the rating and review only when no rating exists yet. The
// rating filter makes a second write race-safe.
func (r *mongoBookingRepository) SetRating(ctx context.Context, id string, rating int, review string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID, "rating": 0},
		bson.M{"$set": bson.M{"rating": rating, "review": review}},
	)
	if err != nil {
		return fmt.Errorf("failed to set booking rating: %w", err)
	}

	if result.MatchedCount == 0 {
		exists, err := r.collection.CountDocuments(ctx, bson.M{"_id": objectID})
		if err != nil {
			return fmt.Errorf("failed to check booking existence: %w", err)
		}
		if exists == 0 {
			return bookingserrors.ErrNotFound
		}
		return bookingserrors.ErrRatingExists
	}

	return nil
}

// ratedByGuidePipeline matches rated itinerary bookings and joins the
// itinerary document to restrict results to one guide. item_id is stored as a
// hex string, so the join converts it before comparing against _id.
func ratedByGuidePipeline(guideID string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"booking_type": model.BookingTypeItinerary,
			"rating":       bson.M{"$gt": 0},
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from": ItinerariesCollectionName,
			"let":  bson.M{"iid": bson.M{"$toObjectId": "$item_id"}},
			"pipeline": []bson.M{
				{"$match": bson.M{"$expr": bson.M{"$eq": []string{"$_id", "$$iid"}}}},
			},
			"as": "itinerary",
		}}},
		{{Key: "$match", Value: bson.M{"itinerary.guide_id": guideID}}},
	}
}

func (r *mongoBookingRepository) FindRatedByGuide(ctx context.Context, guideID string, limit int, offset int64) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	pipeline := ratedByGuidePipeline(guideID)
	pipeline = append(pipeline,
		bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
	)
	if offset > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$skip", Value: offset}})
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: int64(limit)}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$project", Value: bson.M{"itinerary": 0}}},
	)

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate guide ratings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode guide ratings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) GuideRatingStats(ctx context.Context, guideID string) (int64, float64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	pipeline := ratedByGuidePipeline(guideID)
	pipeline = append(pipeline, bson.D{{Key: "$group", Value: bson.M{
		"_id":     nil,
		"total":   bson.M{"$sum": 1},
		"average": bson.M{"$avg": "$rating"},
	}}})

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to aggregate guide rating stats: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total   int64   `bson:"total"`
		Average float64 `bson:"average"`
	}
	if err = cursor.All(ctx, &results); err != nil {
		return 0, 0, fmt.Errorf("failed to decode guide rating stats: %w", err)
	}

	if len(results) == 0 {
		return 0, 0, nil
	}
	return results[0].Total, results[0].Average, nil
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
