package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	purchaseerrors "tripmarket/internal/purchases/errors"
	"tripmarket/pkg/config"
	mongotx "tripmarket/pkg/db/mongo"
	"tripmarket/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "Purchases"

type mongoPurchaseRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type PurchaseRepository interface {
	Create(ctx context.Context, purchase *model.Purchase) error
	FindByID(ctx context.Context, id string) (*model.Purchase, error)
	FindByUser(ctx context.Context, userID string) ([]*model.Purchase, error)
	UpdateStatus(ctx context.Context, id string, status model.PurchaseStatus, tracking model.TrackingUpdate) error
	MarkCancelled(ctx context.Context, id string, tracking model.TrackingUpdate) error
	SetReview(ctx context.Context, id string, review *model.PurchaseReview) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoPurchaseRepository(cfg *config.Config) PurchaseRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoPurchaseRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoPurchaseRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoPurchaseRepository) Create(ctx context.Context, purchase *model.Purchase) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	purchase.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, purchase)
	if err != nil {
		return fmt.Errorf("failed to create purchase: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		purchase.ID = oid.Hex()
	}
	return nil
}

func (r *mongoPurchaseRepository) FindByID(ctx context.Context, id string) (*model.Purchase, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", purchaseerrors.ErrInvalidID, id)
	}

	var purchase model.Purchase
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&purchase)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, purchaseerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find purchase: %w", err)
	}

	return &purchase, nil
}

func (r *mongoPurchaseRepository) FindByUser(ctx context.Context, userID string) ([]*model.Purchase, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find purchases by user: %w", err)
	}
	defer cursor.Close(ctx)

	var purchases []*model.Purchase
	if err = cursor.All(ctx, &purchases); err != nil {
		return nil, fmt.Errorf("failed to decode purchases: %w", err)
	}

	return purchases, nil
}

// UpdateStatus writes the new status and appends a tracking entry in one
// update. The tracking log is append-only.
func (r *mongoPurchaseRepository) UpdateStatus(ctx context.Context, id string, status model.PurchaseStatus, tracking model.TrackingUpdate) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", purchaseerrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{
			"$set":  bson.M{"status": status},
			"$push": bson.M{"tracking_updates": tracking},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to update purchase status: %w", err)
	}

	if result.MatchedCount == 0 {
		return purchaseerrors.ErrNotFound
	}

	return nil
}

// MarkCancelled flips the status to cancelled only while the purchase is
// still in flight. The terminal-state filter makes the flip the single
// point of truth when two cancellations, or a cancellation and a delivery,
// race each other.
func (r *mongoPurchaseRepository) MarkCancelled(ctx context.Context, id string, tracking model.TrackingUpdate) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", purchaseerrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{
			"_id":    objectID,
			"status": bson.M{"$nin": bson.A{model.PurchaseStatusCancelled, model.PurchaseStatusDelivered}},
		},
		bson.M{
			"$set":  bson.M{"status": model.PurchaseStatusCancelled},
			"$push": bson.M{"tracking_updates": tracking},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to cancel purchase: %w", err)
	}

	if result.MatchedCount == 0 {
		count, countErr := r.collection.CountDocuments(ctx, bson.M{"_id": objectID})
		if countErr != nil {
			return fmt.Errorf("failed to check purchase existence: %w", countErr)
		}
		if count == 0 {
			return purchaseerrors.ErrNotFound
		}
		return purchaseerrors.ErrAlreadyFinalized
	}

	return nil
}

func (r *mongoPurchaseRepository) SetReview(ctx context.Context, id string, review *model.PurchaseReview) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", purchaseerrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID, "review": nil},
		bson.M{"$set": bson.M{"review": review}},
	)
	if err != nil {
		return fmt.Errorf("failed to set purchase review: %w", err)
	}

	if result.MatchedCount == 0 {
		return purchaseerrors.ErrNotFound
	}

	return nil
}

func (r *mongoPurchaseRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
