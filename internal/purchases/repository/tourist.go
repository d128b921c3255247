package repository

import (
	"context"
	"errors"
	"fmt"

	purchaseerrors "tripmarket/internal/purchases/errors"
	"tripmarket/pkg/config"
	"tripmarket/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const TouristsCollectionName = "Tourists"

type TouristRepository interface {
	FindByID(ctx context.Context, id string) (*model.Tourist, error)
	DebitWallet(ctx context.Context, id string, amount float64) (*model.Tourist, error)
	CreditWallet(ctx context.Context, id string, amount float64) (*model.Tourist, error)
}

type mongoTouristRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoTouristRepository(cfg *config.Config) TouristRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoTouristRepository{
		cfg:        cfg,
		collection: db.Collection(TouristsCollectionName),
	}
}

func (r *mongoTouristRepository) FindByID(ctx context.Context, id string) (*model.Tourist, error) {
	if _, ok := ctx.(mongo.SessionContext); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.ReadTimeout)
		defer cancel()
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", purchaseerrors.ErrInvalidID, id)
	}

	var tourist model.Tourist
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&tourist)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, purchaseerrors.ErrTouristNotFound
		}
		return nil, fmt.Errorf("failed to find tourist: %w", err)
	}

	return &tourist, nil
}

// DebitWallet withdraws amount only when the balance covers it. The balance
// comparison is part of the filter, so concurrent debits cannot overdraw.
// Returns the tourist with the post-debit balance.
func (r *mongoTouristRepository) DebitWallet(ctx context.Context, id string, amount float64) (*model.Tourist, error) {
	if _, ok := ctx.(mongo.SessionContext); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.WriteTimeout)
		defer cancel()
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", purchaseerrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID, "wallet": bson.M{"$gte": amount}}
	update := bson.M{"$inc": bson.M{"wallet": -amount}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var tourist model.Tourist
	err = r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&tourist)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			exists, countErr := r.collection.CountDocuments(ctx, bson.M{"_id": objectID})
			if countErr != nil {
				return nil, fmt.Errorf("failed to check tourist existence: %w", countErr)
			}
			if exists == 0 {
				return nil, purchaseerrors.ErrTouristNotFound
			}
			return nil, purchaseerrors.ErrInsufficientFunds
		}
		return nil, fmt.Errorf("failed to debit wallet: %w", err)
	}

	return &tourist, nil
}

// CreditWallet refunds amount and returns the tourist with the new balance.
func (r *mongoTouristRepository) CreditWallet(ctx context.Context, id string, amount float64) (*model.Tourist, error) {
	if _, ok := ctx.(mongo.SessionContext); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.WriteTimeout)
		defer cancel()
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", purchaseerrors.ErrInvalidID, id)
	}

	update := bson.M{"$inc": bson.M{"wallet": amount}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var tourist model.Tourist
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, update, opts).Decode(&tourist)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, purchaseerrors.ErrTouristNotFound
		}
		return nil, fmt.Errorf("failed to credit wallet: %w", err)
	}

	return &tourist, nil
}
