package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	purchaseerrors "tripmarket/internal/purchases/errors"
	"tripmarket/pkg/config"
	"tripmarket/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const ProductsCollectionName = "Products"

type ProductRepository interface {
	FindByID(ctx context.Context, id string) (*model.Product, error)
	DecrementStock(ctx context.Context, id string, quantity int) error
	RestoreStock(ctx context.Context, id string, quantity int) error
}

type mongoProductRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoProductRepository(cfg *config.Config) ProductRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoProductRepository{
		cfg:        cfg,
		collection: db.Collection(ProductsCollectionName),
	}
}

func (r *mongoProductRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoProductRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", purchaseerrors.ErrInvalidID, id)
	}

	var product model.Product
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, purchaseerrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}

	return &product, nil
}

// DecrementStock takes quantity units off the shelf and counts the sale. The
// stock comparison lives in the filter, so a concurrent purchase that would
// oversell matches nothing and fails instead.
func (r *mongoProductRepository) DecrementStock(ctx context.Context, id string, quantity int) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", purchaseerrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID, "quantity": bson.M{"$gte": quantity}},
		bson.M{"$inc": bson.M{"quantity": -quantity, "total_sales": quantity}},
	)
	if err != nil {
		return fmt.Errorf("failed to decrement product stock: %w", err)
	}

	if result.MatchedCount == 0 {
		exists, countErr := r.collection.CountDocuments(ctx, bson.M{"_id": objectID})
		if countErr != nil {
			return fmt.Errorf("failed to check product existence: %w", countErr)
		}
		if exists == 0 {
			return purchaseerrors.ErrProductNotFound
		}
		return purchaseerrors.ErrInsufficientStock
	}

	return nil
}

// RestoreStock reverses a DecrementStock for a cancelled order.
func (r *mongoProductRepository) RestoreStock(ctx context.Context, id string, quantity int) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", purchaseerrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$inc": bson.M{"quantity": quantity, "total_sales": -quantity}},
	)
	if err != nil {
		return fmt.Errorf("failed to restore product stock: %w", err)
	}

	if result.MatchedCount == 0 {
		return purchaseerrors.ErrProductNotFound
	}

	return nil
}
