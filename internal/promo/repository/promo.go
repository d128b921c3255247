package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	promoerrors "tripmarket/internal/promo/errors"
	"tripmarket/pkg/config"
	"tripmarket/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "Promo_codes"

type PromoRepository interface {
	FindByCode(ctx context.Context, code string) (*model.PromoCode, error)
	Consume(ctx context.Context, code string) (*model.PromoCode, error)
}

type mongoPromoRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoPromoRepository(cfg *config.Config) PromoRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoPromoRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoPromoRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoPromoRepository) FindByCode(ctx context.Context, code string) (*model.PromoCode, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var promo model.PromoCode
	err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&promo)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, promoerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find promo code: %w", err)
	}

	return &promo, nil
}

// Consume atomically reserves one use of the code. The used_count comparison
// happens inside the same FindOneAndUpdate, so two concurrent purchases
// cannot both take the last remaining use.
func (r *mongoPromoRepository) Consume(ctx context.Context, code string) (*model.PromoCode, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"code":  code,
		"$expr": bson.M{"$lt": []string{"$used_count", "$usage_limit"}},
	}
	update := bson.M{"$inc": bson.M{"used_count": 1}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var promo model.PromoCode
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&promo)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			exists, countErr := r.collection.CountDocuments(ctx, bson.M{"code": code})
			if countErr != nil {
				return nil, fmt.Errorf("failed to check promo code existence: %w", countErr)
			}
			if exists == 0 {
				return nil, promoerrors.ErrNotFound
			}
			return nil, promoerrors.ErrExhausted
		}
		return nil, fmt.Errorf("failed to consume promo code: %w", err)
	}

	return &promo, nil
}
