package service

import (
	"context"
	"errors"
	"time"

	promoerrors "tripmarket/internal/promo/errors"
	"tripmarket/internal/promo/repository"
	"tripmarket/pkg/config"
	apperrors "tripmarket/pkg/errors"
	"tripmarket/pkg/model"
	"tripmarket/pkg/sanitizer"
)

// TouristSource resolves the requesting tourist for ownership and birthday
// month checks. Satisfied by the purchases tourist repository.
type TouristSource interface {
	FindByID(ctx context.Context, id string) (*model.Tourist, error)
}

// ValidationResult is the dry-run quote for a code against an amount. Nothing
// is mutated; consumption happens inside the purchase transaction.
type ValidationResult struct {
	Code             string  `json:"code"`
	Discount         float64 `json:"discount"`
	DiscountedAmount float64 `json:"discountedAmount"`
	FinalAmount      float64 `json:"finalAmount"`
}

type PromoService interface {
	Validate(ctx context.Context, code, userID string, amount float64) (*ValidationResult, error)
	Consume(ctx context.Context, code string) (*model.PromoCode, error)
}

type promoService struct {
	repo     repository.PromoRepository
	tourists TouristSource
	cfg      *config.Config
}

func NewPromoService(repo repository.PromoRepository, tourists TouristSource, cfg *config.Config) PromoService {
	return &promoService{
		repo:     repo,
		tourists: tourists,
		cfg:      cfg,
	}
}

func (s *promoService) Validate(ctx context.Context, code, userID string, amount float64) (*ValidationResult, error) {
	code = sanitizer.NormalizePromoCode(code)
	if code == "" {
		return nil, apperrors.InvalidInput("Promo code cannot be empty")
	}
	if amount < 0 {
		return nil, apperrors.InvalidInput("Amount cannot be negative")
	}

	promo, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, promoerrors.ErrNotFound) {
			return nil, apperrors.NotFound("Promo code")
		}
		s.cfg.Log.Error("Failed to look up promo code", "code", code, "error", err)
		return nil, apperrors.Internal("Failed to validate promo code", err)
	}

	now := time.Now()
	if !promo.IsActive {
		return nil, apperrors.PromoInvalid("Promo code is not active")
	}
	if !promo.ExpiryDate.IsZero() && promo.ExpiryDate.Before(now) {
		return nil, apperrors.PromoInvalid("Promo code has expired")
	}
	if promo.UsedCount >= promo.UsageLimit {
		return nil, apperrors.PromoInvalid("Promo code usage limit reached")
	}

	if promo.Type == model.PromoTypeBirthday {
		if err := s.checkBirthday(ctx, promo, userID, now); err != nil {
			return nil, err
		}
	}

	discounted := promo.DiscountAmount(amount)
	return &ValidationResult{
		Code:             promo.Code,
		Discount:         promo.Discount,
		DiscountedAmount: discounted,
		FinalAmount:      amount - discounted,
	}, nil
}

func (s *promoService) Consume(ctx context.Context, code string) (*model.PromoCode, error) {
	return s.repo.Consume(ctx, sanitizer.NormalizePromoCode(code))
}

func (s *promoService) checkBirthday(ctx context.Context, promo *model.PromoCode, userID string, now time.Time) error {
	if userID == "" {
		return apperrors.InvalidInput("User ID is required for this promo code")
	}
	if promo.UserID != userID {
		return apperrors.Forbidden("This promo code belongs to another user")
	}

	tourist, err := s.tourists.FindByID(ctx, userID)
	if err != nil {
		s.cfg.Log.Error("Failed to look up tourist for birthday promo", "user_id", userID, "error", err)
		return apperrors.Internal("Failed to validate promo code", err)
	}

	if tourist.DateOfBirth.Month() != now.Month() {
		return apperrors.PromoInvalid("Birthday promo codes are only valid during your birthday month")
	}
	return nil
}
