package service

import (
	"context"
	"testing"
	"time"

	promoerrors "tripmarket/internal/promo/errors"
	"tripmarket/pkg/config"
	apperrors "tripmarket/pkg/errors"
	"tripmarket/pkg/logger"
	"tripmarket/pkg/model"
)

type mockPromoRepository struct {
	findByCodeFunc func(ctx context.Context, code string) (*model.PromoCode, error)
	consumeFunc    func(ctx context.Context, code string) (*model.PromoCode, error)
}

func (m *mockPromoRepository) FindByCode(ctx context.Context, code string) (*model.PromoCode, error) {
	if m.findByCodeFunc != nil {
		return m.findByCodeFunc(ctx, code)
	}
	return nil, promoerrors.ErrNotFound
}

func (m *mockPromoRepository) Consume(ctx context.Context, code string) (*model.PromoCode, error) {
	if m.consumeFunc != nil {
		return m.consumeFunc(ctx, code)
	}
	return nil, promoerrors.ErrNotFound
}

type mockTouristSource struct {
	tourist *model.Tourist
	err     error
}

func (m *mockTouristSource) FindByID(ctx context.Context, id string) (*model.Tourist, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.tourist, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "info",
			Format:  logger.JSON,
			Service: "test",
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

const promoUserID = "65a000000000000000000010"

func activePromo() *model.PromoCode {
	return &model.PromoCode{
		Code:       "SUMMER10",
		Discount:   10,
		IsActive:   true,
		ExpiryDate: time.Now().AddDate(0, 1, 0),
		UsageLimit: 100,
		UsedCount:  1,
	}
}

func TestValidate_DiscountMath(t *testing.T) {
	repo := &mockPromoRepository{
		findByCodeFunc: func(ctx context.Context, code string) (*model.PromoCode, error) {
			return activePromo(), nil
		},
	}
	svc := NewPromoService(repo, &mockTouristSource{}, testConfig(t))

	result, err := svc.Validate(context.Background(), "summer10", promoUserID, 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Discount != 10 {
		t.Errorf("expected discount 10, got %f", result.Discount)
	}
	if result.DiscountedAmount != 20 {
		t.Errorf("expected discounted amount 20, got %f", result.DiscountedAmount)
	}
	if result.FinalAmount != 180 {
		t.Errorf("expected final amount 180, got %f", result.FinalAmount)
	}
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		promo      func() *model.PromoCode
		tourist    *model.Tourist
		userID     string
		wantCode   string
		wantStatus int
	}{
		{
			name: "inactive code",
			promo: func() *model.PromoCode {
				p := activePromo()
				p.IsActive = false
				return p
			},
			userID:     promoUserID,
			wantCode:   apperrors.CodePromoInvalid,
			wantStatus: 400,
		},
		{
			name: "expired code",
			promo: func() *model.PromoCode {
				p := activePromo()
				p.ExpiryDate = time.Now().AddDate(0, 0, -1)
				return p
			},
			userID:     promoUserID,
			wantCode:   apperrors.CodePromoInvalid,
			wantStatus: 400,
		},
		{
			name: "usage limit reached",
			promo: func() *model.PromoCode {
				p := activePromo()
				p.UsedCount = p.UsageLimit
				return p
			},
			userID:     promoUserID,
			wantCode:   apperrors.CodePromoInvalid,
			wantStatus: 400,
		},
		{
			name: "birthday code owned by someone else",
			promo: func() *model.PromoCode {
				p := activePromo()
				p.Type = model.PromoTypeBirthday
				p.UserID = "65a000000000000000000099"
				return p
			},
			userID:     promoUserID,
			wantCode:   apperrors.CodeForbidden,
			wantStatus: 403,
		},
		{
			name: "birthday code outside birth month",
			promo: func() *model.PromoCode {
				p := activePromo()
				p.Type = model.PromoTypeBirthday
				p.UserID = promoUserID
				return p
			},
			tourist: &model.Tourist{
				ID:          promoUserID,
				DateOfBirth: time.Now().AddDate(-30, 2, 0),
			},
			userID:     promoUserID,
			wantCode:   apperrors.CodePromoInvalid,
			wantStatus: 400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockPromoRepository{
				findByCodeFunc: func(ctx context.Context, code string) (*model.PromoCode, error) {
					return tt.promo(), nil
				},
			}
			svc := NewPromoService(repo, &mockTouristSource{tourist: tt.tourist}, testConfig(t))

			_, err := svc.Validate(context.Background(), "SUMMER10", tt.userID, 100)
			appErr := apperrors.AsAppError(err)
			if appErr == nil || appErr.Code != tt.wantCode {
				t.Fatalf("expected code %s, got %v", tt.wantCode, err)
			}
			if appErr.HTTPStatus != tt.wantStatus {
				t.Errorf("expected HTTP status %d, got %d", tt.wantStatus, appErr.HTTPStatus)
			}
		})
	}
}

func TestValidate_UnknownCode(t *testing.T) {
	svc := NewPromoService(&mockPromoRepository{}, &mockTouristSource{}, testConfig(t))

	_, err := svc.Validate(context.Background(), "NOPE", promoUserID, 100)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND for unknown code, got %v", err)
	}
}

func TestValidate_BirthdayInBirthMonth(t *testing.T) {
	repo := &mockPromoRepository{
		findByCodeFunc: func(ctx context.Context, code string) (*model.PromoCode, error) {
			p := activePromo()
			p.Type = model.PromoTypeBirthday
			p.UserID = promoUserID
			p.Discount = 50
			return p, nil
		},
	}
	tourists := &mockTouristSource{tourist: &model.Tourist{
		ID:          promoUserID,
		DateOfBirth: time.Now().AddDate(-25, 0, 0),
	}}
	svc := NewPromoService(repo, tourists, testConfig(t))

	result, err := svc.Validate(context.Background(), "SUMMER10", promoUserID, 80)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.FinalAmount != 40 {
		t.Errorf("expected final amount 40, got %f", result.FinalAmount)
	}
}

func TestConsume_NormalizesCode(t *testing.T) {
	var gotCode string
	repo := &mockPromoRepository{
		consumeFunc: func(ctx context.Context, code string) (*model.PromoCode, error) {
			gotCode = code
			return activePromo(), nil
		},
	}
	svc := NewPromoService(repo, &mockTouristSource{}, testConfig(t))

	if _, err := svc.Consume(context.Background(), "  summer10 "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotCode != "SUMMER10" {
		t.Errorf("expected normalized code SUMMER10, got %q", gotCode)
	}
}
