package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	promoservice "tripmarket/internal/promo/service"
	purchaseerrors "tripmarket/internal/purchases/errors"
	"tripmarket/internal/purchases/repository"
	"tripmarket/internal/purchases/validator"
	"tripmarket/pkg/config"
	apperrors "tripmarket/pkg/errors"
	"tripmarket/pkg/events"
	"tripmarket/pkg/model"
	"tripmarket/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

// PurchaseRequest is the order intake. An unusable promo code is ignored and
// the purchase proceeds at full price.
type PurchaseRequest struct {
	UserID    string `json:"userId" validate:"required,mongodb"`
	ProductID string `json:"productId" validate:"required,mongodb"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
	PromoCode string `json:"promoCode" validate:"omitempty,max=32"`
}

type PurchaseResult struct {
	Purchase   *model.Purchase `json:"purchase"`
	NewBalance float64         `json:"newBalance"`
}

type CancelResult struct {
	RefundAmount     float64 `json:"refundAmount"`
	NewWalletBalance float64 `json:"newWalletBalance"`
}

type PurchaseService interface {
	Purchase(ctx context.Context, req *PurchaseRequest) (*PurchaseResult, error)
	CancelOrder(ctx context.Context, purchaseID string) (*CancelResult, error)
	UpdateStatus(ctx context.Context, purchaseID string, status model.PurchaseStatus) (*model.Purchase, error)
	AddReview(ctx context.Context, purchaseID string, rating int, comment string) (*model.Purchase, error)
	GetByUser(ctx context.Context, userID string) ([]*model.Purchase, error)
}

type purchaseService struct {
	purchases repository.PurchaseRepository
	products  repository.ProductRepository
	tourists  repository.TouristRepository
	promos    promoservice.PromoService
	validator *validator.PurchaseValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewPurchaseService(
	purchases repository.PurchaseRepository,
	products repository.ProductRepository,
	tourists repository.TouristRepository,
	promos promoservice.PromoService,
	validator *validator.PurchaseValidator,
	publisher events.Publisher,
	cfg *config.Config,
) PurchaseService {
	return &purchaseService{
		purchases: purchases,
		products:  products,
		tourists:  tourists,
		promos:    promos,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Purchase places an order. Stock decrement, wallet debit, promo consumption
// and the ledger insert commit or abort as one transaction; the stock and
// wallet checks are part of their update filters, so two concurrent orders
// cannot both take the last unit or overdraw a wallet.
func (s *purchaseService) Purchase(ctx context.Context, req *PurchaseRequest) (*PurchaseResult, error) {
	if err := s.validator.Validate(req); err != nil {
		s.cfg.Log.Warn("Purchase validation failed", "error", err)
		return nil, apperrors.Validation("Purchase validation failed", map[string]any{"error": err.Error()})
	}

	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, s.mapProductError(err, req.ProductID)
	}
	if product.Quantity < req.Quantity {
		return nil, apperrors.InsufficientStock(fmt.Sprintf(
			"Only %d unit(s) of %s in stock", product.Quantity, product.Name,
		))
	}

	if _, err := s.tourists.FindByID(ctx, req.UserID); err != nil {
		return nil, s.mapTouristError(err, req.UserID)
	}

	fullPrice := product.Price * float64(req.Quantity)
	totalPrice := fullPrice
	promoCode := ""
	if req.PromoCode != "" {
		if quote, err := s.promos.Validate(ctx, req.PromoCode, req.UserID, fullPrice); err == nil {
			totalPrice = quote.FinalAmount
			promoCode = quote.Code
		} else {
			s.cfg.Log.Info("Ignoring unusable promo code", "code", req.PromoCode, "reason", err.Error())
		}
	}

	purchase := &model.Purchase{
		UserID:     req.UserID,
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
		TotalPrice: totalPrice,
		Status:     model.PurchaseStatusProcessing,
		PromoCode:  promoCode,
		TrackingUpdates: []model.TrackingUpdate{
			model.NewTrackingUpdate(string(model.PurchaseStatusProcessing), "Order placed"),
		},
	}

	var newBalance float64
	err = s.purchases.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if promoCode != "" {
			if _, err := s.promos.Consume(sessCtx, promoCode); err != nil {
				// Someone else took the last use between quote and commit.
				// Fall back to full price rather than failing the order.
				s.cfg.Log.Info("Promo code no longer usable, charging full price", "code", promoCode, "error", err)
				purchase.TotalPrice = fullPrice
				purchase.PromoCode = ""
			}
		}

		if err := s.products.DecrementStock(sessCtx, req.ProductID, req.Quantity); err != nil {
			return s.mapProductError(err, req.ProductID)
		}

		tourist, err := s.tourists.DebitWallet(sessCtx, req.UserID, purchase.TotalPrice)
		if err != nil {
			return s.mapTouristError(err, req.UserID)
		}
		newBalance = tourist.Wallet

		if err := s.purchases.Create(sessCtx, purchase); err != nil {
			return apperrors.Internal("Failed to record purchase", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to place purchase", "user_id", req.UserID, "product_id", req.ProductID, "error", err)
		return nil, err
	}

	s.publisher.Publish(ctx, events.TypePurchaseCreated, purchase.ID, events.PurchaseEvent{
		PurchaseID: purchase.ID,
		UserID:     purchase.UserID,
		ProductID:  purchase.ProductID,
		Quantity:   purchase.Quantity,
		TotalPrice: purchase.TotalPrice,
		Status:     string(purchase.Status),
	})

	s.cfg.Log.Info("Purchase placed successfully",
		"id", purchase.ID,
		"user_id", purchase.UserID,
		"product_id", purchase.ProductID,
		"quantity", purchase.Quantity,
		"total_price", purchase.TotalPrice,
	)
	return &PurchaseResult{Purchase: purchase, NewBalance: newBalance}, nil
}

// CancelOrder reverses a purchase exactly: the units go back on the shelf,
// the sale count is reversed and the wallet is credited with what was paid.
func (s *purchaseService) CancelOrder(ctx context.Context, purchaseID string) (*CancelResult, error) {
	purchase, err := s.findByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}

	switch purchase.Status {
	case model.PurchaseStatusCancelled:
		return nil, apperrors.InvalidInput("Purchase is already cancelled")
	case model.PurchaseStatusDelivered:
		return nil, apperrors.InvalidInput("Delivered purchases cannot be cancelled")
	}

	var newBalance float64
	err = s.purchases.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		// The conditional flip is the arbiter between concurrent cancels
		// or a cancel racing a delivery. Only the winner refunds.
		tracking := model.NewTrackingUpdate(string(model.PurchaseStatusCancelled), "Order cancelled, refund issued")
		if err := s.purchases.MarkCancelled(sessCtx, purchaseID, tracking); err != nil {
			switch {
			case errors.Is(err, purchaseerrors.ErrAlreadyFinalized):
				return apperrors.Conflict("Purchase was already cancelled or delivered")
			case errors.Is(err, purchaseerrors.ErrNotFound):
				return apperrors.NotFound("Purchase")
			default:
				return apperrors.Internal("Failed to cancel purchase", err)
			}
		}

		if err := s.products.RestoreStock(sessCtx, purchase.ProductID, purchase.Quantity); err != nil {
			return s.mapProductError(err, purchase.ProductID)
		}

		tourist, err := s.tourists.CreditWallet(sessCtx, purchase.UserID, purchase.TotalPrice)
		if err != nil {
			return s.mapTouristError(err, purchase.UserID)
		}
		newBalance = tourist.Wallet
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to cancel purchase", "id", purchaseID, "error", err)
		return nil, err
	}

	s.publisher.Publish(ctx, events.TypePurchaseCancelled, purchase.ID, events.PurchaseEvent{
		PurchaseID: purchase.ID,
		UserID:     purchase.UserID,
		ProductID:  purchase.ProductID,
		Quantity:   purchase.Quantity,
		TotalPrice: purchase.TotalPrice,
		Status:     string(model.PurchaseStatusCancelled),
	})

	s.cfg.Log.Info("Purchase cancelled", "id", purchaseID, "refund", purchase.TotalPrice)
	return &CancelResult{
		RefundAmount:     purchase.TotalPrice,
		NewWalletBalance: newBalance,
	}, nil
}

// UpdateStatus drives the delivery progression. Cancellation goes through
// CancelOrder since it moves money; delivered and cancelled are terminal.
func (s *purchaseService) UpdateStatus(ctx context.Context, purchaseID string, status model.PurchaseStatus) (*model.Purchase, error) {
	switch status {
	case model.PurchaseStatusProcessing, model.PurchaseStatusOnTheWay, model.PurchaseStatusDelivered:
	case model.PurchaseStatusCancelled:
		return nil, apperrors.InvalidInput("Use the cancel endpoint to cancel a purchase")
	default:
		return nil, apperrors.InvalidInput("Status must be one of: processing, on_the_way, delivered")
	}

	purchase, err := s.findByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}

	if purchase.Status.Terminal() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("Purchase is already %s", purchase.Status))
	}

	tracking := model.NewTrackingUpdate(string(status), fmt.Sprintf("Status changed to %s", status))
	if err := s.purchases.UpdateStatus(ctx, purchaseID, status, tracking); err != nil {
		if errors.Is(err, purchaseerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Purchase", purchaseID)
		}
		return nil, apperrors.Internal("Failed to update purchase status", err)
	}

	purchase.Status = status
	purchase.TrackingUpdates = append(purchase.TrackingUpdates, tracking)

	s.publisher.Publish(ctx, events.TypePurchaseStatusUpdated, purchase.ID, events.PurchaseEvent{
		PurchaseID: purchase.ID,
		UserID:     purchase.UserID,
		ProductID:  purchase.ProductID,
		Quantity:   purchase.Quantity,
		TotalPrice: purchase.TotalPrice,
		Status:     string(status),
	})

	s.cfg.Log.Info("Purchase status updated", "id", purchaseID, "status", status)
	return purchase, nil
}

func (s *purchaseService) AddReview(ctx context.Context, purchaseID string, rating int, comment string) (*model.Purchase, error) {
	if rating < 1 || rating > 5 {
		return nil, apperrors.InvalidInput("Rating must be between 1 and 5")
	}

	purchase, err := s.findByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}

	if purchase.Status != model.PurchaseStatusDelivered {
		return nil, apperrors.InvalidInput("Only delivered purchases can be reviewed")
	}
	if purchase.Review != nil {
		return nil, apperrors.Conflict("Purchase has already been reviewed")
	}

	review := &model.PurchaseReview{
		Rating:  rating,
		Comment: sanitizer.NormalizeReview(comment),
		Date:    time.Now().UTC().Truncate(time.Millisecond),
	}

	if err := s.purchases.SetReview(ctx, purchaseID, review); err != nil {
		if errors.Is(err, purchaseerrors.ErrNotFound) {
			return nil, apperrors.Conflict("Purchase has already been reviewed")
		}
		return nil, apperrors.Internal("Failed to review purchase", err)
	}

	purchase.Review = review

	s.cfg.Log.Info("Purchase reviewed", "id", purchaseID, "rating", rating)
	return purchase, nil
}

func (s *purchaseService) GetByUser(ctx context.Context, userID string) ([]*model.Purchase, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	purchases, err := s.purchases.FindByUser(ctx, userID)
	if err != nil {
		s.cfg.Log.Error("Failed to list purchases by user", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve purchases", err)
	}

	return purchases, nil
}

// --- Helpers ---

func (s *purchaseService) findByID(ctx context.Context, id string) (*model.Purchase, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Purchase ID cannot be empty")
	}

	purchase, err := s.purchases.FindByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, purchaseerrors.ErrNotFound):
			return nil, apperrors.NotFoundWithID("Purchase", id)
		case errors.Is(err, purchaseerrors.ErrInvalidID):
			return nil, apperrors.InvalidInput("Invalid purchase ID format")
		default:
			return nil, apperrors.Internal("Failed to retrieve purchase", err)
		}
	}
	return purchase, nil
}

func (s *purchaseService) mapProductError(err error, productID string) error {
	switch {
	case errors.Is(err, purchaseerrors.ErrProductNotFound):
		return apperrors.NotFoundWithID("Product", productID)
	case errors.Is(err, purchaseerrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid product ID format")
	case errors.Is(err, purchaseerrors.ErrInsufficientStock):
		return apperrors.InsufficientStock("Not enough product stock for this order")
	default:
		return apperrors.Internal("Failed to access product", err)
	}
}

func (s *purchaseService) mapTouristError(err error, userID string) error {
	switch {
	case errors.Is(err, purchaseerrors.ErrTouristNotFound):
		return apperrors.NotFoundWithID("Tourist", userID)
	case errors.Is(err, purchaseerrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid user ID format")
	case errors.Is(err, purchaseerrors.ErrInsufficientFunds):
		return apperrors.InsufficientFunds("Wallet balance does not cover this purchase")
	default:
		return apperrors.Internal("Failed to access tourist", err)
	}
}
