package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bookingserrors "tripmarket/internal/bookings/errors"
	"tripmarket/internal/bookings/repository"
	"tripmarket/internal/bookings/validator"
	"tripmarket/internal/catalog"
	"tripmarket/pkg/config"
	apperrors "tripmarket/pkg/errors"
	"tripmarket/pkg/events"
	"tripmarket/pkg/model"
	"tripmarket/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

// Availability reports whether a (type, item, day) slot can still be booked.
type Availability struct {
	Available        bool  `json:"available"`
	ExistingBookings int64 `json:"existingBookings"`
}

// GuideRatingsSummary aggregates the ratings left on a guide's itineraries.
type GuideRatingsSummary struct {
	Ratings       []*model.Booking `json:"ratings"`
	AverageRating float64          `json:"averageRating"`
	TotalRatings  int64            `json:"totalRatings"`
}

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	UpdateStatus(ctx context.Context, id string, status model.BookingStatus) (*model.Booking, error)
	Cancel(ctx context.Context, id string) (*model.Booking, error)
	AddRating(ctx context.Context, id string, rating int, review string) (*model.Booking, error)
	GetByUser(ctx context.Context, userID string, status model.BookingStatus, bookingType model.BookingType) ([]*model.Booking, error)
	CheckAvailability(ctx context.Context, bookingType model.BookingType, itemID string, date time.Time) (*Availability, error)
	GuideRatings(ctx context.Context, guideID string) (*GuideRatingsSummary, error)
	GuideRatingsPaginated(ctx context.Context, guideID string, page, limit int) (*GuideRatingsSummary, int64, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.BookingLockRepository
	catalog   catalog.Catalog
	validator *validator.BookingValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	cat catalog.Catalog,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		catalog:   cat,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	s.applyDefaults(booking)
	if err := s.validate(booking); err != nil {
		return err
	}

	resource, err := s.resolveResource(ctx, booking.BookingType, booking.ItemID)
	if err != nil {
		return err
	}

	day := model.NormalizeToDay(booking.BookingDate)
	if day.Before(model.NormalizeToDay(time.Now())) {
		return apperrors.InvalidInput("Cannot book a date in the past")
	}
	if err := s.checkDateRule(resource, booking.BookingType, day); err != nil {
		return err
	}
	booking.BookingDate = day

	// Acquire advisory lock to prevent race conditions
	lockID, err := s.acquireSlotLock(ctx, booking.BookingType, booking.ItemID, day)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releaseSlotLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		count, err := s.repo.CountActiveByItemAndDate(sessCtx, booking.BookingType, booking.ItemID, day)
		if err != nil {
			return apperrors.Internal("Failed to check existing bookings", err)
		}
		if count > 0 {
			return apperrors.Conflict("This item is already booked for the requested date")
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			if errors.Is(err, bookingserrors.ErrAlreadyBooked) {
				return apperrors.Conflict("This item is already booked for the requested date")
			}
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "error", err)
		return err
	}

	s.publisher.Publish(ctx, events.TypeBookingCreated, booking.ID, events.BookingEvent{
		BookingID:   booking.ID,
		UserID:      booking.UserID,
		BookingType: string(booking.BookingType),
		ItemID:      booking.ItemID,
		BookingDate: booking.BookingDate,
		Status:      string(booking.Status),
	})

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"user_id", booking.UserID,
		"booking_type", booking.BookingType,
		"item_id", booking.ItemID,
		"booking_date", booking.BookingDate,
	)
	return nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, id string, status model.BookingStatus) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	switch status {
	case model.BookingStatusPending, model.BookingStatusConfirmed, model.BookingStatusCancelled:
	default:
		// attended is derived from the booking date, never set by clients
		return nil, apperrors.InvalidInput("Status must be one of: pending, confirmed, cancelled")
	}

	booking, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		return nil, apperrors.Internal("Failed to update booking status", err)
	}
	booking.Status = status

	if status == model.BookingStatusCancelled {
		s.publishCancelled(ctx, booking)
	}

	s.cfg.Log.Info("Booking status updated", "id", id, "status", status)
	return booking, nil
}

func (s *bookingService) Cancel(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.Status == model.BookingStatusCancelled {
		return nil, apperrors.Conflict("Booking is already cancelled")
	}

	now := time.Now()
	if booking.BookingDate.Sub(now) < s.cfg.CancellationWindow {
		return nil, apperrors.InvalidInput(fmt.Sprintf(
			"Bookings can only be cancelled at least %d hours before the booking date",
			int(s.cfg.CancellationWindow.Hours()),
		))
	}

	if err := s.repo.UpdateStatus(ctx, id, model.BookingStatusCancelled); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		return nil, apperrors.Internal("Failed to cancel booking", err)
	}
	booking.Status = model.BookingStatusCancelled

	s.publishCancelled(ctx, booking)

	s.cfg.Log.Info("Booking cancelled", "id", id, "booking_date", booking.BookingDate)
	return booking, nil
}

func (s *bookingService) AddRating(ctx context.Context, id string, rating int, review string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if rating < 1 || rating > 5 {
		return nil, apperrors.InvalidInput("Rating must be between 1 and 5")
	}

	booking, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.BookingType != model.BookingTypeItinerary {
		return nil, apperrors.InvalidInput("Only itinerary bookings can be rated")
	}
	if booking.EffectiveStatus(time.Now()) != model.BookingStatusAttended {
		return nil, apperrors.InvalidInput("Only attended bookings can be rated")
	}
	if booking.Rating > 0 {
		return nil, apperrors.Conflict("Booking has already been rated")
	}

	review = sanitizer.NormalizeReview(review)

	if err := s.repo.SetRating(ctx, id, rating, review); err != nil {
		switch {
		case errors.Is(err, bookingserrors.ErrNotFound):
			return nil, apperrors.NotFoundWithID("Booking", id)
		case errors.Is(err, bookingserrors.ErrRatingExists):
			return nil, apperrors.Conflict("Booking has already been rated")
		default:
			return nil, apperrors.Internal("Failed to rate booking", err)
		}
	}

	booking.Rating = rating
	booking.Review = review

	s.cfg.Log.Info("Booking rated", "id", id, "rating", rating)
	return booking, nil
}

// GetByUser reports bookings with their derived status: past-date bookings
// that were never cancelled surface as attended. The status filter applies to
// the derived status, so filtering by attended works without a stored value.
func (s *bookingService) GetByUser(ctx context.Context, userID string, status model.BookingStatus, bookingType model.BookingType) ([]*model.Booking, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}
	if bookingType != "" && !bookingType.Valid() {
		return nil, apperrors.InvalidInput("bookingType must be one of: Activity, Itinerary, HistoricalPlace")
	}

	bookings, err := s.repo.FindByUser(ctx, userID, bookingType)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings by user", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	now := time.Now()
	result := make([]*model.Booking, 0, len(bookings))
	for _, b := range bookings {
		b.Status = b.EffectiveStatus(now)
		if status != "" && b.Status != status {
			continue
		}
		result = append(result, b)
	}

	return result, nil
}

func (s *bookingService) CheckAvailability(ctx context.Context, bookingType model.BookingType, itemID string, date time.Time) (*Availability, error) {
	resource, err := s.resolveResource(ctx, bookingType, itemID)
	if err != nil {
		return nil, err
	}

	day := model.NormalizeToDay(date)
	count, err := s.repo.CountActiveByItemAndDate(ctx, bookingType, itemID, day)
	if err != nil {
		s.cfg.Log.Error("Failed to count bookings for availability",
			"booking_type", bookingType,
			"item_id", itemID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to check availability", err)
	}

	available := count == 0 && s.dayAllowed(resource, bookingType, day)
	return &Availability{Available: available, ExistingBookings: count}, nil
}

func (s *bookingService) GuideRatings(ctx context.Context, guideID string) (*GuideRatingsSummary, error) {
	if guideID == "" {
		return nil, apperrors.InvalidInput("Guide ID cannot be empty")
	}

	var total int64
	var average float64
	var ratings []*model.Booking
	var errStats, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		total, average, errStats = s.repo.GuideRatingStats(ctx, guideID)
		if errStats != nil {
			s.cfg.Log.Error("Failed to aggregate guide rating stats", "guide_id", guideID, "error", errStats)
			errStats = apperrors.Internal("Failed to aggregate guide ratings", errStats)
		}
	}()

	go func() {
		defer wg.Done()
		ratings, errFind = s.repo.FindRatedByGuide(ctx, guideID, 0, 0)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list guide ratings", "guide_id", guideID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve guide ratings", errFind)
		}
	}()

	wg.Wait()
	if errStats != nil {
		return nil, errStats
	}
	if errFind != nil {
		return nil, errFind
	}

	return &GuideRatingsSummary{
		Ratings:       ratings,
		AverageRating: average,
		TotalRatings:  total,
	}, nil
}

func (s *bookingService) GuideRatingsPaginated(ctx context.Context, guideID string, page, limit int) (*GuideRatingsSummary, int64, error) {
	if guideID == "" {
		return nil, 0, apperrors.InvalidInput("Guide ID cannot be empty")
	}
	if page < 1 {
		page = 1
	}
	limit = config.NormalizePaginationLimit(limit)
	offset := int64(page-1) * int64(limit)

	var total int64
	var average float64
	var ratings []*model.Booking
	var errStats, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		total, average, errStats = s.repo.GuideRatingStats(ctx, guideID)
		if errStats != nil {
			s.cfg.Log.Error("Failed to aggregate guide rating stats", "guide_id", guideID, "error", errStats)
			errStats = apperrors.Internal("Failed to aggregate guide ratings", errStats)
		}
	}()

	go func() {
		defer wg.Done()
		ratings, errFind = s.repo.FindRatedByGuide(ctx, guideID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list guide ratings", "guide_id", guideID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve guide ratings", errFind)
		}
	}()

	wg.Wait()
	if errStats != nil {
		return nil, 0, errStats
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	summary := &GuideRatingsSummary{
		Ratings:       ratings,
		AverageRating: average,
		TotalRatings:  total,
	}
	return summary, total, nil
}

// --- Helpers ---

// applyDefaults claims the server-owned fields. Every booking starts
// out confirmed and unrated regardless of what the request body carried.
func (s *bookingService) applyDefaults(b *model.Booking) {
	b.ID = ""
	b.Status = model.BookingStatusConfirmed
	b.Rating = 0
	b.Review = ""
	b.CreatedAt = time.Time{}
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *bookingService) resolveResource(ctx context.Context, bookingType model.BookingType, itemID string) (*catalog.Resource, error) {
	if !bookingType.Valid() {
		return nil, apperrors.InvalidInput("bookingType must be one of: Activity, Itinerary, HistoricalPlace")
	}
	if itemID == "" {
		return nil, apperrors.InvalidInput("Item ID cannot be empty")
	}

	resource, err := s.catalog.Get(ctx, bookingType, itemID)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			return nil, apperrors.NotFoundWithID(string(bookingType), itemID)
		case errors.Is(err, catalog.ErrInvalidID):
			return nil, apperrors.InvalidInput("Invalid item ID format")
		case errors.Is(err, catalog.ErrUnknownType):
			return nil, apperrors.InvalidInput("bookingType must be one of: Activity, Itinerary, HistoricalPlace")
		default:
			return nil, apperrors.Internal("Failed to look up booked item", err)
		}
	}
	return resource, nil
}

func (s *bookingService) checkDateRule(resource *catalog.Resource, bookingType model.BookingType, day time.Time) error {
	if s.dayAllowed(resource, bookingType, day) {
		return nil
	}
	switch resource.Constraint.Kind {
	case catalog.ConstraintFixedDate:
		return apperrors.InvalidInput("Activity is not scheduled for the requested date")
	default:
		return apperrors.InvalidInput("Itinerary is not available on the requested date")
	}
}

func (s *bookingService) dayAllowed(resource *catalog.Resource, bookingType model.BookingType, day time.Time) bool {
	if resource.Constraint.Kind == catalog.ConstraintDateList && !s.cfg.EnforceItineraryDates {
		return true
	}
	return resource.Constraint.AllowsDay(day)
}

func (s *bookingService) publishCancelled(ctx context.Context, booking *model.Booking) {
	s.publisher.Publish(ctx, events.TypeBookingCancelled, booking.ID, events.BookingEvent{
		BookingID:   booking.ID,
		UserID:      booking.UserID,
		BookingType: string(booking.BookingType),
		ItemID:      booking.ItemID,
		BookingDate: booking.BookingDate,
		Status:      string(booking.Status),
	})
}

func (s *bookingService) findByID(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, bookingserrors.ErrNotFound):
			return nil, apperrors.NotFoundWithID("Booking", id)
		case errors.Is(err, bookingserrors.ErrInvalidID):
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		default:
			return nil, apperrors.Internal("Failed to retrieve booking", err)
		}
	}
	return booking, nil
}

// acquireSlotLock creates an advisory lock to prevent concurrent booking creation
// Returns the lock ID if successful, or conflict error if lock already exists
func (s *bookingService) acquireSlotLock(ctx context.Context, bookingType model.BookingType, itemID string, day time.Time) (string, error) {
	lockID := fmt.Sprintf("booking_lock_%s_%s_%d", bookingType, itemID, day.Unix())

	lock := &model.BookingLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.BookingLockTTL),
	}

	_, err := s.lockRepo.Create(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This slot is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire booking lock", err)
	}

	return lockID, nil
}

// releaseSlotLock removes the advisory lock
func (s *bookingService) releaseSlotLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}
