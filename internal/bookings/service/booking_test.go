package service

import (
	"context"
	"testing"
	"time"

	"tripmarket/internal/bookings/validator"
	"tripmarket/internal/catalog"
	"tripmarket/pkg/config"
	mongotx "tripmarket/pkg/db/mongo"
	apperrors "tripmarket/pkg/errors"
	"tripmarket/pkg/events"
	"tripmarket/pkg/logger"
	"tripmarket/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

// ────────────────────────────────────────────────
// Mocks
// ────────────────────────────────────────────────

type mockBookingRepository struct {
	createFunc           func(ctx context.Context, booking *model.Booking) error
	findByIDFunc         func(ctx context.Context, id string) (*model.Booking, error)
	findByUserFunc       func(ctx context.Context, userID string, bookingType model.BookingType) ([]*model.Booking, error)
	countActiveFunc      func(ctx context.Context, bookingType model.BookingType, itemID string, date time.Time) (int64, error)
	updateStatusFunc     func(ctx context.Context, id string, status model.BookingStatus) error
	setRatingFunc        func(ctx context.Context, id string, rating int, review string) error
	findRatedByGuideFunc func(ctx context.Context, guideID string, limit int, offset int64) ([]*model.Booking, error)
	guideRatingStatsFunc func(ctx context.Context, guideID string) (int64, float64, error)
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	booking.ID = "65a000000000000000000001"
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockBookingRepository) FindByUser(ctx context.Context, userID string, bookingType model.BookingType) ([]*model.Booking, error) {
	if m.findByUserFunc != nil {
		return m.findByUserFunc(ctx, userID, bookingType)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) CountActiveByItemAndDate(ctx context.Context, bookingType model.BookingType, itemID string, date time.Time) (int64, error) {
	if m.countActiveFunc != nil {
		return m.countActiveFunc(ctx, bookingType, itemID, date)
	}
	return 0, nil
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id string, status model.BookingStatus) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *mockBookingRepository) SetRating(ctx context.Context, id string, rating int, review string) error {
	if m.setRatingFunc != nil {
		return m.setRatingFunc(ctx, id, rating, review)
	}
	return nil
}

func (m *mockBookingRepository) FindRatedByGuide(ctx context.Context, guideID string, limit int, offset int64) ([]*model.Booking, error) {
	if m.findRatedByGuideFunc != nil {
		return m.findRatedByGuideFunc(ctx, guideID, limit, offset)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) GuideRatingStats(ctx context.Context, guideID string) (int64, float64, error) {
	if m.guideRatingStatsFunc != nil {
		return m.guideRatingStatsFunc(ctx, guideID)
	}
	return 0, 0, nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockLockRepository struct {
	createFunc func(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error)
	deleted    []string
}

func (m *mockLockRepository) Create(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, lock)
	}
	return lock, nil
}

func (m *mockLockRepository) Delete(ctx context.Context, lockID string) error {
	m.deleted = append(m.deleted, lockID)
	return nil
}

type mockAdapter struct {
	resource *catalog.Resource
	err      error
}

func (m *mockAdapter) Get(ctx context.Context, id string) (*catalog.Resource, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.resource, nil
}

// ────────────────────────────────────────────────
// Helpers
// ────────────────────────────────────────────────

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	log := logger.New(logger.Config{
		Level:     "info",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	return &config.Config{
		Log:                   log,
		ReadTimeout:           5 * time.Second,
		WriteTimeout:          5 * time.Second,
		CancellationWindow:    48 * time.Hour,
		BookingLockTTL:        10 * time.Second,
		EnforceItineraryDates: true,
	}
}

func newTestService(cfg *config.Config, repo *mockBookingRepository, locks *mockLockRepository, adapters map[model.BookingType]catalog.Adapter) BookingService {
	if locks == nil {
		locks = &mockLockRepository{}
	}
	return NewBookingService(
		repo,
		locks,
		catalog.New(adapters),
		validator.NewBookingValidator(cfg.Log),
		events.NewNoopPublisher(),
		cfg,
	)
}

func futureDay(daysAhead int) time.Time {
	return model.NormalizeToDay(time.Now().AddDate(0, 0, daysAhead))
}

const (
	testUserID = "65a000000000000000000010"
	testItemID = "65a000000000000000000020"
)

func activityAdapterFor(day time.Time) map[model.BookingType]catalog.Adapter {
	return map[model.BookingType]catalog.Adapter{
		model.BookingTypeActivity: &mockAdapter{resource: &catalog.Resource{
			ID:         testItemID,
			Name:       "Old Town Walking Tour",
			Constraint: catalog.DateConstraint{Kind: catalog.ConstraintFixedDate, FixedDate: day},
		}},
	}
}

// ────────────────────────────────────────────────
// Create
// ────────────────────────────────────────────────

func TestCreate_Success(t *testing.T) {
	day := futureDay(5)
	cfg := testConfig(t)
	repo := &mockBookingRepository{}
	locks := &mockLockRepository{}
	svc := newTestService(cfg, repo, locks, activityAdapterFor(day))

	booking := &model.Booking{
		UserID:      testUserID,
		BookingType: model.BookingTypeActivity,
		ItemID:      testItemID,
		BookingDate: day.Add(13 * time.Hour),
	}

	if err := svc.Create(context.Background(), booking); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != model.BookingStatusConfirmed {
		t.Errorf("expected status confirmed, got %s", booking.Status)
	}
	if !booking.BookingDate.Equal(day) {
		t.Errorf("expected booking date normalized to %v, got %v", day, booking.BookingDate)
	}
	if booking.ID == "" {
		t.Error("expected booking ID to be set after create")
	}
	if len(locks.deleted) != 1 {
		t.Errorf("expected advisory lock to be released once, got %d", len(locks.deleted))
	}
}

func TestCreate_OverridesClientOwnedFields(t *testing.T) {
	day := futureDay(5)
	cfg := testConfig(t)
	var stored *model.Booking
	repo := &mockBookingRepository{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			booking.ID = "65a000000000000000000001"
			stored = booking
			return nil
		},
	}
	locks := &mockLockRepository{}
	svc := newTestService(cfg, repo, locks, activityAdapterFor(day))

	booking := &model.Booking{
		ID:          "65a0000000000000000000ff",
		UserID:      testUserID,
		BookingType: model.BookingTypeActivity,
		ItemID:      testItemID,
		BookingDate: day,
		Status:      model.BookingStatusAttended,
		Rating:      5,
		Review:      "wrote itself in",
		CreatedAt:   time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	if err := svc.Create(context.Background(), booking); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored == nil {
		t.Fatal("expected booking to reach the repository")
	}
	if stored.Status != model.BookingStatusConfirmed {
		t.Errorf("expected status confirmed regardless of request body, got %s", stored.Status)
	}
	if stored.Rating != 0 || stored.Review != "" {
		t.Errorf("expected rating and review cleared at creation, got rating=%d review=%q", stored.Rating, stored.Review)
	}
	if booking.ID != "65a000000000000000000001" {
		t.Errorf("expected ID assigned by the repository, got %s", booking.ID)
	}
}

func TestCreate_PastDateRejected(t *testing.T) {
	day := futureDay(-2)
	cfg := testConfig(t)
	svc := newTestService(cfg, &mockBookingRepository{}, nil, activityAdapterFor(day))

	booking := &model.Booking{
		UserID:      testUserID,
		BookingType: model.BookingTypeActivity,
		ItemID:      testItemID,
		BookingDate: day,
	}

	err := svc.Create(context.Background(), booking)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeInvalidInput {
		t.Fatalf("expected INVALID_INPUT for past date, got %v", err)
	}
}

func TestCreate_FixedDateMismatch(t *testing.T) {
	cfg := testConfig(t)
	svc := newTestService(cfg, &mockBookingRepository{}, nil, activityAdapterFor(futureDay(5)))

	booking := &model.Booking{
		UserID:      testUserID,
		BookingType: model.BookingTypeActivity,
		ItemID:      testItemID,
		BookingDate: futureDay(6),
	}

	err := svc.Create(context.Background(), booking)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeInvalidInput {
		t.Fatalf("expected INVALID_INPUT for date mismatch, got %v", err)
	}
}

func TestCreate_DuplicateSlotConflict(t *testing.T) {
	day := futureDay(5)
	cfg := testConfig(t)
	repo := &mockBookingRepository{
		countActiveFunc: func(ctx context.Context, bookingType model.BookingType, itemID string, date time.Time) (int64, error) {
			return 1, nil
		},
	}
	svc := newTestService(cfg, repo, nil, activityAdapterFor(day))

	booking := &model.Booking{
		UserID:      testUserID,
		BookingType: model.BookingTypeActivity,
		ItemID:      testItemID,
		BookingDate: day,
	}

	err := svc.Create(context.Background(), booking)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected CONFLICT for duplicate slot, got %v", err)
	}
}

func TestCreate_LockContention(t *testing.T) {
	day := futureDay(5)
	cfg := testConfig(t)
	locks := &mockLockRepository{
		createFunc: func(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
			return nil, mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
		},
	}
	svc := newTestService(cfg, &mockBookingRepository{}, locks, activityAdapterFor(day))

	booking := &model.Booking{
		UserID:      testUserID,
		BookingType: model.BookingTypeActivity,
		ItemID:      testItemID,
		BookingDate: day,
	}

	err := svc.Create(context.Background(), booking)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected CONFLICT for lock contention, got %v", err)
	}
}

func TestCreate_ResourceNotFound(t *testing.T) {
	cfg := testConfig(t)
	adapters := map[model.BookingType]catalog.Adapter{
		model.BookingTypeActivity: &mockAdapter{err: catalog.ErrNotFound},
	}
	svc := newTestService(cfg, &mockBookingRepository{}, nil, adapters)

	booking := &model.Booking{
		UserID:      testUserID,
		BookingType: model.BookingTypeActivity,
		ItemID:      testItemID,
		BookingDate: futureDay(5),
	}

	err := svc.Create(context.Background(), booking)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND for missing resource, got %v", err)
	}
}

func TestCreate_ItineraryDateEnforcementToggle(t *testing.T) {
	listedDay := futureDay(5)
	offListDay := futureDay(7)
	adapters := map[model.BookingType]catalog.Adapter{
		model.BookingTypeItinerary: &mockAdapter{resource: &catalog.Resource{
			ID:      testItemID,
			GuideID: "65a000000000000000000030",
			Constraint: catalog.DateConstraint{
				Kind:           catalog.ConstraintDateList,
				AvailableDates: []time.Time{listedDay},
			},
		}},
	}

	makeBooking := func() *model.Booking {
		return &model.Booking{
			UserID:      testUserID,
			BookingType: model.BookingTypeItinerary,
			ItemID:      testItemID,
			BookingDate: offListDay,
		}
	}

	cfg := testConfig(t)
	svc := newTestService(cfg, &mockBookingRepository{}, nil, adapters)
	err := svc.Create(context.Background(), makeBooking())
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeInvalidInput {
		t.Fatalf("expected INVALID_INPUT when enforcement is on, got %v", err)
	}

	cfg = testConfig(t)
	cfg.EnforceItineraryDates = false
	svc = newTestService(cfg, &mockBookingRepository{}, nil, adapters)
	if err := svc.Create(context.Background(), makeBooking()); err != nil {
		t.Fatalf("expected success when enforcement is off, got %v", err)
	}
}

// ────────────────────────────────────────────────
// Status transitions
// ────────────────────────────────────────────────

func TestUpdateStatus_RejectsAttended(t *testing.T) {
	cfg := testConfig(t)
	svc := newTestService(cfg, &mockBookingRepository{}, nil, nil)

	_, err := svc.UpdateStatus(context.Background(), "65a000000000000000000001", model.BookingStatusAttended)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeInvalidInput {
		t.Fatalf("expected INVALID_INPUT for attended status, got %v", err)
	}
}

func TestCancel_InsideWindowRejected(t *testing.T) {
	cfg := testConfig(t)
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return &model.Booking{
				ID:          id,
				UserID:      testUserID,
				BookingType: model.BookingTypeActivity,
				ItemID:      testItemID,
				BookingDate: time.Now().Add(24 * time.Hour),
				Status:      model.BookingStatusConfirmed,
			}, nil
		},
	}
	svc := newTestService(cfg, repo, nil, nil)

	_, err := svc.Cancel(context.Background(), "65a000000000000000000001")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeInvalidInput {
		t.Fatalf("expected INVALID_INPUT inside cancellation window, got %v", err)
	}
}

func TestCancel_OutsideWindowSucceeds(t *testing.T) {
	cfg := testConfig(t)
	var storedStatus model.BookingStatus
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return &model.Booking{
				ID:          id,
				UserID:      testUserID,
				BookingType: model.BookingTypeActivity,
				ItemID:      testItemID,
				BookingDate: time.Now().Add(72 * time.Hour),
				Status:      model.BookingStatusConfirmed,
			}, nil
		},
		updateStatusFunc: func(ctx context.Context, id string, status model.BookingStatus) error {
			storedStatus = status
			return nil
		},
	}
	svc := newTestService(cfg, repo, nil, nil)

	booking, err := svc.Cancel(context.Background(), "65a000000000000000000001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != model.BookingStatusCancelled {
		t.Errorf("expected returned status cancelled, got %s", booking.Status)
	}
	if storedStatus != model.BookingStatusCancelled {
		t.Errorf("expected stored status cancelled, got %s", storedStatus)
	}
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	cfg := testConfig(t)
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return &model.Booking{
				ID:          id,
				BookingDate: time.Now().Add(96 * time.Hour),
				Status:      model.BookingStatusCancelled,
			}, nil
		},
	}
	svc := newTestService(cfg, repo, nil, nil)

	_, err := svc.Cancel(context.Background(), "65a000000000000000000001")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected CONFLICT for already-cancelled booking, got %v", err)
	}
}

// ────────────────────────────────────────────────
// Ratings
// ────────────────────────────────────────────────

func attendedItinerary(id string) *model.Booking {
	return &model.Booking{
		ID:          id,
		UserID:      testUserID,
		BookingType: model.BookingTypeItinerary,
		ItemID:      testItemID,
		BookingDate: model.NormalizeToDay(time.Now().AddDate(0, 0, -3)),
		Status:      model.BookingStatusConfirmed,
	}
}

func TestAddRating_Success(t *testing.T) {
	cfg := testConfig(t)
	var gotRating int
	var gotReview string
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return attendedItinerary(id), nil
		},
		setRatingFunc: func(ctx context.Context, id string, rating int, review string) error {
			gotRating = rating
			gotReview = review
			return nil
		},
	}
	svc := newTestService(cfg, repo, nil, nil)

	booking, err := svc.AddRating(context.Background(), "65a000000000000000000001", 5, "  Wonderful trip  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotRating != 5 {
		t.Errorf("expected rating 5 persisted, got %d", gotRating)
	}
	if gotReview != "Wonderful trip" {
		t.Errorf("expected sanitized review, got %q", gotReview)
	}
	if booking.Rating != 5 {
		t.Errorf("expected rating 5 on returned booking, got %d", booking.Rating)
	}
}

func TestAddRating_Gates(t *testing.T) {
	tests := []struct {
		name     string
		booking  func() *model.Booking
		rating   int
		wantCode string
	}{
		{
			name: "rejects non-itinerary booking",
			booking: func() *model.Booking {
				b := attendedItinerary("65a000000000000000000001")
				b.BookingType = model.BookingTypeActivity
				return b
			},
			rating:   4,
			wantCode: apperrors.CodeInvalidInput,
		},
		{
			name: "rejects upcoming booking",
			booking: func() *model.Booking {
				b := attendedItinerary("65a000000000000000000001")
				b.BookingDate = time.Now().Add(72 * time.Hour)
				return b
			},
			rating:   4,
			wantCode: apperrors.CodeInvalidInput,
		},
		{
			name: "rejects cancelled booking",
			booking: func() *model.Booking {
				b := attendedItinerary("65a000000000000000000001")
				b.Status = model.BookingStatusCancelled
				return b
			},
			rating:   4,
			wantCode: apperrors.CodeInvalidInput,
		},
		{
			name: "rejects second rating",
			booking: func() *model.Booking {
				b := attendedItinerary("65a000000000000000000001")
				b.Rating = 4
				return b
			},
			rating:   5,
			wantCode: apperrors.CodeConflict,
		},
		{
			name:     "rejects out-of-range rating",
			booking:  func() *model.Booking { return attendedItinerary("65a000000000000000000001") },
			rating:   6,
			wantCode: apperrors.CodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			repo := &mockBookingRepository{
				findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
					return tt.booking(), nil
				},
			}
			svc := newTestService(cfg, repo, nil, nil)

			_, err := svc.AddRating(context.Background(), "65a000000000000000000001", tt.rating, "review")
			appErr := apperrors.AsAppError(err)
			if appErr == nil || appErr.Code != tt.wantCode {
				t.Fatalf("expected %s, got %v", tt.wantCode, err)
			}
		})
	}
}

// ────────────────────────────────────────────────
// Queries
// ────────────────────────────────────────────────

func TestGetByUser_DerivesAttendedStatus(t *testing.T) {
	cfg := testConfig(t)
	repo := &mockBookingRepository{
		findByUserFunc: func(ctx context.Context, userID string, bookingType model.BookingType) ([]*model.Booking, error) {
			return []*model.Booking{
				{ID: "1", BookingDate: time.Now().Add(72 * time.Hour), Status: model.BookingStatusConfirmed},
				{ID: "2", BookingDate: time.Now().AddDate(0, 0, -2), Status: model.BookingStatusConfirmed},
				{ID: "3", BookingDate: time.Now().AddDate(0, 0, -2), Status: model.BookingStatusCancelled},
			}, nil
		},
	}
	svc := newTestService(cfg, repo, nil, nil)

	bookings, err := svc.GetByUser(context.Background(), testUserID, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bookings) != 3 {
		t.Fatalf("expected 3 bookings, got %d", len(bookings))
	}
	if bookings[0].Status != model.BookingStatusConfirmed {
		t.Errorf("upcoming booking: expected confirmed, got %s", bookings[0].Status)
	}
	if bookings[1].Status != model.BookingStatusAttended {
		t.Errorf("past booking: expected attended, got %s", bookings[1].Status)
	}
	if bookings[2].Status != model.BookingStatusCancelled {
		t.Errorf("cancelled booking: expected cancelled, got %s", bookings[2].Status)
	}
}

func TestGetByUser_StatusFilterAppliesToDerivedStatus(t *testing.T) {
	cfg := testConfig(t)
	repo := &mockBookingRepository{
		findByUserFunc: func(ctx context.Context, userID string, bookingType model.BookingType) ([]*model.Booking, error) {
			return []*model.Booking{
				{ID: "1", BookingDate: time.Now().Add(72 * time.Hour), Status: model.BookingStatusConfirmed},
				{ID: "2", BookingDate: time.Now().AddDate(0, 0, -2), Status: model.BookingStatusConfirmed},
			}, nil
		},
	}
	svc := newTestService(cfg, repo, nil, nil)

	bookings, err := svc.GetByUser(context.Background(), testUserID, model.BookingStatusAttended, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bookings) != 1 || bookings[0].ID != "2" {
		t.Fatalf("expected only the past booking as attended, got %d results", len(bookings))
	}
}

func TestCheckAvailability(t *testing.T) {
	day := futureDay(5)

	tests := []struct {
		name          string
		count         int64
		requestedDay  time.Time
		wantAvailable bool
	}{
		{name: "free allowed day", count: 0, requestedDay: day, wantAvailable: true},
		{name: "taken day", count: 1, requestedDay: day, wantAvailable: false},
		{name: "day outside schedule", count: 0, requestedDay: futureDay(9), wantAvailable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			repo := &mockBookingRepository{
				countActiveFunc: func(ctx context.Context, bookingType model.BookingType, itemID string, date time.Time) (int64, error) {
					return tt.count, nil
				},
			}
			svc := newTestService(cfg, repo, nil, activityAdapterFor(day))

			availability, err := svc.CheckAvailability(context.Background(), model.BookingTypeActivity, testItemID, tt.requestedDay)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if availability.Available != tt.wantAvailable {
				t.Errorf("expected available=%v, got %v", tt.wantAvailable, availability.Available)
			}
			if availability.ExistingBookings != tt.count {
				t.Errorf("expected existingBookings=%d, got %d", tt.count, availability.ExistingBookings)
			}
		})
	}
}

func TestGuideRatings_ConcurrentAggregation(t *testing.T) {
	cfg := testConfig(t)
	repo := &mockBookingRepository{
		guideRatingStatsFunc: func(ctx context.Context, guideID string) (int64, float64, error) {
			time.Sleep(10 * time.Millisecond)
			return 2, 4.5, nil
		},
		findRatedByGuideFunc: func(ctx context.Context, guideID string, limit int, offset int64) ([]*model.Booking, error) {
			time.Sleep(10 * time.Millisecond)
			return []*model.Booking{
				{ID: "1", Rating: 4},
				{ID: "2", Rating: 5},
			}, nil
		},
	}
	svc := newTestService(cfg, repo, nil, nil)

	for i := 0; i < 10; i++ {
		summary, err := svc.GuideRatings(context.Background(), "65a000000000000000000030")
		if err != nil {
			t.Fatalf("iteration %d: unexpected error: %v", i, err)
		}
		if summary.TotalRatings != 2 {
			t.Errorf("iteration %d: expected total 2, got %d", i, summary.TotalRatings)
		}
		if summary.AverageRating != 4.5 {
			t.Errorf("iteration %d: expected average 4.5, got %f", i, summary.AverageRating)
		}
		if len(summary.Ratings) != 2 {
			t.Errorf("iteration %d: expected 2 ratings, got %d", i, len(summary.Ratings))
		}
	}
}

func TestGuideRatingsPaginated_PageWindow(t *testing.T) {
	cfg := testConfig(t)
	var gotLimit int
	var gotOffset int64
	repo := &mockBookingRepository{
		guideRatingStatsFunc: func(ctx context.Context, guideID string) (int64, float64, error) {
			return 25, 4.0, nil
		},
		findRatedByGuideFunc: func(ctx context.Context, guideID string, limit int, offset int64) ([]*model.Booking, error) {
			gotLimit = limit
			gotOffset = offset
			return []*model.Booking{{ID: "21", Rating: 4}}, nil
		},
	}
	svc := newTestService(cfg, repo, nil, nil)

	summary, total, err := svc.GuideRatingsPaginated(context.Background(), "65a000000000000000000030", 3, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 25 {
		t.Errorf("expected total 25, got %d", total)
	}
	if gotLimit != 10 || gotOffset != 20 {
		t.Errorf("expected limit 10 offset 20, got limit %d offset %d", gotLimit, gotOffset)
	}
	if summary.TotalRatings != 25 {
		t.Errorf("expected summary total 25, got %d", summary.TotalRatings)
	}
}
