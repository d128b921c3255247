package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"tripmarket/internal/bookings/service"
	apperrors "tripmarket/pkg/errors"
	httputil "tripmarket/pkg/http"
	"tripmarket/pkg/logger"
	"tripmarket/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

type statusUpdateRequest struct {
	Status model.BookingStatus `json:"status"`
}

type ratingRequest struct {
	Rating int    `json:"rating"`
	Review string `json:"review"`
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var booking model.Booking
	if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Invalid request body")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &booking); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) GetByUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := ps.ByName("userId")
	query := r.URL.Query()
	status := model.BookingStatus(query.Get("status"))
	bookingType := model.BookingType(query.Get("bookingType"))

	bookings, err := h.service.GetByUser(r.Context(), userID, status, bookingType)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByUser", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByUser", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("bookingId")

	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Invalid request body")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpdateStatus", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	booking, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpdateStatus", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateStatus", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("bookingId")

	booking, err := h.service.Cancel(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Cancel", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccessMessage(w, "Booking cancelled successfully", booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "operation", "WriteSuccessMessage", "error", err)
	}
}

func (h *BookingHandler) AddRating(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("bookingId")

	var req ratingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Invalid request body")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "AddRating", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	booking, err := h.service.AddRating(r.Context(), id, req.Rating, req.Review)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "AddRating", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "AddRating", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) CheckAvailability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	bookingType := model.BookingType(query.Get("bookingType"))
	itemID := query.Get("itemId")
	dateStr := query.Get("bookingDate")

	if dateStr == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("bookingDate query parameter is required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CheckAvailability", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	date, err := parseBookingDate(dateStr)
	if err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("bookingDate must be RFC3339 or YYYY-MM-DD")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CheckAvailability", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	availability, err := h.service.CheckAvailability(r.Context(), bookingType, itemID, date)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CheckAvailability", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, availability); err != nil {
		h.log.Error("failed to write success response", "handler", "CheckAvailability", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) GuideRatings(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	guideID := ps.ByName("guideId")

	summary, err := h.service.GuideRatings(r.Context(), guideID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GuideRatings", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, summary); err != nil {
		h.log.Error("failed to write success response", "handler", "GuideRatings", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) GuideRatingsPaginated(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	guideID := ps.ByName("guideId")

	page, limit, err := httputil.ExtractPageLimit(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GuideRatingsPaginated", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	summary, total, err := h.service.GuideRatingsPaginated(r.Context(), guideID, page, limit)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GuideRatingsPaginated", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, summary, total, page, limit); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GuideRatingsPaginated", "operation", "WritePaginated", "error", err)
	}
}

func parseBookingDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, s)
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings/user/:userId", h.GetByUser)
	router.PATCH("/api/v1/bookings/id/:bookingId/status", h.UpdateStatus)
	router.PATCH("/api/v1/bookings/cancel/:bookingId", h.Cancel)
	router.POST("/api/v1/bookings/id/:bookingId/rating", h.AddRating)
	router.GET("/api/v1/bookings/availability", h.CheckAvailability)
	router.GET("/api/v1/guides/:guideId/ratings", h.GuideRatings)
	router.GET("/api/v1/guides/:guideId/ratings/paginated", h.GuideRatingsPaginated)
}
