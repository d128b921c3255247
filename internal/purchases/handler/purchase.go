package handler

import (
	"encoding/json"
	"net/http"

	promoservice "tripmarket/internal/promo/service"
	"tripmarket/internal/purchases/service"
	apperrors "tripmarket/pkg/errors"
	httputil "tripmarket/pkg/http"
	"tripmarket/pkg/logger"
	"tripmarket/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type PurchaseHandler struct {
	service service.PurchaseService
	promos  promoservice.PromoService
	log     *logger.Logger
}

func NewPurchaseHandler(service service.PurchaseService, promos promoservice.PromoService, log *logger.Logger) *PurchaseHandler {
	return &PurchaseHandler{
		service: service,
		promos:  promos,
		log:     log,
	}
}

type statusUpdateRequest struct {
	Status model.PurchaseStatus `json:"status"`
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type validatePromoRequest struct {
	Code   string  `json:"code"`
	UserID string  `json:"userId"`
	Amount float64 `json:"amount"`
}

func (h *PurchaseHandler) Purchase(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req service.PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Invalid request body")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Purchase", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	result, err := h.service.Purchase(r.Context(), &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Purchase", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Purchase", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PurchaseHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("purchaseId")

	result, err := h.service.CancelOrder(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Cancel", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccessMessage(w, "Purchase cancelled and refunded", result); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "operation", "WriteSuccessMessage", "error", err)
	}
}

func (h *PurchaseHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("purchaseId")

	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Invalid request body")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpdateStatus", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	purchase, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpdateStatus", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, purchase); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateStatus", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PurchaseHandler) AddReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("purchaseId")

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Invalid request body")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "AddReview", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	purchase, err := h.service.AddReview(r.Context(), id, req.Rating, req.Comment)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "AddReview", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, purchase); err != nil {
		h.log.Error("failed to write success response", "handler", "AddReview", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PurchaseHandler) GetByUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := ps.ByName("userId")

	purchases, err := h.service.GetByUser(r.Context(), userID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByUser", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, purchases); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByUser", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PurchaseHandler) ValidatePromo(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req validatePromoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Invalid request body")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ValidatePromo", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	result, err := h.promos.Validate(r.Context(), req.Code, req.UserID, req.Amount)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ValidatePromo", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "ValidatePromo", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PurchaseHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/products/purchase", h.Purchase)
	router.POST("/api/v1/products/purchases/id/:purchaseId/cancel", h.Cancel)
	router.PATCH("/api/v1/products/purchases/id/:purchaseId/status", h.UpdateStatus)
	router.POST("/api/v1/products/purchases/id/:purchaseId/review", h.AddReview)
	router.GET("/api/v1/products/purchases/user/:userId", h.GetByUser)
	router.POST("/api/v1/products/validate-promo", h.ValidatePromo)
}
