package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"vyapar-backend/internal/middleware"
	"vyapar-backend/internal/models"
	"vyapar-backend/internal/repositories"
	"vyapar-backend/internal/services"
	"vyapar-backend/internal/timeutil"
	"vyapar-backend/pkg/utils"
)

type PaymentHandler struct {
	payments *services.PaymentService
}

func NewPaymentHandler(payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID, _ := middleware.UserIDFromContext(r.Context())

	p, err := h.payments.Create(r.Context(), req, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBadAmount),
			errors.Is(err, services.ErrBadDate):
			utils.RespondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrUnknownParty),
			errors.Is(err, services.ErrUnknownBill):
			utils.RespondError(w, http.StatusBadRequest, err.Error())
		default:
			utils.RespondError(w, http.StatusInternalServerError, "record payment failed")
		}
		return
	}
	utils.RespondJSON(w, http.StatusCreated, p)
}

func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid payment id")
		return
	}

	p, err := h.payments.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.RespondError(w, http.StatusNotFound, "payment not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "get payment failed")
		return
	}
	utils.RespondJSON(w, http.StatusOK, p)
}

// List requires party_id and accepts an optional from/to range.
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	partyID, err := strconv.Atoi(q.Get("party_id"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "party_id is required")
		return
	}

	var from, to time.Time
	if v := q.Get("from"); v != "" {
		if from, err = timeutil.ParseInIST(timeutil.DateLayout, v); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid from date")
			return
		}
	}
	if v := q.Get("to"); v != "" {
		t, err := timeutil.ParseInIST(timeutil.DateLayout, v)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid to date")
			return
		}
		to = timeutil.EndOfDay(t)
	}

	payments, err := h.payments.ListByParty(r.Context(), partyID, from, to)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "list payments failed")
		return
	}
	utils.RespondJSON(w, http.StatusOK, payments)
}

func (h *PaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid payment id")
		return
	}

	if err := h.payments.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.RespondError(w, http.StatusNotFound, "payment not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "delete payment failed")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
