package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"vyapar-backend/internal/models"
	"vyapar-backend/internal/repositories"
	"vyapar-backend/internal/services"
	"vyapar-backend/internal/timeutil"
	"vyapar-backend/pkg/utils"
)

type InvoiceHandler struct {
	invoices *services.InvoiceService
}

func NewInvoiceHandler(invoices *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Kind == "" {
		req.Kind = models.KindSale
	}

	inv, err := h.invoices.Create(r.Context(), req)
	if err != nil {
		respondInvoiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, inv)
}

func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid invoice id")
		return
	}

	var req models.CreateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inv, err := h.invoices.Update(r.Context(), id, req)
	if err != nil {
		respondInvoiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, inv)
}

func respondInvoiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		utils.RespondError(w, http.StatusNotFound, "invoice not found")
	case errors.Is(err, services.ErrUnknownParty):
		utils.RespondError(w, http.StatusBadRequest, "unknown party")
	case errors.Is(err, services.ErrNoLines),
		errors.Is(err, services.ErrBadDate),
		errors.Is(err, services.ErrBadQty):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		utils.RespondError(w, http.StatusInternalServerError, "invoice save failed")
	}
}

func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid invoice id")
		return
	}

	inv, err := h.invoices.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.RespondError(w, http.StatusNotFound, "invoice not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "get invoice failed")
		return
	}
	utils.RespondJSON(w, http.StatusOK, inv)
}

// List filters by kind, party_id, from and to query parameters.
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repositories.ListFilter{Kind: models.InvoiceKind(q.Get("kind"))}

	if v := q.Get("party_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid party_id")
			return
		}
		filter.PartyID = id
	}
	if v := q.Get("from"); v != "" {
		t, err := timeutil.ParseInIST(timeutil.DateLayout, v)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid from date")
			return
		}
		filter.From = t
	}
	if v := q.Get("to"); v != "" {
		t, err := timeutil.ParseInIST(timeutil.DateLayout, v)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid to date")
			return
		}
		filter.To = timeutil.EndOfDay(t)
	}

	invoices, err := h.invoices.List(r.Context(), filter)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "list invoices failed")
		return
	}
	utils.RespondJSON(w, http.StatusOK, invoices)
}

func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid invoice id")
		return
	}

	if err := h.invoices.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.RespondError(w, http.StatusNotFound, "invoice not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "delete invoice failed")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
