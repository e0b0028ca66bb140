package handlers

import (
	"errors"
	"net/http"
	"time"

	"vyapar-backend/internal/repositories"
	"vyapar-backend/internal/services"
	"vyapar-backend/internal/timeutil"
	"vyapar-backend/pkg/utils"
)

type LedgerHandler struct {
	ledger *services.LedgerService
}

func NewLedgerHandler(ledger *services.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

// dateRange reads from/to query params; defaults to the current
// financial year (1 April to today) when absent.
func dateRange(r *http.Request) (time.Time, time.Time, error) {
	q := r.URL.Query()
	now := timeutil.Now()

	fyStart := time.Date(now.Year(), time.April, 1, 0, 0, 0, 0, timeutil.IST)
	if now.Before(fyStart) {
		fyStart = fyStart.AddDate(-1, 0, 0)
	}

	from, to := fyStart, timeutil.EndOfDay(now)
	if v := q.Get("from"); v != "" {
		t, err := timeutil.ParseInIST(timeutil.DateLayout, v)
		if err != nil {
			return from, to, err
		}
		from = t
	}
	if v := q.Get("to"); v != "" {
		t, err := timeutil.ParseInIST(timeutil.DateLayout, v)
		if err != nil {
			return from, to, err
		}
		to = timeutil.EndOfDay(t)
	}
	return from, to, nil
}

// Statement returns the party's running-balance ledger for the range.
func (h *LedgerHandler) Statement(w http.ResponseWriter, r *http.Request) {
	partyID, err := pathID(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid party id")
		return
	}

	from, to, err := dateRange(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid date range")
		return
	}

	st, err := h.ledger.Statement(r.Context(), partyID, from, to)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.RespondError(w, http.StatusNotFound, "party not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "build statement failed")
		return
	}
	utils.RespondJSON(w, http.StatusOK, st)
}

// Receivables shows the FIFO allocation result: which receipts cover
// which invoices, plus the party's advance.
func (h *LedgerHandler) Receivables(w http.ResponseWriter, r *http.Request) {
	partyID, err := pathID(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid party id")
		return
	}

	result, err := h.ledger.Receivables(r.Context(), partyID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "receivables failed")
		return
	}
	utils.RespondJSON(w, http.StatusOK, result)
}

// Advance returns the party's spendable credit.
func (h *LedgerHandler) Advance(w http.ResponseWriter, r *http.Request) {
	partyID, err := pathID(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid party id")
		return
	}

	advance, err := h.ledger.AvailableAdvance(r.Context(), partyID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "advance lookup failed")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]float64{"advance": advance})
}
