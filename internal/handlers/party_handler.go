package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"vyapar-backend/internal/models"
	"vyapar-backend/internal/repositories"
	"vyapar-backend/internal/services"
	"vyapar-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type PartyHandler struct {
	parties *services.PartyService
	ledger  *services.LedgerService
}

func NewPartyHandler(parties *services.PartyService, ledger *services.LedgerService) *PartyHandler {
	return &PartyHandler{parties: parties, ledger: ledger}
}

func pathID(r *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(r)["id"])
}

func (h *PartyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePartyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	party, err := h.parties.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrPartyName) {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "create party failed")
		return
	}
	utils.RespondJSON(w, http.StatusCreated, party)
}

func (h *PartyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid party id")
		return
	}

	var req models.CreatePartyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	party, err := h.parties.Update(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			utils.RespondError(w, http.StatusNotFound, "party not found")
		case errors.Is(err, services.ErrPartyName):
			utils.RespondError(w, http.StatusBadRequest, err.Error())
		default:
			utils.RespondError(w, http.StatusInternalServerError, "update party failed")
		}
		return
	}
	utils.RespondJSON(w, http.StatusOK, party)
}

func (h *PartyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid party id")
		return
	}

	party, err := h.parties.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.RespondError(w, http.StatusNotFound, "party not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "get party failed")
		return
	}
	utils.RespondJSON(w, http.StatusOK, party)
}

func (h *PartyHandler) List(w http.ResponseWriter, r *http.Request) {
	parties, err := h.parties.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "list parties failed")
		return
	}
	utils.RespondJSON(w, http.StatusOK, parties)
}

func (h *PartyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid party id")
		return
	}

	if err := h.parties.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.RespondError(w, http.StatusNotFound, "party not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "delete party failed")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Summary returns the party's cached ledger position.
func (h *PartyHandler) Summary(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid party id")
		return
	}

	summary, err := h.ledger.Summary(r.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.RespondError(w, http.StatusNotFound, "party not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "party summary failed")
		return
	}
	utils.RespondJSON(w, http.StatusOK, summary)
}
