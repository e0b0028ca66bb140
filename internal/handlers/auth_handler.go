package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"vyapar-backend/internal/models"
	"vyapar-backend/internal/services"
	"vyapar-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type AuthHandler struct {
	users *services.UserService
}

func NewAuthHandler(users *services.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.users.Signup(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			utils.RespondError(w, http.StatusConflict, err.Error())
		case errors.Is(err, services.ErrWeakPassword):
			utils.RespondError(w, http.StatusBadRequest, err.Error())
		default:
			utils.RespondError(w, http.StatusInternalServerError, "signup failed")
		}
		return
	}

	utils.RespondJSON(w, http.StatusCreated, resp)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.users.Login(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			utils.RespondError(w, http.StatusUnauthorized, err.Error())
		case errors.Is(err, services.ErrAccountDisabled):
			utils.RespondError(w, http.StatusForbidden, err.Error())
		default:
			utils.RespondError(w, http.StatusInternalServerError, "login failed")
		}
		return
	}

	utils.RespondJSON(w, http.StatusOK, resp)
}

// CreateUser is the admin-only path for adding accountant/staff accounts.
func (h *AuthHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.users.CreateUser(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			utils.RespondError(w, http.StatusConflict, err.Error())
		case errors.Is(err, services.ErrWeakPassword):
			utils.RespondError(w, http.StatusBadRequest, err.Error())
		default:
			utils.RespondError(w, http.StatusInternalServerError, "create user failed")
		}
		return
	}

	utils.RespondJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "list users failed")
		return
	}
	utils.RespondJSON(w, http.StatusOK, users)
}

func (h *AuthHandler) SetUserActive(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var body struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.users.SetActive(r.Context(), id, body.Active); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "update user failed")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]bool{"active": body.Active})
}
