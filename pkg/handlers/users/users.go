package users

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ficore-africa/ficore-credits/pkg/api"
	"github.com/ficore-africa/ficore-credits/pkg/mapping"
	"github.com/ficore-africa/ficore-credits/pkg/storage"
)

// UsersHandler holds the dependencies for user-related handlers.
type UsersHandler struct {
	Store storage.UserStore
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(store storage.UserStore) *UsersHandler {
	return &UsersHandler{Store: store}
}

// CreateUser handles the logic for registering a new user.
func (h *UsersHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var newUser api.NewUser
	if err := json.NewDecoder(r.Body).Decode(&newUser); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if newUser.UserId == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	domainUser := mapping.ToDomainNewUser(&newUser)

	createdUser, err := h.Store.CreateUser(r.Context(), domainUser)
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			http.Error(w, "User already exists", http.StatusConflict)
		} else {
			http.Error(w, fmt.Sprintf("Failed to create user: %v", err), http.StatusInternalServerError)
		}
		return
	}

	apiUser := mapping.ToApiUser(createdUser)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(apiUser); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// GetUserById handles the logic for retrieving a user.
func (h *UsersHandler) GetUserById(w http.ResponseWriter, r *http.Request, userId string) {
	domainUser, err := h.Store.GetUser(r.Context(), userId)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
		} else {
			http.Error(w, fmt.Sprintf("Failed to retrieve user: %v", err), http.StatusInternalServerError)
		}
		return
	}

	apiUser := mapping.ToApiUser(domainUser)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiUser); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// DeleteUser handles the logic for deleting a user.
func (h *UsersHandler) DeleteUser(w http.ResponseWriter, r *http.Request, userId string) {
	if err := h.Store.DeleteUser(r.Context(), userId); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
		} else {
			http.Error(w, fmt.Sprintf("Failed to delete user: %v", err), http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
