package users_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ficore-africa/ficore-credits/pkg/api"
	"github.com/ficore-africa/ficore-credits/pkg/handlers/users"
	"github.com/ficore-africa/ficore-credits/pkg/models"
	"github.com/ficore-africa/ficore-credits/pkg/storage/memory"
)

func TestCreateUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		store := memory.New()
		h := users.NewUsersHandler(store)

		body, _ := json.Marshal(api.NewUser{UserId: "user-a", Email: "a@example.com"})
		req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		h.CreateUser(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)

		var created api.User
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
		assert.Equal(t, "user-a", created.UserId)
		assert.Equal(t, api.Personal, created.Role)
		assert.Zero(t, created.CreditBalance)
	})

	t.Run("Duplicate", func(t *testing.T) {
		store := memory.New()
		_, err := store.CreateUser(context.Background(), &models.User{ID: "user-a", Email: "a@example.com"})
		require.NoError(t, err)

		h := users.NewUsersHandler(store)

		body, _ := json.Marshal(api.NewUser{UserId: "user-a", Email: "a@example.com"})
		req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		h.CreateUser(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("Missing User ID", func(t *testing.T) {
		store := memory.New()
		h := users.NewUsersHandler(store)

		body, _ := json.Marshal(api.NewUser{Email: "a@example.com"})
		req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		h.CreateUser(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestGetUserById(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		store := memory.New()
		_, err := store.CreateUser(context.Background(), &models.User{ID: "user-a", Email: "a@example.com", Role: models.RoleTrader})
		require.NoError(t, err)

		h := users.NewUsersHandler(store)

		req := httptest.NewRequest(http.MethodGet, "/users/user-a", nil)
		rr := httptest.NewRecorder()

		h.GetUserById(rr, req, "user-a")

		require.Equal(t, http.StatusOK, rr.Code)

		var got api.User
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, api.Trader, got.Role)
	})

	t.Run("Not Found", func(t *testing.T) {
		h := users.NewUsersHandler(memory.New())

		req := httptest.NewRequest(http.MethodGet, "/users/ghost", nil)
		rr := httptest.NewRecorder()

		h.GetUserById(rr, req, "ghost")

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestDeleteUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		store := memory.New()
		_, err := store.CreateUser(context.Background(), &models.User{ID: "user-a", Email: "a@example.com"})
		require.NoError(t, err)

		h := users.NewUsersHandler(store)

		req := httptest.NewRequest(http.MethodDelete, "/users/user-a", nil)
		rr := httptest.NewRecorder()

		h.DeleteUser(rr, req, "user-a")

		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("Not Found", func(t *testing.T) {
		h := users.NewUsersHandler(memory.New())

		req := httptest.NewRequest(http.MethodDelete, "/users/ghost", nil)
		rr := httptest.NewRecorder()

		h.DeleteUser(rr, req, "ghost")

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
