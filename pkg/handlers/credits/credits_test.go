package credits_test

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
	"github.com/ficore-africa/ficore-credits/pkg/handlers/credits"
	"github.com/ficore-africa/ficore-credits/pkg/models"
	"github.com/ficore-africa/ficore-credits/pkg/pricing"
	"github.com/ficore-africa/ficore-credits/pkg/storage/memory"
)

func newStoreWithUser(t *testing.T, balance models.Credits) *memory.Store {
	t.Helper()
	store := memory.New()
	_, err := store.CreateUser(context.Background(), &models.User{
		ID:            "user-a",
		Email:         "a@example.com",
		Role:          models.RolePersonal,
		CreditBalance: balance,
	})
	require.NoError(t, err)
	return store
}

func TestGetBalance(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		store := newStoreWithUser(t, 150)
		h := credits.NewCreditsHandler(store, nil)

		req := httptest.NewRequest(http.MethodGet, "/users/user-a/balance", nil)
		rr := httptest.NewRecorder()

		h.GetBalance(rr, req, "user-a")

		require.Equal(t, http.StatusOK, rr.Code)

		var balance api.Balance
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &balance))
		assert.Equal(t, "user-a", balance.UserId)
		assert.Equal(t, 1.5, balance.CreditBalance)
	})

	t.Run("Not Found", func(t *testing.T) {
		h := credits.NewCreditsHandler(memory.New(), nil)

		req := httptest.NewRequest(http.MethodGet, "/users/ghost/balance", nil)
		rr := httptest.NewRecorder()

		h.GetBalance(rr, req, "ghost")

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestTopUp(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		store := newStoreWithUser(t, 0)
		h := credits.NewCreditsHandler(store, nil)

		body, _ := json.Marshal(api.TopUpRequest{Amount: 10})
		req := httptest.NewRequest(http.MethodPost, "/users/user-a/topup", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		h.TopUp(rr, req, "user-a")

		require.Equal(t, http.StatusCreated, rr.Code)

		var tx api.CreditTransaction
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tx))
		assert.Equal(t, 10.0, tx.Amount)
		assert.Equal(t, pricing.ActionTopUp, tx.Action)

		balance, err := store.GetBalance(context.Background(), "user-a")
		require.NoError(t, err)
		assert.Equal(t, models.Credits(1000), balance)
	})

	t.Run("Non-Positive Amount", func(t *testing.T) {
		store := newStoreWithUser(t, 0)
		h := credits.NewCreditsHandler(store, nil)

		body, _ := json.Marshal(api.TopUpRequest{Amount: -5})
		req := httptest.NewRequest(http.MethodPost, "/users/user-a/topup", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		h.TopUp(rr, req, "user-a")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Sub-Hundredth Amount", func(t *testing.T) {
		store := newStoreWithUser(t, 0)
		h := credits.NewCreditsHandler(store, nil)

		body, _ := json.Marshal(api.TopUpRequest{Amount: 0.005})
		req := httptest.NewRequest(http.MethodPost, "/users/user-a/topup", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		h.TopUp(rr, req, "user-a")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("User Not Found", func(t *testing.T) {
		h := credits.NewCreditsHandler(memory.New(), nil)

		body, _ := json.Marshal(api.TopUpRequest{Amount: 10})
		req := httptest.NewRequest(http.MethodPost, "/users/ghost/topup", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		h.TopUp(rr, req, "ghost")

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestListTransactions(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		store := newStoreWithUser(t, 1000)
		_, err := store.Deduct(context.Background(), "user-a", 50, pricing.CreateGroceryList, "list-1")
		require.NoError(t, err)
		_, err = store.Deduct(context.Background(), "user-a", 100, pricing.GenerateReport, "report-1")
		require.NoError(t, err)

		h := credits.NewCreditsHandler(store, nil)

		req := httptest.NewRequest(http.MethodGet, "/users/user-a/transactions", nil)
		rr := httptest.NewRecorder()

		h.ListTransactions(rr, req, "user-a")

		require.Equal(t, http.StatusOK, rr.Code)

		var txs []api.CreditTransaction
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &txs))
		require.Len(t, txs, 2)
		for _, tx := range txs {
			assert.Negative(t, tx.Amount)
			assert.Equal(t, api.Completed, tx.Status)
		}
	})

	t.Run("Invalid Limit", func(t *testing.T) {
		h := credits.NewCreditsHandler(memory.New(), nil)

		req := httptest.NewRequest(http.MethodGet, "/users/user-a/transactions?limit=zero", nil)
		rr := httptest.NewRecorder()

		h.ListTransactions(rr, req, "user-a")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
