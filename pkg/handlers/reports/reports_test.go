package reports_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ficore-africa/ficore-credits/pkg/api"
	"github.com/ficore-africa/ficore-credits/pkg/guard"
	"github.com/ficore-africa/ficore-credits/pkg/handlers/reports"
	"github.com/ficore-africa/ficore-credits/pkg/models"
	"github.com/ficore-africa/ficore-credits/pkg/pricing"
	"github.com/ficore-africa/ficore-credits/pkg/storage/memory"
)

func newHandler(t *testing.T, balance models.Credits) (*memory.Store, *reports.ReportsHandler) {
	t.Helper()
	store := memory.New()
	_, err := store.CreateUser(context.Background(), &models.User{
		ID:            "user-a",
		Email:         "a@example.com",
		Role:          models.RolePersonal,
		CreditBalance: balance,
	})
	require.NoError(t, err)

	g := guard.New(store, store, pricing.Default(), nil, nil)
	return store, reports.NewReportsHandler(store, g)
}

func TestGenerateReport(t *testing.T) {
	t.Run("Success Charges One Credit", func(t *testing.T) {
		store, h := newHandler(t, 0)
		_, err := store.TopUp(context.Background(), "user-a", 500, pricing.ActionTopUp, "ref-1")
		require.NoError(t, err)
		_, err = store.Deduct(context.Background(), "user-a", 50, pricing.CreateGroceryList, "list-1")
		require.NoError(t, err)
		_, err = store.Deduct(context.Background(), "user-a", 50, pricing.AddGroceryItem, "item-1")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/users/user-a/reports", nil)
		rr := httptest.NewRecorder()

		h.GenerateReport(rr, req, "user-a")

		require.Equal(t, http.StatusOK, rr.Code)

		var report api.CreditReport
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
		assert.Equal(t, "user-a", report.UserId)
		assert.Equal(t, 5.0, report.TotalToppedUp)
		assert.Equal(t, 1.0, report.TotalSpent)
		assert.Equal(t, 0.5, report.SpentByAction[pricing.CreateGroceryList])
		assert.Equal(t, 3, report.TransactionCount)

		// The report itself cost one credit: 5 - 0.5 - 0.5 - 1.
		balance, err := store.GetBalance(context.Background(), "user-a")
		require.NoError(t, err)
		assert.Equal(t, models.Credits(300), balance)
	})

	t.Run("Insufficient Credits", func(t *testing.T) {
		_, h := newHandler(t, 50)

		req := httptest.NewRequest(http.MethodPost, "/users/user-a/reports", nil)
		rr := httptest.NewRecorder()

		h.GenerateReport(rr, req, "user-a")

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("User Not Found", func(t *testing.T) {
		_, h := newHandler(t, 0)

		req := httptest.NewRequest(http.MethodPost, "/users/ghost/reports", nil)
		rr := httptest.NewRecorder()

		h.GenerateReport(rr, req, "ghost")

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
