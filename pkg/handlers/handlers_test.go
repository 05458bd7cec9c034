package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ficore-africa/ficore-credits/pkg/api"
	"github.com/ficore-africa/ficore-credits/pkg/guard"
	"github.com/ficore-africa/ficore-credits/pkg/handlers"
	"github.com/ficore-africa/ficore-credits/pkg/pricing"
	"github.com/ficore-africa/ficore-credits/pkg/storage/memory"
)

// TestRouterEndToEnd walks a user through the whole credit lifecycle over
// HTTP: register, top up, spend on a grocery list, check the balance and
// the ledger, and finally run out of credits.
func TestRouterEndToEnd(t *testing.T) {
	store := memory.New()
	g := guard.New(store, store, pricing.Default(), nil, nil)
	handler := handlers.NewApiHandler(store, g, nil)

	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	srv := httptest.NewServer(router)
	defer srv.Close()

	// Register.
	body, _ := json.Marshal(api.NewUser{UserId: "user-a", Email: "a@example.com"})
	resp, err := http.Post(srv.URL+"/users", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Top up one credit.
	body, _ = json.Marshal(api.TopUpRequest{Amount: 1})
	resp, err = http.Post(srv.URL+"/users/user-a/topup", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Create a list: 0.5 credits.
	body, _ = json.Marshal(api.NewGroceryList{Name: "weekly shop", Budget: 200})
	resp, err = http.Post(srv.URL+"/users/user-a/grocery-lists", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var list api.GroceryList
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	resp.Body.Close()

	// Add an item: another 0.5 credits.
	body, _ = json.Marshal(api.NewGroceryItem{Name: "rice", Quantity: 2, Price: 1200})
	resp, err = http.Post(srv.URL+"/users/user-a/grocery-lists/"+list.Id+"/items", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Balance is now zero.
	resp, err = http.Get(srv.URL + "/users/user-a/balance")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var balance api.Balance
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&balance))
	resp.Body.Close()
	assert.Zero(t, balance.CreditBalance)

	// The ledger shows the top-up and both deductions.
	resp, err = http.Get(srv.URL + "/users/user-a/transactions")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var txs []api.CreditTransaction
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&txs))
	resp.Body.Close()
	assert.Len(t, txs, 3)

	// Broke: the next charged action is rejected.
	body, _ = json.Marshal(api.NewGroceryList{Name: "second list"})
	resp, err = http.Post(srv.URL+"/users/user-a/grocery-lists", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()
}
