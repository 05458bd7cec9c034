package guard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ficore-africa/ficore-credits/pkg/models"
	"github.com/ficore-africa/ficore-credits/pkg/pricing"
	"github.com/ficore-africa/ficore-credits/pkg/storage"
	"github.com/ficore-africa/ficore-credits/pkg/storage/memory"
)

// failingLedger wraps a CreditLedger and fails every Deduct.
type failingLedger struct {
	storage.CreditLedger
	err error
}

func (f *failingLedger) Deduct(_ context.Context, _ string, _ models.Credits, _, _ string) (*models.CreditTransaction, error) {
	return nil, f.err
}

// recordingReporter captures reported incidents.
type recordingReporter struct {
	incidents []*models.Incident
}

func (r *recordingReporter) Report(_ context.Context, incident *models.Incident) error {
	r.incidents = append(r.incidents, incident)
	return nil
}

func seedUser(t *testing.T, store *memory.Store, role models.Role, balance models.Credits) *models.User {
	t.Helper()
	user, err := store.CreateUser(context.Background(), &models.User{
		ID:            "user-1",
		Email:         "user@example.com",
		Role:          role,
		CreditBalance: balance,
	})
	require.NoError(t, err)
	return user
}

func TestDoDeductsOnSuccess(t *testing.T) {
	store := memory.New()
	seedUser(t, store, models.RolePersonal, 100)
	g := New(store, store, pricing.Default(), nil, nil)

	applied := false
	ref, tx, err := g.Do(context.Background(), "user-1", pricing.CreateGroceryList, Mutation{
		Apply: func(ctx context.Context) (string, error) {
			applied = true
			return "list-1", nil
		},
		Compensate: func(ctx context.Context, ref string) error {
			t.Fatal("compensate must not run on success")
			return nil
		},
	})

	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, "list-1", ref)
	require.NotNil(t, tx)
	assert.Equal(t, models.Credits(-50), tx.Amount)
	assert.Equal(t, pricing.CreateGroceryList, tx.Action)

	balance, err := store.GetBalance(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.Credits(50), balance)
}

func TestDoRejectsBeforeApplyWhenBroke(t *testing.T) {
	store := memory.New()
	seedUser(t, store, models.RolePersonal, 30)
	g := New(store, store, pricing.Default(), nil, nil)

	_, _, err := g.Do(context.Background(), "user-1", pricing.SaveGroceryList, Mutation{
		Apply: func(ctx context.Context) (string, error) {
			t.Fatal("apply must not run when the balance cannot cover the cost")
			return "", nil
		},
	})

	assert.ErrorIs(t, err, storage.ErrInsufficientCredits)

	balance, err := store.GetBalance(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.Credits(30), balance)
}

func TestDoCompensatesWhenDeductFails(t *testing.T) {
	store := memory.New()
	seedUser(t, store, models.RolePersonal, 100)
	ledger := &failingLedger{CreditLedger: store, err: errors.New("backend unavailable")}
	g := New(store, ledger, pricing.Default(), nil, nil)

	// The mutation inserts a list; the failed deduction must delete it again.
	_, err := store.CreateList(context.Background(), &models.GroceryList{ID: "list-1", UserID: "user-1"})
	require.NoError(t, err)

	compensated := false
	_, _, err = g.Do(context.Background(), "user-1", pricing.AddGroceryItem, Mutation{
		Apply: func(ctx context.Context) (string, error) {
			item, err := store.AddItem(ctx, &models.GroceryItem{ID: "item-1", ListID: "list-1", Name: "rice"})
			if err != nil {
				return "", err
			}
			return item.ID, nil
		},
		Compensate: func(ctx context.Context, ref string) error {
			compensated = true
			return store.DeleteItem(ctx, ref)
		},
	})

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCompensationFailed)
	assert.True(t, compensated)

	_, err = store.GetItem(context.Background(), "item-1")
	assert.ErrorIs(t, err, storage.ErrItemNotFound)

	balance, err := store.GetBalance(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.Credits(100), balance)
}

func TestDoReportsIncidentWhenCompensationFails(t *testing.T) {
	store := memory.New()
	seedUser(t, store, models.RolePersonal, 100)
	ledger := &failingLedger{CreditLedger: store, err: errors.New("backend unavailable")}
	reporter := &recordingReporter{}
	g := New(store, ledger, pricing.Default(), reporter, nil)

	_, _, err := g.Do(context.Background(), "user-1", pricing.CreateGroceryList, Mutation{
		Apply: func(ctx context.Context) (string, error) {
			return "list-1", nil
		},
		Compensate: func(ctx context.Context, ref string) error {
			return errors.New("delete rejected")
		},
	})

	require.ErrorIs(t, err, ErrCompensationFailed)
	require.Len(t, reporter.incidents, 1)
	incident := reporter.incidents[0]
	assert.Equal(t, "user-1", incident.UserID)
	assert.Equal(t, pricing.CreateGroceryList, incident.Action)
	assert.Equal(t, "list-1", incident.EntityRef)
	assert.Equal(t, models.Credits(50), incident.Amount)
	assert.Contains(t, incident.Reason, "delete rejected")
}

func TestDoAdminBypassesDeduction(t *testing.T) {
	store := memory.New()
	seedUser(t, store, models.RoleAdmin, 0)
	g := New(store, store, pricing.Default(), nil, nil)

	ref, tx, err := g.Do(context.Background(), "user-1", pricing.GenerateReport, Mutation{
		Apply: func(ctx context.Context) (string, error) {
			return "report-1", nil
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "report-1", ref)
	assert.Nil(t, tx)

	txs, err := store.ListTransactions(context.Background(), "user-1", 10)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestDoUnknownAction(t *testing.T) {
	store := memory.New()
	seedUser(t, store, models.RolePersonal, 100)
	g := New(store, store, pricing.Default(), nil, nil)

	_, _, err := g.Do(context.Background(), "user-1", "mystery_action", Mutation{
		Apply: func(ctx context.Context) (string, error) { return "x", nil },
	})
	assert.ErrorIs(t, err, pricing.ErrUnknownAction)
}

func TestDoApplyFailureLeavesBalanceUntouched(t *testing.T) {
	store := memory.New()
	seedUser(t, store, models.RolePersonal, 100)
	g := New(store, store, pricing.Default(), nil, nil)

	_, _, err := g.Do(context.Background(), "user-1", pricing.CreateGroceryList, Mutation{
		Apply: func(ctx context.Context) (string, error) {
			return "", errors.New("validation failed")
		},
	})
	require.Error(t, err)

	balance, err := store.GetBalance(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.Credits(100), balance)
}

func TestCheckBalance(t *testing.T) {
	store := memory.New()
	seedUser(t, store, models.RolePersonal, 50)
	g := New(store, store, pricing.Default(), nil, nil)

	ok, cost, err := g.CheckBalance(context.Background(), "user-1", pricing.CreateGroceryList)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, models.Credits(50), cost)

	ok, _, err = g.CheckBalance(context.Background(), "user-1", pricing.DeleteGroceryList)
	require.NoError(t, err)
	assert.False(t, ok)
}
