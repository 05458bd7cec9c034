package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ficore-africa/ficore-credits/pkg/models"
	"github.com/ficore-africa/ficore-credits/pkg/storage"
)

func newStoreWithUser(t *testing.T, balance models.Credits) *Store {
	t.Helper()
	s := New()
	_, err := s.CreateUser(context.Background(), &models.User{
		ID:            "user1",
		Role:          models.RolePersonal,
		CreditBalance: balance,
	})
	require.NoError(t, err)
	return s
}

func TestDeductSuccess(t *testing.T) {
	ctx := context.Background()
	s := newStoreWithUser(t, 100) // 1.0 credits

	tx, err := s.Deduct(ctx, "user1", 50, "create_grocery_list", "list-1")
	require.NoError(t, err)

	assert.Equal(t, models.Credits(-50), tx.Amount)
	assert.Equal(t, models.COMPLETED, tx.Status)

	balance, err := s.GetBalance(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, models.Credits(50), balance)

	txs, err := s.ListTransactions(ctx, "user1", 10)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, models.Credits(-50), txs[0].Amount)
}

func TestDeductInsufficient(t *testing.T) {
	ctx := context.Background()
	s := newStoreWithUser(t, 30) // 0.3 credits

	_, err := s.Deduct(ctx, "user1", 50, "create_grocery_list", "")
	assert.ErrorIs(t, err, storage.ErrInsufficientCredits)

	// Balance unchanged, no transaction written.
	balance, err := s.GetBalance(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, models.Credits(30), balance)

	txs, err := s.ListTransactions(ctx, "user1", 10)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestDeductToExactlyZero(t *testing.T) {
	ctx := context.Background()
	s := newStoreWithUser(t, 200) // 2.0 credits

	for i := 0; i < 4; i++ {
		_, err := s.Deduct(ctx, "user1", 50, "add_grocery_item", "")
		require.NoError(t, err, "deduction %d", i+1)
	}

	balance, err := s.GetBalance(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, models.Credits(0), balance)

	// A fifth deduction must fail.
	_, err = s.Deduct(ctx, "user1", 50, "add_grocery_item", "")
	assert.ErrorIs(t, err, storage.ErrInsufficientCredits)
}

func TestDeductNonPositiveAmount(t *testing.T) {
	ctx := context.Background()
	s := newStoreWithUser(t, 100)

	_, err := s.Deduct(ctx, "user1", -100, "bad_action", "")
	assert.ErrorIs(t, err, storage.ErrInvalidAmount)

	_, err = s.Deduct(ctx, "user1", 0, "bad_action", "")
	assert.ErrorIs(t, err, storage.ErrInvalidAmount)

	balance, err := s.GetBalance(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, models.Credits(100), balance)

	txs, err := s.ListTransactions(ctx, "user1", 10)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestDeductUnknownUser(t *testing.T) {
	_, err := New().Deduct(context.Background(), "ghost", 50, "create_grocery_list", "")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

// Two concurrent deductions whose combined amount exceeds the balance must
// not both succeed.
func TestConcurrentDeductions(t *testing.T) {
	ctx := context.Background()
	s := newStoreWithUser(t, 100) // each deduction individually covered, not both

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.Deduct(ctx, "user1", 70, "export_grocery_list_pdf", "")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, storage.ErrInsufficientCredits)
		}
	}
	assert.Equal(t, 1, succeeded)

	balance, err := s.GetBalance(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, models.Credits(30), balance)
}

// The balance after any sequence of deductions equals the starting balance
// minus the amounts of the successful ones, and never goes negative.
func TestDeductionInvariant(t *testing.T) {
	ctx := context.Background()
	start := models.Credits(170)
	s := newStoreWithUser(t, start)

	amounts := []models.Credits{50, 200, 50, 100, 50, 50}
	var spent models.Credits
	for _, amount := range amounts {
		if _, err := s.Deduct(ctx, "user1", amount, "save_grocery_list", ""); err == nil {
			spent += amount
		}
		balance, err := s.GetBalance(ctx, "user1")
		require.NoError(t, err)
		assert.Equal(t, start-spent, balance)
		assert.GreaterOrEqual(t, int64(balance), int64(0))
	}
}

func TestGetBalanceHasNoSideEffects(t *testing.T) {
	ctx := context.Background()
	s := newStoreWithUser(t, 70)

	for i := 0; i < 5; i++ {
		balance, err := s.GetBalance(ctx, "user1")
		require.NoError(t, err)
		assert.Equal(t, models.Credits(70), balance)
	}

	txs, err := s.ListTransactions(ctx, "user1", 10)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestTopUp(t *testing.T) {
	ctx := context.Background()
	s := newStoreWithUser(t, 0)

	tx, err := s.TopUp(ctx, "user1", 500, "admin_top_up", "")
	require.NoError(t, err)
	assert.Equal(t, models.Credits(500), tx.Amount)

	balance, err := s.GetBalance(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, models.Credits(500), balance)
}
