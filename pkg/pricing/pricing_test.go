package pricing

import (
	"testing"

	"github.com/ficore-africa/ficore-credits/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCost(t *testing.T) {
	table := Default()

	cost, err := table.Cost(CreateGroceryList)
	require.NoError(t, err)
	assert.Equal(t, models.Credits(50), cost)

	cost, err = table.Cost(DeleteGroceryList)
	require.NoError(t, err)
	assert.Equal(t, models.Credits(200), cost)

	cost, err = table.Cost(GenerateReport)
	require.NoError(t, err)
	assert.Equal(t, models.Credits(100), cost)
}

func TestCostUnknownAction(t *testing.T) {
	_, err := Default().Cost("mint_free_credits")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestAllCostsPositive(t *testing.T) {
	for action, cost := range Default() {
		assert.Greater(t, int64(cost), int64(0), "action %s", action)
	}
}
