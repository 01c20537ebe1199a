package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apiError "github.com/wildsighthq/wildsight/errors"
)

func TestPointsStore_CreditAndDebit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "points.json")
	store := NewPointsStore(path)

	balance, err := store.Credit("u-1", 150)
	require.NoError(t, err)
	assert.Equal(t, 150, balance)

	balance, err = store.Debit("u-1", 50)
	require.NoError(t, err)
	assert.Equal(t, 100, balance)

	// Balances survive a reload.
	reloaded := NewPointsStore(path)
	balance, err = reloaded.Balance("u-1")
	require.NoError(t, err)
	assert.Equal(t, 100, balance)
}

func TestPointsStore_DebitInsufficientFundsLeavesBalance(t *testing.T) {
	store := NewPointsStore(filepath.Join(t.TempDir(), "points.json"))

	_, err := store.Credit("u-1", 150)
	require.NoError(t, err)

	_, err = store.Debit("u-1", 200)
	assert.ErrorIs(t, err, apiError.ErrInsufficientFunds)

	balance, err := store.Balance("u-1")
	require.NoError(t, err)
	assert.Equal(t, 150, balance)
}

func TestPointsStore_DebitExactBalanceReachesZero(t *testing.T) {
	store := NewPointsStore(filepath.Join(t.TempDir(), "points.json"))

	_, err := store.Credit("u-1", 200)
	require.NoError(t, err)

	balance, err := store.Debit("u-1", 200)
	require.NoError(t, err)
	assert.Equal(t, 0, balance)
}

func TestPointsStore_NegativeAmountsRejected(t *testing.T) {
	store := NewPointsStore(filepath.Join(t.TempDir(), "points.json"))

	_, err := store.Credit("u-1", -10)
	assert.Error(t, err)
	_, err = store.Debit("u-1", -10)
	assert.Error(t, err)

	balance, err := store.Balance("u-1")
	require.NoError(t, err)
	assert.Equal(t, 0, balance)
}
