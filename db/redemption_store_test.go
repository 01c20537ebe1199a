package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildsighthq/wildsight/models"
)

func testReward() models.RewardCatalogEntry {
	return models.RewardCatalogEntry{ID: "rw-1", Name: "Conservation Sticker Pack", Cost: 200}
}

func TestRedemptionStore_AppendNewestFirst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "redemptions.json")
	store := NewRedemptionStore(path)

	first := models.NewRedemption("u-1", testReward())
	second := models.NewRedemption("u-1", testReward())
	require.NoError(t, store.SaveRedemption(first))
	require.NoError(t, store.SaveRedemption(second))

	all, err := store.GetAllRedemptions()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, first.ID, all[1].ID)
}

func TestRedemptionStore_MarkSyncedChangesOnlyTheFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "redemptions.json")
	store := NewRedemptionStore(path)

	redemption := models.NewRedemption("u-1", testReward())
	require.NoError(t, store.SaveRedemption(redemption))
	require.False(t, redemption.Synced)

	updated, err := store.MarkSynced(redemption.ID)
	require.NoError(t, err)
	assert.True(t, updated.Synced)
	assert.Equal(t, redemption.ID, updated.ID)
	assert.Equal(t, redemption.RewardID, updated.RewardID)
	assert.Equal(t, redemption.Cost, updated.Cost)
}

func TestRedemptionStore_CorruptSnapshotReadsAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "redemptions.json")
	require.NoError(t, os.WriteFile(path, []byte("]["), 0o644))

	store := NewRedemptionStore(path)
	all, err := store.GetAllRedemptions()
	require.NoError(t, err)
	assert.Empty(t, all)
}
