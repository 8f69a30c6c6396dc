package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestGetOrCreateUser(t *testing.T) {
	db := newTestDB(t)

	user, err := db.GetOrCreateUser("123456")
	require.NoError(t, err)
	require.Equal(t, "123456", user.DiscordID)
	require.Zero(t, user.Coins)
	require.Zero(t, user.Gems)

	// Second call returns the same row
	again, err := db.GetOrCreateUser("123456")
	require.NoError(t, err)
	require.Equal(t, user.ID, again.ID)
}

func TestUpdateBalance(t *testing.T) {
	db := newTestDB(t)

	user, err := db.GetOrCreateUser("42")
	require.NoError(t, err)

	updated, err := db.UpdateBalance(user.ID, 500, 3)
	require.NoError(t, err)
	require.EqualValues(t, 500, updated.Coins)
	require.EqualValues(t, 3, updated.Gems)
}

func TestTransactionsRoundTrip(t *testing.T) {
	db := newTestDB(t)

	user, err := db.GetOrCreateUser("42")
	require.NoError(t, err)

	tx, err := db.InsertTransaction(user.ID, -100, 400, "coins", "mines_wager", "Mines entry")
	require.NoError(t, err)
	require.EqualValues(t, -100, tx.Amount)
	require.EqualValues(t, 400, tx.BalanceAfter)

	list, err := db.RecentTransactions(user.ID, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, tx.ID, list[0].ID)

	require.NoError(t, db.DeleteTransaction(tx.ID))

	list, err = db.RecentTransactions(user.ID, 10)
	require.NoError(t, err)
	require.Empty(t, list)

	// Deleting twice is an error
	require.Error(t, db.DeleteTransaction(tx.ID))
}

func TestRecentTransactionsNewestFirstAndCapped(t *testing.T) {
	db := newTestDB(t)

	user, err := db.GetOrCreateUser("42")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := db.InsertTransaction(user.ID, 10, int64(10*(i+1)), "coins", "reward_daily", "")
		require.NoError(t, err)
	}

	list, err := db.RecentTransactions(user.ID, 3)
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Greater(t, list[0].ID, list[1].ID)
	require.Greater(t, list[1].ID, list[2].ID)

	// Out-of-range limits are clamped instead of failing
	list, err = db.RecentTransactions(user.ID, -5)
	require.NoError(t, err)
	require.Len(t, list, 1)

	list, err = db.RecentTransactions(user.ID, 100000)
	require.NoError(t, err)
	require.Len(t, list, 5)
}

func TestRewardStateUpsert(t *testing.T) {
	db := newTestDB(t)

	user, err := db.GetOrCreateUser("42")
	require.NoError(t, err)

	states, err := db.GetRewardStates(user.ID)
	require.NoError(t, err)
	require.Empty(t, states)

	now := time.Now().UTC().Truncate(time.Second)
	next := now.Add(24 * time.Hour)

	rs, err := db.UpsertRewardState(user.ID, "daily", now, next, 1)
	require.NoError(t, err)
	require.EqualValues(t, 1, rs.TotalClaims)
	require.True(t, rs.NextResetAt.Valid)

	// Upsert replaces in place
	rs, err = db.UpsertRewardState(user.ID, "daily", now, next.Add(24*time.Hour), 2)
	require.NoError(t, err)
	require.EqualValues(t, 2, rs.TotalClaims)

	states, err = db.GetRewardStates(user.ID)
	require.NoError(t, err)
	require.Len(t, states, 1)
}
