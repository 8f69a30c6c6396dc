package economy

import (
	"database/sql"
	"math/rand/v2"
	"testing"
	"time"

	"arcadepal/internal/database"
	"arcadepal/internal/rewardclock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	for _, kind := range AllKinds {
		parsed, ok := ParseKind(kind.CustomID())
		require.True(t, ok)
		assert.Equal(t, kind, parsed)
	}

	for _, bad := range []string{"", "eco_", "eco_yearly", "ECO_DAILY", "jkp_rock"} {
		_, ok := ParseKind(bad)
		assert.False(t, ok, "token %q must be rejected", bad)
	}
}

func TestMoneyRanges(t *testing.T) {
	tests := []struct {
		kind     Kind
		min, max int64
	}{
		{Daily, 250, 400},
		{Weekly, 800, 1400},
		{Monthly, 4000, 6000},
	}

	for _, tt := range tests {
		t.Run(tt.kind.DBName(), func(t *testing.T) {
			lo, hi := tt.kind.MoneyRange()
			assert.Equal(t, tt.min, lo)
			assert.Equal(t, tt.max, hi)
		})
	}
}

func TestRollRewardBounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 12))

	for _, kind := range AllKinds {
		lo, hi := kind.MoneyRange()
		sawGems, sawNoGems := false, false

		for range 500 {
			coins, gems := RollReward(kind, rng)
			assert.GreaterOrEqual(t, coins, lo)
			assert.LessOrEqual(t, coins, hi)
			assert.GreaterOrEqual(t, gems, int64(0))
			assert.LessOrEqual(t, gems, int64(5))
			if gems > 0 {
				sawGems = true
			} else {
				sawNoGems = true
			}
		}

		assert.True(t, sawGems, "gem bonus never rolled for %s", kind.DBName())
		assert.True(t, sawNoGems, "gem bonus rolled every time for %s", kind.DBName())
	}
}

func TestKindPeriods(t *testing.T) {
	assert.Equal(t, rewardclock.Daily, Daily.Period())
	assert.Equal(t, rewardclock.Weekly, Weekly.Period())
	assert.Equal(t, rewardclock.Monthly, Monthly.Period())
}

func TestRewardAvailable(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	assert.True(t, rewardAvailable(nil, now), "no state means claimable")

	noCooldown := &database.RewardState{RewardKind: "daily"}
	assert.True(t, rewardAvailable(noCooldown, now), "no recorded reset means claimable")

	future := &database.RewardState{
		RewardKind:  "daily",
		NextResetAt: sql.NullTime{Time: now.Add(time.Hour), Valid: true},
	}
	assert.False(t, rewardAvailable(future, now))

	due := &database.RewardState{
		RewardKind:  "daily",
		NextResetAt: sql.NullTime{Time: now, Valid: true},
	}
	assert.True(t, rewardAvailable(due, now), "boundary instant is claimable")
}

func TestFindAndReplaceState(t *testing.T) {
	states := []database.RewardState{
		{RewardKind: "daily", TotalClaims: 2},
		{RewardKind: "weekly", TotalClaims: 1},
	}

	require.NotNil(t, findState(states, Daily))
	assert.Equal(t, int64(2), findState(states, Daily).TotalClaims)
	assert.Nil(t, findState(states, Monthly))

	replaceState(&states, database.RewardState{RewardKind: "daily", TotalClaims: 3})
	assert.Equal(t, int64(3), findState(states, Daily).TotalClaims)
	require.Len(t, states, 2)

	replaceState(&states, database.RewardState{RewardKind: "monthly", TotalClaims: 1})
	require.Len(t, states, 3)
	assert.NotNil(t, findState(states, Monthly))
}
