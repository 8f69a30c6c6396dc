package mines

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestState(t *testing.T, wager int64) *State {
	t.Helper()
	return NewState(wager, rand.New(rand.NewPCG(1, 2)))
}

func safeIndexes(st *State) []int {
	var safe []int
	for i, tile := range st.Tiles {
		if !tile.IsBomb {
			safe = append(safe, i)
		}
	}
	return safe
}

func bombIndex(st *State) int {
	for i, tile := range st.Tiles {
		if tile.IsBomb {
			return i
		}
	}
	return -1
}

func TestNewStateBoardLayout(t *testing.T) {
	st := newTestState(t, 500)

	require.Len(t, st.Tiles, boardColumns*boardRows)

	bombs := 0
	for _, tile := range st.Tiles {
		require.False(t, tile.Revealed)
		if tile.IsBomb {
			bombs++
		}
	}
	assert.Equal(t, totalBombs, bombs)
	assert.False(t, st.Finished())
	assert.Equal(t, int64(500), st.Wager)
}

func TestRevealOutcomes(t *testing.T) {
	st := newTestState(t, 100)
	safe := safeIndexes(st)
	require.NotEmpty(t, safe)

	assert.Equal(t, RevealDiamond, st.Reveal(safe[0]))
	assert.Equal(t, 1, st.RevealedSafe)

	assert.Equal(t, RevealAlreadyOpen, st.Reveal(safe[0]))
	assert.Equal(t, 1, st.RevealedSafe)

	assert.Equal(t, RevealInvalid, st.Reveal(-1))
	assert.Equal(t, RevealInvalid, st.Reveal(len(st.Tiles)))

	assert.Equal(t, RevealBomb, st.Reveal(bombIndex(st)))
	assert.Equal(t, 1, st.RevealedSafe)
}

func TestMultiplierGrowsAndCaps(t *testing.T) {
	st := newTestState(t, 1000)

	assert.InDelta(t, 1.0, st.Multiplier(), 1e-9)
	assert.Equal(t, int64(0), st.ProjectedPayout())

	st.RevealedSafe = 1
	assert.InDelta(t, 1.18, st.Multiplier(), 1e-9)
	assert.Equal(t, int64(1180), st.ProjectedPayout())

	st.RevealedSafe = 9
	assert.InDelta(t, 2.62, st.Multiplier(), 1e-9)
	assert.Equal(t, int64(2620), st.ProjectedPayout())

	st.RevealedSafe = 18
	assert.InDelta(t, maxMultiplier, st.Multiplier(), 1e-9)
	assert.Equal(t, int64(4200), st.ProjectedPayout())
}

func TestPayoutFloors(t *testing.T) {
	st := newTestState(t, 55)
	st.RevealedSafe = 1
	// 55 * 1.18 = 64.9, floored
	assert.Equal(t, int64(64), st.ProjectedPayout())
}

func TestCashoutThresholds(t *testing.T) {
	st := newTestState(t, 100)
	safe := safeIndexes(st)
	require.GreaterOrEqual(t, len(safe), forceCashoutAt)

	for n, index := range safe[:forceCashoutAt] {
		require.Equal(t, RevealDiamond, st.Reveal(index))
		revealed := n + 1
		if revealed < cashoutStep {
			assert.False(t, st.CanCashOut(), "no cash-out at %d reveals", revealed)
			assert.Equal(t, cashoutStep-revealed, st.RemainingForCashout())
		} else {
			assert.True(t, st.CanCashOut(), "cash-out from %d reveals", revealed)
			assert.Equal(t, 0, st.RemainingForCashout())
		}
		if revealed < forceCashoutAt {
			assert.False(t, st.ForceCashoutReached())
		}
	}

	assert.True(t, st.ForceCashoutReached())
}

func TestTerminalStatesBlockControls(t *testing.T) {
	st := newTestState(t, 100)
	st.RevealedSafe = cashoutStep

	st.Busted = true
	assert.True(t, st.Finished())
	assert.False(t, st.CanCashOut())
	assert.False(t, st.ForceCashoutReached())

	st = newTestState(t, 100)
	st.RevealedSafe = forceCashoutAt
	st.CashedOut = true
	assert.True(t, st.Finished())
	assert.False(t, st.ForceCashoutReached())

	st = newTestState(t, 100)
	st.GaveUp = true
	assert.True(t, st.Finished())
}

func TestRevealAll(t *testing.T) {
	st := newTestState(t, 100)
	st.RevealAll()
	for _, tile := range st.Tiles {
		assert.True(t, tile.Revealed)
	}
}

func TestParseAction(t *testing.T) {
	st := newTestState(t, 100)

	tests := []struct {
		name     string
		customID string
		want     action
	}{
		{"tile", st.IDPrefix + "7", action{kind: actionTile, tile: 7}},
		{"cashout", st.IDPrefix + "cashout", action{kind: actionCashout}},
		{"giveup", st.IDPrefix + "giveup", action{kind: actionGiveUp}},
		{"garbage suffix", st.IDPrefix + "xyz", action{kind: actionNone}},
		{"foreign prefix", "memory_1_3", action{kind: actionNone}},
		{"empty", "", action{kind: actionNone}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, st.parseAction(tt.customID))
		})
	}
}

func TestGiveUpStatusReflectsRefundOutcome(t *testing.T) {
	refunded := giveUpStatus("42", 500, true)
	assert.Contains(t, refunded, "recovered **500** coins")
	assert.Contains(t, refunded, "<@42>")

	failed := giveUpStatus("42", 500, false)
	assert.NotContains(t, failed, "recovered")
	assert.Contains(t, failed, "refund could not be issued")
}
