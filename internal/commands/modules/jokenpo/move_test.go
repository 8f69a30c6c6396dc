package jokenpo

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeatsTable(t *testing.T) {
	tests := []struct {
		name  string
		a, b  Move
		beats bool
	}{
		{"rock beats scissors", Rock, Scissors, true},
		{"paper beats rock", Paper, Rock, true},
		{"scissors beats paper", Scissors, Paper, true},
		{"scissors loses to rock", Scissors, Rock, false},
		{"rock loses to paper", Rock, Paper, false},
		{"paper loses to scissors", Paper, Scissors, false},
		{"rock ties rock", Rock, Rock, false},
		{"paper ties paper", Paper, Paper, false},
		{"scissors ties scissors", Scissors, Scissors, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.beats, tt.a.Beats(tt.b))
		})
	}
}

func TestParseMove(t *testing.T) {
	for _, mv := range AllMoves {
		parsed, ok := ParseMove(mv.CustomID())
		require.True(t, ok)
		assert.Equal(t, mv, parsed)
	}

	for _, bad := range []string{"", "jkp_", "jkp_lizard", "JKP_ROCK", "mines_1_3", "jkp_rock "} {
		_, ok := ParseMove(bad)
		assert.False(t, ok, "token %q must be rejected", bad)
	}
}

func TestRandomMoveCoversAllThrows(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 9))

	seen := make(map[Move]bool)
	for range 100 {
		seen[RandomMove(rng)] = true
	}
	assert.Len(t, seen, len(AllMoves))
}
