package jokenpo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuelFirstSubmissionStands(t *testing.T) {
	d := NewDuel("alice", "bob")

	assert.Equal(t, SubmitAccepted, d.Submit("alice", Rock))

	// A repeat is rejected and the original choice is preserved.
	assert.Equal(t, SubmitDuplicate, d.Submit("alice", Scissors))

	mv, ok := d.Move("alice")
	require.True(t, ok)
	assert.Equal(t, Rock, mv)
}

func TestDuelRejectsOutsiders(t *testing.T) {
	d := NewDuel("alice", "bob")

	assert.Equal(t, SubmitNotPlayer, d.Submit("mallory", Rock))

	_, ok := d.Move("mallory")
	assert.False(t, ok)
}

func TestDuelResolvesOnSecondMove(t *testing.T) {
	d := NewDuel("alice", "bob")

	assert.Equal(t, SubmitAccepted, d.Submit("bob", Paper))
	assert.Equal(t, SubmitResolved, d.Submit("alice", Rock))

	winnerID, tie := d.Outcome()
	assert.False(t, tie)
	assert.Equal(t, "bob", winnerID)
}

func TestDuelOutcomes(t *testing.T) {
	tests := []struct {
		name       string
		challenger Move
		opponent   Move
		wantWinner string
		wantTie    bool
	}{
		{"challenger wins", Rock, Scissors, "alice", false},
		{"opponent wins", Paper, Scissors, "bob", false},
		{"tie", Scissors, Scissors, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDuel("alice", "bob")
			d.Submit("alice", tt.challenger)
			d.Submit("bob", tt.opponent)

			winnerID, tie := d.Outcome()
			assert.Equal(t, tt.wantTie, tie)
			assert.Equal(t, tt.wantWinner, winnerID)
		})
	}
}
