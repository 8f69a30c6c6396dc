package race

import (
	"math/rand/v2"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContestants(n int) []Contestant {
	contestants := make([]Contestant, 0, n)
	for i := 0; i < n; i++ {
		contestants = append(contestants, Contestant{
			User:   &discordgo.User{ID: string(rune('1' + i)), Username: "racer"},
			Animal: animals[i],
		})
	}
	return contestants
}

func TestRandomAnimalsDistinct(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	picked := RandomAnimals(8, rng)

	require.Len(t, picked, 8)
	seen := make(map[string]bool)
	for _, animal := range picked {
		assert.False(t, seen[animal.ID], "animal %s picked twice", animal.ID)
		seen[animal.ID] = true
	}
}

func TestSpeedBiasWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	st := NewState(testContestants(8), trackLength, rng)

	for _, racer := range st.Racers {
		assert.GreaterOrEqual(t, racer.SpeedBias, minSpeedBias)
		assert.LessOrEqual(t, racer.SpeedBias, maxSpeedBias)
	}
}

func TestAdvanceRoundStepBounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 8))
	st := NewState(testContestants(4), 1000, rng)

	previous := make([]int, len(st.Racers))
	for round := 0; round < 50; round++ {
		st.AdvanceRound(minStepPerRound, maxStepPerRound)
		for idx, racer := range st.Racers {
			step := racer.Position - previous[idx]
			assert.GreaterOrEqual(t, step, minimumStep)
			assert.LessOrEqual(t, step, maxStepCap)
			previous[idx] = racer.Position
		}
	}
	assert.Equal(t, 50, st.RoundsElapsed)
}

func TestRaceFinishesAndClampsAtTrackEnd(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 10))
	st := NewState(testContestants(3), trackLength, rng)

	rounds := 0
	for !st.AdvanceRound(minStepPerRound, maxStepPerRound) {
		rounds++
		require.Less(t, rounds, 200, "race must terminate")
	}

	winners := st.Winners()
	require.NotEmpty(t, winners)
	for _, racer := range st.Racers {
		assert.LessOrEqual(t, racer.Position, trackLength)
	}
	for _, winner := range winners {
		for _, racer := range st.Racers {
			if racer.Contestant.User.ID == winner.User.ID {
				assert.Equal(t, trackLength, racer.Position)
			}
		}
	}
}

func TestWinnersTieOnSameRound(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	st := NewState(testContestants(4), trackLength, rng)

	st.Racers[0].FinishedRound = 12
	st.Racers[1].FinishedRound = 12
	st.Racers[2].FinishedRound = 14
	st.Racers[3].FinishedRound = 0

	winners := st.Winners()
	require.Len(t, winners, 2)
	ids := []string{winners[0].User.ID, winners[1].User.ID}
	assert.Contains(t, ids, st.Racers[0].Contestant.User.ID)
	assert.Contains(t, ids, st.Racers[1].Contestant.User.ID)
}

func TestWinnersEmptyBeforeAnyFinish(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	st := NewState(testContestants(2), trackLength, rng)
	assert.Empty(t, st.Winners())
}

func TestRankingsOrder(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	st := NewState(testContestants(4), trackLength, rng)

	st.Racers[0].Position = trackLength
	st.Racers[0].FinishedRound = 15
	st.Racers[1].Position = trackLength
	st.Racers[1].FinishedRound = 12
	st.Racers[2].Position = 30
	st.Racers[3].Position = 35

	rankings := st.Rankings()
	require.Len(t, rankings, 4)

	// Finishers first, earlier round ahead on equal position, then by
	// distance covered.
	assert.Equal(t, st.Racers[1].Contestant.User.ID, rankings[0].User.ID)
	assert.Equal(t, st.Racers[0].Contestant.User.ID, rankings[1].User.ID)
	assert.Equal(t, st.Racers[3].Contestant.User.ID, rankings[2].User.ID)
	assert.Equal(t, st.Racers[2].Contestant.User.ID, rankings[3].User.ID)
}

func TestLobbyJoinRules(t *testing.T) {
	rng := rand.New(rand.NewPCG(2, 2))
	host := &discordgo.User{ID: "h", Username: "host"}
	lobby := NewLobby(host, minParticipants, RandomAnimals(animalsPerRace, rng))
	first := lobby.Animals[0]
	second := lobby.Animals[1]

	alice := &discordgo.User{ID: "a", Username: "alice"}
	bob := &discordgo.User{ID: "b", Username: "bob"}

	assert.Equal(t, JoinUpdated, lobby.Join(alice, first.ID))
	assert.False(t, lobby.ReadyToStart())

	assert.Equal(t, JoinAnimalTaken, lobby.Join(bob, first.ID))
	assert.Equal(t, JoinUpdated, lobby.Join(bob, second.ID))
	assert.True(t, lobby.ReadyToStart())

	// Changing your own animal is allowed; re-picking it is a no-op.
	assert.Equal(t, JoinNoChange, lobby.Join(alice, first.ID))
	assert.Equal(t, JoinUpdated, lobby.Join(alice, lobby.Animals[2].ID))
	assert.False(t, lobby.animalTaken(first.ID))

	assert.Equal(t, JoinUnknownAnimal, lobby.Join(alice, "gryphon"))
	require.Len(t, lobby.Participants, 2)
}

func TestLobbyFull(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 3))
	host := &discordgo.User{ID: "h"}
	lobby := NewLobby(host, minParticipants, RandomAnimals(2, rng))

	assert.Equal(t, JoinUpdated, lobby.Join(&discordgo.User{ID: "a"}, lobby.Animals[0].ID))
	assert.Equal(t, JoinUpdated, lobby.Join(&discordgo.User{ID: "b"}, lobby.Animals[1].ID))
	assert.Equal(t, JoinLobbyFull, lobby.Join(&discordgo.User{ID: "c"}, lobby.Animals[0].ID))
}

func TestHostOnlyControls(t *testing.T) {
	lobby := NewLobby(&discordgo.User{ID: "h"}, minParticipants, nil)
	assert.True(t, lobby.IsHost("h"))
	assert.False(t, lobby.IsHost("a"))
}

func TestBuildLane(t *testing.T) {
	animal := Animal{ID: "cat", Emoji: "🐈"}

	assert.Equal(t, "🐈", buildLane(0, 5, animal, false))
	assert.Equal(t, "---🐈", buildLane(3, 5, animal, false))
	assert.Equal(t, "---🐈..🏁", buildLane(3, 5, animal, true))
	assert.Equal(t, "-----🐈🏁 (finished!)", buildLane(5, 5, animal, true))
	assert.Equal(t, "-----🐈🏁 (finished!)", buildLane(9, 5, animal, true))
}
