package race

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"strings"

	"arcadepal/internal/utils"

	"github.com/bwmarrin/discordgo"
)

const (
	minSpeedBias  = 0.65
	maxSpeedBias  = 1.35
	varianceSwing = 1.25
	surgeChance   = 0.18
	surgeBonusMin = 2
	surgeBonusMax = 4
	slipChance    = 0.15
	slipPenMin    = 1
	slipPenMax    = 3
	maxStepCap    = 9
	minimumStep   = 1
)

// Animal is one of the racing mascots.
type Animal struct {
	ID    string
	Emoji string
}

var animals = []Animal{
	{"cat", "🐈"},
	{"dog", "🐕"},
	{"fox", "🦊"},
	{"turtle", "🐢"},
	{"fish", "🐟"},
	{"dragon", "🐉"},
	{"rabbit", "🐇"},
	{"panda", "🐼"},
	{"penguin", "🐧"},
	{"unicorn", "🦄"},
	{"horse", "🐎"},
	{"frog", "🐸"},
}

// RandomAnimals draws count distinct animals from the pool in shuffled
// order.
func RandomAnimals(count int, rng *rand.Rand) []Animal {
	pool := make([]Animal, len(animals))
	copy(pool, animals)
	rng.Shuffle(len(pool), func(a, b int) {
		pool[a], pool[b] = pool[b], pool[a]
	})
	if count < len(pool) {
		pool = pool[:count]
	}
	return pool
}

// Contestant pairs a participant with their chosen animal.
type Contestant struct {
	User   *discordgo.User
	Animal Animal
}

// Racer is one contestant's live race state. FinishedRound is 0 until the
// racer crosses the line; rounds are counted from 1.
type Racer struct {
	Contestant    Contestant
	Position      int
	SpeedBias     float64
	FinishedRound int
}

// ResultEntry is one row of the final ranking.
type ResultEntry struct {
	User          *discordgo.User
	Animal        Animal
	Position      int
	FinishedRound int
}

// State simulates the race round by round. Owned by the single goroutine
// driving the session.
type State struct {
	Racers        []Racer
	TrackLength   int
	RoundsElapsed int

	rng *rand.Rand
}

// NewState lines up the contestants, each with a persistent speed bias
// drawn once for the whole race.
func NewState(participants []Contestant, trackLength int, rng *rand.Rand) *State {
	racers := make([]Racer, 0, len(participants))
	for _, contestant := range participants {
		racers = append(racers, Racer{
			Contestant: contestant,
			SpeedBias:  minSpeedBias + rng.Float64()*(maxSpeedBias-minSpeedBias),
		})
	}
	return &State{
		Racers:      racers,
		TrackLength: trackLength,
		rng:         rng,
	}
}

// AdvanceRound moves every racer one step and reports whether anyone has
// crossed the finish line.
func (st *State) AdvanceRound(minStep, maxStep int) bool {
	st.RoundsElapsed++
	currentRound := st.RoundsElapsed
	someoneFinished := false

	for idx := range st.Racers {
		racer := &st.Racers[idx]

		base := minStep
		if maxStep > minStep {
			base += st.rng.IntN(maxStep - minStep + 1)
		}
		stepValue := float64(base) * racer.SpeedBias

		swing := (st.rng.Float64()*2 - 1) * varianceSwing
		stepValue += swing

		if st.rng.Float64() < surgeChance {
			stepValue += float64(surgeBonusMin + st.rng.IntN(surgeBonusMax-surgeBonusMin+1))
		}
		if st.rng.Float64() < slipChance {
			stepValue -= float64(slipPenMin + st.rng.IntN(slipPenMax-slipPenMin+1))
		}

		step := int(math.Round(stepValue))
		if step < minimumStep {
			step = minimumStep
		}
		if step > maxStepCap {
			step = maxStepCap
		}

		racer.Position += step
		if racer.Position >= st.TrackLength {
			racer.Position = st.TrackLength
			someoneFinished = true
			if racer.FinishedRound == 0 {
				racer.FinishedRound = currentRound
			}
		}
	}

	return someoneFinished
}

// Winners lists everyone who crossed the line in the earliest finishing
// round; they all tie for the win.
func (st *State) Winners() []Contestant {
	best := 0
	for _, racer := range st.Racers {
		if racer.FinishedRound > 0 && (best == 0 || racer.FinishedRound < best) {
			best = racer.FinishedRound
		}
	}
	if best == 0 {
		return nil
	}

	var winners []Contestant
	for _, racer := range st.Racers {
		if racer.FinishedRound == best {
			winners = append(winners, racer.Contestant)
		}
	}
	return winners
}

// Rankings orders racers by how far they got, breaking ties by who crossed
// the line first.
func (st *State) Rankings() []ResultEntry {
	results := make([]ResultEntry, 0, len(st.Racers))
	for _, racer := range st.Racers {
		results = append(results, ResultEntry{
			User:          racer.Contestant.User,
			Animal:        racer.Contestant.Animal,
			Position:      racer.Position,
			FinishedRound: racer.FinishedRound,
		})
	}

	sort.SliceStable(results, func(a, b int) bool {
		if results[a].Position != results[b].Position {
			return results[a].Position > results[b].Position
		}
		ra, rb := results[a].FinishedRound, results[b].FinishedRound
		switch {
		case ra > 0 && rb > 0:
			return ra < rb
		case ra > 0:
			return true
		default:
			return false
		}
	})
	return results
}

// RenderTrack draws the full track with mentions for the final frame.
func (st *State) RenderTrack() string {
	var b strings.Builder
	b.WriteString("🏁 Animal Race\n")
	b.WriteString("Watch the racers push for the line:\n\n")
	for _, racer := range st.Racers {
		b.WriteString(fmt.Sprintf("%s %s | %s\n",
			racer.Contestant.Animal.Emoji,
			utils.Mention(racer.Contestant.User.ID),
			buildLane(racer.Position, st.TrackLength, racer.Contestant.Animal, true)))
	}
	return b.String()
}

// RenderSimpleTrack draws the compact per-round frame.
func (st *State) RenderSimpleTrack() string {
	lanes := make([]string, 0, len(st.Racers))
	for _, racer := range st.Racers {
		lanes = append(lanes, buildLane(racer.Position, st.TrackLength, racer.Contestant.Animal, false))
	}
	return strings.Join(lanes, "\n")
}

func buildLane(position, trackLength int, animal Animal, full bool) string {
	progress := position
	if progress > trackLength {
		progress = trackLength
	}

	lane := strings.Repeat("-", progress) + animal.Emoji
	if !full {
		return lane
	}

	if remaining := trackLength - progress; remaining > 0 {
		lane += strings.Repeat(".", remaining)
	}
	lane += "🏁"
	if progress >= trackLength {
		lane += " (finished!)"
	}
	return lane
}
