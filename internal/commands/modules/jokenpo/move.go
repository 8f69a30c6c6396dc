package jokenpo

import "math/rand/v2"

// Move is one of the three throws. The set is closed; anything else on the
// wire is rejected by ParseMove.
type Move int

const (
	Rock Move = iota
	Paper
	Scissors
)

// AllMoves lists every legal throw in button order.
var AllMoves = []Move{Rock, Paper, Scissors}

// CustomID is the component token for this throw.
func (m Move) CustomID() string {
	switch m {
	case Rock:
		return "jkp_rock"
	case Paper:
		return "jkp_paper"
	default:
		return "jkp_scissors"
	}
}

// Label is the button text for this throw.
func (m Move) Label() string {
	switch m {
	case Rock:
		return "🪨 Rock"
	case Paper:
		return "📄 Paper"
	default:
		return "✂️ Scissors"
	}
}

func (m Move) String() string {
	return m.Label()
}

// Beats reports whether this throw defeats the other one.
func (m Move) Beats(other Move) bool {
	switch {
	case m == Rock && other == Scissors:
		return true
	case m == Paper && other == Rock:
		return true
	case m == Scissors && other == Paper:
		return true
	}
	return false
}

// ParseMove maps a component token back onto a throw. Unknown tokens are
// reported, never guessed at.
func ParseMove(customID string) (Move, bool) {
	for _, mv := range AllMoves {
		if mv.CustomID() == customID {
			return mv, true
		}
	}
	return Rock, false
}

// RandomMove picks the bot's throw uniformly.
func RandomMove(rng *rand.Rand) Move {
	return AllMoves[rng.IntN(len(AllMoves))]
}
