package mines

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
)

const (
	boardColumns   = 4
	boardRows      = 4
	totalBombs     = 5
	cashoutStep    = 3
	forceCashoutAt = 9
	multiplierStep = 0.18
	maxMultiplier  = 4.2
	minWager       = 50
	maxWager       = 50_000
)

// Tile is one board cell.
type Tile struct {
	IsBomb   bool
	Revealed bool
}

// RevealOutcome classifies what a tile reveal did.
type RevealOutcome int

const (
	RevealInvalid RevealOutcome = iota
	RevealAlreadyOpen
	RevealDiamond
	RevealBomb
)

// State holds one mines round. It is owned by the single goroutine driving
// the session and is never shared.
type State struct {
	Tiles          []Tile
	IDPrefix       string
	RevealedSafe   int
	Wager          int64
	Status         string
	Busted         bool
	GaveUp         bool
	Refunded       bool
	CashedOut      bool
	CashedOutCoins int64
}

// NewState deals a fresh board. The rand source is injected so tests can
// pin the bomb layout.
func NewState(wager int64, rng *rand.Rand) *State {
	tiles := make([]Tile, boardColumns*boardRows)
	for slot := 0; slot < totalBombs; slot++ {
		tiles[slot].IsBomb = true
	}
	rng.Shuffle(len(tiles), func(a, b int) {
		tiles[a], tiles[b] = tiles[b], tiles[a]
	})

	return &State{
		Tiles:    tiles,
		IDPrefix: fmt.Sprintf("mines_%d_", rng.Uint64()),
		Wager:    wager,
	}
}

// Reveal opens a tile. Opening an already-open tile or an index off the
// board reports that instead of changing anything.
func (st *State) Reveal(index int) RevealOutcome {
	if index < 0 || index >= len(st.Tiles) {
		return RevealInvalid
	}
	tile := &st.Tiles[index]
	if tile.Revealed {
		return RevealAlreadyOpen
	}
	tile.Revealed = true
	if tile.IsBomb {
		return RevealBomb
	}
	st.RevealedSafe++
	return RevealDiamond
}

// RevealAll uncovers the whole board for the final render.
func (st *State) RevealAll() {
	for i := range st.Tiles {
		st.Tiles[i].Revealed = true
	}
}

// CanCashOut reports whether the manual cash-out is unlocked.
func (st *State) CanCashOut() bool {
	return st.RevealedSafe >= cashoutStep && !st.Finished()
}

// ForceCashoutReached reports whether the round must settle automatically.
func (st *State) ForceCashoutReached() bool {
	return st.RevealedSafe >= forceCashoutAt && !st.Finished()
}

// RemainingForCashout counts the diamonds still needed to unlock cash-out.
func (st *State) RemainingForCashout() int {
	if st.RevealedSafe >= cashoutStep {
		return 0
	}
	return cashoutStep - st.RevealedSafe
}

// Multiplier is the current payout multiplier, growing per safe reveal up
// to the cap.
func (st *State) Multiplier() float64 {
	if st.RevealedSafe == 0 {
		return 1.0
	}
	growth := 1.0 + float64(st.RevealedSafe)*multiplierStep
	return math.Min(growth, maxMultiplier)
}

// ProjectedPayout is what a cash-out would pay right now. Zero until the
// first safe reveal.
func (st *State) ProjectedPayout() int64 {
	if st.RevealedSafe == 0 {
		return 0
	}
	return int64(math.Floor(float64(st.Wager) * st.Multiplier()))
}

// Finished reports whether the round reached any terminal state.
func (st *State) Finished() bool {
	return st.Busted || st.GaveUp || st.CashedOut
}

// action is a parsed button token. Everything a click can mean is one of
// these; unrecognized custom IDs map to actionNone.
type action struct {
	kind actionKind
	tile int
}

type actionKind int

const (
	actionNone actionKind = iota
	actionTile
	actionCashout
	actionGiveUp
)

// parseAction maps a component custom ID onto this round's controls.
func (st *State) parseAction(customID string) action {
	rest, ok := strings.CutPrefix(customID, st.IDPrefix)
	if !ok {
		return action{kind: actionNone}
	}
	switch rest {
	case "cashout":
		return action{kind: actionCashout}
	case "giveup":
		return action{kind: actionGiveUp}
	}
	index, err := strconv.Atoi(rest)
	if err != nil {
		return action{kind: actionNone}
	}
	return action{kind: actionTile, tile: index}
}
