package memory

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

const (
	boardPairs   = 8
	boardColumns = 4
)

var emojiPool = []string{
	"🍎", "🍌", "🍇", "🍒", "🍋", "🍉", "🍓", "🍑", "🥥", "🥝", "🍊", "🍍", "🥕", "🌽", "🥦", "🍪",
	"🌶️", "🍆", "🥔", "🧄", "🧅", "🍄", "🧀", "🥨", "🍿", "🍩", "🍰", "🧁", "🍫", "🍯", "🍭", "🍡",
	"🍙", "🍣", "🍤", "🍕", "🍔", "🌮", "🥐", "🥞",
}

// Tile is one board cell; its emoji stays hidden until matched or briefly
// shown during a compare.
type Tile struct {
	Emoji   string
	Matched bool
}

// SelectionKind classifies what a tile pick did.
type SelectionKind int

const (
	FirstReveal SelectionKind = iota
	Matched
	Mismatch
)

// SelectionResult reports a pick: a lone first reveal, a completed pair, or
// a mismatch carrying the two indexes to flash before hiding them again.
type SelectionResult struct {
	Kind     SelectionKind
	Pair     [2]int
	Finished bool
}

// State holds one memory board. Owned by the single goroutine driving the
// session.
type State struct {
	Tiles        []Tile
	Pending      int // index of the open first tile, -1 when none
	PendingOwner string
	Matches      int
	Attempts     int
	Locked       bool
	IDPrefix     string
	Mode         *Mode
	Status       string
}

// NewState deals a shuffled board of pairs drawn from the emoji pool.
func NewState(mode *Mode, rng *rand.Rand) *State {
	pool := make([]string, len(emojiPool))
	copy(pool, emojiPool)
	rng.Shuffle(len(pool), func(a, b int) {
		pool[a], pool[b] = pool[b], pool[a]
	})

	tiles := make([]Tile, 0, boardPairs*2)
	for _, emoji := range pool[:boardPairs] {
		tiles = append(tiles, Tile{Emoji: emoji}, Tile{Emoji: emoji})
	}
	rng.Shuffle(len(tiles), func(a, b int) {
		tiles[a], tiles[b] = tiles[b], tiles[a]
	})

	return &State{
		Tiles:    tiles,
		Pending:  -1,
		IDPrefix: fmt.Sprintf("mem_%d_", rng.Uint64()),
		Mode:     mode,
	}
}

// TotalPairs is how many pairs the board holds.
func (st *State) TotalPairs() int {
	return len(st.Tiles) / 2
}

// Finished reports whether every pair has been found.
func (st *State) Finished() bool {
	return st.Matches == st.TotalPairs()
}

// IsSelectable reports whether a tile can be the next pick: on the board,
// not already matched, and not the currently open first tile.
func (st *State) IsSelectable(index int) bool {
	return index >= 0 && index < len(st.Tiles) && !st.Tiles[index].Matched && st.Pending != index
}

// PickDenial explains why a tile pick was refused.
type PickDenial int

const (
	PickAllowed PickDenial = iota
	PickNotParticipant
	PickBoardLocked
	PickTileUnavailable
	PickNotYourTurn
	PickAttemptOwned
)

// Pick authorizes and applies a tile pick for an actor. Whoever opens the
// first tile of an attempt owns it until the attempt resolves, even in
// versus games where the turn would otherwise pass.
func (st *State) Pick(actorID string, index int) (SelectionResult, PickDenial) {
	switch {
	case !st.Mode.Allowed(actorID):
		return SelectionResult{}, PickNotParticipant
	case st.Locked:
		return SelectionResult{}, PickBoardLocked
	case !st.IsSelectable(index):
		return SelectionResult{}, PickTileUnavailable
	}

	if st.Pending < 0 {
		if !st.Mode.IsCurrent(actorID) {
			return SelectionResult{}, PickNotYourTurn
		}
		st.PendingOwner = actorID
	} else if st.PendingOwner != actorID {
		return SelectionResult{}, PickAttemptOwned
	}

	return st.Select(index), PickAllowed
}

// Select picks a tile. The first pick of an attempt stays open; the second
// closes the attempt, matching the pair or reporting the mismatch to flash.
func (st *State) Select(index int) SelectionResult {
	if st.Pending < 0 {
		st.Pending = index
		return SelectionResult{Kind: FirstReveal}
	}

	first := st.Pending
	st.Pending = -1
	st.PendingOwner = ""
	st.Attempts++

	if st.Tiles[first].Emoji == st.Tiles[index].Emoji {
		st.Tiles[first].Matched = true
		st.Tiles[index].Matched = true
		st.Matches++
		return SelectionResult{Kind: Matched, Finished: st.Finished()}
	}
	return SelectionResult{Kind: Mismatch, Pair: [2]int{first, index}}
}

// parseIndex maps a component custom ID onto a tile index, or -1 for
// anything that isn't one of this board's tiles.
func (st *State) parseIndex(customID string) int {
	rest, ok := strings.CutPrefix(customID, st.IDPrefix)
	if !ok {
		return -1
	}
	index, err := strconv.Atoi(rest)
	if err != nil || index < 0 || index >= len(st.Tiles) {
		return -1
	}
	return index
}
