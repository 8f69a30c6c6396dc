package jokenpo

// SubmitOutcome classifies one move submission in a versus round.
type SubmitOutcome int

const (
	SubmitAccepted SubmitOutcome = iota
	SubmitNotPlayer
	SubmitDuplicate
	SubmitResolved
)

// Duel collects one move from each of two players. The first submission per
// player stands; repeats never overwrite it.
type Duel struct {
	challengerID string
	opponentID   string
	moves        map[string]Move
}

// NewDuel starts a round between two player IDs.
func NewDuel(challengerID, opponentID string) *Duel {
	return &Duel{
		challengerID: challengerID,
		opponentID:   opponentID,
		moves:        make(map[string]Move, 2),
	}
}

// Submit records a player's move. SubmitResolved means this was the second
// distinct submission and the duel is decided.
func (d *Duel) Submit(actorID string, move Move) SubmitOutcome {
	if actorID != d.challengerID && actorID != d.opponentID {
		return SubmitNotPlayer
	}
	if _, already := d.moves[actorID]; already {
		return SubmitDuplicate
	}

	d.moves[actorID] = move
	if len(d.moves) == 2 {
		return SubmitResolved
	}
	return SubmitAccepted
}

// Move returns the move a player locked in, if any.
func (d *Duel) Move(actorID string) (Move, bool) {
	mv, ok := d.moves[actorID]
	return mv, ok
}

// Outcome names the winner once both moves are in.
func (d *Duel) Outcome() (winnerID string, tie bool) {
	challenger := d.moves[d.challengerID]
	opponent := d.moves[d.opponentID]

	switch {
	case challenger == opponent:
		return "", true
	case challenger.Beats(opponent):
		return d.challengerID, false
	default:
		return d.opponentID, false
	}
}
