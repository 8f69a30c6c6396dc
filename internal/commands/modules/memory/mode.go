package memory

import (
	"fmt"

	"arcadepal/internal/utils"

	"github.com/bwmarrin/discordgo"
)

// Player is one participant and their pair count.
type Player struct {
	User  *discordgo.User
	Score int
}

// Mode distinguishes a solo board from a two-player duel and tracks whose
// turn it is.
type Mode struct {
	Players []Player
	turn    int
}

func NewSoloMode(player *discordgo.User) *Mode {
	return &Mode{Players: []Player{{User: player}}}
}

func NewVersusMode(challenger, opponent *discordgo.User) *Mode {
	return &Mode{Players: []Player{{User: challenger}, {User: opponent}}}
}

// SinglePlayer reports whether outsiders can be filtered at the transport.
func (m *Mode) SinglePlayer() bool {
	return len(m.Players) == 1
}

// Allowed reports whether a user participates in this game at all.
func (m *Mode) Allowed(userID string) bool {
	for _, p := range m.Players {
		if p.User.ID == userID {
			return true
		}
	}
	return false
}

// IsCurrent reports whether it is this user's turn.
func (m *Mode) IsCurrent(userID string) bool {
	return m.Players[m.turn].User.ID == userID
}

// ActiveID is the user whose turn it is.
func (m *Mode) ActiveID() string {
	return m.Players[m.turn].User.ID
}

// RegisterMatch credits a found pair to the player who scored it.
func (m *Mode) RegisterMatch(userID string) {
	for idx := range m.Players {
		if m.Players[idx].User.ID == userID {
			m.Players[idx].Score++
			return
		}
	}
}

// AdvanceTurn passes the turn after a mismatch. Solo boards keep the same
// player.
func (m *Mode) AdvanceTurn() {
	if len(m.Players) > 1 {
		m.turn = (m.turn + 1) % len(m.Players)
	}
}

// TurnMessage announces who plays next.
func (m *Mode) TurnMessage() string {
	if m.SinglePlayer() {
		return fmt.Sprintf("%s keeps hunting for pairs!", utils.Mention(m.Players[0].User.ID))
	}
	return fmt.Sprintf("It's %s's turn now.", utils.Mention(m.ActiveID()))
}

// ScoreboardLine renders the duel score, or nothing for solo boards.
func (m *Mode) ScoreboardLine() string {
	if m.SinglePlayer() {
		return ""
	}
	return fmt.Sprintf("#️⃣ %s: **%d** • %s: **%d**",
		m.Players[0].User.Username, m.Players[0].Score,
		m.Players[1].User.Username, m.Players[1].Score)
}

// FinishMessage summarizes the game once every pair is found.
func (m *Mode) FinishMessage(attempts int) string {
	if m.SinglePlayer() {
		return fmt.Sprintf("✅ %s completed every pair in **%d** attempts!",
			utils.Mention(m.Players[0].User.ID), attempts)
	}

	left, right := m.Players[0], m.Players[1]
	if left.Score == right.Score {
		return fmt.Sprintf("#️⃣ It's a tie! %s and %s both finished with **%d** pairs.",
			utils.Mention(left.User.ID), utils.Mention(right.User.ID), left.Score)
	}

	winner, loser := left, right
	if right.Score > left.Score {
		winner, loser = right, left
	}
	return fmt.Sprintf("🎁 %s won with **%d** pairs against %s (%d)!",
		utils.Mention(winner.User.ID), winner.Score, utils.Mention(loser.User.ID), loser.Score)
}
