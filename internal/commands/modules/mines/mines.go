package mines

import (
	"errors"
	"fmt"
	"time"

	"arcadepal/internal/commands/types"
	"arcadepal/internal/ledger"
	"arcadepal/internal/session"
	"arcadepal/internal/utils"

	"github.com/bwmarrin/discordgo"
)

const sessionTimeout = 180 * time.Second

// MinesModule implements the CommandModule interface for the mines game
type MinesModule struct {
	deps *types.Dependencies
}

// New creates a new mines module
func New(deps *types.Dependencies) *MinesModule {
	return &MinesModule{deps: deps}
}

// Register adds the mines command to the command map
func (m *MinesModule) Register(cmds map[string]*types.Command, deps *types.Dependencies) {
	var minV float64 = minWager
	maxV := float64(maxWager)

	cmds["mines"] = &types.Command{
		ApplicationCommand: &discordgo.ApplicationCommand{
			Name:        "mines",
			Description: "Wager coins and reveal tiles without hitting a bomb",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "wager",
					Description: fmt.Sprintf("How many coins to wager (%d-%d)", minWager, maxWager),
					Required:    true,
					MinValue:    &minV,
					MaxValue:    maxV,
				},
			},
		},
		HandlerFunc: m.handleMines,
	}
}

// Service returns nil as this module has no services requiring initialization
func (m *MinesModule) Service() types.ModuleService {
	return nil
}

func (m *MinesModule) handleMines(s *discordgo.Session, i *discordgo.InteractionCreate) {
	log := m.deps.Config.Logger
	player := interactionUser(i)
	if player == nil {
		return
	}

	options := i.ApplicationCommandData().Options
	if len(options) < 1 {
		_ = utils.RespondEphemeral(s, i, "❌ Missing required parameter. Please specify a wager.")
		return
	}
	wager := options[0].IntValue()

	if wager < minWager {
		_ = utils.RespondEphemeral(s, i, fmt.Sprintf("❌ The minimum wager is **%s** coins.", utils.FormatCurrency(minWager)))
		return
	}
	if wager > maxWager {
		_ = utils.RespondEphemeral(s, i, fmt.Sprintf("❌ The maximum wager per round is **%s** coins.", utils.FormatCurrency(maxWager)))
		return
	}

	entry, err := m.deps.Ledger.Debit(player.ID, wager, "mines_wager", "Mines entry")
	if err != nil {
		if errors.Is(err, ledger.ErrInsufficientFunds) {
			_ = utils.RespondEphemeral(s, i, "❌ You don't have enough coins for that wager.")
			return
		}
		log.Error("mines: failed to place wager", "error", err)
		_ = utils.RespondEphemeral(s, i, "❌ Something went wrong placing your wager.")
		return
	}

	state := NewState(wager, m.deps.NewRand())
	state.Status = fmt.Sprintf("🔔 %s wagered **%s** coins. Find %d diamonds before thinking about cashing out!",
		utils.Mention(player.ID), utils.FormatCurrency(wager), cashoutStep)

	embed, components := renderGame(state, player)
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
	if err != nil {
		log.Error("mines: failed to send game message", "error", err)
		if cerr := m.deps.Ledger.Compensate(entry); cerr != nil {
			log.Error("mines: failed to refund wager after send failure", "error", cerr)
		}
		return
	}

	msg, err := s.InteractionResponse(i.Interaction)
	if err != nil {
		log.Error("mines: failed to fetch game message", "error", err)
		return
	}

	collector := m.deps.Registry.Collect(msg.ID, player.ID)
	defer collector.Close()

	finished := collector.Run(sessionTimeout, false, func(ev *session.Event) session.Disposition {
		switch act := state.parseAction(ev.CustomID); act.kind {
		case actionTile:
			return m.handleTile(s, ev, state, player, act.tile)
		case actionCashout:
			return m.handleCashout(s, ev, state, player)
		case actionGiveUp:
			return m.handleGiveUp(s, ev, state, entry, player)
		default:
			return session.Continue
		}
	})

	if !finished && !state.Finished() {
		// Ceiling expired mid-round: the board is abandoned and the wager
		// stays lost, matching an explicit loss rather than a refund.
		state.GaveUp = true
		state.RevealAll()
		state.Status = "❌ Time is up. The round ended without a cash-out."
		embed, components := renderGame(state, player)
		if err := utils.EditMessageEmbed(s, msg.ChannelID, msg.ID, embed, components); err != nil {
			log.Warn("mines: failed to render expired round", "error", err)
		}
	}
}

func (m *MinesModule) handleTile(s *discordgo.Session, ev *session.Event, state *State, player *discordgo.User, index int) session.Disposition {
	if state.Finished() {
		_ = utils.NotifyRejected(s, ev.Interaction, "❌ This round is already over.")
		return session.Continue
	}

	switch state.Reveal(index) {
	case RevealAlreadyOpen:
		_ = utils.NotifyRejected(s, ev.Interaction, "❌ That tile is already open.")
		return session.Continue

	case RevealBomb:
		state.Busted = true
		state.RevealAll()
		state.Status = fmt.Sprintf("❌ %s stepped on a bomb and lost **%s** coins.",
			utils.Mention(player.ID), utils.FormatCurrency(state.Wager))
		m.updateBoard(s, ev, state, player)
		return session.Stop

	case RevealDiamond:
		if state.CanCashOut() {
			state.Status = fmt.Sprintf("✅ %s found %d diamonds. Cash-out available!",
				utils.Mention(player.ID), state.RevealedSafe)
		} else {
			state.Status = fmt.Sprintf("🔔 %d diamond(s). %d more to unlock the cash-out.",
				state.RevealedSafe, state.RemainingForCashout())
		}

		if state.ForceCashoutReached() {
			m.settleCashout(state, player, true)
			m.updateBoard(s, ev, state, player)
			return session.Stop
		}
		m.updateBoard(s, ev, state, player)
		return session.Continue

	default:
		return session.Continue
	}
}

func (m *MinesModule) handleCashout(s *discordgo.Session, ev *session.Event, state *State, player *discordgo.User) session.Disposition {
	if !state.CanCashOut() {
		_ = utils.NotifyRejected(s, ev.Interaction,
			fmt.Sprintf("🔔 You need %d more diamond(s) to unlock the cash-out.", state.RemainingForCashout()))
		return session.Continue
	}

	m.settleCashout(state, player, false)
	m.updateBoard(s, ev, state, player)
	return session.Stop
}

func (m *MinesModule) handleGiveUp(s *discordgo.Session, ev *session.Event, state *State, entry *ledger.Entry, player *discordgo.User) session.Disposition {
	if state.Finished() {
		_ = utils.NotifyRejected(s, ev.Interaction, "❌ Your round is already over.")
		return session.Continue
	}

	state.GaveUp = true
	state.RevealAll()
	if err := m.deps.Ledger.Compensate(entry); err != nil {
		m.deps.Config.Logger.Error("mines: failed to refund wager on give-up", "error", err)
	} else {
		state.Refunded = true
	}
	state.Status = giveUpStatus(player.ID, state.Wager, state.Refunded)
	m.updateBoard(s, ev, state, player)
	return session.Stop
}

// giveUpStatus announces a cancelled round. A refund that failed to post
// must not be reported as recovered coins.
func giveUpStatus(playerID string, wager int64, refunded bool) string {
	if !refunded {
		return fmt.Sprintf("❌ %s cancelled the round, but the refund could not be issued. Please contact a moderator.",
			utils.Mention(playerID))
	}
	return fmt.Sprintf("✅ %s cancelled the round and recovered **%s** coins.",
		utils.Mention(playerID), utils.FormatCurrency(wager))
}

// settleCashout credits the payout and moves the round into its terminal
// state. forced marks the automatic settlement at the reveal ceiling.
func (m *MinesModule) settleCashout(state *State, player *discordgo.User, forced bool) {
	payout := state.ProjectedPayout()
	if payout <= 0 {
		return
	}

	kind, context := "mines_cashout", "Manual cash-out"
	if forced {
		kind, context = "mines_autocashout", "Automatic cash-out"
	}
	if _, err := m.deps.Ledger.Credit(player.ID, payout, kind, context); err != nil {
		m.deps.Config.Logger.Error("mines: failed to credit payout", "error", err)
		return
	}

	state.CashedOut = true
	state.CashedOutCoins = payout
	state.RevealAll()
	if forced {
		state.Status = fmt.Sprintf("🎁 Automatic cash-out! %s secured **%s** coins.",
			utils.Mention(player.ID), utils.FormatCurrency(payout))
	} else {
		state.Status = fmt.Sprintf("🎁 %s cashed out **%s** coins before hitting a bomb.",
			utils.Mention(player.ID), utils.FormatCurrency(payout))
	}
}

func (m *MinesModule) updateBoard(s *discordgo.Session, ev *session.Event, state *State, player *discordgo.User) {
	embed, components := renderGame(state, player)
	if err := utils.UpdateComponentMessage(s, ev.Interaction, embed, components); err != nil {
		m.deps.Config.Logger.Warn("mines: failed to update game message", "error", err)
	}
}

func renderGame(state *State, player *discordgo.User) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	embed := utils.NewEmbed()
	embed.Title = fmt.Sprintf("💣 Mines by %s", player.Username)
	embed.Description = state.Status
	embed.Fields = []*discordgo.MessageEmbedField{
		{
			Name:   "💰 Wager",
			Value:  fmt.Sprintf("**%s** coins", utils.FormatCurrency(state.Wager)),
			Inline: true,
		},
		{
			Name:   "💎 Diamonds",
			Value:  fmt.Sprintf("**%d / %d** found", state.RevealedSafe, forceCashoutAt),
			Inline: true,
		},
		{
			Name:   "#️⃣ Multiplier",
			Value:  fmt.Sprintf("**x%.2f**", state.Multiplier()),
			Inline: true,
		},
		resultField(state),
	}

	var footer string
	if state.Finished() {
		footer = fmt.Sprintf("Round over • %d bombs were hidden", totalBombs)
	} else {
		footer = fmt.Sprintf("Auto cash-out at %d diamonds • %d bombs on the board",
			forceCashoutAt-state.RevealedSafe, totalBombs)
	}
	embed.Footer = &discordgo.MessageEmbedFooter{Text: footer}

	return embed, buildComponents(state)
}

func resultField(state *State) *discordgo.MessageEmbedField {
	switch {
	case state.CashedOut:
		return &discordgo.MessageEmbedField{
			Name:  "🎁 Result",
			Value: fmt.Sprintf("Final cash-out of **%s** coins", utils.FormatCurrency(state.CashedOutCoins)),
		}
	case state.Busted:
		return &discordgo.MessageEmbedField{
			Name:  "❌ Result",
			Value: "A bomb went off and ended the round.",
		}
	case state.GaveUp:
		value := "Round abandoned on timeout. No refund."
		if state.Refunded {
			value = "Round cancelled manually. Wager returned."
		}
		return &discordgo.MessageEmbedField{Name: "❌ Result", Value: value}
	case state.CanCashOut():
		return &discordgo.MessageEmbedField{
			Name:  "🎁 Cash-out",
			Value: fmt.Sprintf("Available now: **%s** coins", utils.FormatCurrency(state.ProjectedPayout())),
		}
	case state.RevealedSafe == 0:
		return &discordgo.MessageEmbedField{
			Name:  "🔔 Cash-out",
			Value: fmt.Sprintf("Open %d diamonds before thinking about cashing out.", cashoutStep),
		}
	default:
		return &discordgo.MessageEmbedField{
			Name:  "⏳ Cash-out",
			Value: fmt.Sprintf("%d diamond(s) to go before the cash-out unlocks.", state.RemainingForCashout()),
		}
	}
}

func buildComponents(state *State) []discordgo.MessageComponent {
	finished := state.Finished()
	rows := make([]discordgo.MessageComponent, 0, boardRows+1)

	for rowStart := 0; rowStart < len(state.Tiles); rowStart += boardColumns {
		buttons := make([]discordgo.MessageComponent, 0, boardColumns)
		for offset := 0; offset < boardColumns; offset++ {
			index := rowStart + offset
			tile := state.Tiles[index]

			button := discordgo.Button{
				CustomID: fmt.Sprintf("%s%d", state.IDPrefix, index),
				Label:    "❔",
				Style:    discordgo.SecondaryButton,
			}
			if tile.Revealed {
				button.Disabled = true
				if tile.IsBomb {
					button.Label = "💣"
					button.Style = discordgo.DangerButton
				} else {
					button.Label = "💎"
					button.Style = discordgo.SuccessButton
				}
			} else if finished {
				button.Disabled = true
				if tile.IsBomb {
					button.Label = "💣"
					button.Style = discordgo.DangerButton
				} else {
					button.Label = "💎"
				}
			}

			buttons = append(buttons, button)
		}
		rows = append(rows, discordgo.ActionsRow{Components: buttons})
	}

	rows = append(rows, discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{
				CustomID: state.IDPrefix + "cashout",
				Label:    "Cash out",
				Style:    discordgo.SuccessButton,
				Disabled: !state.CanCashOut(),
			},
			discordgo.Button{
				CustomID: state.IDPrefix + "giveup",
				Label:    "Give up",
				Style:    discordgo.DangerButton,
				Disabled: finished,
			},
		},
	})

	return rows
}

func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}
