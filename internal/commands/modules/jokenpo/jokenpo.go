package jokenpo

import (
	"fmt"
	"strings"
	"time"

	"arcadepal/internal/commands/types"
	"arcadepal/internal/session"
	"arcadepal/internal/utils"

	"github.com/bwmarrin/discordgo"
)

const (
	soloTimeout         = 30 * time.Second
	versusRoundTimeout  = 60 * time.Second
	confirmationTimeout = 45 * time.Second
)

// JokenpoModule implements the CommandModule interface for rock paper
// scissors
type JokenpoModule struct {
	deps *types.Dependencies
}

// New creates a new jokenpo module
func New(deps *types.Dependencies) *JokenpoModule {
	return &JokenpoModule{deps: deps}
}

// Register adds the jokenpo command to the command map
func (m *JokenpoModule) Register(cmds map[string]*types.Command, deps *types.Dependencies) {
	cmds["jokenpo"] = &types.Command{
		ApplicationCommand: &discordgo.ApplicationCommand{
			Name:        "jokenpo",
			Description: "Rock, paper, scissors",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "solo",
					Description: "Play a round against the bot",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "versus",
					Description: "Challenge someone to a duel",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "opponent",
							Description: "Who you want to challenge",
							Required:    true,
						},
					},
				},
			},
		},
		HandlerFunc: m.handleJokenpo,
	}
}

// Service returns nil as this module has no services requiring initialization
func (m *JokenpoModule) Service() types.ModuleService {
	return nil
}

func (m *JokenpoModule) handleJokenpo(s *discordgo.Session, i *discordgo.InteractionCreate) {
	player := interactionUser(i)
	if player == nil {
		return
	}

	options := i.ApplicationCommandData().Options
	if len(options) < 1 {
		return
	}

	switch options[0].Name {
	case "solo":
		m.handleSolo(s, i, player)
	case "versus":
		m.handleVersus(s, i, player, options[0].Options)
	}
}

func (m *JokenpoModule) handleSolo(s *discordgo.Session, i *discordgo.InteractionCreate, player *discordgo.User) {
	log := m.deps.Config.Logger

	embed := utils.NewEmbed()
	embed.Title = "🪨 JoKenPo - Solo"
	embed.Description = "🔔 Pick one of the options below to face me."

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: moveButtons(false, nil),
		},
	})
	if err != nil {
		log.Error("jokenpo: failed to send game message", "error", err)
		return
	}
	msg, err := s.InteractionResponse(i.Interaction)
	if err != nil {
		log.Error("jokenpo: failed to fetch game message", "error", err)
		return
	}

	collector := m.deps.Registry.Collect(msg.ID, player.ID)
	defer collector.Close()

	ev, ok := collector.Next(soloTimeout)
	if !ok {
		expired := utils.NewEmbed()
		expired.Title = "🪨 JoKenPo - Solo"
		expired.Description = "❌ The round expired. Try again when you're ready!"
		if err := utils.EditMessageEmbed(s, msg.ChannelID, msg.ID, expired, []discordgo.MessageComponent{}); err != nil {
			log.Warn("jokenpo: failed to render expired round", "error", err)
		}
		return
	}

	userMove, valid := ParseMove(ev.CustomID)
	if !valid {
		unknown := utils.NewEmbed()
		unknown.Description = "Unknown move received. Please try again."
		if err := utils.UpdateComponentMessage(s, ev.Interaction, unknown, []discordgo.MessageComponent{}); err != nil {
			log.Warn("jokenpo: failed to update game message", "error", err)
		}
		return
	}

	botMove := RandomMove(m.deps.NewRand())

	var outcome string
	switch {
	case userMove == botMove:
		outcome = "It's a tie!"
	case userMove.Beats(botMove):
		outcome = "You won!"
	default:
		outcome = "I won!"
	}

	result := utils.NewEmbed()
	result.Color = utils.Colors.Ok()
	result.Description = fmt.Sprintf("✅ You picked %s. I picked %s. %s", userMove, botMove, outcome)
	if err := utils.UpdateComponentMessage(s, ev.Interaction, result, moveButtons(true, []Move{userMove, botMove})); err != nil {
		log.Warn("jokenpo: failed to update game message", "error", err)
	}
}

func (m *JokenpoModule) handleVersus(s *discordgo.Session, i *discordgo.InteractionCreate, challenger *discordgo.User, options []*discordgo.ApplicationCommandInteractionDataOption) {
	log := m.deps.Config.Logger

	if len(options) < 1 {
		_ = utils.RespondEphemeral(s, i, "❌ Missing required parameter. Please specify an opponent.")
		return
	}
	opponent := options[0].UserValue(s)
	if opponent == nil {
		_ = utils.RespondEphemeral(s, i, "❌ Could not resolve that opponent.")
		return
	}
	if opponent.ID == challenger.ID {
		_ = utils.RespondEphemeral(s, i, "❌ You need to invite someone else to play.")
		return
	}
	if opponent.Bot {
		_ = utils.RespondEphemeral(s, i, "❌ Bots prefer to watch. Pick a human opponent.")
		return
	}

	_ = utils.RespondEphemeral(s, i, fmt.Sprintf("🔔 Challenge sent to %s.", utils.Mention(opponent.ID)))

	result, err := session.Confirm(s, m.deps.Registry, i.ChannelID, opponent.ID, session.ConfirmOptions{
		Content: fmt.Sprintf("🔔 %s challenged %s to JoKenPo. Accept?",
			utils.Mention(challenger.ID), utils.Mention(opponent.ID)),
		Timeout:             confirmationTimeout,
		KeepMessageOnAccept: true,
	})
	if err != nil {
		log.Error("jokenpo: failed to run challenge prompt", "error", err)
		return
	}
	if result.Outcome != session.Accepted {
		return
	}

	m.runVersus(s, challenger, opponent, result.Message)
}

func (m *JokenpoModule) runVersus(s *discordgo.Session, challenger, opponent *discordgo.User, handle *session.MessageHandle) {
	log := m.deps.Config.Logger

	waiting := versusEmbed(challenger, opponent,
		"⏳ Pick a move with the buttons below. The result shows up once both have decided.")
	if err := utils.EditMessageEmbed(s, handle.ChannelID, handle.MessageID, waiting, moveButtons(false, nil)); err != nil {
		log.Error("jokenpo: failed to take over challenge message", "error", err)
		return
	}

	// Both players click the same message, so the collector is unfiltered
	// and participation is checked per event.
	collector := m.deps.Registry.Collect(handle.MessageID, "")
	defer collector.Close()

	duel := NewDuel(challenger.ID, opponent.ID)

	done := collector.Run(versusRoundTimeout, false, func(ev *session.Event) session.Disposition {
		move, valid := ParseMove(ev.CustomID)
		if !valid {
			return session.Continue
		}

		switch duel.Submit(ev.ActorID, move) {
		case SubmitNotPlayer:
			_ = utils.NotifyRejected(s, ev.Interaction, "❌ Only the players can use these buttons.")
			return session.Continue
		case SubmitDuplicate:
			// The first submission stands; repeats are rejected.
			_ = utils.NotifyRejected(s, ev.Interaction, "❌ You already picked your move.")
			return session.Continue
		case SubmitResolved:
			_ = utils.NotifyRejected(s, ev.Interaction, fmt.Sprintf("✅ Move registered: %s", move))
			return session.Stop
		default:
			_ = utils.NotifyRejected(s, ev.Interaction, fmt.Sprintf("✅ Move registered: %s", move))
			return session.Continue
		}
	})

	if !done {
		cancelled := versusEmbed(challenger, opponent, "❌ Match cancelled due to inactivity.")
		if err := utils.EditMessageEmbed(s, handle.ChannelID, handle.MessageID, cancelled, []discordgo.MessageComponent{}); err != nil {
			log.Warn("jokenpo: failed to render cancelled match", "error", err)
		}
		return
	}

	challengerMove, _ := duel.Move(challenger.ID)
	opponentMove, _ := duel.Move(opponent.ID)

	var outcome string
	if winnerID, tie := duel.Outcome(); tie {
		outcome = "#️⃣ It's a tie!"
	} else {
		outcome = fmt.Sprintf("✅ %s won the round!", utils.Mention(winnerID))
	}

	lines := []string{
		fmt.Sprintf("🔔 %s picked %s", utils.Mention(challenger.ID), challengerMove),
		fmt.Sprintf("🔔 %s picked %s", utils.Mention(opponent.ID), opponentMove),
		"",
		outcome,
	}

	final := utils.NewEmbed()
	final.Title = "🪨 JoKenPo"
	final.Color = utils.Colors.Ok()
	final.Description = strings.Join(lines, "\n")
	if err := utils.EditMessageEmbed(s, handle.ChannelID, handle.MessageID, final, moveButtons(true, []Move{challengerMove, opponentMove})); err != nil {
		log.Warn("jokenpo: failed to render match result", "error", err)
	}
}

func versusEmbed(challenger, opponent *discordgo.User, status string) *discordgo.MessageEmbed {
	embed := utils.NewEmbed()
	embed.Title = "🪨 JoKenPo"
	embed.Description = fmt.Sprintf("🔔 %s vs %s\n%s",
		utils.Mention(challenger.ID), utils.Mention(opponent.ID), status)
	return embed
}

func moveButtons(disabled bool, highlights []Move) []discordgo.MessageComponent {
	buttons := make([]discordgo.MessageComponent, 0, len(AllMoves))
	for _, mv := range AllMoves {
		style := discordgo.PrimaryButton
		if highlighted(mv, highlights) {
			style = discordgo.SuccessButton
		} else if disabled {
			style = discordgo.SecondaryButton
		}
		buttons = append(buttons, discordgo.Button{
			CustomID: mv.CustomID(),
			Label:    mv.Label(),
			Style:    style,
			Disabled: disabled,
		})
	}
	return []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}}
}

func highlighted(mv Move, highlights []Move) bool {
	for _, h := range highlights {
		if h == mv {
			return true
		}
	}
	return false
}

func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}
