package memory

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
	mismatchDelay       = 2 * time.Second
	sessionTimeout      = 300 * time.Second
	confirmationTimeout = 45 * time.Second
)

// MemoryModule implements the CommandModule interface for the memory game
type MemoryModule struct {
	deps *types.Dependencies
}

// New creates a new memory module
func New(deps *types.Dependencies) *MemoryModule {
	return &MemoryModule{deps: deps}
}

// Register adds the memory command to the command map
func (m *MemoryModule) Register(cmds map[string]*types.Command, deps *types.Dependencies) {
	cmds["memory"] = &types.Command{
		ApplicationCommand: &discordgo.ApplicationCommand{
			Name:        "memory",
			Description: "Match pairs of hidden emoji tiles",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "solo",
					Description: "Find every pair on your own",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "versus",
					Description: "Challenge someone to see who finds more pairs",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "opponent",
							Description: "Who you want to play against",
							Required:    true,
						},
					},
				},
			},
		},
		HandlerFunc: m.handleMemory,
	}
}

// Service returns nil as this module has no services requiring initialization
func (m *MemoryModule) Service() types.ModuleService {
	return nil
}

func (m *MemoryModule) handleMemory(s *discordgo.Session, i *discordgo.InteractionCreate) {
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
		m.runGame(s, i, NewSoloMode(player), nil)
	case "versus":
		m.handleVersus(s, i, player, options[0].Options)
	}
}

func (m *MemoryModule) handleVersus(s *discordgo.Session, i *discordgo.InteractionCreate, challenger *discordgo.User, options []*discordgo.ApplicationCommandInteractionDataOption) {
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
		_ = utils.RespondEphemeral(s, i, "❌ You need to pick someone other than yourself.")
		return
	}
	if opponent.Bot {
		_ = utils.RespondEphemeral(s, i, "❌ Bots prefer to watch. Pick a human opponent.")
		return
	}

	_ = utils.RespondEphemeral(s, i, fmt.Sprintf("🔔 Challenge sent to %s.", utils.Mention(opponent.ID)))

	result, err := session.Confirm(s, m.deps.Registry, i.ChannelID, opponent.ID, session.ConfirmOptions{
		Content: fmt.Sprintf("🔔 %s challenged %s to a memory duel. Accept?",
			utils.Mention(challenger.ID), utils.Mention(opponent.ID)),
		Timeout:             confirmationTimeout,
		KeepMessageOnAccept: true,
	})
	if err != nil {
		m.deps.Config.Logger.Error("memory: failed to run challenge prompt", "error", err)
		return
	}
	if result.Outcome != session.Accepted {
		return
	}

	m.runGame(s, i, NewVersusMode(challenger, opponent), result.Message)
}

func (m *MemoryModule) runGame(s *discordgo.Session, i *discordgo.InteractionCreate, mode *Mode, existing *session.MessageHandle) {
	log := m.deps.Config.Logger

	state := NewState(mode, m.deps.NewRand())
	state.Status = "🔔 Open two tiles and find the pairs!"

	var channelID, messageID string
	embed, components := renderGame(state, nil)

	if existing != nil {
		// Reuse the accepted challenge prompt as the game message.
		if err := utils.EditMessageEmbed(s, existing.ChannelID, existing.MessageID, embed, components); err != nil {
			log.Error("memory: failed to take over challenge message", "error", err)
			return
		}
		channelID, messageID = existing.ChannelID, existing.MessageID
	} else {
		err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Embeds:     []*discordgo.MessageEmbed{embed},
				Components: components,
			},
		})
		if err != nil {
			log.Error("memory: failed to send game message", "error", err)
			return
		}
		msg, err := s.InteractionResponse(i.Interaction)
		if err != nil {
			log.Error("memory: failed to fetch game message", "error", err)
			return
		}
		channelID, messageID = msg.ChannelID, msg.ID
	}

	filterActor := ""
	if mode.SinglePlayer() {
		filterActor = mode.ActiveID()
	}
	collector := m.deps.Registry.Collect(messageID, filterActor)
	defer collector.Close()

	finished := collector.Run(sessionTimeout, false, func(ev *session.Event) session.Disposition {
		return m.handlePick(s, ev, state, channelID, messageID)
	})

	if !finished {
		state.Status = "❌ Game closed due to inactivity."
		embed, _ := renderGame(state, nil)
		if err := utils.EditMessageEmbed(s, channelID, messageID, embed, []discordgo.MessageComponent{}); err != nil {
			log.Warn("memory: failed to render expired game", "error", err)
		}
	}
}

func (m *MemoryModule) handlePick(s *discordgo.Session, ev *session.Event, state *State, channelID, messageID string) session.Disposition {
	index := state.parseIndex(ev.CustomID)
	if index < 0 {
		return session.Continue
	}

	result, denial := state.Pick(ev.ActorID, index)
	switch denial {
	case PickNotParticipant:
		_ = utils.NotifyRejected(s, ev.Interaction, "❌ Only the participants can use these buttons.")
		return session.Continue
	case PickBoardLocked:
		_ = utils.NotifyRejected(s, ev.Interaction, "⏳ One moment while the tiles are hidden again.")
		return session.Continue
	case PickTileUnavailable:
		_ = utils.NotifyRejected(s, ev.Interaction, "❌ That tile is already used. Pick another one.")
		return session.Continue
	case PickNotYourTurn:
		_ = utils.NotifyRejected(s, ev.Interaction, "🔔 Wait for your turn to play.")
		return session.Continue
	case PickAttemptOwned:
		_ = utils.NotifyRejected(s, ev.Interaction, "❌ Wait for the current player to finish their attempt.")
		return session.Continue
	}

	switch result.Kind {
	case FirstReveal:
		m.updateBoard(s, ev, state, nil)
		return session.Continue

	case Matched:
		state.Mode.RegisterMatch(ev.ActorID)
		if result.Finished {
			state.Status = state.Mode.FinishMessage(state.Attempts)
			m.updateBoard(s, ev, state, nil)
			return session.Stop
		}
		state.Status = fmt.Sprintf("✅ %s found a pair!", utils.Mention(ev.ActorID))
		m.updateBoard(s, ev, state, nil)
		return session.Continue

	case Mismatch:
		state.Locked = true
		state.Status = fmt.Sprintf("❌ %s didn't find a pair.", utils.Mention(ev.ActorID))
		m.updateBoard(s, ev, state, &result.Pair)

		time.Sleep(mismatchDelay)
		state.Locked = false
		state.Mode.AdvanceTurn()
		state.Status = "🔔 " + state.Mode.TurnMessage()

		embed, components := renderGame(state, nil)
		if err := utils.EditMessageEmbed(s, channelID, messageID, embed, components); err != nil {
			m.deps.Config.Logger.Warn("memory: failed to hide mismatched tiles", "error", err)
		}
		return session.Continue
	}

	return session.Continue
}

func (m *MemoryModule) updateBoard(s *discordgo.Session, ev *session.Event, state *State, mismatch *[2]int) {
	embed, components := renderGame(state, mismatch)
	if err := utils.UpdateComponentMessage(s, ev.Interaction, embed, components); err != nil {
		m.deps.Config.Logger.Warn("memory: failed to update game message", "error", err)
	}
}

func renderGame(state *State, mismatch *[2]int) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	lines := []string{
		fmt.Sprintf("✅ **%d/%d** pairs discovered", state.Matches, state.TotalPairs()),
		fmt.Sprintf("⏳ **%d** attempts", state.Attempts),
	}
	if scoreboard := state.Mode.ScoreboardLine(); scoreboard != "" {
		lines = append(lines, scoreboard)
	}
	if state.Status != "" {
		lines = append(lines, "", state.Status)
	}

	var title string
	if state.Mode.SinglePlayer() {
		title = fmt.Sprintf("🧠 Memory by %s", state.Mode.Players[0].User.Username)
	} else {
		title = fmt.Sprintf("🧠 %s vs %s",
			state.Mode.Players[0].User.Username, state.Mode.Players[1].User.Username)
	}

	embed := utils.NewEmbed()
	embed.Title = title
	embed.Description = strings.Join(lines, "\n")

	return embed, buildComponents(state, mismatch)
}

func buildComponents(state *State, mismatch *[2]int) []discordgo.MessageComponent {
	rows := make([]discordgo.MessageComponent, 0, len(state.Tiles)/boardColumns)

	for rowStart := 0; rowStart < len(state.Tiles); rowStart += boardColumns {
		buttons := make([]discordgo.MessageComponent, 0, boardColumns)
		for offset := 0; offset < boardColumns; offset++ {
			index := rowStart + offset
			tile := state.Tiles[index]
			inMismatch := mismatch != nil && (mismatch[0] == index || mismatch[1] == index)

			button := discordgo.Button{
				CustomID: fmt.Sprintf("%s%d", state.IDPrefix, index),
				Label:    "❔",
				Style:    discordgo.PrimaryButton,
			}
			switch {
			case tile.Matched:
				button.Label = tile.Emoji
				button.Style = discordgo.SuccessButton
				button.Disabled = true
			case inMismatch:
				button.Label = tile.Emoji
				button.Style = discordgo.DangerButton
				button.Disabled = true
			case state.Pending == index:
				button.Label = tile.Emoji
				button.Style = discordgo.SecondaryButton
				button.Disabled = true
			}

			buttons = append(buttons, button)
		}
		rows = append(rows, discordgo.ActionsRow{Components: buttons})
	}

	return rows
}

func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}
