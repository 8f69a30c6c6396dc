package race

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"arcadepal/internal/commands/types"
	"arcadepal/internal/session"
	"arcadepal/internal/utils"

	"github.com/bwmarrin/discordgo"
)

const (
	minParticipants = 2
	trackLength     = 40
	lobbyTimeout    = 120 * time.Second
	roundDelay      = 1800 * time.Millisecond
	minStepPerRound = 1
	maxStepPerRound = 3
	animalsPerRace  = 8
)

// RaceModule implements the CommandModule interface for the animal race
type RaceModule struct {
	deps *types.Dependencies
}

// New creates a new race module
func New(deps *types.Dependencies) *RaceModule {
	return &RaceModule{deps: deps}
}

// Register adds the race command to the command map
func (m *RaceModule) Register(cmds map[string]*types.Command, deps *types.Dependencies) {
	cmds["race"] = &types.Command{
		ApplicationCommand: &discordgo.ApplicationCommand{
			Name:        "race",
			Description: "Open an animal race lobby",
		},
		HandlerFunc: m.handleRace,
	}
}

// Service returns nil as this module has no services requiring initialization
func (m *RaceModule) Service() types.ModuleService {
	return nil
}

func (m *RaceModule) handleRace(s *discordgo.Session, i *discordgo.InteractionCreate) {
	log := m.deps.Config.Logger
	host := interactionUser(i)
	if host == nil {
		return
	}

	// One race per channel; the lease covers the lobby and the race.
	guard, ok := m.deps.Locks.TryAcquire(i.ChannelID)
	if !ok {
		_ = utils.RespondEphemeral(s, i, "❌ There is already a race running in this channel. Wait for it to finish.")
		return
	}
	defer guard.Release()

	rng := m.deps.NewRand()
	lobby := NewLobby(host, minParticipants, RandomAnimals(animalsPerRace, rng))

	embed, components := lobby.RenderView()
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
	if err != nil {
		log.Error("race: failed to send lobby message", "error", err)
		return
	}
	msg, err := s.InteractionResponse(i.Interaction)
	if err != nil {
		log.Error("race: failed to fetch lobby message", "error", err)
		return
	}

	collector := m.deps.Registry.Collect(msg.ID, "")
	defer collector.Close()

	started := false
	resolved := collector.Run(lobbyTimeout, false, func(ev *session.Event) session.Disposition {
		if animalID, isJoin := strings.CutPrefix(ev.CustomID, joinPrefix); isJoin {
			m.handleJoin(s, ev, lobby, animalID)
			return session.Continue
		}

		switch ev.CustomID {
		case startButtonID:
			if !lobby.IsHost(ev.ActorID) {
				_ = utils.NotifyRejected(s, ev.Interaction, "❌ Only the host can start the race.")
				return session.Continue
			}
			if !lobby.ReadyToStart() {
				_ = utils.NotifyRejected(s, ev.Interaction,
					fmt.Sprintf("❌ At least %d racers are needed.", lobby.MinParticipants))
				return session.Continue
			}
			if err := utils.UpdateComponentMessage(s, ev.Interaction, lobby.RenderStart(), []discordgo.MessageComponent{}); err != nil {
				log.Warn("race: failed to render start", "error", err)
			}
			started = true
			return session.Stop

		case cancelButtonID:
			if !lobby.IsHost(ev.ActorID) {
				_ = utils.NotifyRejected(s, ev.Interaction, "❌ Only the host can cancel the race.")
				return session.Continue
			}
			cancelled := utils.NewEmbed()
			cancelled.Description = "❌ The race was cancelled by its host."
			if err := utils.UpdateComponentMessage(s, ev.Interaction, cancelled, []discordgo.MessageComponent{}); err != nil {
				log.Warn("race: failed to render cancellation", "error", err)
			}
			return session.Stop
		}
		return session.Continue
	})

	if !resolved {
		// Lobby expired without a start or cancel.
		if err := s.ChannelMessageDelete(msg.ChannelID, msg.ID); err != nil {
			log.Warn("race: failed to delete expired lobby", "error", err)
		}
		return
	}
	if !started {
		return
	}

	m.runRace(s, lobby.Participants, msg.ChannelID, msg.ID, rng)
}

func (m *RaceModule) handleJoin(s *discordgo.Session, ev *session.Event, lobby *Lobby, animalID string) {
	user := eventUser(ev)
	if user == nil {
		return
	}

	switch lobby.Join(user, animalID) {
	case JoinUpdated:
		embed, components := lobby.RenderView()
		if err := utils.UpdateComponentMessage(s, ev.Interaction, embed, components); err != nil {
			m.deps.Config.Logger.Warn("race: failed to update lobby", "error", err)
		}
	case JoinAnimalTaken:
		_ = utils.NotifyRejected(s, ev.Interaction, "❌ That animal already has a rider. Pick another one.")
	case JoinLobbyFull:
		_ = utils.NotifyRejected(s, ev.Interaction, "❌ The lobby is full.")
	case JoinNoChange, JoinUnknownAnimal:
		_ = s.InteractionRespond(ev.Interaction.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredMessageUpdate,
		})
	}
}

func (m *RaceModule) runRace(s *discordgo.Session, participants []Contestant, channelID, lobbyMessageID string, rng *rand.Rand) {
	log := m.deps.Config.Logger

	state := NewState(participants, trackLength, rng)
	progress, err := NewProgressMessage(s, channelID, state.RenderSimpleTrack())
	if err != nil {
		log.Error("race: failed to post track message", "error", err)
		return
	}

	for {
		time.Sleep(roundDelay)
		finished := state.AdvanceRound(minStepPerRound, maxStepPerRound)

		content := state.RenderSimpleTrack()
		if finished {
			content = state.RenderTrack() + "\n🏁 Race finished! Congratulations!"
		}
		if err := progress.Refresh(s, content); err != nil {
			log.Warn("race: failed to refresh track message", "error", err)
		}
		if finished {
			break
		}
	}

	embed := buildResultsEmbed(state.Winners(), state.Rankings())
	if err := utils.EditMessageEmbed(s, channelID, lobbyMessageID, embed, []discordgo.MessageComponent{}); err != nil {
		log.Warn("race: failed to render results", "error", err)
	}
}

func buildResultsEmbed(winners []Contestant, rankings []ResultEntry) *discordgo.MessageEmbed {
	embed := utils.NewOKEmbed("🏁 Race finished", "✅ Thanks for racing! Here is the result.")

	winnersValue := "Nobody reached the finish line."
	if len(winners) > 0 {
		lines := make([]string, 0, len(winners))
		for _, winner := range winners {
			lines = append(lines, fmt.Sprintf("%s %s", winner.Animal.Emoji, utils.Mention(winner.User.ID)))
		}
		winnersValue = strings.Join(lines, "\n")
	}
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Winner", Value: winnersValue},
	}

	if len(rankings) > 0 {
		lines := make([]string, 0, len(rankings))
		for idx, entry := range rankings {
			if idx >= 5 {
				break
			}
			lines = append(lines, fmt.Sprintf("%d. %s %s | %d squares",
				idx+1, entry.Animal.Emoji, utils.Mention(entry.User.ID), entry.Position))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Standings",
			Value: strings.Join(lines, "\n"),
		})
	}

	return embed
}

func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

func eventUser(ev *session.Event) *discordgo.User {
	return interactionUser(ev.Interaction)
}
