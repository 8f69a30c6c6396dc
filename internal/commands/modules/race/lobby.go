package race

import (
	"fmt"
	"strings"

	"arcadepal/internal/utils"

	"github.com/bwmarrin/discordgo"
)

const (
	joinPrefix     = "race_join:"
	startButtonID  = "race_start"
	cancelButtonID = "race_cancel"
)

// JoinOutcome classifies what a join click did to the lobby.
type JoinOutcome int

const (
	JoinUpdated JoinOutcome = iota
	JoinNoChange
	JoinAnimalTaken
	JoinLobbyFull
	JoinUnknownAnimal
)

// Lobby gathers participants before the race. Each participant holds
// exactly one animal; picking another one while joined swaps it.
type Lobby struct {
	Host            *discordgo.User
	Participants    []Contestant
	MinParticipants int
	Animals         []Animal
}

func NewLobby(host *discordgo.User, minParticipants int, animals []Animal) *Lobby {
	return &Lobby{
		Host:            host,
		MinParticipants: minParticipants,
		Animals:         animals,
	}
}

// ReadyToStart reports whether the host can launch the race.
func (l *Lobby) ReadyToStart() bool {
	return len(l.Participants) >= l.MinParticipants
}

// Join registers or re-registers a user on an animal.
func (l *Lobby) Join(user *discordgo.User, animalID string) JoinOutcome {
	animal, found := l.findAnimal(animalID)
	if !found {
		return JoinUnknownAnimal
	}

	joined := l.participantIndex(user.ID)
	if joined < 0 && len(l.Participants) >= len(l.Animals) {
		return JoinLobbyFull
	}

	for _, p := range l.Participants {
		if p.Animal.ID == animal.ID && p.User.ID != user.ID {
			return JoinAnimalTaken
		}
	}

	if joined >= 0 {
		if l.Participants[joined].Animal.ID == animal.ID {
			return JoinNoChange
		}
		l.Participants[joined].Animal = animal
		return JoinUpdated
	}

	l.Participants = append(l.Participants, Contestant{User: user, Animal: animal})
	return JoinUpdated
}

// IsHost reports whether the user opened this lobby.
func (l *Lobby) IsHost(userID string) bool {
	return l.Host.ID == userID
}

func (l *Lobby) participantIndex(userID string) int {
	for idx, p := range l.Participants {
		if p.User.ID == userID {
			return idx
		}
	}
	return -1
}

func (l *Lobby) animalTaken(animalID string) bool {
	for _, p := range l.Participants {
		if p.Animal.ID == animalID {
			return true
		}
	}
	return false
}

func (l *Lobby) findAnimal(animalID string) (Animal, bool) {
	for _, animal := range l.Animals {
		if animal.ID == animalID {
			return animal, true
		}
	}
	return Animal{}, false
}

func (l *Lobby) participantList() string {
	if len(l.Participants) == 0 {
		return "Nobody joined yet."
	}

	lines := make([]string, 0, len(l.Participants))
	for idx, p := range l.Participants {
		lines = append(lines, fmt.Sprintf("%d. %s %s", idx+1, p.Animal.Emoji, utils.Mention(p.User.ID)))
	}
	return strings.Join(lines, "\n")
}

// RenderView draws the lobby embed and its join/start/cancel buttons.
func (l *Lobby) RenderView() (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	embed := utils.NewEmbed()
	embed.Description = fmt.Sprintf("🔔 Click an animal to join the race. At least %d racers are needed.", l.MinParticipants)
	embed.Footer = &discordgo.MessageEmbedFooter{Text: "Host: " + l.Host.Username}
	embed.Fields = []*discordgo.MessageEmbedField{
		{
			Name:  fmt.Sprintf("Participants (%d/%d)", len(l.Participants), l.MinParticipants),
			Value: l.participantList(),
		},
	}
	return embed, l.buildComponents()
}

// RenderStart draws the race-is-starting embed shown on the lobby message.
func (l *Lobby) RenderStart() *discordgo.MessageEmbed {
	embed := utils.NewOKEmbed("🏁 Race starting!", "")
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Participants", Value: l.participantList()},
	}
	return embed
}

func (l *Lobby) buildComponents() []discordgo.MessageComponent {
	var rows []discordgo.MessageComponent
	var current []discordgo.MessageComponent

	for _, animal := range l.Animals {
		current = append(current, discordgo.Button{
			CustomID: joinPrefix + animal.ID,
			Label:    animal.Emoji,
			Style:    discordgo.PrimaryButton,
			Disabled: l.animalTaken(animal.ID),
		})
		if len(current) == 4 {
			rows = append(rows, discordgo.ActionsRow{Components: current})
			current = nil
		}
	}
	if len(current) > 0 {
		rows = append(rows, discordgo.ActionsRow{Components: current})
	}

	rows = append(rows, discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{
				CustomID: startButtonID,
				Label:    "Start",
				Style:    discordgo.SecondaryButton,
				Disabled: !l.ReadyToStart(),
			},
			discordgo.Button{
				CustomID: cancelButtonID,
				Label:    "Cancel",
				Style:    discordgo.DangerButton,
			},
		},
	})

	return rows
}
