package session

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/bwmarrin/discordgo"
)

// ConfirmOutcome is the result of an accept/decline prompt.
type ConfirmOutcome int

const (
	Accepted ConfirmOutcome = iota
	Declined
	TimedOut
)

// ConfirmOptions controls a confirmation prompt.
type ConfirmOptions struct {
	Content string
	Timeout time.Duration
	// KeepMessageOnAccept leaves the prompt message in place so the caller
	// can reuse it as the game message. Declined or expired prompts are
	// always deleted.
	KeepMessageOnAccept bool
}

// MessageHandle identifies a message the caller may keep rendering into.
type MessageHandle struct {
	ChannelID string
	MessageID string
}

// ConfirmResult carries the outcome and, on accept with
// KeepMessageOnAccept, the surviving prompt message.
type ConfirmResult struct {
	Outcome ConfirmOutcome
	Message *MessageHandle
}

// confirmTransport is the slice of the Discord API the prompt needs.
type confirmTransport interface {
	sendMessage(channelID string, send *discordgo.MessageSend) (*discordgo.Message, error)
	deleteMessage(channelID, messageID string) error
	respond(i *discordgo.Interaction, resp *discordgo.InteractionResponse) error
}

type discordTransport struct{ s *discordgo.Session }

func (d discordTransport) sendMessage(channelID string, send *discordgo.MessageSend) (*discordgo.Message, error) {
	return d.s.ChannelMessageSendComplex(channelID, send)
}

func (d discordTransport) deleteMessage(channelID, messageID string) error {
	return d.s.ChannelMessageDelete(channelID, messageID)
}

func (d discordTransport) respond(i *discordgo.Interaction, resp *discordgo.InteractionResponse) error {
	return d.s.InteractionRespond(i, resp)
}

// Confirm posts an accept/decline prompt and waits for exactly one answer
// from the designated target actor. It runs strictly before any wager is
// placed, so no outcome leaves a ledger obligation behind.
func Confirm(s *discordgo.Session, reg *Registry, channelID, targetActorID string, opts ConfirmOptions) (*ConfirmResult, error) {
	return confirm(discordTransport{s}, reg, channelID, targetActorID, opts)
}

func confirm(ts confirmTransport, reg *Registry, channelID, targetActorID string, opts ConfirmOptions) (*ConfirmResult, error) {
	baseID := fmt.Sprintf("confirm_%d", rand.Uint64())
	acceptID := baseID + "_ok"
	declineID := baseID + "_no"

	msg, err := ts.sendMessage(channelID, &discordgo.MessageSend{
		Content:    opts.Content,
		Components: confirmButtons(acceptID, declineID, false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send confirmation prompt: %w", err)
	}

	collector := reg.Collect(msg.ID, targetActorID)
	defer collector.Close()

	ev, ok := collector.Next(opts.Timeout)
	if !ok {
		_ = ts.deleteMessage(channelID, msg.ID)
		return &ConfirmResult{Outcome: TimedOut}, nil
	}

	accepted := ev.CustomID == acceptID

	// Disable the buttons so the prompt can't be answered twice.
	_ = ts.respond(ev.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    opts.Content,
			Components: confirmButtons(acceptID, declineID, true),
		},
	})

	if accepted && opts.KeepMessageOnAccept {
		return &ConfirmResult{
			Outcome: Accepted,
			Message: &MessageHandle{ChannelID: channelID, MessageID: msg.ID},
		}, nil
	}

	_ = ts.deleteMessage(channelID, msg.ID)

	if accepted {
		return &ConfirmResult{Outcome: Accepted}, nil
	}
	return &ConfirmResult{Outcome: Declined}, nil
}

func confirmButtons(acceptID, declineID string, disabled bool) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Accept",
					Style:    discordgo.SuccessButton,
					CustomID: acceptID,
					Disabled: disabled,
				},
				discordgo.Button{
					Label:    "Decline",
					Style:    discordgo.DangerButton,
					CustomID: declineID,
					Disabled: disabled,
				},
			},
		},
	}
}
