package race

import (
	"github.com/bwmarrin/discordgo"
)

const maxStaleEdits = 5

// ProgressMessage manages the plain-text message that displays the race
// track. When enough chatter pushes it off the bottom of the channel, it
// is re-posted so spectators can still see the race.
type ProgressMessage struct {
	channelID  string
	messageID  string
	staleEdits int
}

// NewProgressMessage posts the first frame of the track.
func NewProgressMessage(s *discordgo.Session, channelID, content string) (*ProgressMessage, error) {
	msg, err := s.ChannelMessageSend(channelID, content)
	if err != nil {
		return nil, err
	}
	return &ProgressMessage{channelID: channelID, messageID: msg.ID}, nil
}

// Refresh updates the track frame, re-posting the message if the race has
// scrolled away.
func (p *ProgressMessage) Refresh(s *discordgo.Session, content string) error {
	if p.needsRepost(s) {
		return p.recreate(s, content)
	}
	_, err := s.ChannelMessageEdit(p.channelID, p.messageID, content)
	return err
}

func (p *ProgressMessage) needsRepost(s *discordgo.Session) bool {
	messages, err := s.ChannelMessages(p.channelID, 1, "", "", "")
	if err != nil {
		p.staleEdits = 0
		return false
	}
	if len(messages) > 0 {
		if messages[0].ID != p.messageID {
			p.staleEdits++
		} else {
			p.staleEdits = 0
		}
	}
	return p.staleEdits >= maxStaleEdits
}

func (p *ProgressMessage) recreate(s *discordgo.Session, content string) error {
	_ = s.ChannelMessageDelete(p.channelID, p.messageID)

	msg, err := s.ChannelMessageSend(p.channelID, content)
	if err != nil {
		return err
	}
	p.messageID = msg.ID
	p.staleEdits = 0
	return nil
}
