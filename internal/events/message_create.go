package events

import (
	"fmt"
	"strings"
	"time"

	"arcadepal/internal/config"
	"arcadepal/internal/utils"

	"github.com/bwmarrin/discordgo"
)

const statusMessageTTL = 30 * time.Second

// OnMessageCreate handles message events
func OnMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate, cfg *config.Config) {
	// Ignore messages from bots (including ourselves)
	if m.Author.Bot || m.GuildID == "" {
		return
	}

	botID := s.State.User.ID

	// A message that is nothing but the bot mention gets a status card.
	trimmed := strings.TrimSpace(m.Content)
	if trimmed == utils.Mention(botID) || trimmed == fmt.Sprintf("<@!%s>", botID) {
		respondWithStatus(s, m, cfg)
		return
	}

	// Mentions buried in longer messages just get a reaction.
	for _, mention := range m.Mentions {
		if mention.ID == botID {
			if err := s.MessageReactionAdd(m.ChannelID, m.ID, "❤️"); err != nil {
				cfg.Logger.Errorf("Error adding heart reaction: %v", err)
			}
			return
		}
	}
}

func respondWithStatus(s *discordgo.Session, m *discordgo.MessageCreate, cfg *config.Config) {
	embed := utils.NewEmbed()
	embed.Color = utils.Colors.Fancy()
	embed.Description = fmt.Sprintf(
		"Hey %s! All my commands are slash commands. Use `/help` to see what I can do.",
		utils.Mention(m.Author.ID),
	)
	embed.Fields = []*discordgo.MessageEmbedField{
		{
			Name: "Stats",
			Value: fmt.Sprintf("`%d` server(s)\n`%d` ms gateway latency",
				len(s.State.Guilds), s.HeartbeatLatency().Milliseconds()),
		},
	}
	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: "Automatic reply, self-destructs in 30s",
	}
	if s.State.User.Avatar != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: s.State.User.AvatarURL("")}
	}

	msg, err := s.ChannelMessageSendEmbed(m.ChannelID, embed)
	if err != nil {
		cfg.Logger.Errorf("Error sending status reply: %v", err)
		return
	}

	time.AfterFunc(statusMessageTTL, func() {
		if err := s.ChannelMessageDelete(msg.ChannelID, msg.ID); err != nil {
			cfg.Logger.Warnf("Error deleting status reply: %v", err)
		}
	})
}
