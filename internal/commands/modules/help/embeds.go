package help

import (
	"arcadepal/internal/utils"

	"github.com/MakeNowJust/heredoc"
	"github.com/bwmarrin/discordgo"
)

// helpCommandsEmbed creates the main help embed showing all available commands
func helpCommandsEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🕹️ ArcadePal - Help",
		Description: "Mini games with a wagered coin economy. Earn coins with `/economy rewards`, then spend them at the tables.",
		Color:       utils.Colors.Info(),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "🎮 Games:",
				Inline: false,
			},
			{
				Name: "/mines",
				Value: heredoc.Doc(`
					Wager coins and reveal tiles without hitting a bomb
					• Use ` + "`/mines wager:500`" + ` to start a round
					• Find 3 diamonds to unlock cash-out, 9 cashes out automatically`),
				Inline: false,
			},
			{
				Name: "/memory",
				Value: heredoc.Doc(`
					Match pairs of hidden emoji tiles
					• Use ` + "`/memory`" + ` to play solo
					• Use ` + "`/memory opponent:@user`" + ` to challenge someone`),
				Inline: false,
			},
			{
				Name: "/jokenpo",
				Value: heredoc.Doc(`
					Rock, paper, scissors
					• Use ` + "`/jokenpo`" + ` to play against the bot
					• Use ` + "`/jokenpo opponent:@user`" + ` for a duel`),
				Inline: false,
			},
			{
				Name: "/race",
				Value: heredoc.Doc(`
					Animal race with a shared lobby
					• Use ` + "`/race`" + ` to open a lobby, others join by picking an animal
					• The host starts the race once at least 2 racers joined`),
				Inline: false,
			},
			{
				Name:   "💰 Economy:",
				Inline: false,
			},
			{
				Name:   "/economy balance",
				Value:  "Show your wallet and which rewards are ready to claim",
				Inline: false,
			},
			{
				Name:   "/economy rewards",
				Value:  "Claim your daily, weekly and monthly coin rewards",
				Inline: false,
			},
			{
				Name:   "/economy history",
				Value:  "Show your most recent transactions",
				Inline: false,
			},
			{
				Name:   "🤖 Utility:",
				Inline: false,
			},
			{
				Name:   "/ping",
				Value:  "Check if the bot is responsive",
				Inline: false,
			},
			{
				Name:   "/help",
				Value:  "Show this help message",
				Inline: false,
			},
		},
	}
}
