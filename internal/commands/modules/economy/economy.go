package economy

import (
	"fmt"
	"strings"
	"time"

	"arcadepal/internal/commands/types"
	"arcadepal/internal/database"
	"arcadepal/internal/rewardclock"
	"arcadepal/internal/session"
	"arcadepal/internal/utils"

	"github.com/bwmarrin/discordgo"
)

const (
	panelTimeout   = 90 * time.Second
	defaultHistory = 10
	maxHistory     = 200
)

// EconomyModule implements the CommandModule interface for the wallet,
// reward and history commands
type EconomyModule struct {
	deps *types.Dependencies
}

// New creates a new economy module
func New(deps *types.Dependencies) *EconomyModule {
	return &EconomyModule{deps: deps}
}

// Register adds the economy command to the command map
func (m *EconomyModule) Register(cmds map[string]*types.Command, deps *types.Dependencies) {
	var minLimit float64 = 1
	maxLimit := float64(maxHistory)

	cmds["economy"] = &types.Command{
		ApplicationCommand: &discordgo.ApplicationCommand{
			Name:        "economy",
			Description: "Manage your coins and rewards",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "balance",
					Description: "Show your wallet and reward cooldowns",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "rewards",
					Description: "Claim your daily, weekly and monthly rewards",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "history",
					Description: "Show your most recent transactions",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "limit",
							Description: fmt.Sprintf("How many entries to show (1-%d)", maxHistory),
							MinValue:    &minLimit,
							MaxValue:    maxLimit,
						},
					},
				},
			},
		},
		HandlerFunc: m.handleEconomy,
	}
}

// Service returns nil as this module has no services requiring initialization
func (m *EconomyModule) Service() types.ModuleService {
	return nil
}

func (m *EconomyModule) resetTime() rewardclock.ResetTime {
	return rewardclock.ResetTime{
		Hour:          m.deps.Config.GetRewardResetHour(),
		Minute:        m.deps.Config.GetRewardResetMinute(),
		UTCOffsetSecs: m.deps.Config.GetRewardUTCOffsetSecs(),
	}
}

func (m *EconomyModule) handleEconomy(s *discordgo.Session, i *discordgo.InteractionCreate) {
	player := interactionUser(i)
	if player == nil {
		return
	}

	options := i.ApplicationCommandData().Options
	if len(options) < 1 {
		return
	}

	switch options[0].Name {
	case "balance":
		m.handleBalance(s, i, player)
	case "rewards":
		m.handleRewards(s, i, player)
	case "history":
		m.handleHistory(s, i, player, options[0].Options)
	}
}

func (m *EconomyModule) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate, player *discordgo.User) {
	log := m.deps.Config.Logger

	user, err := m.deps.Ledger.Balance(player.ID)
	if err != nil {
		log.Error("economy: failed to load wallet", "error", err)
		_ = utils.RespondEphemeral(s, i, "❌ Something went wrong loading your wallet.")
		return
	}
	states, err := m.deps.DB.GetRewardStates(user.ID)
	if err != nil {
		log.Error("economy: failed to load reward states", "error", err)
		_ = utils.RespondEphemeral(s, i, "❌ Something went wrong loading your rewards.")
		return
	}

	now := time.Now().UTC()
	lines := []string{
		fmt.Sprintf("💰 Balance: **%s** coins", utils.FormatCurrency(max64(user.Coins, 0))),
		fmt.Sprintf("💎 Gems: **%s**", utils.FormatCurrency(max64(user.Gems, 0))),
		"",
		"**Available rewards:**",
	}

	for _, kind := range AllKinds {
		state := findState(states, kind)
		status := "✅ Available now"
		if !rewardAvailable(state, now) {
			status = "⏳ " + utils.DiscordRelative(state.NextResetAt.Time)
		}
		lines = append(lines, fmt.Sprintf("**%s:** %s", kind.FieldTitle(), status))
	}

	embed := utils.NewEmbed()
	embed.Title = fmt.Sprintf("💰 %s's wallet", player.Username)
	embed.Color = utils.Colors.Ok()
	embed.Description = strings.Join(lines, "\n")
	_ = utils.RespondEphemeralEmbed(s, i, embed)
}

func (m *EconomyModule) handleRewards(s *discordgo.Session, i *discordgo.InteractionCreate, player *discordgo.User) {
	log := m.deps.Config.Logger

	user, err := m.deps.Ledger.Balance(player.ID)
	if err != nil {
		log.Error("economy: failed to load wallet", "error", err)
		_ = utils.RespondEphemeral(s, i, "❌ Something went wrong loading your wallet.")
		return
	}
	states, err := m.deps.DB.GetRewardStates(user.ID)
	if err != nil {
		log.Error("economy: failed to load reward states", "error", err)
		_ = utils.RespondEphemeral(s, i, "❌ Something went wrong loading your rewards.")
		return
	}

	now := time.Now().UTC()
	embed, components := m.rewardsPanel(user, states, now, "")
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Error("economy: failed to send rewards panel", "error", err)
		return
	}
	msg, err := s.InteractionResponse(i.Interaction)
	if err != nil {
		log.Error("economy: failed to fetch rewards panel", "error", err)
		return
	}

	collector := m.deps.Registry.Collect(msg.ID, player.ID)
	defer collector.Close()

	collector.Run(panelTimeout, false, func(ev *session.Event) session.Disposition {
		kind, ok := ParseKind(ev.CustomID)
		if !ok {
			return session.Continue
		}

		now := time.Now().UTC()
		state := findState(states, kind)

		var status string
		if rewardAvailable(state, now) {
			status = m.claimReward(player, user, &states, state, kind, now)
			// Reload so the panel shows the credited balance.
			if refreshed, err := m.deps.Ledger.Balance(player.ID); err == nil {
				user = refreshed
			}
		} else {
			status = cooldownMessage(state.NextResetAt.Time)
		}

		embed, components := m.rewardsPanel(user, states, now, status)
		if err := utils.UpdateComponentMessage(s, ev.Interaction, embed, components); err != nil {
			log.Warn("economy: failed to update rewards panel", "error", err)
		}
		return session.Continue
	})

	// Panel expired: drop the buttons.
	embed, _ = m.rewardsPanel(user, states, time.Now().UTC(), "")
	empty := []discordgo.MessageComponent{}
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds:     &[]*discordgo.MessageEmbed{embed},
		Components: &empty,
	}); err != nil {
		log.Warn("economy: failed to expire rewards panel", "error", err)
	}
}

// claimReward rolls and credits one reward, then records the new cooldown.
// Returns the status text for the panel.
func (m *EconomyModule) claimReward(player *discordgo.User, user *database.User, states *[]database.RewardState, state *database.RewardState, kind Kind, now time.Time) string {
	log := m.deps.Config.Logger

	coins, gems := RollReward(kind, m.deps.NewRand())

	if _, err := m.deps.Ledger.Credit(player.ID, coins, kind.DBName()+"_reward", kind.FieldTitle()); err != nil {
		log.Error("economy: failed to credit reward", "error", err)
		return "❌ Something went wrong crediting the reward."
	}
	if gems > 0 {
		if err := m.deps.Ledger.CreditGems(player.ID, gems, kind.DBName()+"_reward_gems", kind.FieldTitle()); err != nil {
			log.Error("economy: failed to credit gem bonus", "error", err)
		}
	}

	totalClaims := int64(1)
	if state != nil {
		totalClaims = state.TotalClaims + 1
	}
	nextReset := rewardclock.NextReset(now, kind.Period(), m.resetTime())

	updated, err := m.deps.DB.UpsertRewardState(user.ID, kind.DBName(), now, nextReset, totalClaims)
	if err != nil {
		log.Error("economy: failed to record reward cooldown", "error", err)
	} else {
		replaceState(states, *updated)
	}

	gemLine := "💎 No gems this time"
	if gems > 0 {
		gemLine = fmt.Sprintf("💎 +%d gems", gems)
	}
	return fmt.Sprintf("🎁 Reward claimed\n💰 +%s coins\n%s", utils.FormatCurrency(coins), gemLine)
}

func (m *EconomyModule) handleHistory(s *discordgo.Session, i *discordgo.InteractionCreate, player *discordgo.User, options []*discordgo.ApplicationCommandInteractionDataOption) {
	log := m.deps.Config.Logger

	limit := defaultHistory
	if len(options) > 0 {
		limit = int(options[0].IntValue())
	}

	entries, err := m.deps.Ledger.History(player.ID, limit)
	if err != nil {
		log.Error("economy: failed to load history", "error", err)
		_ = utils.RespondEphemeral(s, i, "❌ Something went wrong loading your history.")
		return
	}

	if len(entries) == 0 {
		_ = utils.RespondEphemeral(s, i, "🔔 No transactions yet. Claim a reward or play a game!")
		return
	}

	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		sign := "+"
		if entry.Amount < 0 {
			sign = "−"
		}
		unit := "coins"
		if entry.Currency == "gems" {
			unit = "gems"
		}
		lines = append(lines, fmt.Sprintf("%s%s %s • `%s` • %s",
			sign, utils.FormatCurrency(abs64(entry.Amount)), unit,
			entry.Kind, utils.DiscordRelative(entry.CreatedAt)))
	}

	embed := utils.NewEmbed()
	embed.Title = fmt.Sprintf("📒 %s's last %d transactions", player.Username, len(entries))
	embed.Description = strings.Join(lines, "\n")
	_ = utils.RespondEphemeralEmbed(s, i, embed)
}

func (m *EconomyModule) rewardsPanel(user *database.User, states []database.RewardState, now time.Time, status string) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	lines := []string{
		fmt.Sprintf("💰 Balance: %s", utils.FormatCurrency(max64(user.Coins, 0))),
		fmt.Sprintf("💎 Gems: %s", utils.FormatCurrency(max64(user.Gems, 0))),
	}
	if status != "" {
		lines = append(lines, "", status)
	}

	embed := utils.NewEmbed()
	embed.Description = strings.Join(lines, "\n")

	buttons := make([]discordgo.MessageComponent, 0, len(AllKinds))
	for _, kind := range AllKinds {
		state := findState(states, kind)
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   kind.FieldTitle(),
			Value:  m.rewardField(state, kind, now),
			Inline: true,
		})
		buttons = append(buttons, discordgo.Button{
			CustomID: kind.CustomID(),
			Label:    kind.ButtonLabel(),
			Style:    discordgo.SecondaryButton,
			Disabled: !rewardAvailable(state, now),
		})
	}

	return embed, []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}}
}

func (m *EconomyModule) rewardField(state *database.RewardState, kind Kind, now time.Time) string {
	minCash, maxCash := kind.MoneyRange()
	payoutLine := fmt.Sprintf("💰 %s - %s coins", utils.FormatCurrency(minCash), utils.FormatCurrency(maxCash))

	if rewardAvailable(state, now) {
		upcoming := rewardclock.NextReset(now, kind.Period(), m.resetTime())
		return fmt.Sprintf("✅ Ready to claim\n%s\n⏰ %s", payoutLine, utils.DiscordTimestamp(upcoming))
	}

	next := state.NextResetAt.Time
	return fmt.Sprintf("%s\n⏰ %s\n⏳ %s", payoutLine, utils.DiscordTimestamp(next), utils.DiscordRelative(next))
}

func cooldownMessage(next time.Time) string {
	return fmt.Sprintf("❌ Still on cooldown\n⏰ %s\n⏳ %s",
		utils.DiscordTimestamp(next), utils.DiscordRelative(next))
}

// rewardAvailable treats a missing state or missing cooldown as claimable.
func rewardAvailable(state *database.RewardState, now time.Time) bool {
	if state == nil || !state.NextResetAt.Valid {
		return true
	}
	return rewardclock.Available(&state.NextResetAt.Time, now)
}

func findState(states []database.RewardState, kind Kind) *database.RewardState {
	for idx := range states {
		if states[idx].RewardKind == kind.DBName() {
			return &states[idx]
		}
	}
	return nil
}

func replaceState(states *[]database.RewardState, updated database.RewardState) {
	for idx := range *states {
		if (*states)[idx].RewardKind == updated.RewardKind {
			(*states)[idx] = updated
			return
		}
	}
	*states = append(*states, updated)
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}
