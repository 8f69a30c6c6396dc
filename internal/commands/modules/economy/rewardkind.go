package economy

import (
	"math/rand/v2"

	"arcadepal/internal/rewardclock"
)

// Kind is one claimable reward cadence. The set is closed; unknown button
// tokens never map onto a Kind.
type Kind int

const (
	Daily Kind = iota
	Weekly
	Monthly
)

// AllKinds lists every reward cadence in display order.
var AllKinds = []Kind{Daily, Weekly, Monthly}

// CustomID is the component token for this reward's claim button.
func (k Kind) CustomID() string {
	switch k {
	case Daily:
		return "eco_daily"
	case Weekly:
		return "eco_weekly"
	default:
		return "eco_monthly"
	}
}

// DBName is the reward_states row key for this cadence.
func (k Kind) DBName() string {
	switch k {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	default:
		return "monthly"
	}
}

// ButtonLabel is the claim button text.
func (k Kind) ButtonLabel() string {
	switch k {
	case Daily:
		return "💰 Daily"
	case Weekly:
		return "🎁 Weekly"
	default:
		return "💎 Monthly"
	}
}

// FieldTitle is the embed field heading for this cadence.
func (k Kind) FieldTitle() string {
	switch k {
	case Daily:
		return "Daily reward"
	case Weekly:
		return "Weekly reward"
	default:
		return "Monthly reward"
	}
}

// MoneyRange is the inclusive coin payout range for this cadence.
func (k Kind) MoneyRange() (int64, int64) {
	switch k {
	case Daily:
		return 250, 400
	case Weekly:
		return 800, 1400
	default:
		return 4000, 6000
	}
}

// Period maps the cadence onto the reward clock.
func (k Kind) Period() rewardclock.Period {
	switch k {
	case Daily:
		return rewardclock.Daily
	case Weekly:
		return rewardclock.Weekly
	default:
		return rewardclock.Monthly
	}
}

// ParseKind maps a component token back onto a reward cadence.
func ParseKind(customID string) (Kind, bool) {
	for _, kind := range AllKinds {
		if kind.CustomID() == customID {
			return kind, true
		}
	}
	return Daily, false
}

// RollReward draws the coin payout and the occasional gem bonus: a 20%
// chance of 1 to 5 gems rides along with every claim.
func RollReward(kind Kind, rng *rand.Rand) (coins, gems int64) {
	minCash, maxCash := kind.MoneyRange()
	coins = minCash + rng.Int64N(maxCash-minCash+1)
	if rng.Float64() < 0.20 {
		gems = 1 + rng.Int64N(5)
	}
	return coins, gems
}
