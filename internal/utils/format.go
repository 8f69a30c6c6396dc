package utils

import (
	"fmt"
	"strings"
	"time"
)

// FormatCurrency renders an integer coin amount with thousands separators,
// e.g. 50000 -> "50,000".
func FormatCurrency(value int64) string {
	negative := value < 0
	if negative {
		value = -value
	}

	digits := fmt.Sprintf("%d", value)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	formatted := strings.Join(groups, ",")
	if negative {
		return "-" + formatted
	}
	return formatted
}

// Mention renders a user mention from a Discord id.
func Mention(userID string) string {
	return "<@" + userID + ">"
}

// DiscordTimestamp renders a Discord timestamp in short date/time format.
func DiscordTimestamp(t time.Time) string {
	return fmt.Sprintf("<t:%d:f>", t.Unix())
}

// DiscordRelative renders a Discord timestamp in relative format
// ("in 3 hours").
func DiscordRelative(t time.Time) string {
	return fmt.Sprintf("<t:%d:R>", t.Unix())
}
