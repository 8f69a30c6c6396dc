package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		name  string
		value int64
		want  string
	}{
		{"zero", 0, "0"},
		{"small", 999, "999"},
		{"thousand", 1000, "1,000"},
		{"wager floor", 50, "50"},
		{"wager ceiling", 50000, "50,000"},
		{"millions", 1234567, "1,234,567"},
		{"negative", -4200, "-4,200"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCurrency(tt.value))
		})
	}
}

func TestMention(t *testing.T) {
	assert.Equal(t, "<@123456789>", Mention("123456789"))
}

func TestDiscordTimestamps(t *testing.T) {
	at := time.Unix(1767225600, 0)
	assert.Equal(t, "<t:1767225600:f>", DiscordTimestamp(at))
	assert.Equal(t, "<t:1767225600:R>", DiscordRelative(at))
}
