package rewardclock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var brt = ResetTime{Hour: 21, Minute: 0, UTCOffsetSecs: -3 * 60 * 60}

func localTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02 15:04", value, brt.Location())
	require.NoError(t, err)
	return parsed
}

func TestNextResetDaily(t *testing.T) {
	tests := []struct {
		name string
		now  string
		want string
	}{
		{"one minute before reset", "2026-03-10 20:59", "2026-03-10 21:00"},
		{"one minute after reset", "2026-03-10 21:01", "2026-03-11 21:00"},
		{"exactly at reset", "2026-03-10 21:00", "2026-03-11 21:00"},
		{"morning", "2026-03-10 08:00", "2026-03-10 21:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextReset(localTime(t, tt.now), Daily, brt)
			assert.Equal(t, localTime(t, tt.want).UTC(), got)
		})
	}
}

func TestNextResetWeekly(t *testing.T) {
	// Rolling 7-day cooldown at reset time, regardless of time-of-day now
	got := NextReset(localTime(t, "2026-03-10 08:00"), Weekly, brt)
	assert.Equal(t, localTime(t, "2026-03-17 21:00").UTC(), got)

	got = NextReset(localTime(t, "2026-03-10 23:30"), Weekly, brt)
	assert.Equal(t, localTime(t, "2026-03-17 21:00").UTC(), got)
}

func TestNextResetMonthlyClamps(t *testing.T) {
	// Jan 31 in a non-leap year clamps to Feb 28
	got := NextReset(localTime(t, "2026-01-31 10:00"), Monthly, brt)
	assert.Equal(t, localTime(t, "2026-02-28 21:00").UTC(), got)

	// 2028 is a leap year: Jan 31 clamps to Feb 29
	got = NextReset(localTime(t, "2028-01-31 10:00"), Monthly, brt)
	assert.Equal(t, localTime(t, "2028-02-29 21:00").UTC(), got)

	// December wraps the year
	got = NextReset(localTime(t, "2026-12-15 10:00"), Monthly, brt)
	assert.Equal(t, localTime(t, "2027-01-15 21:00").UTC(), got)
}

func TestAddOneMonth(t *testing.T) {
	tests := []struct {
		y, m, d          int
		wantY, wantM, wD int
	}{
		{2026, 1, 31, 2026, 2, 28},
		{2028, 1, 31, 2028, 2, 29},
		{2026, 3, 31, 2026, 4, 30},
		{2026, 12, 5, 2027, 1, 5},
		{2026, 6, 15, 2026, 7, 15},
	}

	for _, tt := range tests {
		y, m, d := AddOneMonth(tt.y, tt.m, tt.d)
		assert.Equal(t, [3]int{tt.wantY, tt.wantM, tt.wD}, [3]int{y, m, d})
	}
}

func TestAvailable(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	// No record yet
	assert.True(t, Available(nil, now))

	// Record with no reset instant is treated as available
	var zero time.Time
	assert.True(t, Available(&zero, now))

	future := now.Add(time.Hour)
	assert.False(t, Available(&future, now))

	past := now.Add(-time.Hour)
	assert.True(t, Available(&past, now))

	// Boundary: exactly at reset is claimable
	assert.True(t, Available(&now, now))
}

func TestIsLeapYear(t *testing.T) {
	assert.True(t, IsLeapYear(2024))
	assert.True(t, IsLeapYear(2000))
	assert.False(t, IsLeapYear(1900))
	assert.False(t, IsLeapYear(2026))
}
