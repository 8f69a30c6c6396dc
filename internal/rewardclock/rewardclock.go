// Package rewardclock computes when periodic rewards become claimable.
// Everything here is pure time arithmetic against a fixed local reset
// time-of-day and a fixed UTC offset.
package rewardclock

import "time"

// Period is how often a reward resets.
type Period int

const (
	Daily Period = iota
	Weekly
	Monthly
)

// ResetTime is the local time-of-day at which rewards roll over.
type ResetTime struct {
	Hour          int
	Minute        int
	UTCOffsetSecs int
}

// Location returns the fixed-offset zone the reset is anchored to.
func (r ResetTime) Location() *time.Location {
	return time.FixedZone("reward", r.UTCOffsetSecs)
}

// NextReset computes the next instant a reward of the given period becomes
// claimable, measured from now.
//
// Daily resets at the next occurrence of the reset time-of-day. Weekly is a
// rolling 7-day cooldown (not anchored to a weekday). Monthly lands on the
// same calendar day one month later, clamped to the shorter month's last
// day.
func NextReset(now time.Time, period Period, reset ResetTime) time.Time {
	loc := reset.Location()
	local := now.In(loc)

	year, month, day := local.Date()
	resetToday := time.Date(year, month, day, reset.Hour, reset.Minute, 0, 0, loc)

	var target time.Time
	switch period {
	case Daily:
		if local.Before(resetToday) {
			target = resetToday
		} else {
			target = resetToday.AddDate(0, 0, 1)
		}
	case Weekly:
		target = resetToday.AddDate(0, 0, 7)
	case Monthly:
		y, m, d := AddOneMonth(year, int(month), day)
		target = time.Date(y, time.Month(m), d, reset.Hour, reset.Minute, 0, 0, loc)
	default:
		target = resetToday.AddDate(0, 0, 1)
	}

	return target.UTC()
}

// Available reports whether a reward with the given next-reset instant can
// be claimed. A missing record or a missing reset time both count as
// available; the zero value is a defensive default, not an error.
func Available(nextReset *time.Time, now time.Time) bool {
	if nextReset == nil || nextReset.IsZero() {
		return true
	}
	return !now.Before(*nextReset)
}

// AddOneMonth advances a calendar date by one month, clamping the day to
// the target month's length (Jan 31 becomes Feb 28, or Feb 29 in a leap
// year).
func AddOneMonth(year, month, day int) (int, int, int) {
	if month == 12 {
		year++
		month = 1
	} else {
		month++
	}

	if last := DaysInMonth(year, month); day > last {
		day = last
	}
	return year, month, day
}

// DaysInMonth returns the number of days in a month.
func DaysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 30
	}
}

// IsLeapYear reports whether a year is a leap year.
func IsLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}
