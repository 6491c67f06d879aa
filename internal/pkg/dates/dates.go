package dates

import "time"

// Truncate normalizes a timestamp to day granularity in UTC. All schedule
// date comparisons happen at this granularity.
func Truncate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddWeeks returns t shifted by n whole weeks.
func AddWeeks(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n*7)
}

// DaysBetween returns the whole days from 'from' to 'to' at day
// granularity. Negative when 'to' precedes 'from'.
func DaysBetween(from, to time.Time) int {
	return int(Truncate(to).Sub(Truncate(from)).Hours() / 24)
}

// WeeksBetween returns the whole weeks elapsed from 'from' to 'to',
// floored. Never negative: a 'to' before 'from' counts as zero weeks.
func WeeksBetween(from, to time.Time) int {
	days := DaysBetween(from, to)
	if days <= 0 {
		return 0
	}
	return days / 7
}

// SameDay reports whether a and b fall on the same calendar day (UTC).
func SameDay(a, b time.Time) bool {
	return Truncate(a).Equal(Truncate(b))
}
