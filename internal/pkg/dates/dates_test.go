package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTruncate_DropsTimeOfDay(t *testing.T) {
	in := time.Date(2025, 3, 14, 23, 59, 58, 123, time.UTC)
	assert.Equal(t, day(2025, 3, 14), Truncate(in))
}

func TestAddWeeks(t *testing.T) {
	assert.Equal(t, day(2025, 1, 29), AddWeeks(day(2025, 1, 1), 4))
	assert.Equal(t, day(2025, 1, 1), AddWeeks(day(2025, 1, 1), 0))
}

func TestWeeksBetween_FloorsPartialWeeks(t *testing.T) {
	start := day(2025, 1, 1)
	assert.Equal(t, 0, WeeksBetween(start, day(2025, 1, 6)))  // 5 days
	assert.Equal(t, 1, WeeksBetween(start, day(2025, 1, 8)))  // 7 days
	assert.Equal(t, 1, WeeksBetween(start, day(2025, 1, 11))) // 10 days
	assert.Equal(t, 2, WeeksBetween(start, day(2025, 1, 15))) // 14 days
}

func TestWeeksBetween_NeverNegative(t *testing.T) {
	assert.Equal(t, 0, WeeksBetween(day(2025, 1, 10), day(2025, 1, 1)))
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 10, DaysBetween(day(2025, 1, 1), day(2025, 1, 11)))
	assert.Equal(t, -3, DaysBetween(day(2025, 1, 4), day(2025, 1, 1)))
}

func TestSameDay_IgnoresTime(t *testing.T) {
	a := time.Date(2025, 5, 2, 1, 0, 0, 0, time.UTC)
	b := time.Date(2025, 5, 2, 22, 30, 0, 0, time.UTC)
	assert.True(t, SameDay(a, b))
	assert.False(t, SameDay(a, day(2025, 5, 3)))
}
