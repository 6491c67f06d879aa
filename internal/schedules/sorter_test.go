package schedules

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sorterToday = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func item(name string, due time.Time, completed bool) ChecklistItem {
	return ChecklistItem{
		ExecutionID: uuid.New(),
		ScheduleID:  uuid.New(),
		PatientID:   uuid.New(),
		ItemName:    name,
		DueDate:     due,
		Completed:   completed,
	}
}

func names(items []ChecklistItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ItemName
	}
	return out
}

func TestSortByPriority_IncompleteBeforeCompleted(t *testing.T) {
	items := []ChecklistItem{
		item("done", sorterToday, true),
		item("open", sorterToday.AddDate(0, 0, 30), false),
	}
	out := SortByPriority(items, sorterToday)
	assert.Equal(t, []string{"open", "done"}, names(out))
}

func TestSortByPriority_UrgencyTiers(t *testing.T) {
	items := []ChecklistItem{
		item("future", sorterToday.AddDate(0, 0, 8), false),
		item("soon", sorterToday.AddDate(0, 0, 3), false),
		item("today", sorterToday, false),
		item("overdue", sorterToday.AddDate(0, 0, -2), false),
	}
	out := SortByPriority(items, sorterToday)
	assert.Equal(t, []string{"overdue", "today", "soon", "future"}, names(out))
}

func TestSortByPriority_TiesWithinTierByAscendingDueDate(t *testing.T) {
	items := []ChecklistItem{
		item("overdue-1d", sorterToday.AddDate(0, 0, -1), false),
		item("overdue-5d", sorterToday.AddDate(0, 0, -5), false),
		item("overdue-3d", sorterToday.AddDate(0, 0, -3), false),
	}
	out := SortByPriority(items, sorterToday)
	assert.Equal(t, []string{"overdue-5d", "overdue-3d", "overdue-1d"}, names(out))
}

func TestSortByPriority_SevenDayBoundaryIsSoon(t *testing.T) {
	items := []ChecklistItem{
		item("day8", sorterToday.AddDate(0, 0, 8), false),
		item("day7", sorterToday.AddDate(0, 0, 7), false),
	}
	out := SortByPriority(items, sorterToday)
	assert.Equal(t, []string{"day7", "day8"}, names(out))
}

func TestSortByPriority_CompletedDescendingDate(t *testing.T) {
	items := []ChecklistItem{
		item("old", sorterToday.AddDate(0, 0, -10), true),
		item("recent", sorterToday.AddDate(0, 0, -1), true),
		item("middle", sorterToday.AddDate(0, 0, -5), true),
	}
	out := SortByPriority(items, sorterToday)
	assert.Equal(t, []string{"recent", "middle", "old"}, names(out))
}

func TestSortByPriority_MixedOrder(t *testing.T) {
	items := []ChecklistItem{
		item("done-recent", sorterToday.AddDate(0, 0, -1), true),
		item("due-today", sorterToday, false),
		item("overdue", sorterToday.AddDate(0, 0, -4), false),
		item("done-old", sorterToday.AddDate(0, 0, -9), true),
		item("next-week", sorterToday.AddDate(0, 0, 6), false),
	}
	out := SortByPriority(items, sorterToday)
	assert.Equal(t, []string{"overdue", "due-today", "next-week", "done-recent", "done-old"}, names(out))
}

func TestSortByPriority_StableForEqualKeys(t *testing.T) {
	items := []ChecklistItem{
		item("first", sorterToday, false),
		item("second", sorterToday, false),
		item("third", sorterToday, false),
	}
	out := SortByPriority(items, sorterToday)
	assert.Equal(t, []string{"first", "second", "third"}, names(out))
}

func TestSortByPriority_Idempotent(t *testing.T) {
	items := []ChecklistItem{
		item("done", sorterToday.AddDate(0, 0, -2), true),
		item("overdue", sorterToday.AddDate(0, 0, -3), false),
		item("soon", sorterToday.AddDate(0, 0, 2), false),
	}
	once := SortByPriority(items, sorterToday)
	twice := SortByPriority(once, sorterToday)
	assert.Equal(t, names(once), names(twice))
}

func TestSortByPriority_DoesNotModifyInput(t *testing.T) {
	items := []ChecklistItem{
		item("b", sorterToday, false),
		item("a", sorterToday.AddDate(0, 0, -1), false),
	}
	_ = SortByPriority(items, sorterToday)
	assert.Equal(t, "b", items[0].ItemName)
	assert.Equal(t, "a", items[1].ItemName)
}

func TestSortByPriority_EmptyAndSingleton(t *testing.T) {
	out := SortByPriority(nil, sorterToday)
	require.Len(t, out, 0)

	single := []ChecklistItem{item("only", sorterToday, false)}
	out = SortByPriority(single, sorterToday)
	require.Len(t, out, 1)
	assert.Equal(t, "only", out[0].ItemName)
}
