package schedules

import (
	"sort"
	"time"

	"carecycle-backend/internal/pkg/dates"

	"github.com/google/uuid"
)

// Urgency tiers for incomplete checklist entries, most urgent first.
const (
	urgencyOverdue = iota
	urgencyToday
	urgencySoon
	urgencyFuture
)

const soonWindowDays = 7

// ChecklistItem is one row of the daily checklist: a schedule execution
// folded to its display shape. Completed defaults to false, so records
// without a completion marker stay visible at the top of the list.
type ChecklistItem struct {
	ExecutionID     uuid.UUID  `json:"execution_id"`
	ScheduleID      uuid.UUID  `json:"schedule_id"`
	PatientID       uuid.UUID  `json:"patient_id"`
	ItemName        string     `json:"item_name"`
	AssignedNurseID *uuid.UUID `json:"assigned_nurse_id"`
	DueDate         time.Time  `json:"due_date"`
	Completed       bool       `json:"completed"`
	NeedsReview     bool       `json:"needs_review"`
}

// SortByPriority orders checklist items for display: incomplete before
// completed; incomplete by urgency tier (overdue, due today, due within
// seven days, later) then ascending due date; completed by descending due
// date. The sort is stable, pure and idempotent; the input slice is not
// modified.
func SortByPriority(items []ChecklistItem, today time.Time) []ChecklistItem {
	today = dates.Truncate(today)
	out := make([]ChecklistItem, len(items))
	copy(out, items)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		if a.Completed {
			// Completed partition: most recent first.
			return dates.Truncate(b.DueDate).Before(dates.Truncate(a.DueDate))
		}
		ra, rb := urgencyRank(a.DueDate, today), urgencyRank(b.DueDate, today)
		if ra != rb {
			return ra < rb
		}
		return dates.Truncate(a.DueDate).Before(dates.Truncate(b.DueDate))
	})
	return out
}

func urgencyRank(due, today time.Time) int {
	due = dates.Truncate(due)
	switch {
	case due.Before(today):
		return urgencyOverdue
	case due.Equal(today):
		return urgencyToday
	case !due.After(today.AddDate(0, 0, soonWindowDays)):
		return urgencySoon
	default:
		return urgencyFuture
	}
}
