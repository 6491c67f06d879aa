package schedules

import "carecycle-backend/internal/models"

// Pure transition predicates. They never touch storage and never fail;
// callers use them to short-circuit illegal transitions before any write.

// CanPause reports whether a schedule may be paused. Only active schedules
// qualify; paused, completed and cancelled ones do not.
func CanPause(s *models.Schedule) bool {
	return s != nil && s.Status == models.ScheduleStatusActive
}

// CanResume reports whether a schedule may be resumed. Only paused
// schedules qualify.
func CanResume(s *models.Schedule) bool {
	return s != nil && s.Status == models.ScheduleStatusPaused
}
