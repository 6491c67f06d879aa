package notifications

import (
	"context"
	"time"

	"carecycle-backend/internal/models"
	"carecycle-backend/internal/pkg/dates"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service is the scheduling-side notification/execution command sink. It
// owns the ScheduleNotifications table and the bulk execution writes driven
// by pause/resume. Delivery transport is out of scope; a separate worker
// reads pending rows.
type Service struct {
	DB *gorm.DB
}

// SuppressPending marks a schedule's pending notifications as suppressed
// and its planned executions as skipped. Invoked on pause and cancel.
func (s *Service) SuppressPending(ctx context.Context, orgID, scheduleID uuid.UUID) error {
	if err := s.DB.WithContext(ctx).Model(&models.ScheduleNotification{}).
		Where("org_id = ? AND schedule_id = ? AND status = ?", orgID, scheduleID, models.NotificationStatusPending).
		Updates(map[string]interface{}{"status": models.NotificationStatusSuppressed}).Error; err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Model(&models.ScheduleExecution{}).
		Where("org_id = ? AND schedule_id = ? AND status = ?", orgID, scheduleID, models.ExecutionStatusPlanned).
		Updates(map[string]interface{}{"status": models.ExecutionStatusSkipped}).Error
}

// MaterializeExecutions creates planned executions on the given dates.
func (s *Service) MaterializeExecutions(ctx context.Context, orgID, scheduleID uuid.UUID, plannedDates []time.Time) error {
	if len(plannedDates) == 0 {
		return nil
	}
	executions := make([]models.ScheduleExecution, 0, len(plannedDates))
	for _, d := range plannedDates {
		executions = append(executions, models.ScheduleExecution{
			OrgID:       orgID,
			ScheduleID:  scheduleID,
			PlannedDate: dates.Truncate(d),
			Status:      models.ExecutionStatusPlanned,
		})
	}
	return s.DB.WithContext(ctx).Create(&executions).Error
}

// ScheduleReminder records a pending notification to be sent on the given
// day.
func (s *Service) ScheduleReminder(ctx context.Context, orgID, scheduleID uuid.UUID, sendOn time.Time) error {
	n := &models.ScheduleNotification{
		OrgID:      orgID,
		ScheduleID: scheduleID,
		SendOn:     dates.Truncate(sendOn),
		Status:     models.NotificationStatusPending,
	}
	return s.DB.WithContext(ctx).Create(n).Error
}

// ListPending returns a schedule's pending notifications, soonest first.
func (s *Service) ListPending(ctx context.Context, orgID, scheduleID uuid.UUID) ([]models.ScheduleNotification, error) {
	var out []models.ScheduleNotification
	err := s.DB.WithContext(ctx).
		Where("org_id = ? AND schedule_id = ? AND status = ?", orgID, scheduleID, models.NotificationStatusPending).
		Order("send_on ASC").
		Find(&out).Error
	return out, err
}
