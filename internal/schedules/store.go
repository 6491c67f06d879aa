package schedules

import (
	"context"
	"time"

	"carecycle-backend/internal/models"
	"carecycle-backend/internal/pkg/dates"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStore implements Store against the Schedules table. The org id is
// part of every WHERE clause so a schedule id from another tenant resolves
// to not-found rather than leaking across organizations.
type GormStore struct {
	DB *gorm.DB
}

func (st *GormStore) Read(ctx context.Context, orgID, scheduleID uuid.UUID) (*models.Schedule, error) {
	var s models.Schedule
	err := st.DB.WithContext(ctx).
		Where("org_id = ? AND schedule_id = ?", orgID, scheduleID).
		First(&s).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (st *GormStore) Write(ctx context.Context, orgID, scheduleID uuid.UUID, fields map[string]interface{}) error {
	res := st.DB.WithContext(ctx).Model(&models.Schedule{}).
		Where("org_id = ? AND schedule_id = ?", orgID, scheduleID).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

// GormEventRecorder implements EventRecorder against the ScheduleEvents table.
type GormEventRecorder struct {
	DB *gorm.DB
}

func (r *GormEventRecorder) Record(ctx context.Context, event *models.ScheduleEvent) error {
	return r.DB.WithContext(ctx).Create(event).Error
}

// MarkOverdueExecutions flips planned executions whose planned date has
// passed to overdue, for one organization as of the given day.
func (st *GormStore) MarkOverdueExecutions(ctx context.Context, orgID uuid.UUID, asOf time.Time) error {
	return st.DB.WithContext(ctx).Model(&models.ScheduleExecution{}).
		Where("org_id = ? AND status = ? AND planned_date < ?", orgID, models.ExecutionStatusPlanned, dates.Truncate(asOf)).
		Updates(map[string]interface{}{"status": models.ExecutionStatusOverdue}).Error
}
