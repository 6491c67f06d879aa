package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Schedule statuses. Active and paused alternate freely; completed and
// cancelled are terminal.
const (
	ScheduleStatusActive    = "active"
	ScheduleStatusPaused    = "paused"
	ScheduleStatusCompleted = "completed"
	ScheduleStatusCancelled = "cancelled"
)

// Schedule is a recurring care directive for one patient/item pair.
// NextDueDate is always set while the schedule is active; while paused it
// retains the value it had at the moment of pausing, and PausedAt records
// that moment for pause-duration and missed-cycle computation on resume.
type Schedule struct {
	ScheduleID             uuid.UUID      `gorm:"column:schedule_id;type:uuid;primaryKey" json:"schedule_id"`
	OrgID                  uuid.UUID      `gorm:"column:org_id;type:uuid;not null;index:idx_schedules_org_status,priority:1" json:"org_id"`
	PatientID              uuid.UUID      `gorm:"column:patient_id;type:uuid;not null;index" json:"patient_id"`
	ItemName               string         `gorm:"column:item_name;not null" json:"item_name"`
	IntervalWeeks          int            `gorm:"column:interval_weeks;not null" json:"interval_weeks"`
	StartDate              time.Time      `gorm:"column:start_date;type:date;not null" json:"start_date"`
	EndDate                *time.Time     `gorm:"column:end_date;type:date" json:"end_date"`
	LastExecutedDate       *time.Time     `gorm:"column:last_executed_date;type:date" json:"last_executed_date"`
	NextDueDate            time.Time      `gorm:"column:next_due_date;type:date;not null" json:"next_due_date"`
	Status                 string         `gorm:"column:status;not null;default:'active';index:idx_schedules_org_status,priority:2" json:"status"`
	AssignedNurseID        *uuid.UUID     `gorm:"column:assigned_nurse_id;type:uuid" json:"assigned_nurse_id"`
	Priority               int            `gorm:"column:priority;not null;default:0" json:"priority"`
	RequiresNotification   bool           `gorm:"column:requires_notification;not null;default:false" json:"requires_notification"`
	NotificationDaysBefore int            `gorm:"column:notification_days_before;not null;default:0" json:"notification_days_before"`
	PausedAt               *time.Time     `gorm:"column:paused_at" json:"paused_at"`
	PauseReason            string         `gorm:"column:pause_reason" json:"pause_reason"`
	NeedsReview            bool           `gorm:"column:needs_review;not null;default:false" json:"needs_review"`
	CreatedAt              time.Time      `json:"createdAt"`
	UpdatedAt              time.Time      `json:"updatedAt"`
	DeletedAt              gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Schedule) TableName() string {
	return "Schedules"
}

func (s *Schedule) BeforeCreate(tx *gorm.DB) error {
	if s.ScheduleID == uuid.Nil {
		s.ScheduleID = uuid.New()
	}
	return nil
}
