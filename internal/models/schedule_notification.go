package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification statuses. Delivery transport lives elsewhere; this table is
// the scheduling-side record that pause suppresses and resume recreates.
const (
	NotificationStatusPending    = "pending"
	NotificationStatusSuppressed = "suppressed"
	NotificationStatusSent       = "sent"
)

// ScheduleNotification is a reminder scheduled ahead of a due date.
type ScheduleNotification struct {
	NotificationID uuid.UUID      `gorm:"column:notification_id;type:uuid;primaryKey" json:"notification_id"`
	OrgID          uuid.UUID      `gorm:"column:org_id;type:uuid;not null;index" json:"org_id"`
	ScheduleID     uuid.UUID      `gorm:"column:schedule_id;type:uuid;not null;index:idx_notifications_schedule_status,priority:1" json:"schedule_id"`
	SendOn         time.Time      `gorm:"column:send_on;type:date;not null" json:"send_on"`
	Status         string         `gorm:"column:status;not null;default:'pending';index:idx_notifications_schedule_status,priority:2" json:"status"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ScheduleNotification) TableName() string {
	return "ScheduleNotifications"
}

func (n *ScheduleNotification) BeforeCreate(tx *gorm.DB) error {
	if n.NotificationID == uuid.Nil {
		n.NotificationID = uuid.New()
	}
	return nil
}
