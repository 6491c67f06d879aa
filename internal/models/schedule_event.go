package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Schedule event types (audit trail).
const (
	EventScheduleCreated   = "created"
	EventSchedulePaused    = "paused"
	EventScheduleResumed   = "resumed"
	EventScheduleCompleted = "completed"
	EventScheduleCancelled = "cancelled"
)

// ScheduleEvent is an append-only audit row for schedule lifecycle changes.
// EventData holds the transition payload (reason, strategy, dates) as jsonb.
type ScheduleEvent struct {
	EventID     uuid.UUID      `gorm:"column:event_id;type:uuid;primaryKey" json:"event_id"`
	OrgID       uuid.UUID      `gorm:"column:org_id;type:uuid;not null;index" json:"org_id"`
	ScheduleID  uuid.UUID      `gorm:"column:schedule_id;type:uuid;not null;index" json:"schedule_id"`
	EventType   string         `gorm:"column:event_type;not null" json:"event_type"`
	EventData   datatypes.JSON `gorm:"column:event_data;type:jsonb" json:"event_data"`
	ActorUserID *uuid.UUID     `gorm:"column:actor_user_id;type:uuid" json:"actor_user_id"`
	CreatedAt   time.Time      `json:"createdAt"`
}

func (ScheduleEvent) TableName() string {
	return "ScheduleEvents"
}

func (e *ScheduleEvent) BeforeCreate(tx *gorm.DB) error {
	if e.EventID == uuid.Nil {
		e.EventID = uuid.New()
	}
	return nil
}
