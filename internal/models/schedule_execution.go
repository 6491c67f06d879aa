package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Execution statuses.
const (
	ExecutionStatusPlanned   = "planned"
	ExecutionStatusCompleted = "completed"
	ExecutionStatusSkipped   = "skipped"
	ExecutionStatusOverdue   = "overdue"
)

// ScheduleExecution is one concrete occurrence of a schedule.
type ScheduleExecution struct {
	ExecutionID  uuid.UUID      `gorm:"column:execution_id;type:uuid;primaryKey" json:"execution_id"`
	OrgID        uuid.UUID      `gorm:"column:org_id;type:uuid;not null;index" json:"org_id"`
	ScheduleID   uuid.UUID      `gorm:"column:schedule_id;type:uuid;not null;index:idx_executions_schedule_status,priority:1" json:"schedule_id"`
	PlannedDate  time.Time      `gorm:"column:planned_date;type:date;not null" json:"planned_date"`
	ExecutedDate *time.Time     `gorm:"column:executed_date;type:date" json:"executed_date"`
	ExecutedBy   *uuid.UUID     `gorm:"column:executed_by;type:uuid" json:"executed_by"`
	Status       string         `gorm:"column:status;not null;default:'planned';index:idx_executions_schedule_status,priority:2" json:"status"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ScheduleExecution) TableName() string {
	return "ScheduleExecutions"
}

func (e *ScheduleExecution) BeforeCreate(tx *gorm.DB) error {
	if e.ExecutionID == uuid.Nil {
		e.ExecutionID = uuid.New()
	}
	return nil
}
