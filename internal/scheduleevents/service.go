package scheduleevents

import (
	"context"
	"errors"

	"carecycle-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// GetOrgScheduleEvents returns the org's audit trail, optionally narrowed
// to one schedule, oldest first.
func (s *Service) GetOrgScheduleEvents(ctx context.Context, orgID uuid.UUID, scheduleID *uuid.UUID) ([]models.ScheduleEvent, error) {
	if orgID == uuid.Nil {
		return nil, errors.New("Organization ID is required")
	}

	var org models.Org
	if err := s.DB.WithContext(ctx).Where("org_id = ?", orgID).Select("org_id").First(&org).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("Organization not found")
		}
		return nil, err
	}

	q := s.DB.WithContext(ctx).Where("org_id = ?", orgID)
	if scheduleID != nil {
		q = q.Where("schedule_id = ?", *scheduleID)
	}
	var events []models.ScheduleEvent
	if err := q.Order("created_at ASC").Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}
