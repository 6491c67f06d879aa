package schedules

import (
	"context"
	"time"

	"carecycle-backend/internal/models"
	"carecycle-backend/internal/pkg/dates"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Executions are materialized this far ahead when a schedule is created.
const planningHorizon = 365 * 24 * time.Hour

// Service holds the schedule module's dependencies. The manager performs
// pause/resume transitions; reads and CRUD-adjacent operations go through
// the service directly.
type Service struct {
	DB      *gorm.DB
	Store   *GormStore
	Manager *StateManager
	Sink    Sink
}

func (s *Service) now() time.Time {
	if s.Manager != nil {
		return s.Manager.now()
	}
	return time.Now()
}

type CreateScheduleInput struct {
	OrgID                  uuid.UUID
	PatientID              uuid.UUID
	ItemName               string
	IntervalWeeks          int
	StartDate              time.Time
	EndDate                *time.Time
	AssignedNurseID        *uuid.UUID
	Priority               int
	RequiresNotification   bool
	NotificationDaysBefore int
	ActorID                *uuid.UUID
}

// CreateSchedule creates an active schedule and materializes its planned
// executions through the planning horizon (or the end date, if sooner).
func (s *Service) CreateSchedule(ctx context.Context, in CreateScheduleInput) (*models.Schedule, error) {
	if in.IntervalWeeks < 1 {
		return nil, ErrIntervalWeeksInvalid
	}
	var patient models.Patient
	if err := s.DB.WithContext(ctx).
		Where("org_id = ? AND patient_id = ?", in.OrgID, in.PatientID).
		First(&patient).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}

	start := dates.Truncate(in.StartDate)
	if in.StartDate.IsZero() {
		start = dates.Truncate(s.now())
	}
	var end *time.Time
	if in.EndDate != nil {
		e := dates.Truncate(*in.EndDate)
		end = &e
	}

	sched := &models.Schedule{
		OrgID:                  in.OrgID,
		PatientID:              in.PatientID,
		ItemName:               in.ItemName,
		IntervalWeeks:          in.IntervalWeeks,
		StartDate:              start,
		EndDate:                end,
		NextDueDate:            start,
		Status:                 models.ScheduleStatusActive,
		AssignedNurseID:        in.AssignedNurseID,
		Priority:               in.Priority,
		RequiresNotification:   in.RequiresNotification,
		NotificationDaysBefore: in.NotificationDaysBefore,
	}
	if err := s.DB.WithContext(ctx).Create(sched).Error; err != nil {
		return nil, err
	}

	if err := s.Sink.MaterializeExecutions(ctx, in.OrgID, sched.ScheduleID, plannedDates(start, end, in.IntervalWeeks)); err != nil {
		return nil, err
	}

	if in.RequiresNotification {
		sendOn := start.AddDate(0, 0, -in.NotificationDaysBefore)
		if err := s.Sink.ScheduleReminder(ctx, in.OrgID, sched.ScheduleID, sendOn); err != nil {
			log.Warn().Err(err).Str("schedule_id", sched.ScheduleID.String()).
				Msg("create: failed to schedule reminder")
		}
	}

	s.Manager.recordEvent(ctx, in.OrgID, sched.ScheduleID, models.EventScheduleCreated, in.ActorID, map[string]interface{}{
		"item_name":      in.ItemName,
		"interval_weeks": in.IntervalWeeks,
		"start_date":     start,
	})
	return sched, nil
}

// plannedDates lays occurrences at interval spacing from the start date up
// to the end date or the planning horizon, whichever comes first.
func plannedDates(start time.Time, end *time.Time, intervalWeeks int) []time.Time {
	horizon := start.Add(planningHorizon)
	if end != nil && end.Before(horizon) {
		horizon = *end
	}
	var out []time.Time
	for d := start; !d.After(horizon); d = dates.AddWeeks(d, intervalWeeks) {
		out = append(out, d)
	}
	return out
}

// GetSchedule returns one schedule scoped to the organization.
func (s *Service) GetSchedule(ctx context.Context, orgID, scheduleID uuid.UUID) (*models.Schedule, error) {
	return s.Store.Read(ctx, orgID, scheduleID)
}

// ListByPatient returns a patient's schedules ordered by next due date.
func (s *Service) ListByPatient(ctx context.Context, orgID, patientID uuid.UUID) ([]models.Schedule, error) {
	var out []models.Schedule
	err := s.DB.WithContext(ctx).
		Where("org_id = ? AND patient_id = ?", orgID, patientID).
		Order("next_due_date ASC").
		Find(&out).Error
	return out, err
}

// ResumePreview is the display payload behind the resume dialog.
type ResumePreview struct {
	PauseDurationWeeks int    `json:"pause_duration_weeks"`
	SuggestedStrategy  string `json:"suggested_strategy"`
	MissedExecutions   int    `json:"missed_executions"`
}

// PreviewResume reports pause duration, the suggested strategy and the
// missed-cycle count a catch_up resume would materialize.
func (s *Service) PreviewResume(ctx context.Context, orgID, scheduleID uuid.UUID) (*ResumePreview, error) {
	sched, err := s.Store.Read(ctx, orgID, scheduleID)
	if err != nil {
		return nil, err
	}
	if !CanResume(sched) {
		return nil, ErrScheduleNotPaused
	}
	return &ResumePreview{
		PauseDurationWeeks: s.Manager.PauseDuration(sched),
		SuggestedStrategy:  s.Manager.SuggestResumeStrategy(sched),
		MissedExecutions:   s.Manager.missedExecutions(sched),
	}, nil
}

type ChecklistInput struct {
	NurseID *uuid.UUID
	Date    time.Time
}

// Checklist returns the org's execution checklist around the given day,
// priority-sorted. Planned executions past their date are swept to overdue
// first.
func (s *Service) Checklist(ctx context.Context, orgID uuid.UUID, in ChecklistInput) ([]ChecklistItem, error) {
	today := dates.Truncate(in.Date)
	if in.Date.IsZero() {
		today = dates.Truncate(s.now())
	}

	if err := s.Store.MarkOverdueExecutions(ctx, orgID, today); err != nil {
		return nil, err
	}

	var execs []models.ScheduleExecution
	if err := s.DB.WithContext(ctx).
		Where("org_id = ?", orgID).
		Where("planned_date <= ?", today.AddDate(0, 0, soonWindowDays)).
		Where("status IN ?", []string{
			models.ExecutionStatusPlanned,
			models.ExecutionStatusOverdue,
			models.ExecutionStatusCompleted,
		}).
		Find(&execs).Error; err != nil {
		return nil, err
	}
	if len(execs) == 0 {
		return []ChecklistItem{}, nil
	}

	scheduleIDs := make([]uuid.UUID, 0, len(execs))
	for _, e := range execs {
		scheduleIDs = append(scheduleIDs, e.ScheduleID)
	}
	var scheds []models.Schedule
	if err := s.DB.WithContext(ctx).
		Where("org_id = ? AND schedule_id IN ?", orgID, scheduleIDs).
		Find(&scheds).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.Schedule, len(scheds))
	for _, sc := range scheds {
		byID[sc.ScheduleID] = sc
	}

	items := make([]ChecklistItem, 0, len(execs))
	for _, e := range execs {
		sc, ok := byID[e.ScheduleID]
		if !ok {
			continue
		}
		if in.NurseID != nil && sc.AssignedNurseID != nil && *sc.AssignedNurseID != *in.NurseID {
			continue
		}
		items = append(items, ChecklistItem{
			ExecutionID:     e.ExecutionID,
			ScheduleID:      e.ScheduleID,
			PatientID:       sc.PatientID,
			ItemName:        sc.ItemName,
			AssignedNurseID: sc.AssignedNurseID,
			DueDate:         e.PlannedDate,
			Completed:       e.Status == models.ExecutionStatusCompleted,
			NeedsReview:     sc.NeedsReview,
		})
	}
	return SortByPriority(items, today), nil
}

type CompleteExecutionInput struct {
	ExecutionID  uuid.UUID
	ExecutedBy   *uuid.UUID
	ExecutedDate time.Time
}

// CompleteExecution marks one occurrence done and advances the schedule's
// next due date by one interval. When the advance would pass the end date,
// the schedule completes terminally instead.
func (s *Service) CompleteExecution(ctx context.Context, orgID uuid.UUID, in CompleteExecutionInput) (*models.ScheduleExecution, error) {
	var exec models.ScheduleExecution
	if err := s.DB.WithContext(ctx).
		Where("org_id = ? AND execution_id = ?", orgID, in.ExecutionID).
		First(&exec).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrExecutionNotFound
		}
		return nil, err
	}
	if exec.Status != models.ExecutionStatusPlanned && exec.Status != models.ExecutionStatusOverdue {
		return nil, ErrExecutionNotPlanned
	}

	executed := dates.Truncate(in.ExecutedDate)
	if in.ExecutedDate.IsZero() {
		executed = dates.Truncate(s.now())
	}
	if err := s.DB.WithContext(ctx).Model(&exec).Updates(map[string]interface{}{
		"status":        models.ExecutionStatusCompleted,
		"executed_date": executed,
		"executed_by":   in.ExecutedBy,
	}).Error; err != nil {
		return nil, err
	}
	exec.Status = models.ExecutionStatusCompleted
	exec.ExecutedDate = &executed
	exec.ExecutedBy = in.ExecutedBy

	sched, err := s.Store.Read(ctx, orgID, exec.ScheduleID)
	if err != nil {
		return nil, err
	}
	if sched.Status != models.ScheduleStatusActive {
		return &exec, nil
	}

	nextDue := dates.AddWeeks(executed, sched.IntervalWeeks)
	if sched.EndDate != nil && nextDue.After(dates.Truncate(*sched.EndDate)) {
		if err := s.Store.Write(ctx, orgID, sched.ScheduleID, map[string]interface{}{
			"status":             models.ScheduleStatusCompleted,
			"last_executed_date": executed,
		}); err != nil {
			return nil, err
		}
		s.Manager.recordEvent(ctx, orgID, sched.ScheduleID, models.EventScheduleCompleted, in.ExecutedBy, map[string]interface{}{
			"last_executed_date": executed,
		})
		return &exec, nil
	}

	if err := s.Store.Write(ctx, orgID, sched.ScheduleID, map[string]interface{}{
		"last_executed_date": executed,
		"next_due_date":      nextDue,
	}); err != nil {
		return nil, err
	}
	if sched.RequiresNotification {
		sendOn := nextDue.AddDate(0, 0, -sched.NotificationDaysBefore)
		if err := s.Sink.ScheduleReminder(ctx, orgID, sched.ScheduleID, sendOn); err != nil {
			log.Warn().Err(err).Str("schedule_id", sched.ScheduleID.String()).
				Msg("complete: failed to schedule reminder")
		}
	}
	return &exec, nil
}

// CancelSchedule terminally cancels a schedule and suppresses anything
// still pending for it.
func (s *Service) CancelSchedule(ctx context.Context, orgID, scheduleID uuid.UUID, actorID *uuid.UUID) (*models.Schedule, error) {
	sched, err := s.Store.Read(ctx, orgID, scheduleID)
	if err != nil {
		return nil, err
	}
	if sched.Status == models.ScheduleStatusCompleted || sched.Status == models.ScheduleStatusCancelled {
		return nil, ErrScheduleAlreadyClosed
	}
	if err := s.Store.Write(ctx, orgID, scheduleID, map[string]interface{}{
		"status":       models.ScheduleStatusCancelled,
		"paused_at":    nil,
		"pause_reason": "",
	}); err != nil {
		return nil, err
	}
	if err := s.Sink.SuppressPending(ctx, orgID, scheduleID); err != nil {
		log.Warn().Err(err).Str("schedule_id", scheduleID.String()).
			Msg("cancel: failed to suppress pending notifications/executions")
	}
	s.Manager.recordEvent(ctx, orgID, scheduleID, models.EventScheduleCancelled, actorID, map[string]interface{}{
		"previous_status": sched.Status,
	})
	sched.Status = models.ScheduleStatusCancelled
	sched.PausedAt = nil
	sched.PauseReason = ""
	return sched, nil
}
