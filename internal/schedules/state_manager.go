package schedules

import (
	"context"
	"encoding/json"
	"time"

	"carecycle-backend/internal/models"
	"carecycle-backend/internal/pkg/dates"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

// Resume strategies.
const (
	StrategyImmediate = "immediate"
	StrategyNextCycle = "next_cycle"
	StrategyCustom    = "custom"
)

// Missed-execution policies for resume.
const (
	MissedSkip        = "skip"
	MissedCatchUp     = "catch_up"
	MissedMarkOverdue = "mark_overdue"
)

// Store is the schedule persistence collaborator. Every call takes the org
// id explicitly; the store rejects cross-tenant access itself, the manager
// never filters tenants on its own.
type Store interface {
	Read(ctx context.Context, orgID, scheduleID uuid.UUID) (*models.Schedule, error)
	Write(ctx context.Context, orgID, scheduleID uuid.UUID, fields map[string]interface{}) error
}

// Sink is the notification/execution command sink. Calls are fire-and-forget
// from the manager's perspective: failures are logged, never fatal to the
// transition itself.
type Sink interface {
	SuppressPending(ctx context.Context, orgID, scheduleID uuid.UUID) error
	MaterializeExecutions(ctx context.Context, orgID, scheduleID uuid.UUID, plannedDates []time.Time) error
	ScheduleReminder(ctx context.Context, orgID, scheduleID uuid.UUID, sendOn time.Time) error
}

// EventRecorder appends audit events for schedule transitions.
type EventRecorder interface {
	Record(ctx context.Context, event *models.ScheduleEvent) error
}

// StateManager orchestrates pause/resume transitions. Collaborators are
// injected; Now is overridable for tests and defaults to time.Now.
type StateManager struct {
	Store  Store
	Sink   Sink
	Events EventRecorder
	Now    func() time.Time
}

func (m *StateManager) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

// PauseOptions carries optional audit metadata; it has no behavioral effect
// beyond persistence.
type PauseOptions struct {
	Reason  string
	ActorID *uuid.UUID
}

// Pause transitions an active schedule to paused. The schedule keeps its
// NextDueDate so missed cycles can be computed on resume; PausedAt records
// the pause moment. Pending notifications and planned executions are
// suppressed through the sink; a sink failure is logged and the pause still
// commits.
func (m *StateManager) Pause(ctx context.Context, orgID, scheduleID uuid.UUID, opts PauseOptions) (*models.Schedule, error) {
	s, err := m.Store.Read(ctx, orgID, scheduleID)
	if err != nil {
		return nil, err
	}
	if !CanPause(s) {
		return nil, ErrScheduleNotActive
	}

	pausedAt := m.now()
	fields := map[string]interface{}{
		"status":       models.ScheduleStatusPaused,
		"paused_at":    pausedAt,
		"pause_reason": opts.Reason,
	}
	if err := m.Store.Write(ctx, orgID, scheduleID, fields); err != nil {
		return nil, err
	}

	if err := m.Sink.SuppressPending(ctx, orgID, scheduleID); err != nil {
		log.Warn().Err(err).Str("schedule_id", scheduleID.String()).
			Msg("pause: failed to suppress pending notifications/executions")
	}

	m.recordEvent(ctx, orgID, scheduleID, models.EventSchedulePaused, opts.ActorID, map[string]interface{}{
		"reason":        opts.Reason,
		"paused_at":     pausedAt,
		"next_due_date": s.NextDueDate,
	})

	s.Status = models.ScheduleStatusPaused
	s.PausedAt = &pausedAt
	s.PauseReason = opts.Reason
	return s, nil
}

// PauseDuration returns the whole weeks elapsed since the schedule was
// paused, floored. Zero when the schedule is not paused.
func (m *StateManager) PauseDuration(s *models.Schedule) int {
	if s == nil || s.PausedAt == nil {
		return 0
	}
	return dates.WeeksBetween(*s.PausedAt, m.now())
}

// SuggestResumeStrategy returns the default strategy surfaced to the user.
// Deterministic and pure: a pause shorter than one full interval suggests
// next_cycle; once at least one cycle has been missed the suggestion shifts
// to custom so the gap handling stays a human decision. A UX heuristic,
// not a hard constraint.
func (m *StateManager) SuggestResumeStrategy(s *models.Schedule) string {
	interval := s.IntervalWeeks
	if interval < 1 {
		interval = 1
	}
	if m.PauseDuration(s) < interval {
		return StrategyNextCycle
	}
	return StrategyCustom
}

// ResumeOptions selects the resume target date and the treatment of
// executions missed during the pause window.
type ResumeOptions struct {
	Strategy     string
	CustomDate   *time.Time
	HandleMissed string
	ActorID      *uuid.UUID
}

// Resume transitions a paused schedule back to active. The resume target
// becomes the new NextDueDate; the pause marker is cleared and notification
// scheduling re-enabled. Each precondition violation surfaces its own
// sentinel error, never a generic failure.
func (m *StateManager) Resume(ctx context.Context, orgID, scheduleID uuid.UUID, opts ResumeOptions) (*models.Schedule, error) {
	s, err := m.Store.Read(ctx, orgID, scheduleID)
	if err != nil {
		return nil, err
	}
	if !CanResume(s) {
		return nil, ErrScheduleNotPaused
	}

	handleMissed := opts.HandleMissed
	if handleMissed == "" {
		handleMissed = MissedSkip
	}
	switch handleMissed {
	case MissedSkip, MissedCatchUp, MissedMarkOverdue:
	default:
		return nil, ErrUnknownMissedPolicy
	}

	today := dates.Truncate(m.now())
	target, err := resumeTarget(s, opts, today)
	if err != nil {
		return nil, err
	}

	missed := 0
	if handleMissed == MissedCatchUp {
		missed = m.missedExecutions(s)
	}

	fields := map[string]interface{}{
		"status":        models.ScheduleStatusActive,
		"next_due_date": target,
		"paused_at":     nil,
		"pause_reason":  "",
		"needs_review":  handleMissed == MissedMarkOverdue,
	}
	if err := m.Store.Write(ctx, orgID, scheduleID, fields); err != nil {
		return nil, err
	}

	// The regular next execution lands on the target; catch-up executions
	// are compressed to weekly spacing right after it. Pause suppressed the
	// whole planned grid, so the regular cadence is laid down again from the
	// last catch-up through the planning horizon (or the end date, if
	// sooner) — the schedule keeps surfacing on the checklist after the
	// resumed occurrence is completed.
	planned := []time.Time{target}
	for i := 1; i <= missed; i++ {
		planned = append(planned, dates.AddWeeks(target, i))
	}
	interval := s.IntervalWeeks
	if interval < 1 {
		interval = 1
	}
	horizon := target.Add(planningHorizon)
	if s.EndDate != nil && dates.Truncate(*s.EndDate).Before(horizon) {
		horizon = dates.Truncate(*s.EndDate)
	}
	for d := dates.AddWeeks(planned[len(planned)-1], interval); !d.After(horizon); d = dates.AddWeeks(d, interval) {
		planned = append(planned, d)
	}
	if err := m.Sink.MaterializeExecutions(ctx, orgID, scheduleID, planned); err != nil {
		log.Warn().Err(err).Str("schedule_id", scheduleID.String()).Int("count", len(planned)).
			Msg("resume: failed to materialize planned executions")
	}

	if s.RequiresNotification {
		sendOn := target.AddDate(0, 0, -s.NotificationDaysBefore)
		if sendOn.Before(today) {
			sendOn = today
		}
		if err := m.Sink.ScheduleReminder(ctx, orgID, scheduleID, sendOn); err != nil {
			log.Warn().Err(err).Str("schedule_id", scheduleID.String()).
				Msg("resume: failed to schedule reminder")
		}
	}

	m.recordEvent(ctx, orgID, scheduleID, models.EventScheduleResumed, opts.ActorID, map[string]interface{}{
		"strategy":          opts.Strategy,
		"handle_missed":     handleMissed,
		"next_due_date":     target,
		"missed_executions": missed,
	})

	s.Status = models.ScheduleStatusActive
	s.NextDueDate = target
	s.PausedAt = nil
	s.PauseReason = ""
	s.NeedsReview = handleMissed == MissedMarkOverdue
	return s, nil
}

func resumeTarget(s *models.Schedule, opts ResumeOptions, today time.Time) (time.Time, error) {
	switch opts.Strategy {
	case StrategyImmediate:
		return today, nil
	case StrategyNextCycle:
		return dates.AddWeeks(today, s.IntervalWeeks), nil
	case StrategyCustom:
		if opts.CustomDate == nil {
			return time.Time{}, ErrCustomDateRequired
		}
		custom := dates.Truncate(*opts.CustomDate)
		if custom.Before(today) {
			return time.Time{}, ErrCustomDateInPast
		}
		if s.EndDate != nil && custom.After(dates.Truncate(*s.EndDate)) {
			return time.Time{}, ErrCustomDateAfterEnd
		}
		return custom, nil
	default:
		return time.Time{}, ErrUnknownResumeStrategy
	}
}

// missedExecutions computes how many full cycles elapsed during the pause,
// from elapsed time rather than any stored counter.
func (m *StateManager) missedExecutions(s *models.Schedule) int {
	interval := s.IntervalWeeks
	if interval < 1 {
		interval = 1
	}
	return m.PauseDuration(s) / interval
}

func (m *StateManager) recordEvent(ctx context.Context, orgID, scheduleID uuid.UUID, eventType string, actorID *uuid.UUID, payload map[string]interface{}) {
	if m.Events == nil {
		return
	}
	data, _ := json.Marshal(payload)
	event := &models.ScheduleEvent{
		OrgID:       orgID,
		ScheduleID:  scheduleID,
		EventType:   eventType,
		EventData:   datatypes.JSON(data),
		ActorUserID: actorID,
	}
	if err := m.Events.Record(ctx, event); err != nil {
		log.Warn().Err(err).Str("schedule_id", scheduleID.String()).Str("event_type", eventType).
			Msg("failed to record schedule event")
	}
}
