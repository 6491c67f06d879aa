package schedules

import (
	"time"

	"carecycle-backend/internal/middleware"
	"carecycle-backend/internal/pkg/dates"
	"carecycle-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

const dateLayout = "2006-01-02"

// POST /api/v1/schedules/create-schedule (MANAGE_SCHEDULES permission via middleware)
func (h *Handlers) CreateSchedule(c *fiber.Ctx) error {
	var body struct {
		PatientID              string `json:"patient_id"`
		ItemName               string `json:"item_name"`
		IntervalWeeks          int    `json:"interval_weeks"`
		StartDate              string `json:"start_date"`
		EndDate                string `json:"end_date"`
		AssignedNurseID        string `json:"assigned_nurse_id"`
		Priority               int    `json:"priority"`
		RequiresNotification   bool   `json:"requires_notification"`
		NotificationDaysBefore int    `json:"notification_days_before"`
	}
	if err := c.BodyParser(&body); err != nil || body.PatientID == "" || body.ItemName == "" {
		return response.Error(c, "Patient and item name are required", 400, nil)
	}

	actor, orgID := requireActorOrg(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	if orgID == nil {
		return response.Error(c, "User is not associated with any organization", 403, nil)
	}

	patientID, err := uuid.Parse(body.PatientID)
	if err != nil {
		return response.Error(c, "Invalid patient id", 400, nil)
	}
	start, err := parseOptionalDate(body.StartDate)
	if err != nil {
		return response.Error(c, "Invalid start date (expected YYYY-MM-DD)", 400, nil)
	}
	end, err := parseOptionalDate(body.EndDate)
	if err != nil {
		return response.Error(c, "Invalid end date (expected YYYY-MM-DD)", 400, nil)
	}
	var nurseID *uuid.UUID
	if body.AssignedNurseID != "" {
		id, err := uuid.Parse(body.AssignedNurseID)
		if err != nil {
			return response.Error(c, "Invalid nurse id", 400, nil)
		}
		nurseID = &id
	}

	in := CreateScheduleInput{
		OrgID:                  *orgID,
		PatientID:              patientID,
		ItemName:               body.ItemName,
		IntervalWeeks:          body.IntervalWeeks,
		AssignedNurseID:        nurseID,
		Priority:               body.Priority,
		RequiresNotification:   body.RequiresNotification,
		NotificationDaysBefore: body.NotificationDaysBefore,
		ActorID:                actor.userUUID(),
	}
	if start != nil {
		in.StartDate = *start
	}
	in.EndDate = end

	sched, err := h.Service.CreateSchedule(c.Context(), in)
	if err != nil {
		return scheduleError(c, err)
	}
	return response.SuccessCreated(c, "Schedule created successfully", sched, nil)
}

// GET /api/v1/schedules/view-schedule/:schedule_id (VIEW_DATA)
func (h *Handlers) ViewSchedule(c *fiber.Ctx) error {
	_, orgID := requireActorOrg(c)
	if orgID == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	scheduleID, err := uuid.Parse(c.Params("schedule_id"))
	if err != nil {
		return response.Error(c, "Invalid schedule id", 400, nil)
	}
	sched, err := h.Service.GetSchedule(c.Context(), *orgID, scheduleID)
	if err != nil {
		return scheduleError(c, err)
	}
	return response.Success(c, "Schedule fetched successfully", sched, nil)
}

// GET /api/v1/schedules/patient-schedules/:patient_id (VIEW_DATA)
func (h *Handlers) PatientSchedules(c *fiber.Ctx) error {
	_, orgID := requireActorOrg(c)
	if orgID == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	patientID, err := uuid.Parse(c.Params("patient_id"))
	if err != nil {
		return response.Error(c, "Invalid patient id", 400, nil)
	}
	scheds, err := h.Service.ListByPatient(c.Context(), *orgID, patientID)
	if err != nil {
		return scheduleError(c, err)
	}
	return response.Success(c, "Schedules fetched successfully", scheds, nil)
}

// POST /api/v1/schedules/pause-schedule/:schedule_id (MANAGE_SCHEDULES)
func (h *Handlers) PauseSchedule(c *fiber.Ctx) error {
	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.BodyParser(&body)

	actor, orgID := requireActorOrg(c)
	if actor == nil || orgID == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	scheduleID, err := uuid.Parse(c.Params("schedule_id"))
	if err != nil {
		return response.Error(c, "Invalid schedule id", 400, nil)
	}

	sched, err := h.Service.Manager.Pause(c.Context(), *orgID, scheduleID, PauseOptions{
		Reason:  body.Reason,
		ActorID: actor.userUUID(),
	})
	if err != nil {
		return scheduleError(c, err)
	}
	return response.Success(c, "Schedule paused successfully", sched, nil)
}

// POST /api/v1/schedules/resume-schedule/:schedule_id (MANAGE_SCHEDULES)
func (h *Handlers) ResumeSchedule(c *fiber.Ctx) error {
	var body struct {
		Strategy     string `json:"strategy"`
		CustomDate   string `json:"custom_date"`
		HandleMissed string `json:"handle_missed"`
	}
	if err := c.BodyParser(&body); err != nil || body.Strategy == "" {
		return response.Error(c, "Resume strategy is required", 400, nil)
	}

	actor, orgID := requireActorOrg(c)
	if actor == nil || orgID == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	scheduleID, err := uuid.Parse(c.Params("schedule_id"))
	if err != nil {
		return response.Error(c, "Invalid schedule id", 400, nil)
	}
	customDate, err := parseOptionalDate(body.CustomDate)
	if err != nil {
		return response.Error(c, "Invalid custom date (expected YYYY-MM-DD)", 400, nil)
	}

	sched, err := h.Service.Manager.Resume(c.Context(), *orgID, scheduleID, ResumeOptions{
		Strategy:     body.Strategy,
		CustomDate:   customDate,
		HandleMissed: body.HandleMissed,
		ActorID:      actor.userUUID(),
	})
	if err != nil {
		return scheduleError(c, err)
	}
	return response.Success(c, "Schedule resumed successfully", sched, nil)
}

// GET /api/v1/schedules/resume-options/:schedule_id (MANAGE_SCHEDULES)
func (h *Handlers) ResumeOptions(c *fiber.Ctx) error {
	_, orgID := requireActorOrg(c)
	if orgID == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	scheduleID, err := uuid.Parse(c.Params("schedule_id"))
	if err != nil {
		return response.Error(c, "Invalid schedule id", 400, nil)
	}
	preview, err := h.Service.PreviewResume(c.Context(), *orgID, scheduleID)
	if err != nil {
		return scheduleError(c, err)
	}
	return response.Success(c, "Resume options fetched successfully", preview, nil)
}

// GET /api/v1/schedules/today-checklist (EXECUTE_SCHEDULES)
func (h *Handlers) TodayChecklist(c *fiber.Ctx) error {
	_, orgID := requireActorOrg(c)
	if orgID == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	in := ChecklistInput{}
	if nurse := c.Query("nurse_id"); nurse != "" {
		id, err := uuid.Parse(nurse)
		if err != nil {
			return response.Error(c, "Invalid nurse id", 400, nil)
		}
		in.NurseID = &id
	}
	if date := c.Query("date"); date != "" {
		d, err := time.Parse(dateLayout, date)
		if err != nil {
			return response.Error(c, "Invalid date (expected YYYY-MM-DD)", 400, nil)
		}
		in.Date = d
	}

	items, err := h.Service.Checklist(c.Context(), *orgID, in)
	if err != nil {
		return scheduleError(c, err)
	}
	return response.Success(c, "Checklist fetched successfully", items, nil)
}

// POST /api/v1/schedules/complete-execution (EXECUTE_SCHEDULES)
func (h *Handlers) CompleteExecution(c *fiber.Ctx) error {
	var body struct {
		ExecutionID  string `json:"execution_id"`
		ExecutedDate string `json:"executed_date"`
	}
	if err := c.BodyParser(&body); err != nil || body.ExecutionID == "" {
		return response.Error(c, "Execution id is required", 400, nil)
	}

	actor, orgID := requireActorOrg(c)
	if actor == nil || orgID == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	executionID, err := uuid.Parse(body.ExecutionID)
	if err != nil {
		return response.Error(c, "Invalid execution id", 400, nil)
	}
	executedDate, err := parseOptionalDate(body.ExecutedDate)
	if err != nil {
		return response.Error(c, "Invalid executed date (expected YYYY-MM-DD)", 400, nil)
	}

	in := CompleteExecutionInput{
		ExecutionID: executionID,
		ExecutedBy:  actor.userUUID(),
	}
	if executedDate != nil {
		in.ExecutedDate = *executedDate
	}

	exec, err := h.Service.CompleteExecution(c.Context(), *orgID, in)
	if err != nil {
		return scheduleError(c, err)
	}
	return response.Success(c, "Execution completed successfully", exec, nil)
}

// POST /api/v1/schedules/cancel-schedule/:schedule_id (MANAGE_SCHEDULES)
func (h *Handlers) CancelSchedule(c *fiber.Ctx) error {
	actor, orgID := requireActorOrg(c)
	if actor == nil || orgID == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	scheduleID, err := uuid.Parse(c.Params("schedule_id"))
	if err != nil {
		return response.Error(c, "Invalid schedule id", 400, nil)
	}
	sched, err := h.Service.CancelSchedule(c.Context(), *orgID, scheduleID, actor.userUUID())
	if err != nil {
		return scheduleError(c, err)
	}
	return response.Success(c, "Schedule cancelled successfully", sched, nil)
}

// scheduleError maps not-found errors to 404 and everything else the
// services return to 400 with the specific reason.
func scheduleError(c *fiber.Ctx, err error) error {
	switch err {
	case ErrScheduleNotFound, ErrPatientNotFound, ErrExecutionNotFound:
		return response.Error(c, err.Error(), 404, nil)
	}
	return response.Error(c, err.Error(), 400, nil)
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	d = dates.Truncate(d)
	return &d, nil
}

type actorInfo struct {
	UserID string
	Role   string
	Email  string
}

func (a *actorInfo) userUUID() *uuid.UUID {
	if a == nil {
		return nil
	}
	id, err := uuid.Parse(a.UserID)
	if err != nil {
		return nil
	}
	return &id
}

// requireActorOrg extracts the session actor and its org id. The org id is
// the tenant scope threaded through every service call.
func requireActorOrg(c *fiber.Ctx) (*actorInfo, *uuid.UUID) {
	u := middleware.GetUser(c)
	if u == nil {
		return nil, nil
	}
	m, ok := u.(map[string]interface{})
	if !ok {
		return nil, nil
	}
	userID, _ := m["user_id"].(string)
	if userID == "" {
		return nil, nil
	}
	role, _ := m["role"].(string)
	email, _ := m["email"].(string)
	actor := &actorInfo{UserID: userID, Role: role, Email: email}

	o, ok := m["org_id"]
	if !ok || o == nil {
		return actor, nil
	}
	s, ok := o.(string)
	if !ok {
		return actor, nil
	}
	orgID, err := uuid.Parse(s)
	if err != nil {
		return actor, nil
	}
	return actor, &orgID
}
