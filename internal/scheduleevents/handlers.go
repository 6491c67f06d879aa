package scheduleevents

import (
	"carecycle-backend/internal/middleware"
	"carecycle-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// GET /api/v1/schedule-events/get-org-schedule-events
func (h *Handlers) GetOrgScheduleEvents(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return response.Error(c, "User is not associated with any organization", 401, nil)
	}
	m, ok := user.(map[string]interface{})
	if !ok {
		return response.Error(c, "User is not associated with any organization", 401, nil)
	}
	orgIDStr, _ := m["org_id"].(string)
	if orgIDStr == "" {
		return response.Error(c, "User is not associated with any organization", 401, nil)
	}
	orgID, err := uuid.Parse(orgIDStr)
	if err != nil {
		return response.Error(c, "User is not associated with any organization", 401, nil)
	}

	var scheduleID *uuid.UUID
	if q := c.Query("schedule_id"); q != "" {
		id, err := uuid.Parse(q)
		if err != nil {
			return response.Error(c, "Invalid schedule id", 400, nil)
		}
		scheduleID = &id
	}

	events, err := h.Service.GetOrgScheduleEvents(c.Context(), orgID, scheduleID)
	if err != nil {
		switch err.Error() {
		case "Organization ID is required":
			return response.Error(c, err.Error(), 400, nil)
		case "Organization not found":
			return response.Error(c, err.Error(), 404, nil)
		default:
			return response.Error(c, err.Error(), 500, nil)
		}
	}

	return response.Success(c, "Schedule events fetched successfully", fiber.Map{"events": events}, nil)
}
