package invitations

import (
	"strings"

	"carecycle-backend/internal/middleware"
	"carecycle-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service           *Service
	Config            middleware.SessionConfig
	InviteBaseURL     string
	DefaultExpiryDays int
}

// inviteURL builds the signup link embedded in invitation emails.
func (h *Handlers) inviteURL(token string) string {
	return strings.TrimRight(h.InviteBaseURL, "/") + "/signup?token=" + token
}

// POST /api/v1/invitations/create-invite (INVITE_USER permission via middleware)
func (h *Handlers) SendInvite(c *fiber.Ctx) error {
	var body struct {
		Email      string `json:"email"`
		Role       string `json:"role"`
		CareTypeID string `json:"care_type_id"`
		ExpiryDays int    `json:"expiry_days"`
	}
	if err := c.BodyParser(&body); err != nil || body.Email == "" || body.Role == "" {
		return response.Error(c, "Email and role are required", 400, nil)
	}

	actor := getActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	if actor.OrgID == "" {
		return response.Error(c, "User is not associated with any organization", 403, nil)
	}

	var careTypeID *uuid.UUID
	if body.CareTypeID != "" {
		id, err := uuid.Parse(body.CareTypeID)
		if err != nil {
			return response.Error(c, "Invalid care type id", 400, nil)
		}
		careTypeID = &id
	}

	expiryDays := body.ExpiryDays
	if expiryDays <= 0 {
		expiryDays = h.DefaultExpiryDays
	}

	inv, err := h.Service.SendInvite(c.Context(), SendInviteInput{
		ActorUserID: actor.UserID,
		ActorRole:   actor.Role,
		ActorEmail:  actor.Email,
		OrgID:       actor.OrgID,
		Email:       body.Email,
		Role:        body.Role,
		CareTypeID:  careTypeID,
		ExpiryDays:  expiryDays,
	})
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	return response.Success(c, "Invitation sent successfully", inv, fiber.Map{
		"invite_url": h.inviteURL(inv.InviteToken),
	})
}

// POST /api/v1/invitations/resend-invite (INVITE_USER permission via middleware)
func (h *Handlers) ResendInvite(c *fiber.Ctx) error {
	var body struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&body); err != nil || body.Email == "" {
		return response.Error(c, "Email is required", 400, nil)
	}

	actor := getActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	inv, err := h.Service.ResendInvite(c.Context(), ResendInviteInput{
		Email: body.Email,
		OrgID: actor.OrgID,
	})
	if err != nil {
		if err == ErrInvitationNotFound {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, err.Error(), 400, nil)
	}
	return response.Success(c, "Invitation resent successfully", inv, fiber.Map{
		"invite_url": h.inviteURL(inv.InviteToken),
	})
}

// PATCH /api/v1/invitations/revoke-invite (INVITE_USER permission via middleware)
func (h *Handlers) RevokeInvite(c *fiber.Ctx) error {
	var body struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&body); err != nil || body.Email == "" {
		return response.Error(c, "Email is required", 400, nil)
	}

	actor := getActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	inv, err := h.Service.RevokeInvite(c.Context(), RevokeInviteInput{
		Email: body.Email,
		OrgID: actor.OrgID,
	})
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	return response.Success(c, "Invitation revoked successfully", inv, nil)
}

// GET /api/v1/invitations/view-invites (VIEW_DATA permission via middleware)
func (h *Handlers) ListOrgInvitations(c *fiber.Ctx) error {
	actor := getActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	status := c.Query("status")
	invitations, err := h.Service.ListOrgInvitations(c.Context(), ListInvitesInput{
		OrgID:  actor.OrgID,
		Status: status,
	})
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	return response.Success(c, "Invitations fetched successfully", invitations, nil)
}

// POST /api/v1/invitations/public/check-token (no auth)
func (h *Handlers) CheckToken(c *fiber.Ctx) error {
	var body struct {
		Token string `json:"token"`
	}
	if err := c.BodyParser(&body); err != nil || body.Token == "" {
		return response.Error(c, "token is required", 400, nil)
	}

	result, err := h.Service.CheckToken(c.Context(), body.Token)
	if err != nil {
		if err == ErrInvitationNotFound {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, err.Error(), 400, nil)
	}
	return response.Success(c, "Invitation token verified", result, nil)
}

// POST /api/v1/invitations/public/signup (no auth)
func (h *Handlers) Signup(c *fiber.Ctx) error {
	var body struct {
		Token    string `json:"token"`
		UserName string `json:"user_name"`
		Password string `json:"password"`
		Fullname string `json:"fullname"`
	}
	if err := c.BodyParser(&body); err != nil || body.Token == "" {
		return response.Error(c, "Invitation token required", 400, nil)
	}

	result, err := h.Service.SignupFromInvite(c.Context(), SignupInput{
		Token:    body.Token,
		UserName: body.UserName,
		Password: body.Password,
		Fullname: body.Fullname,
	})
	if err != nil {
		if err == ErrInvitationNotFound {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, err.Error(), 400, nil)
	}

	// Log the new user straight in.
	sid := middleware.RegenerateSessionID(c)
	orgID := result.OrgID
	middleware.SetSessionUser(c, middleware.SessionUser{
		UserID:   result.User.UserID.String(),
		Fullname: result.User.Fullname,
		Email:    result.User.Email,
		Role:     result.Role,
		OrgID:    &orgID,
	})
	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = "s:" + sid
	c.Cookie(&cookie)

	return response.SuccessCreated(c, "Signup successful", result, nil)
}

type actorInfo struct {
	UserID   string
	Fullname string
	Email    string
	Role     string
	OrgID    string
}

func getActor(c *fiber.Ctx) *actorInfo {
	u := middleware.GetUser(c)
	if u == nil {
		return nil
	}
	m, ok := u.(map[string]interface{})
	if !ok {
		return nil
	}
	userID, _ := m["user_id"].(string)
	role, _ := m["role"].(string)
	email, _ := m["email"].(string)
	fullname, _ := m["fullname"].(string)
	if userID == "" {
		return nil
	}
	orgID := ""
	if o, ok := m["org_id"]; ok && o != nil {
		if s, ok := o.(string); ok {
			orgID = s
		}
	}
	return &actorInfo{UserID: userID, Fullname: fullname, Email: email, Role: role, OrgID: orgID}
}
