package invitations

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"carecycle-backend/internal/constants"
	"carecycle-backend/internal/middleware"
	"carecycle-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupInvitationsHandlers(t *testing.T) (*Handlers, *Service, *gorm.DB) {
	svc, _, db := setupInviteService(t)
	h := &Handlers{
		Service:           svc,
		Config:            middleware.SessionConfig{AllowCrossSiteDev: false, IsProduction: false},
		InviteBaseURL:     "https://app.example.health",
		DefaultExpiryDays: 14,
	}
	return h, svc, db
}

func actorApp(h *Handlers, orgID uuid.UUID, register func(*fiber.App, *Handlers)) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{
			"user_id": uuid.New().String(), "role": constants.Admin, "email": "admin@test.com",
			"fullname": "Admin", "org_id": orgID.String(),
		})
		return c.Next()
	})
	register(app, h)
	return app
}

func TestCheckToken_Handler_MissingToken(t *testing.T) {
	h, _, _ := setupInvitationsHandlers(t)
	app := fiber.New()
	app.Post("/check-token", h.CheckToken)

	body, _ := json.Marshal(map[string]string{})
	req := httptest.NewRequest("POST", "/check-token", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestCheckToken_Handler_UnknownToken(t *testing.T) {
	h, _, _ := setupInvitationsHandlers(t)
	app := fiber.New()
	app.Post("/check-token", h.CheckToken)

	body, _ := json.Marshal(map[string]string{"token": GenerateToken()})
	req := httptest.NewRequest("POST", "/check-token", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestCheckToken_Handler_ValidToken(t *testing.T) {
	h, svc, db := setupInvitationsHandlers(t)
	orgID := uuid.New()
	require.NoError(t, db.Create(&models.Org{OrgID: orgID, OrgName: "Riverside Care", OrgCode: "RIV"}).Error)
	inv := sendInvite(t, svc, orgID, "doc@example.com")

	app := fiber.New()
	app.Post("/check-token", h.CheckToken)

	body, _ := json.Marshal(map[string]string{"token": inv.InviteToken})
	req := httptest.NewRequest("POST", "/check-token", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestCheckToken_Handler_ExpiredTokenStill200(t *testing.T) {
	h, svc, db := setupInvitationsHandlers(t)
	orgID := uuid.New()
	inv := sendInvite(t, svc, orgID, "doc@example.com")
	require.NoError(t, db.Model(&models.Invitation{}).
		Where("invite_id = ?", inv.InviteID).
		Update("expires_at", time.Now().Add(-time.Hour)).Error)

	app := fiber.New()
	app.Post("/check-token", h.CheckToken)

	body, _ := json.Marshal(map[string]string{"token": inv.InviteToken})
	req := httptest.NewRequest("POST", "/check-token", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	// The check endpoint reports invalidity in the payload, not the status.
	assert.Equal(t, 200, resp.StatusCode)

	var envelope struct {
		Data struct {
			Valid  bool   `json:"valid"`
			Reason string `json:"reason"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.False(t, envelope.Data.Valid)
	assert.Equal(t, ReasonTokenExpired, envelope.Data.Reason)
}

func TestSendInvite_Handler_MissingFields(t *testing.T) {
	h, _, _ := setupInvitationsHandlers(t)
	app := actorApp(h, uuid.New(), func(a *fiber.App, h *Handlers) {
		a.Post("/create-invite", h.SendInvite)
	})

	body, _ := json.Marshal(map[string]string{"email": "doc@example.com"})
	req := httptest.NewRequest("POST", "/create-invite", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestSendInvite_Handler_Unauthenticated(t *testing.T) {
	h, _, _ := setupInvitationsHandlers(t)
	app := fiber.New()
	app.Post("/create-invite", h.SendInvite)

	body, _ := json.Marshal(map[string]string{"email": "doc@example.com", "role": constants.Doctor})
	req := httptest.NewRequest("POST", "/create-invite", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestSendInvite_Handler_CreatesInvitation(t *testing.T) {
	h, _, db := setupInvitationsHandlers(t)
	orgID := uuid.New()
	app := actorApp(h, orgID, func(a *fiber.App, h *Handlers) {
		a.Post("/create-invite", h.SendInvite)
	})

	body, _ := json.Marshal(map[string]string{"email": "doc@example.com", "role": constants.Doctor})
	req := httptest.NewRequest("POST", "/create-invite", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var stored models.Invitation
	require.NoError(t, db.First(&stored, "email = ?", "doc@example.com").Error)
	assert.Equal(t, models.InviteStatusPending, stored.Status)
}

func TestSendInvite_Handler_ConfiguredExpiryDefault(t *testing.T) {
	h, _, db := setupInvitationsHandlers(t)
	orgID := uuid.New()
	app := actorApp(h, orgID, func(a *fiber.App, h *Handlers) {
		a.Post("/create-invite", h.SendInvite)
	})

	// No expiry_days in the body: the configured default applies.
	body, _ := json.Marshal(map[string]string{"email": "doc@example.com", "role": constants.Doctor})
	req := httptest.NewRequest("POST", "/create-invite", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var stored models.Invitation
	require.NoError(t, db.First(&stored, "email = ?", "doc@example.com").Error)
	assert.WithinDuration(t, time.Now().Add(14*24*time.Hour), stored.ExpiresAt, time.Second)
}

func TestSendInvite_Handler_InviteURLMetadata(t *testing.T) {
	h, _, db := setupInvitationsHandlers(t)
	orgID := uuid.New()
	app := actorApp(h, orgID, func(a *fiber.App, h *Handlers) {
		a.Post("/create-invite", h.SendInvite)
	})

	body, _ := json.Marshal(map[string]string{"email": "doc@example.com", "role": constants.Doctor})
	req := httptest.NewRequest("POST", "/create-invite", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var stored models.Invitation
	require.NoError(t, db.First(&stored, "email = ?", "doc@example.com").Error)

	var envelope struct {
		Metadata struct {
			InviteURL string `json:"invite_url"`
		} `json:"metadata"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, "https://app.example.health/signup?token="+stored.InviteToken, envelope.Metadata.InviteURL)
}

func TestSignup_Handler_SetsSessionCookie(t *testing.T) {
	h, svc, _ := setupInvitationsHandlers(t)
	orgID := uuid.New()
	inv := sendInvite(t, svc, orgID, "doc@example.com")

	app := fiber.New()
	app.Post("/signup", h.Signup)

	body, _ := json.Marshal(map[string]string{
		"token":     inv.InviteToken,
		"user_name": "drdoe",
		"password":  "s3cret!pass",
		"fullname":  "Dr Doe",
	})
	req := httptest.NewRequest("POST", "/signup", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	cookie := resp.Header.Get("Set-Cookie")
	assert.True(t, strings.HasPrefix(cookie, "carecycle.sid="))
}

func TestSignup_Handler_UsedToken(t *testing.T) {
	h, svc, db := setupInvitationsHandlers(t)
	orgID := uuid.New()
	inv := sendInvite(t, svc, orgID, "doc@example.com")
	require.NoError(t, db.Model(&models.Invitation{}).
		Where("invite_id = ?", inv.InviteID).
		Update("status", models.InviteStatusAccepted).Error)

	app := fiber.New()
	app.Post("/signup", h.Signup)

	body, _ := json.Marshal(map[string]string{
		"token":     inv.InviteToken,
		"user_name": "drdoe",
		"password":  "s3cret!pass",
		"fullname":  "Dr Doe",
	})
	req := httptest.NewRequest("POST", "/signup", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}
