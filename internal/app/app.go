package app

import (
	"carecycle-backend/internal/auth"
	"carecycle-backend/internal/config"
	"carecycle-backend/internal/constants"
	"carecycle-backend/internal/database"
	"carecycle-backend/internal/health"
	"carecycle-backend/internal/invitations"
	"carecycle-backend/internal/middleware"
	"carecycle-backend/internal/notifications"
	"carecycle-backend/internal/scheduleevents"
	"carecycle-backend/internal/schedules"
	"carecycle-backend/internal/users"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CreateApp builds the Fiber app with all global middleware and route
// registration. Services get their collaborators injected here; nothing
// reaches for ambient globals.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	// CORS (before session)
	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	// Session (Redis)
	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}
	sessionHandler, rdb, err := middleware.Session(sessionCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	app.Use(sessionHandler)

	// Request stats marker (after session)
	app.Use(middleware.HealthMarker(rdb))

	// Response formatter, tracing, route logger
	app.Use(middleware.ResponseFormatter())
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	// Health (no auth)
	healthHandlers := &health.Handlers{Rdb: rdb}
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			healthHandlers.DB = sqlDB
		}
	}
	app.Get("/health/json", healthHandlers.JSON)

	// Auth (no auth middleware): POST login, GET me, DELETE logout
	var userFinder auth.UserFinder
	if db != nil {
		userFinder = &auth.GormUserFinder{DB: db}
	}
	authHandlers := &auth.Handlers{
		UserFinder: userFinder,
		Rdb:        rdb,
		Config:     sessionCfg,
	}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/login", authHandlers.Login)
	authGroup.Get("/me", authHandlers.Me)
	authGroup.Delete("/logout", authHandlers.Logout)

	if db != nil && rdb != nil {
		// Schedules module: store/sink/event recorder injected into the
		// state manager, manager injected into the service.
		scheduleStore := &schedules.GormStore{DB: db}
		sink := &notifications.Service{DB: db}
		stateManager := &schedules.StateManager{
			Store:  scheduleStore,
			Sink:   sink,
			Events: &schedules.GormEventRecorder{DB: db},
		}
		scheduleService := &schedules.Service{
			DB:      db,
			Store:   scheduleStore,
			Manager: stateManager,
			Sink:    sink,
		}
		scheduleHandlers := &schedules.Handlers{Service: scheduleService}
		scheduleGroup := app.Group("/api/v1/schedules", middleware.RequireAuth())
		scheduleGroup.Post("/create-schedule", middleware.AuthorizePermission(constants.ManageSchedules), scheduleHandlers.CreateSchedule)
		scheduleGroup.Get("/view-schedule/:schedule_id", middleware.AuthorizePermission(constants.ViewData), scheduleHandlers.ViewSchedule)
		scheduleGroup.Get("/patient-schedules/:patient_id", middleware.AuthorizePermission(constants.ViewData), scheduleHandlers.PatientSchedules)
		scheduleGroup.Post("/pause-schedule/:schedule_id", middleware.AuthorizePermission(constants.ManageSchedules), scheduleHandlers.PauseSchedule)
		scheduleGroup.Post("/resume-schedule/:schedule_id", middleware.AuthorizePermission(constants.ManageSchedules), scheduleHandlers.ResumeSchedule)
		scheduleGroup.Get("/resume-options/:schedule_id", middleware.AuthorizePermission(constants.ManageSchedules), scheduleHandlers.ResumeOptions)
		scheduleGroup.Get("/today-checklist", middleware.AuthorizePermission(constants.ExecuteSchedules), scheduleHandlers.TodayChecklist)
		scheduleGroup.Post("/complete-execution", middleware.AuthorizePermission(constants.ExecuteSchedules), scheduleHandlers.CompleteExecution)
		scheduleGroup.Post("/cancel-schedule/:schedule_id", middleware.AuthorizePermission(constants.ManageSchedules), scheduleHandlers.CancelSchedule)

		// Invitations module: public routes (no auth) + private routes
		invService := &invitations.Service{
			DB:          db,
			Provisioner: &users.GormProvisioner{DB: db},
		}
		invHandlers := &invitations.Handlers{
			Service:           invService,
			Config:            sessionCfg,
			InviteBaseURL:     cfg.InviteBaseURL,
			DefaultExpiryDays: cfg.InviteExpiryDays,
		}
		app.Post("/api/v1/invitations/public/check-token", invHandlers.CheckToken)
		app.Post("/api/v1/invitations/public/signup", invHandlers.Signup)
		invGroup := app.Group("/api/v1/invitations", middleware.RequireAuth())
		invGroup.Post("/create-invite", middleware.AuthorizePermission(constants.InviteUser), invHandlers.SendInvite)
		invGroup.Patch("/revoke-invite", middleware.AuthorizePermission(constants.InviteUser), invHandlers.RevokeInvite)
		invGroup.Get("/view-invites", middleware.AuthorizePermission(constants.ViewData), invHandlers.ListOrgInvitations)
		invGroup.Post("/resend-invite", middleware.AuthorizePermission(constants.InviteUser), invHandlers.ResendInvite)

		// ScheduleEvents module (audit trail)
		seService := &scheduleevents.Service{DB: db}
		seHandlers := &scheduleevents.Handlers{Service: seService}
		seGroup := app.Group("/api/v1/schedule-events", middleware.RequireAuth())
		seGroup.Get("/get-org-schedule-events", middleware.AuthorizePermission(constants.ViewData), seHandlers.GetOrgScheduleEvents)
	}

	return app, db, rdb, nil
}
