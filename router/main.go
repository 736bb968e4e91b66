package router

import (
	"errors"

	"github.com/campus-events/api/database"
	"github.com/campus-events/api/handlers"
	admin_handlers "github.com/campus-events/api/handlers/admin"
	auth_handlers "github.com/campus-events/api/handlers/auth"
	event_handlers "github.com/campus-events/api/handlers/event"
	student_handlers "github.com/campus-events/api/handlers/student"
	"github.com/campus-events/api/services"
	"github.com/campus-events/api/utils"
	"github.com/campus-events/api/utils/auth"
	"github.com/campus-events/api/utils/metrics"
	"github.com/campus-events/api/utils/middleware"
	"github.com/campus-events/api/utils/response"
	"github.com/gofiber/fiber/v2"
)

// Options carries the dependencies the route table needs beyond the store
type Options struct {
	JWT      auth.JWTConfig
	Security middleware.SecurityConfig

	// AttemptStore backs login brute force protection; nil disables it
	AttemptStore middleware.AttemptStore
	// ImageStore holds event posters; nil disables image upload
	ImageStore services.ObjectStore
}

func SetupRoutes(app *fiber.App, store database.Storage, opts Options) error {
	if opts.JWT.Secret == "" {
		return errors.New("JWT_SECRET environment variable is not set")
	}

	jwtManager := auth.NewJWTManager(opts.JWT)
	db := store.GetDB()

	var bruteForceProtection *middleware.BruteForceProtection
	if opts.AttemptStore != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(opts.AttemptStore)
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	eventService := services.NewEventService(db)
	imageService := services.NewImageService(eventService, opts.ImageStore)

	authHandler := auth_handlers.NewAuthHandler(db, jwtManager, bruteForceProtection)
	eventHandler := event_handlers.NewEventHandler(db, imageService)
	studentHandler := student_handlers.NewStudentHandler(db)

	// Apply security middleware
	middleware.SetupSecurity(app, opts.Security)
	app.Use(middleware.Metrics())

	app.Get("/metrics", metrics.Handler())

	api := app.Group("/api")

	// Health check endpoint (public)
	api.Get("/health", utils.MakeHTTPHandleFunc(handlers.HandleCheckHealth, store))

	// ==================== Auth ====================

	authGroup := api.Group("/auth")
	authGroup.Post("/register-admin", authHandler.RegisterAdmin)
	authGroup.Post("/register-student", authHandler.RegisterStudent)
	authGroup.Post("/login-admin", bruteForceProtection.CheckAndRecordAttempt(), authHandler.LoginAdmin)
	authGroup.Post("/login-student", bruteForceProtection.CheckAndRecordAttempt(), authHandler.LoginStudent)
	authGroup.Post("/refresh", authHandler.RefreshToken)
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)

	// ==================== Events ====================

	events := api.Group("/events")

	// Admin views are registered before /:id
	events.Get("/admin/my-events", authMiddleware.RequireAdmin(), eventHandler.MyEvents) // Admin: all owned events, any status
	events.Get("/admin/stats", authMiddleware.RequireAdmin(), eventHandler.Stats)        // Admin: per-event counts and fill rate

	events.Get("/", eventHandler.ListEvents)  // Public: active events
	events.Get("/:id", eventHandler.GetEvent) // Public: event with registrations
	events.Post("/", authMiddleware.RequireAdmin(), middleware.AdminAuditLog(db, "event_create", "events"), eventHandler.CreateEvent)
	events.Put("/:id", authMiddleware.RequireAdmin(), middleware.AdminAuditLog(db, "event_update", "events"), eventHandler.UpdateEvent)
	events.Delete("/:id", authMiddleware.RequireAdmin(), middleware.AdminAuditLog(db, "event_cancel", "events"), eventHandler.CancelEvent)
	events.Post("/:id/image", authMiddleware.RequireAdmin(), middleware.AdminAuditLog(db, "event_image_upload", "events"), eventHandler.UploadImage)

	// ==================== Students ====================

	students := api.Group("/students", authMiddleware.RequireStudent())
	students.Post("/register-event", studentHandler.RegisterEvent)
	students.Post("/check-in", studentHandler.CheckIn)
	students.Delete("/cancel-registration/:eventId", studentHandler.CancelRegistration)
	students.Get("/my-events", studentHandler.MyEvents)
	students.Get("/profile", studentHandler.GetProfile)
	students.Put("/profile", studentHandler.UpdateProfile)

	// ==================== Admin ====================

	admin := api.Group("/admin", authMiddleware.RequireAdmin())
	admin.Get("/audit-logs", utils.MakeHTTPHandleFunc(admin_handlers.ListAuditLogs, store))
	admin.Get("/audit-logs/:id", utils.MakeHTTPHandleFunc(admin_handlers.GetAuditLog, store))

	// Anything left over is an unknown route
	app.Use(func(c *fiber.Ctx) error {
		return response.NotFound(c, "Route not found")
	})

	return nil
}
