// handlers/routes.go - Route table
package handlers

import (
	"time"

	"biblenotes/handlers/admin"
	"biblenotes/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouteConfig carries the optional parts of the route table.
type RouteConfig struct {
	Limiters *middleware.RateLimiters
	// IdentitySecret enables POST /api/auth/identity when non-empty.
	IdentitySecret string
	// AdminKey enables the /api/admin endpoints when non-empty.
	AdminKey string
}

// RegisterRoutes mounts every endpoint on app. InitHandlers must run first.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	if cfg.Limiters != nil {
		app.Use(middleware.FiberRateLimitMiddleware(cfg.Limiters.General))
	}

	api := app.Group("/api")

	// Auth routes with stricter rate limiting
	authGroup := api.Group("/auth")
	if cfg.Limiters != nil {
		authGroup.Use(middleware.FiberAuthRateLimitMiddleware(cfg.Limiters.Auth))
	}
	authGroup.Post("/guest", GuestLogin)
	authGroup.Post("/login", Login)
	authGroup.Post("/register", Register)
	authGroup.Post("/upgrade", middleware.AuthMiddleware, UpgradeGuest)
	if cfg.IdentitySecret != "" {
		authGroup.Post("/identity", middleware.TrustedIdentityMiddleware(cfg.IdentitySecret), IdentityLogin)
	}

	// User routes (require authentication)
	userGroup := api.Group("/users")
	userGroup.Use(middleware.AuthMiddleware)
	userGroup.Get("/me", GetCurrentUser)

	// Verse lookup is public
	api.Get("/verses", GetVerses)
	api.Get("/verses/single", GetVerse)
	api.Get("/verses/parse", ParseReference)
	api.Get("/books", GetBooks)
	api.Get("/books/resolve", ResolveBook)

	// Note routes
	noteGroup := api.Group("/notes")
	noteGroup.Use(middleware.AuthMiddleware)
	noteGroup.Post("/", CreateNote)
	noteGroup.Get("/", GetNotes)
	noteGroup.Get("/with-sections", GetNotesWithSections)
	noteGroup.Get("/with-free-text", GetNotesWithFreeText)
	noteGroup.Get("/:id", GetNote)
	noteGroup.Put("/:id", UpdateNote)
	noteGroup.Delete("/:id", DeleteNote)
	noteGroup.Post("/:id/sections", CreateSection)
	noteGroup.Get("/:id/sections", GetNoteSections)
	noteGroup.Get("/:id/annotations", GetNoteAnnotations)
	noteGroup.Post("/:id/free-text", CreateFreeText)
	noteGroup.Get("/:id/free-text", GetNoteFreeText)

	sectionGroup := api.Group("/sections")
	sectionGroup.Use(middleware.AuthMiddleware)
	sectionGroup.Get("/:id", GetSection)
	sectionGroup.Put("/:id", UpdateSection)
	sectionGroup.Delete("/:id", DeleteSection)
	sectionGroup.Post("/:id/annotations", CreateAnnotation)
	sectionGroup.Get("/:id/annotations", GetSectionAnnotations)

	annotationGroup := api.Group("/annotations")
	annotationGroup.Use(middleware.AuthMiddleware)
	annotationGroup.Get("/:id", GetAnnotation)
	annotationGroup.Put("/:id", UpdateAnnotation)
	annotationGroup.Delete("/:id", DeleteAnnotation)

	freeTextGroup := api.Group("/free-text")
	freeTextGroup.Use(middleware.AuthMiddleware)
	freeTextGroup.Get("/:id", GetFreeText)
	freeTextGroup.Put("/:id", UpdateFreeText)
	freeTextGroup.Delete("/:id", DeleteFreeText)

	tagGroup := api.Group("/tags")
	tagGroup.Use(middleware.AuthMiddleware)
	tagGroup.Post("/", CreateVerseTag)
	tagGroup.Get("/", GetVerseTags)
	tagGroup.Get("/:id", GetVerseTag)
	tagGroup.Put("/:id", UpdateVerseTag)
	tagGroup.Delete("/:id", DeleteVerseTag)

	if cfg.AdminKey != "" {
		adminGroup := api.Group("/admin", middleware.AdminKeyMiddleware(cfg.AdminKey))
		adminGroup.Get("/cleanup", admin.GetCleanupStats)
		adminGroup.Post("/cleanup", admin.ManualCleanup)
	}

	// Live note updates
	app.Get("/ws", RequireUpgrade, middleware.WebSocketAuthMiddleware, LiveUpdates)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"version":   "1.0.0",
		})
	})
}
