// Package admin holds operator endpoints. They sit behind AdminKeyMiddleware.
package admin

import (
	"biblenotes/services"
	"biblenotes/utils"

	"github.com/gofiber/fiber/v2"
)

// ManualCleanup runs the empty-note sweep now.
// POST /api/admin/cleanup
func ManualCleanup(c *fiber.Ctx) error {
	svc := services.GetCleanupService()
	if svc == nil {
		return utils.JSONError(c, fiber.StatusServiceUnavailable, "Cleanup service is disabled")
	}

	deleted, err := svc.RunOnce()
	if err != nil {
		return fiber.ErrInternalServerError
	}

	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{
		"message": "Cleanup completed",
		"deleted": deleted,
	})
}

// GET /api/admin/cleanup
func GetCleanupStats(c *fiber.Ctx) error {
	svc := services.GetCleanupService()
	if svc == nil {
		return utils.JSONError(c, fiber.StatusServiceUnavailable, "Cleanup service is disabled")
	}

	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"stats": svc.Stats()})
}
