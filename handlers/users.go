package handlers

import (
	"biblenotes/middleware"

	"github.com/gofiber/fiber/v2"
)

// GetCurrentUser returns the authenticated user's profile
// GET /api/users/me
func GetCurrentUser(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	user, err := userService.GetByID(userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    userInfo(user),
	})
}
