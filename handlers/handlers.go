// handlers/handlers.go - Shared handler state and error mapping
package handlers

import (
	"errors"
	"log"
	"os"

	"biblenotes/bibleref"
	"biblenotes/services"
	"biblenotes/utils"

	"github.com/gofiber/fiber/v2"
)

var (
	verseResolver *services.VerseResolver
	noteService   *services.NoteService
	userService   *services.UserService
	liveHub       *services.Hub
)

// Services bundles what the handlers depend on.
type Services struct {
	Verses *services.VerseResolver
	Notes  *services.NoteService
	Users  *services.UserService
	Hub    *services.Hub
}

// InitHandlers installs the services used by every handler.
func InitHandlers(s Services) {
	if s.Verses == nil || s.Notes == nil || s.Users == nil {
		panic("handlers: services not initialized before InitHandlers")
	}
	verseResolver = s.Verses
	noteService = s.Notes
	userService = s.Users
	liveHub = s.Hub
}

// respondError maps service and parser errors onto HTTP statuses.
func respondError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return utils.JSONError(c, fe.Code, fe.Message)
	case bibleref.IsReferenceError(err):
		return utils.JSONError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidInput):
		return utils.JSONError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotGuest):
		return utils.JSONError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		return utils.JSONError(c, fiber.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, services.ErrForbidden):
		return utils.JSONError(c, fiber.StatusForbidden, "Access denied")
	case errors.Is(err, services.ErrNotFound):
		return utils.JSONError(c, fiber.StatusNotFound, "Not found")
	case errors.Is(err, services.ErrPassageNotFound):
		return utils.JSONError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrUsernameTaken):
		return utils.JSONError(c, fiber.StatusConflict, "Username already taken")
	}

	log.Printf("❌ %s %s: %v", c.Method(), c.Path(), err)
	return fiber.ErrInternalServerError
}

// ErrorHandler renders errors that escape a handler as {"success": false, "error": msg}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	// Don't expose internal errors in production
	if os.Getenv("APP_ENV") == "production" && code == fiber.StatusInternalServerError {
		message = "An error occurred. Please try again later."
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}
