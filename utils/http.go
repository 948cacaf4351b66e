// utils/http.go - HTTP utility functions for Fiber handlers
package utils

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// JSONError sends a JSON error response
func JSONError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

// JSONSuccess sends a JSON success response with data merged into the body
func JSONSuccess(c *fiber.Ctx, status int, data fiber.Map) error {
	response := fiber.Map{
		"success": true,
	}
	for k, v := range data {
		response[k] = v
	}
	return c.Status(status).JSON(response)
}

// ParseID reads a positive integer route parameter.
func ParseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return uint(id), nil
}

// SplitList splits a comma separated value, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
