package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// parseAuthUserID extracts the authenticated user id set by the auth
// middleware.
func parseAuthUserID(c *fiber.Ctx) (int64, error) {
	userIDStr, ok := c.Locals("user_id").(string)
	if !ok {
		return 0, fiber.ErrUnauthorized
	}
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		return 0, fiber.ErrUnauthorized
	}
	return userID, nil
}

func parseIDParam(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.ErrBadRequest
	}
	return id, nil
}
