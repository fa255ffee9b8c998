package handlers

import (
	"procflow/internal/core/domain"
	"procflow/internal/core/services"

	"github.com/gofiber/fiber/v2"
)

// actorFromCtx rebuilds the caller identity from the auth middleware locals
func actorFromCtx(c *fiber.Ctx) services.Actor {
	actor := services.Actor{}
	if id, ok := c.Locals("userID").(uint); ok {
		actor.ID = id
	}
	if username, ok := c.Locals("username").(string); ok {
		actor.Username = username
	}
	if role, ok := c.Locals("role").(string); ok {
		actor.Role = domain.Role(role)
	}
	if sessionID, ok := c.Locals("sessionID").(string); ok {
		actor.SessionID = sessionID
	}
	return actor
}
