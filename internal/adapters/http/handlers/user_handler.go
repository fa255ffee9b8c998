package handlers

import (
	"errors"
	"strconv"

	"procflow/internal/core/domain"
	"procflow/internal/core/services"
	"procflow/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles user management endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func userResponses(users []*domain.User) []*domain.UserResponse {
	out := make([]*domain.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, u.ToResponse())
	}
	return out
}

// ListUsers handles listing active users (Admin only)
// @Summary List users
// @Description List active users, optionally filtered by keyword
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param keyword query string false "Search keyword"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /users [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	users := h.userService.ListUsers(c.Query("keyword"))
	return response.Success(c, "Users retrieved successfully", fiber.Map{
		"users": userResponses(users),
		"total": len(users),
	})
}

// GetUser handles getting a user by ID (Admin only)
// @Summary Get user by ID
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	user, err := h.userService.GetUser(uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to get user")
	}

	return response.Success(c, "User retrieved successfully", fiber.Map{
		"user": user.ToResponse(),
	})
}

// GetStats handles the user population summary (Admin only)
// @Summary User statistics
// @Description Totals by role and department
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /users/stats [get]
func (h *UserHandler) GetStats(c *fiber.Ctx) error {
	return response.Success(c, "Statistics retrieved successfully", h.userService.Stats())
}

// CreateUser handles creating a user (Admin only)
// @Summary Create user
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.AddUserInput true "User data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users [post]
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var input services.AddUserInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.AddUser(actorFromCtx(c), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUsernameTaken):
			return response.Conflict(c, "Username already exists")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to create user")
		}
	}

	return response.Created(c, "User created successfully", fiber.Map{
		"user": user.ToResponse(),
	})
}

// UpdateUser handles a partial user update (Admin only)
// @Summary Update user
// @Description Merge the provided fields onto the user record
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body domain.UserPatch true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	var patch domain.UserPatch
	if err := c.BodyParser(&patch); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.UpdateUser(actorFromCtx(c), uint(id), &patch)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, domain.ErrUsernameTaken):
			return response.Conflict(c, "Username already exists")
		case errors.Is(err, domain.ErrPasswordTooShort):
			return response.BadRequest(c, "Password must be at least 6 characters")
		case errors.Is(err, domain.ErrSelfDeactivate):
			return response.Forbidden(c, "You cannot deactivate the account you are signed in with")
		case errors.Is(err, domain.ErrLastAdmin):
			return response.Forbidden(c, "Cannot deactivate the last active admin account")
		default:
			return response.InternalServerError(c, "Failed to update user")
		}
	}

	return response.Success(c, "User updated successfully", fiber.Map{
		"user": user.ToResponse(),
	})
}

// ChangePasswordRequest represents change password request body
type ChangePasswordRequest struct {
	NewPassword string `json:"new_password"`
}

// ChangePassword handles a password change (Admin, or the user themselves)
// @Summary Change password
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body ChangePasswordRequest true "New password"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id}/password [put]
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	actor := actorFromCtx(c)
	if actor.Role != domain.RoleAdmin && actor.ID != uint(id) {
		return response.Forbidden(c, "You can only change your own password")
	}

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	_, err = h.userService.ChangePassword(actor, uint(id), req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPasswordTooShort):
			return response.BadRequest(c, "Password must be at least 6 characters")
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		default:
			return response.InternalServerError(c, "Failed to change password")
		}
	}

	return response.Success(c, "Password changed successfully", nil)
}

// DeleteUser handles deleting a user (Admin only)
// @Summary Delete user
// @Description Soft-delete by default: the record stays in storage flagged inactive. Pass permanent=true to remove it entirely.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param permanent query bool false "Remove the record from storage"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	actor := actorFromCtx(c)
	if c.QueryBool("permanent") {
		err = h.userService.PermanentDeleteUser(actor, uint(id))
	} else {
		err = h.userService.DeleteUser(actor, uint(id))
	}
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, domain.ErrSelfDelete):
			return response.Forbidden(c, "You cannot delete the account you are signed in with")
		case errors.Is(err, domain.ErrLastAdmin):
			return response.Forbidden(c, "Cannot delete the last active admin account")
		default:
			return response.InternalServerError(c, "Failed to delete user")
		}
	}

	return response.Success(c, "User deleted successfully", nil)
}

// ExportUsers handles exporting active users as JSON or CSV (Admin only)
// @Summary Export users
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param format query string false "json or csv" default(json)
// @Success 200 {object} response.Response
// @Router /users/export [get]
func (h *UserHandler) ExportUsers(c *fiber.Ctx) error {
	format := c.Query("format", "json")

	body, err := h.userService.ExportUsers(format)
	if err != nil {
		return response.BadRequest(c, "Unsupported export format")
	}

	if format == "csv" {
		c.Set(fiber.HeaderContentType, "text/csv")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="users.csv"`)
	} else {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	return c.Send(body)
}

// ImportUsers handles importing users from a JSON or CSV document (Admin only)
// @Summary Import users
// @Description Upsert users by username from the request body
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param format query string false "json or csv" default(json)
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /users/import [post]
func (h *UserHandler) ImportUsers(c *fiber.Ctx) error {
	report, err := h.userService.ImportUsers(actorFromCtx(c), c.Body(), c.Query("format", "json"))
	if err != nil {
		return response.BadRequest(c, "Malformed import document")
	}
	return response.Success(c, "Import completed", report)
}

// ResetUsers restores the bundled default accounts (Admin only)
// @Summary Reset users to defaults
// @Description Discards all user records and restores the bundled defaults
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /users/reset [post]
func (h *UserHandler) ResetUsers(c *fiber.Ctx) error {
	h.userService.ResetToDefaults()
	return response.Success(c, "User collection reset to defaults", nil)
}
