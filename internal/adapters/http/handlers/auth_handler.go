package handlers

import (
	"errors"
	"strings"

	"procflow/internal/core/domain"
	"procflow/internal/core/services"
	"procflow/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest represents login request body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RoleLoginRequest represents role-card login request body
type RoleLoginRequest struct {
	Role string `json:"role"`
}

// Login handles username/password login
// @Summary Login user
// @Description Authenticate with username and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Username == "" {
		return response.BadRequest(c, "Username is required")
	}
	if req.Password == "" {
		return response.BadRequest(c, "Password is required")
	}

	result, err := h.authService.Login(&services.LoginInput{
		Username: strings.TrimSpace(req.Username),
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return response.Unauthorized(c, "Invalid username or password")
		}
		return response.InternalServerError(c, "Failed to sign in")
	}

	return response.Success(c, "Signed in successfully", result)
}

// RoleLogin handles the simplified role-card login
// @Summary Login by role
// @Description Sign in as the first active user holding the role
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RoleLoginRequest true "Role"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /auth/role-login [post]
func (h *AuthHandler) RoleLogin(c *fiber.Ctx) error {
	var req RoleLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Role == "" {
		return response.BadRequest(c, "Role is required")
	}

	result, err := h.authService.RoleLogin(domain.Role(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Unknown role")
		case errors.Is(err, domain.ErrRoleNotStaffed):
			return response.NotFound(c, "No active account holds this role")
		default:
			return response.InternalServerError(c, "Failed to sign in")
		}
	}

	return response.Success(c, "Signed in successfully", result)
}

// GuestLogin opens a session for a transient user carrying the role
// @Summary Guest login
// @Description Sign in as a transient guest user for the role
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RoleLoginRequest true "Role"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /auth/guest-login [post]
func (h *AuthHandler) GuestLogin(c *fiber.Ctx) error {
	var req RoleLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Role == "" {
		return response.BadRequest(c, "Role is required")
	}

	result, err := h.authService.GuestLogin(domain.Role(req.Role))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return response.BadRequest(c, "Unknown role")
		}
		return response.InternalServerError(c, "Failed to sign in")
	}

	return response.Success(c, "Guest session opened", result)
}

// Me returns the current session's user, re-resolved against the directory
// @Summary Current user
// @Description Returns the authenticated user for this session
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	actor := actorFromCtx(c)

	user, err := h.authService.Restore(actor.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSessionExpired):
			return response.Unauthorized(c, "Session expired")
		case errors.Is(err, domain.ErrSessionNotFound):
			return response.Unauthorized(c, "Session not found")
		default:
			return response.InternalServerError(c, "Failed to restore session")
		}
	}

	return response.Success(c, "Session restored", fiber.Map{
		"user": user.ToResponse(),
	})
}

// Logout closes the current session
// @Summary Logout
// @Description Closes the current session
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	actor := actorFromCtx(c)
	h.authService.Logout(actor.SessionID)
	return response.Success(c, "Signed out successfully", nil)
}
