package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"umkm-pos/internal/middleware"
	"umkm-pos/internal/service"
	"umkm-pos/internal/session"
	"umkm-pos/pkg/apperror"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles user authentication
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return apperror.Respond(c, apperror.BadRequest("Email and password are required"))
	}

	result, err := h.authService.Login(c.UserContext(), req.Email, req.Password, c.Get(fiber.HeaderUserAgent))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(result)
}

// Register creates a new company with its owner, or joins an existing one.
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	result, err := h.authService.Register(c.UserContext(), &req, c.Get(fiber.HeaderUserAgent))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// Session returns the caller's user, session and profile in one snapshot.
// GET /api/v1/auth/session
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	claims := middleware.ClaimsFrom(c)
	user := session.AuthUser{ID: claims.UserID, Email: claims.Email}

	return c.JSON(fiber.Map{
		"user": user,
		"session": fiber.Map{
			"expires_at": claims.ExpiresAt.Time,
			"user":       user,
		},
		"userProfile": middleware.ProfileFrom(c),
	})
}

// Profile
// GET /api/v1/profile
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	profile := middleware.ProfileFrom(c)
	if profile == nil {
		return apperror.Respond(c, apperror.NotFound("Profil tidak ditemukan"))
	}
	return c.JSON(fiber.Map{
		"profile":    profile,
		"role_label": profile.Role.Label(),
		"privileges": profile.Privileges(),
	})
}

// Refresh issues a new token and revokes the current one.
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	sess, err := h.authService.Refresh(c.UserContext(), middleware.ClaimsFrom(c), c.Get(fiber.HeaderUserAgent))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"session": sess})
}

// Logout
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.authService.Logout(c.UserContext(), middleware.ClaimsFrom(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Signed out"})
}

// ChangePassword
// PUT /api/v1/auth/password
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req service.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	if err := h.authService.ChangePassword(c.UserContext(), middleware.ClaimsFrom(c).UserID, &req); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "Password updated successfully"})
}
