package handlers

import (
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/session"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	responder
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		responder:   responder{exposeDetail: !cfg.IsProduction()},
		authService: authService,
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.authService.Register(&req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK(resp, "Account created"))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.OK(resp, "Logged in"))
}

// Verify checks the token in the Authorization header, or a {"token"} body,
// and returns its user.
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	raw := c.Get(fiber.HeaderAuthorization)
	if raw == "" {
		var body struct {
			Token string `json:"token"`
		}
		_ = c.BodyParser(&body)
		raw = body.Token
	}
	if raw == "" {
		return unauthorized(c)
	}

	claims, err := h.authService.VerifyToken(raw)
	if err != nil {
		return h.fail(c, err)
	}
	user, err := h.authService.Me(claims.UserID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.OK(fiber.Map{"user": user, "valid": true}, ""))
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	user, err := h.authService.Me(userID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.OK(fiber.Map{"user": user}, ""))
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.authService.UpdateProfile(userID, &req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.OK(fiber.Map{"user": user}, "Profile updated"))
}
