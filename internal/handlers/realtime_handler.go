package handlers

import (
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/realtime"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/services"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

const claimsKey = "realtime_claims"

type RealtimeHandler struct {
	authService *services.AuthService
	hub         *realtime.Hub
}

func NewRealtimeHandler(authService *services.AuthService, hub *realtime.Hub) *RealtimeHandler {
	return &RealtimeHandler{authService: authService, hub: hub}
}

// Authenticate verifies the session token before the upgrade, so a rejected
// handshake never reaches the hub. The token comes from ?token= or the
// Authorization header.
func (h *RealtimeHandler) Authenticate(c *fiber.Ctx) error {
	raw := c.Query("token")
	if raw == "" {
		raw = c.Get(fiber.HeaderAuthorization)
	}
	if raw == "" {
		return unauthorized(c)
	}

	claims, err := h.authService.VerifyToken(raw)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Invalid or expired token", ""))
	}
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	c.Locals(claimsKey, claims)
	return c.Next()
}

func (h *RealtimeHandler) Serve() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		claims, ok := conn.Locals(claimsKey).(*services.Claims)
		if !ok {
			_ = conn.Close()
			return
		}
		realtime.NewClient(h.hub, conn, claims.UserID, claims.Email, claims.Username).Serve()
	})
}
