// Package session reads the authenticated caller from a request context.
package session

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// TokenKey is where the JWT middleware stores the parsed token.
	TokenKey = "user"
	roleKey  = "granted_role"
)

var ErrNoSession = errors.New("no session in context")

// GetClaims extracts the session claims from the token in context.
func GetClaims(c *fiber.Ctx) (*services.Claims, error) {
	token, ok := c.Locals(TokenKey).(*jwt.Token)
	if !ok || token == nil {
		return nil, ErrNoSession
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	return services.ClaimsFromMap(mc)
}

func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	claims, err := GetClaims(c)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.UserID, nil
}

// GetActor returns the caller, with any role granted by middleware for this
// request taking precedence over the token's role claim.
func GetActor(c *fiber.Ctx) (services.Actor, error) {
	claims, err := GetClaims(c)
	if err != nil {
		return services.Actor{}, err
	}
	actor := claims.Actor()
	if role, ok := c.Locals(roleKey).(models.Role); ok {
		actor.Role = role
	}
	return actor, nil
}

// OptionalActor is GetActor for routes that also serve anonymous callers.
func OptionalActor(c *fiber.Ctx) *services.Actor {
	actor, err := GetActor(c)
	if err != nil {
		return nil
	}
	return &actor
}

// GrantRole overrides the caller's role for the rest of the request.
func GrantRole(c *fiber.Ctx, role models.Role) {
	c.Locals(roleKey, role)
}
