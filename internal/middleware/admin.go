package middleware

import (
	"strings"

	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/session"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/store"
	"github.com/gofiber/fiber/v2"
)

// roleResolver computes a caller's current role. The token's role claim is
// not trusted: the stored role wins, and an email listed in ADMIN_EMAILS is
// always admin. A caller whose account is gone is a plain user.
type roleResolver struct {
	users       *store.UserStore
	adminEmails []string
}

func newRoleResolver(users *store.UserStore, cfg *config.Config) roleResolver {
	return roleResolver{users: users, adminEmails: parseCSV(strings.ToLower(cfg.AdminEmails))}
}

func (r roleResolver) resolve(claims *services.Claims) models.Role {
	role := models.RoleUser
	if user, err := r.users.ByID(claims.UserID); err == nil {
		role = user.Role
	}
	if contains(r.adminEmails, strings.ToLower(claims.Email)) {
		role = models.RoleAdmin
	}
	return role
}

// ResolveRole replaces the token's role with the caller's current role for
// the rest of the request, so promotions and demotions apply before the token
// expires. Anonymous requests pass through untouched.
func ResolveRole(users *store.UserStore, cfg *config.Config) fiber.Handler {
	r := newRoleResolver(users, cfg)

	return func(c *fiber.Ctx) error {
		if claims, err := session.GetClaims(c); err == nil {
			session.GrantRole(c, r.resolve(claims))
		}
		return c.Next()
	}
}

// AdminRequired admits a caller when either:
// 1. their email is listed in ADMIN_EMAILS
// 2. their stored role is admin
// Admitted callers act as admin for the rest of the request.
func AdminRequired(auth *services.AuthService, users *store.UserStore, cfg *config.Config) fiber.Handler {
	r := newRoleResolver(users, cfg)

	return func(c *fiber.Ctx) error {
		claims, err := session.GetClaims(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("unauthorized", "Authentication required"))
		}

		effective := *claims
		effective.Role = r.resolve(claims)
		if err := auth.RequireRole(&effective, models.RoleAdmin); err != nil {
			return c.Status(fiber.StatusForbidden).JSON(dto.Fail("forbidden", "Admin access required"))
		}
		session.GrantRole(c, models.RoleAdmin)
		return c.Next()
	}
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
