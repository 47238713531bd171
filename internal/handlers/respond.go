package handlers

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/session"
	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func statusFor(kind services.Kind) int {
	switch kind {
	case services.KindValidation:
		return fiber.StatusBadRequest
	case services.KindConflict:
		return fiber.StatusConflict
	case services.KindAuth:
		return fiber.StatusUnauthorized
	case services.KindAuthz:
		return fiber.StatusForbidden
	case services.KindNotFound:
		return fiber.StatusNotFound
	}
	return fiber.StatusInternalServerError
}

// responder is embedded by every handler.
type responder struct {
	exposeDetail bool
}

// fail writes the envelope for err. Internal failures are logged and
// reported to Sentry; their detail reaches the client only outside production.
func (r responder) fail(c *fiber.Ctx, err error) error {
	kind := services.KindOf(err)
	status := statusFor(kind)

	if kind != services.KindInternal {
		msg := err.Error()
		var svcErr *services.Error
		if errors.As(err, &svcErr) {
			msg = svcErr.Message
		}
		return c.Status(status).JSON(dto.Fail(msg, ""))
	}

	slog.Error("request failed",
		"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
		"method", c.Method(),
		"path", c.Path(),
		"error", err,
	)
	if hub := sentryfiber.GetHubFromContext(c); hub != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			if uid, err := session.GetUserID(c); err == nil {
				scope.SetUser(sentry.User{ID: uid.String()})
			}
			hub.CaptureException(err)
		})
	}

	detail := ""
	if r.exposeDetail {
		detail = err.Error()
	}
	return c.Status(status).JSON(dto.Fail("Internal server error", detail))
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(msg, ""))
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Authentication required", ""))
}

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}

func queryInt(c *fiber.Ctx, name string, fallback int) int {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return fallback
	}
	return n
}

// ErrorHandler is the fiber-level fallback for errors no handler turned into
// a response: unknown routes, oversized bodies, recovered panics.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}
	return c.Status(code).JSON(dto.Fail(message, ""))
}
