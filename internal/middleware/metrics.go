package middleware

import (
	"errors"
	"time"

	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/metrics"
	"github.com/gofiber/fiber/v2"
)

// Metrics records in-flight gauge, request count and latency per route
// template, so ids in paths do not explode label cardinality.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		done := metrics.TrackInFlight()
		defer done()

		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}
		metrics.ObserveRequest(c.Method(), c.Route().Path, status, time.Since(start))
		return err
	}
}
