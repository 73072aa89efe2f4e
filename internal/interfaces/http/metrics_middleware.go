package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HTTPObserver recibe una observación por petición atendida.
type HTTPObserver interface {
	ObserveHTTP(method, route, status string, seconds float64)
}

// MetricsMiddleware mide cada petición usando la ruta registrada (no el path crudo) como etiqueta.
func MetricsMiddleware(obs HTTPObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := "unmatched"
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path
		}
		obs.ObserveHTTP(c.Method(), route, strconv.Itoa(status), time.Since(start).Seconds())
		return err
	}
}
