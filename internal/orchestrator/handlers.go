package orchestrator

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes exposes the engine control API.
func RegisterRoutes(r fiber.Router, o *Orchestrator, authMiddleware fiber.Handler) {
	r.Get("/status", func(c *fiber.Ctx) error {
		resp := fiber.Map{"status": o.Status()}
		if current, ok := o.sessions.Current(); ok {
			resp["session"] = current
		}
		return c.JSON(resp)
	})

	r.Post("/start", authMiddleware, func(c *fiber.Ctx) error {
		if err := o.Start(); err != nil {
			if errors.Is(err, ErrNotInitialized) {
				return fiber.NewError(fiber.StatusConflict, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"status": o.Status()})
	})

	r.Post("/stop", authMiddleware, func(c *fiber.Ctx) error {
		if err := o.Stop(); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"status": o.Status()})
	})
}
