package device

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes exposes the manual tag API. Mutating routes go through
// the auth middleware; tag changes update the in-memory matcher and the
// persistent store together.
func RegisterRoutes(r fiber.Router, matcher *Matcher, store *Store, authMiddleware fiber.Handler) {
	r.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(matcher.Tagged())
	})

	r.Post("/tag", authMiddleware, func(c *fiber.Ctx) error {
		var req Device
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.ID == "" || req.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "id and name required")
		}

		tag := matcher.TagAsCarDevice(req)
		if err := store.Save(c.Context(), tag); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(tag)
	})

	r.Delete("/:id/tag", authMiddleware, func(c *fiber.Ctx) error {
		id := c.Params("id")
		existed := matcher.UntagCarDevice(id)
		if _, err := store.Delete(c.Context(), id); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if !existed {
			return fiber.NewError(fiber.StatusNotFound, "device not tagged")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
