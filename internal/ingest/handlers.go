package ingest

import (
	"github.com/igor-olikh/drive-pilot/internal/detector"
	"github.com/igor-olikh/drive-pilot/internal/device"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes exposes the push endpoints the client apps feed. A push
// while the engine is stopped is acknowledged but reported as dropped so
// clients can back off.
func RegisterRoutes(r fiber.Router, loc *LocationPushFeed, bt *BluetoothPushFeed) {
	r.Post("/location", func(c *fiber.Ctx) error {
		var sample detector.LocationSample
		if err := c.BodyParser(&sample); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if sample.Lat < -90 || sample.Lat > 90 || sample.Lng < -180 || sample.Lng > 180 {
			return fiber.NewError(fiber.StatusBadRequest, "coordinates out of range")
		}

		accepted := loc.Push(sample)
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"accepted": accepted})
	})

	r.Post("/bluetooth/connect", func(c *fiber.Ctx) error {
		var d device.Device
		if err := c.BodyParser(&d); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if d.ID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "id required")
		}

		accepted := bt.PushConnect(d)
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"accepted": accepted})
	})

	r.Post("/bluetooth/disconnect", func(c *fiber.Ctx) error {
		var d device.Device
		if err := c.BodyParser(&d); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if d.ID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "id required")
		}

		accepted := bt.PushDisconnect(d)
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"accepted": accepted})
	})

	r.Get("/mode", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"mode": loc.Mode()})
	})
}
