package trip

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(r fiber.Router, repo *Repository) {
	r.Get("/", func(c *fiber.Ctx) error {
		trips, err := repo.List(c.Context(), c.QueryInt("limit"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if trips == nil {
			trips = []Trip{}
		}
		return c.JSON(trips)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		trip, err := repo.Get(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "trip not found")
		}
		return c.JSON(trip)
	})

	r.Get("/:id/waypoints", func(c *fiber.Ctx) error {
		points, err := repo.Points(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if points == nil {
			points = []TripPoint{}
		}
		return c.JSON(points)
	})
}
