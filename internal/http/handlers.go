package http

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/energy-scenario-simulator/internal/domain"
	"github.com/ANIKETSHETTY47/energy-scenario-simulator/internal/service"
)

// NewApp builds the fiber app with middleware, health check and scenario routes.
func NewApp(svcs *service.Services, allowOrigins string) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New())

	corsCfg := cors.Config{AllowOrigins: allowOrigins}
	if allowOrigins != "" && allowOrigins != "*" {
		corsCfg.AllowCredentials = true
	}
	app.Use(cors.New(corsCfg))

	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })

	Register(app, svcs)
	return app
}

func Register(app *fiber.App, svcs *service.Services) {
	g := app.Group("/")
	g.Post("simulate", simulate(svcs))
	g.Post("visualize", visualize(svcs))
	g.Get("scenarios", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"scenarios": svcs.Scenarios.List(c.UserContext())})
	})
	g.Get("scenarios/:name", func(c *fiber.Ctx) error {
		name, err := url.PathUnescape(c.Params("name"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		rec, err := svcs.Scenarios.Get(name)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(rec.Summary())
	})
}

func simulate(svcs *service.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.SimulateInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
		}
		rec, err := svcs.Scenarios.Simulate(c.UserContext(), in)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{
			"message": "Scenario simulation complete.",
			"scenario_data": fiber.Map{
				"scenario_id":   rec.ID,
				"scenario_name": rec.Name,
				"system_id":     rec.SystemID,
				"duration":      rec.Duration,
				"pattern":       rec.Pattern.Label,
			},
		})
	}
}

func visualize(svcs *service.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.VisualizeInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
		}
		out, err := svcs.Scenarios.Visualize(c.UserContext(), in)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(out)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateScenario), errors.Is(err, domain.ErrIncompatibleShapes):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}

func writeError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	} else {
		log.Warn().Err(err).Str("path", c.Path()).Int("status", status).Msg("request rejected")
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
