package httpapi

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/i474232898/city-infos/internal/city"
)

const serviceName = "city-infos"

// Options tunes the Fiber app built by NewApp.
type Options struct {
	// AccessLog enables the request logger middleware.
	AccessLog bool

	// RecipeCount and UpstreamStatus feed the health endpoint. Both are optional.
	RecipeCount    func() int
	UpstreamStatus func() string
}

// NewApp builds the Fiber app with middleware, health, metrics and API routes.
func NewApp(service *city.Service, opts Options) *fiber.App {
	// Immutable: route params end up in the store and must not alias fasthttp buffers.
	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		DisableStartupMessage: true,
		Immutable:             true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	if opts.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		}))
	}
	app.Use(metricsMiddleware)

	app.Get("/health", func(c *fiber.Ctx) error {
		resp := fiber.Map{
			"status":  "ok",
			"service": serviceName,
		}
		if opts.RecipeCount != nil {
			resp["recipes"] = opts.RecipeCount()
		}
		if opts.UpstreamStatus != nil {
			resp["upstream"] = opts.UpstreamStatus()
		}
		return c.JSON(resp)
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	RegisterRoutes(app, service)

	return app
}

// ErrorHandler renders every error as {"error": true, "message": ...}.
// Errors that are not *fiber.Error become a 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	if code >= fiber.StatusInternalServerError {
		slog.Error("request failed",
			"requestId", c.Locals("requestid"),
			"method", c.Method(),
			"path", c.Path(),
			"error", err,
		)
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}
