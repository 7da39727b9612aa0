package server

import (
	"time"

	"lms/config"
	"lms/middleware"
	"lms/routers"
	"lms/utils"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp builds the fiber application with middleware and every route mounted
func NewApp(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "lms",
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
		ErrorHandler: middleware.ErrorHandler,
		BodyLimit:    utils.MaxUploadSize + 1<<20,
		ReadTimeout:  30 * time.Second,
	})

	app.Use(recover.New())

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CorsOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE",
		AllowHeaders:     "Content-Type,Authorization",
		AllowCredentials: cfg.CorsOrigins != "*",
	}))

	// Enable the built-in logger middleware to log all requests
	if !cfg.IsTest() {
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
		}))
	}

	app.Use(compress.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": true, "message": "ok"})
	})

	// Submission files
	app.Static("/uploads", cfg.UploadDir)

	if cfg.APIRateLimit > 0 {
		app.Use("/api", middleware.RateLimiter(cfg.APIRateLimit, time.Minute, "Too many requests. Please slow down."))
	}

	// Unmatched requests end in fiber's 404 or 405, rendered by middleware.ErrorHandler
	routers.SetupRoutes(app)

	return app
}
