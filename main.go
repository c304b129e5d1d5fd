package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/consultbridge/consult-booking/cache"
	"github.com/consultbridge/consult-booking/config"
	"github.com/consultbridge/consult-booking/cron"
	"github.com/consultbridge/consult-booking/db"
	"github.com/consultbridge/consult-booking/notifications"
	"github.com/consultbridge/consult-booking/payments"
	"github.com/consultbridge/consult-booking/routes"
	"github.com/consultbridge/consult-booking/utils"
)

func main() {
	cfg := config.Load()

	db.Init(cfg)
	db.Migrate()

	cache.Init(cfg)
	payments.Init(cfg.StripeSecretKey)
	if _, err := utils.InitCloudinary(); err != nil {
		log.Printf("Cloudinary not configured: %v", err)
	}

	notifications.Default = notifications.New(db.DB, 256)
	notifications.Default.Start()
	defer notifications.Default.Stop()

	cron.StartCronJobs()

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	routes.SetupAuthRoutes(app)
	routes.SetupConsultantRoutes(app)
	routes.SetupClientRoutes(app)
	routes.SetupBookingRoutes(app)
	routes.SetupReviewRoutes(app)
	routes.SetupNotificationRoutes(app)
	routes.SetupPaymentRoutes(app)

	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Printf("server stopped: %v", err)
	}
}
