package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/consultbridge/consult-booking/controllers/client"
	"github.com/consultbridge/consult-booking/middleware"
)

// SetupNotificationRoutes configures the caller-scoped notification feed.
func SetupNotificationRoutes(app *fiber.App) {
	notifications := app.Group("/notifications", middleware.Protected())

	notifications.Get("/", client.GetNotifications)
	notifications.Put("/:id/read", client.MarkNotificationRead)
	notifications.Put("/read-all", client.MarkAllNotificationsRead)
}
