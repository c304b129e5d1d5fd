package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/consultbridge/consult-booking/controllers"
	"github.com/consultbridge/consult-booking/middleware"
)

// SetupPaymentRoutes configures payment intents and the gateway webhook.
// The webhook authenticates with its signature, not a JWT.
func SetupPaymentRoutes(app *fiber.App) {
	payments := app.Group("/payments")

	payments.Post("/intent", middleware.Protected(), controllers.CreatePaymentIntent)
	payments.Post("/webhook", controllers.PaymentWebhook)
}
