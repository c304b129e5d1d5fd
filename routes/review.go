package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/consultbridge/consult-booking/controllers/client"
	"github.com/consultbridge/consult-booking/middleware"
)

// SetupReviewRoutes configures review writes. The public read lives
// under /consultants/:id/reviews.
func SetupReviewRoutes(app *fiber.App) {
	reviews := app.Group("/reviews", middleware.Protected())

	reviews.Post("/", client.CreateReview)
	reviews.Put("/:id", client.UpdateReview)
	reviews.Delete("/:id", client.DeleteReview)
}
