package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/consultbridge/consult-booking/controllers/client"
	"github.com/consultbridge/consult-booking/middleware"
)

// SetupClientRoutes configures the client's own profile routes.
func SetupClientRoutes(app *fiber.App) {
	profile := app.Group("/client", middleware.Protected())

	profile.Get("/profile", client.GetProfile)
	profile.Put("/profile", client.UpdateProfile)
	profile.Post("/profile/avatar", client.UploadAvatar)
}
