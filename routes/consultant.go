package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/consultbridge/consult-booking/config"
	"github.com/consultbridge/consult-booking/controllers/client"
	"github.com/consultbridge/consult-booking/controllers/consultant"
	"github.com/consultbridge/consult-booking/middleware"
	"github.com/consultbridge/consult-booking/models"
)

// SetupConsultantRoutes configures the public catalog and the
// consultant's own management routes. Catalog reads go through the
// response cache.
func SetupConsultantRoutes(app *fiber.App) {
	cached := middleware.CachePage(config.App.CatalogTTL)

	catalog := app.Group("/consultants")
	catalog.Get("/", cached, consultant.ListConsultants)
	catalog.Get("/:id", cached, consultant.GetConsultant)
	catalog.Get("/:id/slots", consultant.GetConsultantSlots)
	catalog.Get("/:id/reviews", cached, client.GetConsultantReviews)

	own := app.Group("/consultant",
		middleware.Protected(),
		middleware.RequireRole(models.RoleConsultant, models.RoleAdmin))
	own.Get("/profile", consultant.GetProfile)
	own.Put("/profile", consultant.UpdateProfile)
	own.Post("/services", consultant.CreateService)
	own.Get("/services", consultant.GetServices)
	own.Put("/services/:id", consultant.UpdateService)
	own.Delete("/services/:id", consultant.DeleteService)
	own.Post("/slots", consultant.CreateSlot)
	own.Get("/slots", consultant.GetSlots)
	own.Delete("/slots/:id", consultant.DeleteSlot)
}
