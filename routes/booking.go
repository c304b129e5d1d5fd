package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/consultbridge/consult-booking/controllers"
	"github.com/consultbridge/consult-booking/controllers/client"
	"github.com/consultbridge/consult-booking/controllers/consultant"
	"github.com/consultbridge/consult-booking/middleware"
)

// SetupBookingRoutes configures the booking lifecycle routes. Role checks
// beyond authentication live in the handlers, which compare the caller
// against the booking's parties.
func SetupBookingRoutes(app *fiber.App) {
	bookings := app.Group("/bookings", middleware.Protected())

	bookings.Post("/book", client.CreateBooking)
	bookings.Get("/client", client.GetClientBookings)
	bookings.Get("/consultant", consultant.GetConsultantBookings)

	bookings.Put("/:id/confirm", controllers.ConfirmBooking)
	bookings.Put("/:id/complete", controllers.CompleteBooking)
	bookings.Put("/:id/cancel", controllers.CancelBooking)
	bookings.Put("/:id/reschedule", controllers.RescheduleBooking)

	bookings.Post("/:id/documents", client.AttachDocuments)
}
