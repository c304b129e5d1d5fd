package consultant

import (
	"github.com/gofiber/fiber/v2"

	"github.com/consultbridge/consult-booking/db"
	"github.com/consultbridge/consult-booking/models"
	"github.com/consultbridge/consult-booking/utils"
)

// GetConsultantBookings lists bookings addressed to the caller, newest
// first. ?status= narrows to one status.
func GetConsultantBookings(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var profile models.ConsultantProfile
	if err := db.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return c.JSON([]models.Booking{})
	}

	query := db.DB.Preload("Client.User").Preload("Service").Preload("Documents").
		Where("consultant_id = ?", profile.ID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var bookings []models.Booking
	if err := query.Order("start_time DESC").Find(&bookings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch bookings",
			Error:   err.Error(),
		})
	}

	return c.JSON(bookings)
}
