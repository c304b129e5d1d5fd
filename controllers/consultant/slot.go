package consultant

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/consultbridge/consult-booking/db"
	"github.com/consultbridge/consult-booking/models"
	"github.com/consultbridge/consult-booking/utils"
)

// SlotInput carries an RFC3339 start time.
type SlotInput struct {
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
}

// CreateSlot publishes an availability slot for the caller. A consultant
// cannot hold two slots with the same start time.
func CreateSlot(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	profile, err := models.EnsureConsultantProfile(db.DB, userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to load consultant profile",
			Error:   err.Error(),
		})
	}

	input := new(SlotInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    utils.CodeValidation,
			Message: "Invalid slot data",
		})
	}

	start, err := time.Parse(time.RFC3339, input.StartTime)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    utils.CodeValidation,
			Message: "start_time must be RFC3339, e.g. 2026-09-01T10:00:00Z",
		})
	}
	if input.DurationMinutes <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    utils.CodeValidation,
			Message: "Duration must be positive",
		})
	}

	slot := models.AvailabilitySlot{
		ConsultantID:    profile.ID,
		StartTime:       start,
		DurationMinutes: input.DurationMinutes,
	}
	if err := db.DB.Create(&slot).Error; err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") ||
			strings.Contains(strings.ToLower(err.Error()), "duplicate") {
			return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
				Code:    utils.CodeConflict,
				Message: "A slot already exists at this start time",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create slot",
			Error:   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(slot)
}

// GetSlots lists the caller's own slots, booked ones included.
func GetSlots(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var profile models.ConsultantProfile
	if err := db.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return c.JSON([]models.AvailabilitySlot{})
	}

	var slots []models.AvailabilitySlot
	if err := db.DB.Where("consultant_id = ?", profile.ID).
		Order("start_time ASC").Find(&slots).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch slots",
			Error:   err.Error(),
		})
	}

	return c.JSON(slots)
}

// DeleteSlot withdraws an unbooked slot. Booked slots stay until the
// booking releases them.
func DeleteSlot(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	slotID := c.Params("id")

	var profile models.ConsultantProfile
	if err := db.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Code:    utils.CodeNotFound,
			Message: "Consultant profile not found",
		})
	}

	var slot models.AvailabilitySlot
	if err := db.DB.Where("id = ? AND consultant_id = ?", slotID, profile.ID).
		First(&slot).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Code:    utils.CodeNotFound,
			Message: "Slot not found",
		})
	}

	if slot.IsBooked {
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Code:    utils.CodeConflict,
			Message: "Cannot delete a booked slot",
		})
	}

	if err := db.DB.Delete(&slot).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to delete slot",
			Error:   err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetConsultantSlots is the public view of a consultant's open slots.
// ?from= narrows to slots starting at or after the given RFC3339 time;
// it defaults to now.
func GetConsultantSlots(c *fiber.Ctx) error {
	consultantID := c.Params("id")

	from := time.Now()
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Code:    utils.CodeValidation,
				Message: "from must be RFC3339",
			})
		}
		from = parsed
	}

	var slots []models.AvailabilitySlot
	if err := db.DB.Where("consultant_id = ? AND is_booked = ? AND start_time >= ?",
		consultantID, false, from).
		Order("start_time ASC").Find(&slots).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch slots",
			Error:   err.Error(),
		})
	}

	return c.JSON(slots)
}
