package controllers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/consultbridge/consult-booking/config"
	"github.com/consultbridge/consult-booking/db"
	"github.com/consultbridge/consult-booking/models"
	"github.com/consultbridge/consult-booking/notifications"
	"github.com/consultbridge/consult-booking/utils"
)

func loadBooking(tx *gorm.DB, id string) (*models.Booking, error) {
	var booking models.Booking
	err := tx.Preload("Client").Preload("Consultant").Preload("Service").
		First(&booking, id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func isBookingClient(b *models.Booking, userID uint) bool {
	return b.Client.UserID == userID
}

func isBookingConsultant(b *models.Booking, userID uint) bool {
	return b.Consultant.UserID == userID
}

func transitionError(c *fiber.Ctx, err error) error {
	if errors.Is(err, models.ErrInvalidTransition) {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    utils.CodeInvalidTransition,
			Message: "Illegal status transition",
			Error:   err.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
		Message: "Failed to update booking",
		Error:   err.Error(),
	})
}

// ConfirmBooking moves a pending booking to confirmed. Only the owning
// consultant or an admin may confirm.
func ConfirmBooking(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	role := c.Locals("role").(string)

	booking, err := loadBooking(db.DB, c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Code:    utils.CodeNotFound,
			Message: "Booking not found",
		})
	}

	if !isBookingConsultant(booking, userID) && role != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Code:    utils.CodeForbidden,
			Message: "Only the booking's consultant may confirm it",
		})
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		return booking.UpdateStatus(tx, models.StatusConfirmed)
	})
	if err != nil {
		return transitionError(c, err)
	}

	notifications.Emit(booking.Client.UserID, models.NotificationBookingConfirmed,
		fmt.Sprintf("Booking #%d has been confirmed", booking.ID))

	return c.JSON(booking)
}

// CompleteBooking moves a confirmed booking to completed and unlocks review
// eligibility. The reserved slot stays booked as a historical record. When
// RequirePaidCompletion is on, an unpaid booking cannot complete.
func CompleteBooking(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	booking, err := loadBooking(db.DB, c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Code:    utils.CodeNotFound,
			Message: "Booking not found",
		})
	}

	if !isBookingConsultant(booking, userID) {
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Code:    utils.CodeForbidden,
			Message: "Only the booking's consultant may complete it",
		})
	}

	if config.App.RequirePaidCompletion && booking.PaymentStatus != models.PaymentPaid {
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Code:    utils.CodeConflict,
			Message: "Booking must be paid before completion",
		})
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		return booking.UpdateStatus(tx, models.StatusCompleted)
	})
	if err != nil {
		return transitionError(c, err)
	}

	notifications.Emit(booking.Client.UserID, models.NotificationBookingCompleted,
		fmt.Sprintf("Booking #%d is complete, you can now leave a review", booking.ID))

	return c.JSON(booking)
}

// CancelBooking cancels a pending or confirmed booking and releases its
// slot. The owning client, the owning consultant, or an admin may cancel.
func CancelBooking(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	role := c.Locals("role").(string)

	booking, err := loadBooking(db.DB, c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Code:    utils.CodeNotFound,
			Message: "Booking not found",
		})
	}

	if !isBookingClient(booking, userID) && !isBookingConsultant(booking, userID) && role != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Code:    utils.CodeForbidden,
			Message: "You are not a party to this booking",
		})
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		return booking.UpdateStatus(tx, models.StatusCancelled)
	})
	if err != nil {
		return transitionError(c, err)
	}

	notifications.Emit(booking.Client.UserID, models.NotificationBookingCancelled,
		fmt.Sprintf("Booking #%d has been cancelled", booking.ID))
	notifications.Emit(booking.Consultant.UserID, models.NotificationBookingCancelled,
		fmt.Sprintf("Booking #%d has been cancelled", booking.ID))

	return c.JSON(booking)
}

// RescheduleBooking moves a pending or confirmed booking to a new slot.
// The new slot is reserved with the same conditional update as creation,
// the old slot is released, and the booking returns to pending for
// re-confirmation.
func RescheduleBooking(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	type RescheduleInput struct {
		SlotID uint `json:"slot_id"`
	}
	input := new(RescheduleInput)
	if err := c.BodyParser(input); err != nil || input.SlotID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    utils.CodeValidation,
			Message: "slot_id is required",
		})
	}

	booking, err := loadBooking(db.DB, c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Code:    utils.CodeNotFound,
			Message: "Booking not found",
		})
	}

	if !isBookingClient(booking, userID) && !isBookingConsultant(booking, userID) {
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Code:    utils.CodeForbidden,
			Message: "You are not a party to this booking",
		})
	}

	if booking.Status != models.StatusPending && booking.Status != models.StatusConfirmed {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    utils.CodeInvalidTransition,
			Message: fmt.Sprintf("Cannot reschedule a %s booking", booking.Status),
		})
	}

	var newSlot models.AvailabilitySlot
	if err := db.DB.Where("id = ? AND consultant_id = ?", input.SlotID, booking.ConsultantID).
		First(&newSlot).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Code:    utils.CodeNotFound,
			Message: "Slot not found for this consultant",
		})
	}
	if newSlot.ID == booking.SlotID {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    utils.CodeValidation,
			Message: "Booking already occupies this slot",
		})
	}

	oldSlotID := booking.SlotID
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := models.ReserveSlot(tx, newSlot.ID); err != nil {
			return err
		}
		if oldSlotID != 0 {
			if err := models.ReleaseSlot(tx, oldSlotID); err != nil && !errors.Is(err, models.ErrSlotFree) {
				return err
			}
		}
		booking.SlotID = newSlot.ID
		booking.StartTime = newSlot.StartTime
		booking.Status = models.StatusPending
		return tx.Save(booking).Error
	})
	if err != nil {
		if errors.Is(err, models.ErrSlotTaken) {
			return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
				Code:    utils.CodeConflict,
				Message: "The new time slot is no longer available",
			})
		}
		return transitionError(c, err)
	}

	notifications.Emit(booking.Client.UserID, models.NotificationBookingRescheduled,
		fmt.Sprintf("Booking #%d moved to %s", booking.ID, newSlot.StartTime.Format("2006-01-02 15:04")))
	notifications.Emit(booking.Consultant.UserID, models.NotificationBookingRescheduled,
		fmt.Sprintf("Booking #%d moved to %s", booking.ID, newSlot.StartTime.Format("2006-01-02 15:04")))

	return c.JSON(booking)
}
