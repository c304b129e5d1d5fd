package client

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

// BookingInput carries the booking request. The slot pins the consultant,
// date and time; duration defaults to the service's session length.
type BookingInput struct {
	ConsultantID    uint   `json:"consultant_id" form:"consultant_id"`
	ServiceID       uint   `json:"service_id" form:"service_id"`
	SlotID          uint   `json:"slot_id" form:"slot_id"`
	DurationMinutes int    `json:"duration_minutes" form:"duration_minutes"`
	Notes           string `json:"notes" form:"notes"`
}

// CreateBooking creates a pending booking for the authenticated client.
// Slot reservation and booking creation happen in one transaction: the slot
// flip is a conditional update, so of two concurrent requests for the same
// slot exactly one wins and the other gets a conflict.
func CreateBooking(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	input := new(BookingInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    utils.CodeValidation,
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	var consultant models.ConsultantProfile
	if err := db.DB.Preload("User").First(&consultant, input.ConsultantID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Code:    utils.CodeNotFound,
			Message: "Consultant not found",
		})
	}

	var service models.Service
	if err := db.DB.Where("id = ? AND consultant_id = ?", input.ServiceID, input.ConsultantID).
		First(&service).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Code:    utils.CodeNotFound,
			Message: "Service not found for this consultant",
		})
	}

	var slot models.AvailabilitySlot
	if err := db.DB.Where("id = ? AND consultant_id = ?", input.SlotID, input.ConsultantID).
		First(&slot).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Code:    utils.CodeNotFound,
			Message: "Slot not found for this consultant",
		})
	}

	duration := input.DurationMinutes
	if duration == 0 {
		duration = service.DurationMinutes
	}
	if duration <= 0 || duration > config.MaxBookingDurationMinutes {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    utils.CodeValidation,
			Message: fmt.Sprintf("Duration must be between 1 and %d minutes", config.MaxBookingDurationMinutes),
		})
	}

	profile, err := models.EnsureClientProfile(db.DB, userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to load client profile",
			Error:   err.Error(),
		})
	}

	// Upload any documents submitted with the booking before touching the DB.
	documents, uploadErr := collectDocuments(c)
	if uploadErr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    utils.CodeValidation,
			Message: "Document upload rejected",
			Error:   uploadErr.Error(),
		})
	}

	booking := models.Booking{
		ClientID:        profile.ID,
		ConsultantID:    consultant.ID,
		ServiceID:       service.ID,
		SlotID:          slot.ID,
		StartTime:       slot.StartTime,
		DurationMinutes: duration,
		Notes:           input.Notes,
		Documents:       documents,
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := models.ReserveSlot(tx, slot.ID); err != nil {
			return err
		}
		return tx.Create(&booking).Error
	})
	if err != nil {
		if errors.Is(err, models.ErrSlotTaken) {
			return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
				Code:    utils.CodeConflict,
				Message: "Time slot is no longer available",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create booking",
			Error:   err.Error(),
		})
	}

	notifications.Emit(userID, models.NotificationBookingCreated,
		fmt.Sprintf("Your booking #%d for %s is pending confirmation", booking.ID, service.Name))
	notifications.Emit(consultant.UserID, models.NotificationBookingCreated,
		fmt.Sprintf("New booking #%d for %s on %s", booking.ID, service.Name,
			slot.StartTime.Format("2006-01-02 15:04")))

	return c.Status(fiber.StatusCreated).JSON(booking)
}

// collectDocuments validates and uploads booking files from a multipart
// request, if any. A plain JSON booking carries none.
func collectDocuments(c *fiber.Ctx) ([]models.Document, error) {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil, nil
	}

	files := form.File["documents"]
	if len(files) == 0 {
		return nil, nil
	}
	if len(files) > config.MaxDocumentsPerRequest {
		return nil, fmt.Errorf("at most %d documents per request", config.MaxDocumentsPerRequest)
	}

	// Validate the whole batch before any bytes leave the process, so a
	// rejected file never strands an earlier upload. A slot conflict after
	// upload can still orphan files in storage; that loss is accepted.
	for _, header := range files {
		if err := utils.ValidateDocument(header); err != nil {
			return nil, err
		}
	}

	var documents []models.Document
	for _, header := range files {
		url, err := utils.UploadDocument(header, "booking_documents")
		if err != nil {
			return nil, err
		}
		documents = append(documents, models.Document{
			FileName:    header.Filename,
			URL:         url,
			ContentType: header.Header.Get("Content-Type"),
			SizeBytes:   header.Size,
		})
	}
	return documents, nil
}

// GetClientBookings lists the authenticated client's bookings.
func GetClientBookings(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var profile models.ClientProfile
	if err := db.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return c.JSON([]models.Booking{})
	}

	var bookings []models.Booking
	if err := db.DB.Preload("Service").Preload("Consultant.User").Preload("Documents").
		Where("client_id = ?", profile.ID).
		Order("start_time DESC").
		Find(&bookings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch bookings",
			Error:   err.Error(),
		})
	}
	return c.JSON(bookings)
}

// AttachDocuments appends files to an existing booking. Only the owning
// client may attach; documents are append-only.
func AttachDocuments(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id := c.Params("id")

	var booking models.Booking
	if err := db.DB.Preload("Client").First(&booking, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Code:    utils.CodeNotFound,
			Message: "Booking not found",
		})
	}

	if booking.Client.UserID != userID {
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Code:    utils.CodeForbidden,
			Message: "Only the booking's client may attach documents",
		})
	}

	documents, err := collectDocuments(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    utils.CodeValidation,
			Message: "Document upload rejected",
			Error:   err.Error(),
		})
	}
	if len(documents) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    utils.CodeValidation,
			Message: "No documents in request",
		})
	}

	for i := range documents {
		documents[i].BookingID = booking.ID
	}
	if err := db.DB.Create(&documents).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to attach documents",
			Error:   err.Error(),
		})
	}

	var updated models.Booking
	if err := db.DB.Preload("Documents").First(&updated, booking.ID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to reload booking",
			Error:   err.Error(),
		})
	}
	return c.JSON(updated)
}
