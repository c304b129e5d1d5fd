package consultant

import (
	"github.com/gofiber/fiber/v2"

	"github.com/consultbridge/consult-booking/cache"
	"github.com/consultbridge/consult-booking/db"
	"github.com/consultbridge/consult-booking/models"
	"github.com/consultbridge/consult-booking/utils"
)

// invalidateCatalog drops every cached catalog response. Runs before the
// success response so readers never see stale data after a write.
func invalidateCatalog(c *fiber.Ctx) {
	cache.Invalidate(c.Context(), cache.KeyPrefix+"/consultants*")
}

// CreateService adds a service to the caller's own catalog.
func CreateService(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	profile, err := models.EnsureConsultantProfile(db.DB, userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to load consultant profile",
			Error:   err.Error(),
		})
	}

	service := new(models.Service)
	if err := c.BodyParser(service); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    utils.CodeValidation,
			Message: "Invalid service data",
		})
	}

	if service.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    utils.CodeValidation,
			Message: "Service name is required",
		})
	}
	if service.PriceCents < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    utils.CodeValidation,
			Message: "Price cannot be negative",
		})
	}
	if service.DurationMinutes <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    utils.CodeValidation,
			Message: "Duration must be positive",
		})
	}

	service.ConsultantID = profile.ID
	if err := db.DB.Create(service).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create service",
			Error:   err.Error(),
		})
	}

	invalidateCatalog(c)
	return c.Status(fiber.StatusCreated).JSON(service)
}

// GetServices lists the caller's own services.
func GetServices(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var profile models.ConsultantProfile
	if err := db.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return c.JSON([]models.Service{})
	}

	var services []models.Service
	if err := db.DB.Where("consultant_id = ?", profile.ID).Find(&services).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch services",
			Error:   err.Error(),
		})
	}

	return c.JSON(services)
}

// UpdateService edits one of the caller's services.
func UpdateService(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	serviceID := c.Params("id")

	var service models.Service
	if err := db.DB.Preload("Consultant").First(&service, serviceID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Code:    utils.CodeNotFound,
			Message: "Service not found",
		})
	}

	if service.Consultant.UserID != userID {
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Code:    utils.CodeForbidden,
			Message: "You don't have permission to update this service",
		})
	}

	type ServiceUpdate struct {
		Name            *string `json:"name"`
		Description     *string `json:"description"`
		PriceCents      *int64  `json:"price_cents"`
		DurationMinutes *int    `json:"duration_minutes"`
		Category        *string `json:"category"`
	}
	input := new(ServiceUpdate)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    utils.CodeValidation,
			Message: "Invalid service data",
		})
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		if *input.Name == "" {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Code:    utils.CodeValidation,
				Message: "Service name cannot be empty",
			})
		}
		updates["name"] = *input.Name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.PriceCents != nil {
		if *input.PriceCents < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Code:    utils.CodeValidation,
				Message: "Price cannot be negative",
			})
		}
		updates["price_cents"] = *input.PriceCents
	}
	if input.DurationMinutes != nil {
		if *input.DurationMinutes <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Code:    utils.CodeValidation,
				Message: "Duration must be positive",
			})
		}
		updates["duration_minutes"] = *input.DurationMinutes
	}
	if input.Category != nil {
		updates["category"] = *input.Category
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&service).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to update service",
				Error:   err.Error(),
			})
		}
		invalidateCatalog(c)
	}

	return c.JSON(service)
}

// DeleteService removes one of the caller's services. Existing bookings
// keep their service reference.
func DeleteService(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	serviceID := c.Params("id")

	var service models.Service
	if err := db.DB.Preload("Consultant").First(&service, serviceID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Code:    utils.CodeNotFound,
			Message: "Service not found",
		})
	}

	if service.Consultant.UserID != userID {
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Code:    utils.CodeForbidden,
			Message: "You don't have permission to delete this service",
		})
	}

	if err := db.DB.Delete(&service).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to delete service",
			Error:   err.Error(),
		})
	}

	invalidateCatalog(c)
	return c.SendStatus(fiber.StatusNoContent)
}
